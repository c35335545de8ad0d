package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// handleListCategories serves GET /api/categorias.
func (s *Server) handleListCategories(c echo.Context) error {
	list, err := s.catalog.Categories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        list.Categories,
		"total":       list.Total,
		"lastUpdated": list.LastUpdated,
	})
}

// handleCategory serves GET /api/categorias/:id.
func (s *Server) handleCategory(c echo.Context) error {
	category, updated, err := s.catalog.Category(c.Request().Context(), c.Param("id"))
	if err != nil {
		return withMessage(err, "Error al obtener categoría")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        category,
		"lastUpdated": updated,
	})
}
