package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// handleListProducts serves GET /api/productos.
func (s *Server) handleListProducts(c echo.Context) error {
	list, err := s.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        list.Products,
		"total":       list.Total,
		"lastUpdated": list.LastUpdated,
	})
}

// handleHome serves GET /api/productos/inicio.
func (s *Server) handleHome(c echo.Context) error {
	home, err := s.catalog.Home(c.Request().Context())
	if err != nil {
		return withMessage(err, "Error al obtener productos de inicio")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        home.Groups,
		"lastUpdated": home.LastUpdated,
	})
}

// handleGroup serves GET /api/productos/grupo?nombreGrupo=&categoria=&pagina=&limite=.
func (s *Server) handleGroup(c echo.Context) error {
	page, updated, err := s.catalog.ListGroup(c.Request().Context(), catalog.GroupQuery{
		Group:    c.QueryParam("nombreGrupo"),
		Category: c.QueryParam("categoria"),
		Page:     intParam(c, "pagina"),
		PageSize: intParam(c, "limite"),
	})
	if err != nil {
		return withMessage(err, "Error al obtener productos por grupo")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        page,
		"lastUpdated": updated,
	})
}

// handleSearch serves GET /api/productos/buscar?termino=&limite=.
func (s *Server) handleSearch(c echo.Context) error {
	result, err := s.catalog.Search(c.Request().Context(), c.QueryParam("termino"), intParam(c, "limite"))
	if err != nil {
		return withMessage(err, "Error al buscar productos")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        result.Products,
		"total":       len(result.Products),
		"termino":     result.Term,
		"lastUpdated": result.LastUpdated,
	})
}

// handleProduct serves GET /api/productos/:id.
func (s *Server) handleProduct(c echo.Context) error {
	detail, err := s.catalog.Product(c.Request().Context(), c.Param("id"))
	if err != nil {
		return withMessage(err, "Error al obtener producto")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":     true,
		"data":        detail,
		"lastUpdated": detail.LastUpdated,
	})
}

// intParam parses a query parameter, returning 0 when it is absent or not a number.
func intParam(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// withMessage replaces the client message of upstream failures with the
// route specific one. Other errors are returned unchanged.
func withMessage(err error, message string) error {
	catErr, ok := catalog.AsError(err)
	if !ok || catErr.Kind != catalog.KindUpstream {
		return err
	}
	copied := *catErr
	copied.Message = message
	return &copied
}
