package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// adminFailure logs a cache backend failure and renders it.
func (s *Server) adminFailure(c echo.Context, message string, err error) error {
	s.logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg(message)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"error":   message,
		"message": err.Error(),
	})
}

// handleCacheStats serves GET /api/cache/stats.
func (s *Server) handleCacheStats(c echo.Context) error {
	stats, err := s.cache.Stats(c.Request().Context())
	if err != nil {
		return s.adminFailure(c, "Error al obtener estadísticas del caché", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"totalEntries": stats.TotalEntries,
			"entries":      stats.Entries,
			"timestamp":    s.clock.Now(),
			"uptime":       s.uptime(),
		},
	})
}

// handleCacheClear serves DELETE /api/cache/clear.
func (s *Server) handleCacheClear(c echo.Context) error {
	removed, err := s.cache.Clear(c.Request().Context())
	if err != nil {
		return s.adminFailure(c, "Error al limpiar el caché", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        "Caché limpiado completamente",
		"removedEntries": removed,
		"timestamp":      s.clock.Now(),
	})
}

// handleCacheDelete serves DELETE /api/cache/:key.
func (s *Server) handleCacheDelete(c echo.Context) error {
	key := c.Param("key")
	deleted, err := s.cache.Delete(c.Request().Context(), key)
	if err != nil {
		return s.adminFailure(c, "Error al eliminar entrada del caché", err)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success": false,
			"message": fmt.Sprintf("Entrada '%s' no encontrada en el caché", key),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":   true,
		"message":   fmt.Sprintf("Entrada '%s' eliminada del caché", key),
		"timestamp": s.clock.Now(),
	})
}

// handleCacheClean serves POST /api/cache/clean.
func (s *Server) handleCacheClean(c echo.Context) error {
	cleaned, err := s.cache.SweepExpired(c.Request().Context())
	if err != nil {
		return s.adminFailure(c, "Error al limpiar entradas expiradas", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"message":        fmt.Sprintf("%d entradas expiradas eliminadas", cleaned),
		"cleanedEntries": cleaned,
		"timestamp":      s.clock.Now(),
	})
}

type refreshRequest struct {
	Keys []string `json:"keys"`
}

// handleCacheRefresh serves POST /api/cache/refresh. Without a keys array the
// whole cache is dropped.
func (s *Server) handleCacheRefresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"error":   "Cuerpo de la solicitud inválido",
		})
	}
	ctx := c.Request().Context()

	if req.Keys == nil {
		if _, err := s.catalog.RefreshAll(ctx); err != nil {
			return s.adminFailure(c, "Error al refrescar el caché", err)
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success":   true,
			"message":   "Todo el caché ha sido refrescado",
			"timestamp": s.clock.Now(),
		})
	}

	removed, err := s.catalog.Refresh(ctx, req.Keys)
	if err != nil {
		return s.adminFailure(c, "Error al refrescar el caché", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"message":       fmt.Sprintf("%d entradas refrescadas", len(removed)),
		"refreshedKeys": removed,
		"timestamp":     s.clock.Now(),
	})
}
