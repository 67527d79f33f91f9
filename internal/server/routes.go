package server

import (
	"github.com/labstack/echo/v4"

	"github.com/doclens/doclens/internal/server/routes"
	"github.com/doclens/doclens/pkg/analyze"
)

func RegisterRoutes(e *echo.Echo, analyzer *analyze.Analyzer) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Analysis routes
	apiRoutes.POST("/analyze", routes.AnalyzeHandler(analyzer))
	apiRoutes.POST("/analyze/stream", routes.AnalyzeStreamHandler(analyzer))
}
