package server

import (
	"github.com/genomehub/gotermfinder/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	finder := e.Group("/api/go-term-finder")

	finder.GET("/config", routes.GetConfigHandler)
	finder.POST("/validate-genes", routes.ValidateGenesHandler)
	finder.POST("/analyze", routes.AnalyzeHandler)
	finder.POST("/graph", routes.GraphHandler)
	finder.POST("/download/:format", routes.DownloadHandler)
	finder.POST("/export", routes.CreateExportHandler)
	finder.GET("/export/:job_id", routes.GetExportHandler)
}
