package routes

import (
	"net/http"

	"github.com/genomehub/gotermfinder/internal/queue"
	"github.com/genomehub/gotermfinder/internal/server/middleware"
	"github.com/genomehub/gotermfinder/pkg/enrich"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyzeHandler runs the enrichment analysis synchronously. Expected
// failure conditions come back 200 with Success=false; only store failures
// are 5xx.
func AnalyzeHandler(c echo.Context) error {
	data := new(queue.AnalyzeRequest)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	store := c.(*middleware.AppContext).App.Store

	result, err := enrich.Run(ctx, store, data.Params())
	if err != nil {
		logger.Error("Enrichment analysis failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}
