package routes

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/genomehub/gotermfinder/internal/queue"
	"github.com/genomehub/gotermfinder/internal/server/middleware"
	"github.com/genomehub/gotermfinder/pkg/enrich"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DownloadHandler runs the analysis and streams the result table back in
// the requested format ("tsv" or "csv").
func DownloadHandler(c echo.Context) error {
	format := c.Param("format")

	var delimiter rune
	var contentType string
	switch format {
	case "tsv":
		delimiter = '\t'
		contentType = "text/tab-separated-values"
	case "csv":
		delimiter = ','
		contentType = "text/csv"
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unsupported format, use tsv or csv"})
	}

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
	if !result.Success {
		return c.JSON(http.StatusOK, result)
	}

	var buf bytes.Buffer
	if err := enrich.WriteTable(&buf, result, delimiter); err != nil {
		logger.Error("Failed to render result table", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	c.Response().Header().Set(
		echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="go_term_finder_results.%s"`, format),
	)
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
