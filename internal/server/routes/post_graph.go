package routes

import (
	"net/http"
	"strconv"

	"github.com/genomehub/gotermfinder/internal/queue"
	"github.com/genomehub/gotermfinder/internal/server/middleware"
	"github.com/genomehub/gotermfinder/pkg/enrich"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GraphHandler runs the analysis and returns the enriched terms as a DAG
// restricted to direct parent-child edges, for visualization.
func GraphHandler(c echo.Context) error {
	type graphBody struct {
		queue.AnalyzeRequest
		MaxNodes int `json:"max_nodes"`
	}

	type graphResponse struct {
		Success bool           `json:"success"`
		Error   string         `json:"error,omitempty"`
		Graph   *enrich.Graph  `json:"graph,omitempty"`
		Result  *enrich.Result `json:"result,omitempty"`
	}

	data := new(graphBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&data.AnalyzeRequest); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	// Query binding is skipped for POST bodies; accept ?max_nodes too.
	if data.MaxNodes == 0 {
		if n, err := strconv.Atoi(c.QueryParam("max_nodes")); err == nil {
			data.MaxNodes = n
		}
	}

	ctx := c.Request().Context()
	store := c.(*middleware.AppContext).App.Store

	result, err := enrich.Run(ctx, store, data.Params())
	if err != nil {
		logger.Error("Enrichment analysis failed", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if !result.Success {
		return c.JSON(http.StatusOK, graphResponse{Success: false, Error: result.Error})
	}

	graph, err := enrich.BuildGraph(ctx, store, result.AllTerms(), data.MaxNodes)
	if err != nil {
		logger.Error("Failed to build enrichment graph", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, graphResponse{
		Success: true,
		Graph:   graph,
		Result:  result,
	})
}
