package routes

import (
	"net/http"

	"github.com/genomehub/gotermfinder/internal/server/middleware"
	"github.com/genomehub/gotermfinder/pkg/enrich"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ValidateGenesHandler resolves submitted identifiers without running the
// analysis so the client can preview matches and misses.
func ValidateGenesHandler(c echo.Context) error {
	type validateGenesBody struct {
		Genes      []string `json:"genes" validate:"required,min=1"`
		OrganismNo int64    `json:"organism_no" validate:"required"`
	}

	data := new(validateGenesBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	ctx := c.Request().Context()
	store := c.(*middleware.AppContext).App.Store

	result, err := enrich.Resolve(ctx, store, data.OrganismNo, data.Genes)
	if err != nil {
		logger.Error("Failed to validate genes", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, result)
}
