package routes

import (
	"net/http"

	"github.com/genomehub/gotermfinder/internal/server/middleware"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GetConfigHandler returns the analysis form options: organisms carrying GO
// annotations, evidence codes, annotation types, and defaults.
func GetConfigHandler(c echo.Context) error {
	type organismOption struct {
		OrganismNo int64  `json:"organism_no"`
		Name       string `json:"organism_name"`
	}

	type evidenceCodeOption struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	}

	type labeledOption struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	type configResponse struct {
		Organisms           []organismOption     `json:"organisms"`
		EvidenceCodes       []evidenceCodeOption `json:"evidence_codes"`
		AnnotationTypes     []labeledOption      `json:"annotation_types"`
		DefaultPValueCutoff float64              `json:"default_p_value_cutoff"`
		CorrectionMethods   []labeledOption      `json:"correction_methods"`
	}

	ctx := c.Request().Context()
	store := c.(*middleware.AppContext).App.Store

	organisms, err := store.Organisms(ctx)
	if err != nil {
		logger.Error("Failed to load organisms", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	codes, err := store.EvidenceCodes(ctx)
	if err != nil {
		logger.Error("Failed to load evidence codes", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	resp := configResponse{
		Organisms:     make([]organismOption, 0, len(organisms)),
		EvidenceCodes: make([]evidenceCodeOption, 0, len(codes)),
		AnnotationTypes: []labeledOption{
			{Value: "manually_curated", Label: "Manually curated"},
			{Value: "high_throughput", Label: "High-throughput"},
			{Value: "computational", Label: "Computational"},
		},
		DefaultPValueCutoff: 0.01,
		CorrectionMethods: []labeledOption{
			{Value: "bh", Label: "Benjamini-Hochberg (FDR)"},
			{Value: "bonferroni", Label: "Bonferroni"},
			{Value: "none", Label: "None"},
		},
	}
	for _, o := range organisms {
		resp.Organisms = append(resp.Organisms, organismOption{OrganismNo: o.ID, Name: o.Name})
	}
	for _, code := range codes {
		resp.EvidenceCodes = append(resp.EvidenceCodes, evidenceCodeOption{Code: code.Code, Description: code.Description})
	}

	return c.JSON(http.StatusOK, resp)
}
