package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/genomehub/gotermfinder/internal/storage"
	"github.com/genomehub/gotermfinder/internal/util"
	"github.com/genomehub/gotermfinder/pkg/enrich"
	"github.com/genomehub/gotermfinder/pkg/gostore"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyzeRequest is the enrichment request shared by the analyze endpoint
// and export job messages.
type AnalyzeRequest struct {
	Genes            []string `json:"genes" validate:"required,min=1"`
	OrganismNo       int64    `json:"organism_no" validate:"required"`
	Ontology         string   `json:"ontology"`
	BackgroundGenes  []string `json:"background_genes,omitempty"`
	EvidenceCodes    []string `json:"evidence_codes,omitempty"`
	AnnotationTypes  []string `json:"annotation_types,omitempty"`
	PValueCutoff     float64  `json:"p_value_cutoff"`
	CorrectionMethod string   `json:"correction_method"`
	MinGenesInTerm   int      `json:"min_genes_in_term"`
}

// Params applies request defaults and converts to pipeline parameters.
func (r *AnalyzeRequest) Params() enrich.Params {
	aspect := gostore.Aspect(r.Ontology)
	switch aspect {
	case gostore.AspectProcess, gostore.AspectFunction, gostore.AspectComponent:
	default:
		aspect = gostore.AspectAll
	}

	cutoff := r.PValueCutoff
	if cutoff <= 0 || cutoff > 1 {
		cutoff = 0.01
	}

	correction := enrich.Correction(r.CorrectionMethod)
	switch correction {
	case enrich.CorrectionNone, enrich.CorrectionBonferroni, enrich.CorrectionBH:
	default:
		correction = enrich.CorrectionBH
	}

	minGenes := r.MinGenesInTerm
	if minGenes < 1 {
		minGenes = 1
	}

	return enrich.Params{
		Genes:           r.Genes,
		Organism:        r.OrganismNo,
		Aspect:          aspect,
		BackgroundGenes: r.BackgroundGenes,
		EvidenceCodes:   r.EvidenceCodes,
		AnnotationTypes: r.AnnotationTypes,
		PValueCutoff:    cutoff,
		Correction:      correction,
		MinGenesInTerm:  minGenes,
	}
}

// ExportJobMsg is the payload published to the export queue.
type ExportJobMsg struct {
	JobID   string         `json:"job_id"`
	Format  string         `json:"format"` // "tsv" or "csv"
	Request AnalyzeRequest `json:"request"`
}

// ProcessExportMessage runs the enrichment pipeline for an export job and
// uploads the rendered table. Store failures return an error so the message
// is retried; a failed analysis is a terminal job state and acks.
func ProcessExportMessage(
	ctx context.Context,
	client *s3.Client,
	conn *pgxpool.Pool,
	store gostore.Store,
	body string,
) error {
	var msg ExportJobMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		logger.Error("[Export] Invalid job message", "err", err)
		return nil // unparseable messages never succeed on retry
	}

	delimiter := '\t'
	ext := "tsv"
	contentType := "text/tab-separated-values"
	if msg.Format == "csv" {
		delimiter = ','
		ext = "csv"
		contentType = "text/csv"
	}

	if _, err := conn.Exec(ctx, markJobRunningSQL, msg.JobID); err != nil {
		return fmt.Errorf("marking export job running: %w", err)
	}

	result, err := enrich.Run(ctx, store, msg.Request.Params())
	if err != nil {
		return fmt.Errorf("export job %s: %w", msg.JobID, err)
	}
	if !result.Success {
		logger.Warn("[Export] Analysis produced no result", "job_id", msg.JobID, "reason", result.Error)
		_, dbErr := conn.Exec(ctx, markJobFailedSQL, msg.JobID, result.Error)
		return dbErr
	}

	var buf bytes.Buffer
	if err := enrich.WriteTable(&buf, result, delimiter); err != nil {
		return fmt.Errorf("rendering export table: %w", err)
	}

	key := fmt.Sprintf("exports/%s.%s", msg.JobID, ext)
	err = util.RetryErr(3, func() error {
		_, putErr := storage.PutFile(ctx, client, key, contentType, bytes.NewReader(buf.Bytes()))
		return putErr
	})
	if err != nil {
		return fmt.Errorf("uploading export: %w", err)
	}

	if _, err := conn.Exec(ctx, markJobCompleteSQL, msg.JobID, key); err != nil {
		return fmt.Errorf("marking export job complete: %w", err)
	}

	logger.Info("[Export] Job complete", "job_id", msg.JobID, "key", key, "terms", result.TotalEnrichedTerms)
	return nil
}

const markJobRunningSQL = `
UPDATE export_jobs
SET status = 'running', updated_at = now()
WHERE job_id = $1`

const markJobFailedSQL = `
UPDATE export_jobs
SET status = 'failed', error = $2, updated_at = now()
WHERE job_id = $1`

const markJobCompleteSQL = `
UPDATE export_jobs
SET status = 'complete', object_key = $2, updated_at = now()
WHERE job_id = $1`
