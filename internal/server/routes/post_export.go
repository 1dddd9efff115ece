package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/genomehub/gotermfinder/internal/queue"
	"github.com/genomehub/gotermfinder/internal/server/middleware"
	"github.com/genomehub/gotermfinder/internal/storage"
	"github.com/genomehub/gotermfinder/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CreateExportHandler queues an asynchronous export job and returns its id.
// The worker runs the analysis, uploads the table, and flips the job status.
func CreateExportHandler(c echo.Context) error {
	type exportBody struct {
		queue.AnalyzeRequest
		Format string `json:"format"`
	}

	type exportResponse struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}

	data := new(exportBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&data.AnalyzeRequest); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	format := data.Format
	if format != "csv" {
		format = "tsv"
	}

	jobID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	if _, err := app.DBConn.Exec(ctx, insertExportJobSQL, jobID, format); err != nil {
		logger.Error("Failed to create export job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	msg := queue.ExportJobMsg{
		JobID:   jobID,
		Format:  format,
		Request: data.AnalyzeRequest,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if err := queue.PublishFIFO(app.Queue, queue.ExportQueue, msgBytes); err != nil {
		logger.Error("Failed to publish export job", "job_id", jobID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, exportResponse{JobID: jobID, Status: "pending"})
}

// GetExportHandler reports an export job's status; completed jobs include a
// presigned download link.
func GetExportHandler(c echo.Context) error {
	type exportStatusResponse struct {
		JobID       string `json:"job_id"`
		Status      string `json:"status"`
		Error       string `json:"error,omitempty"`
		DownloadURL string `json:"download_url,omitempty"`
	}

	jobID := c.Param("job_id")
	if jobID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing job id"})
	}

	ctx := c.Request().Context()
	app := c.(*middleware.AppContext).App

	var status string
	var objectKey, jobErr *string
	err := app.DBConn.QueryRow(ctx, getExportJobSQL, jobID).Scan(&status, &objectKey, &jobErr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Export job not found"})
		}
		logger.Error("Failed to load export job", "job_id", jobID, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	resp := exportStatusResponse{JobID: jobID, Status: status}
	if jobErr != nil {
		resp.Error = *jobErr
	}
	if status == "complete" && objectKey != nil {
		url, err := storage.GenerateDownloadLink(ctx, app.S3, *objectKey)
		if err != nil {
			logger.Error("Failed to generate download link", "job_id", jobID, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		resp.DownloadURL = url
	}

	return c.JSON(http.StatusOK, resp)
}

const insertExportJobSQL = `
INSERT INTO export_jobs (job_id, status, format)
VALUES ($1, 'pending', $2)`

const getExportJobSQL = `
SELECT status, object_key, error
FROM export_jobs
WHERE job_id = $1`
