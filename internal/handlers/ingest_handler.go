package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"transfer-service/internal/models"
	"transfer-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type IngestHandler struct {
	ingestService *services.IngestService
}

func NewIngestHandler(ingestService *services.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

func (h *IngestHandler) Register(app *fiber.App) {
	app.Post("/process-and-upload", h.ProcessAndUpload) // POST /process-and-upload - Ingest a batch and publish the rated result set
}

// ProcessAndUpload ingests a nested batch document, persists it, rates every
// stored policy and publishes the aggregated result set to Object Store A.
// The document arrives as an uploaded file, an inline form field, or the raw
// request body.
func (h *IngestHandler) ProcessAndUpload(c fiber.Ctx) error {
	payload, err := readBatchPayload(c)
	if err != nil {
		slog.Error("No usable batch payload in request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("NO_DATA", "No data provided: upload a 'file', send a 'jsonData' form field, or post a JSON body"))
	}

	result, err := h.ingestService.IngestAndPublish(c.Context(), payload)
	if err != nil {
		var schemaErr *models.SchemaViolationError
		switch {
		case errors.As(err, &schemaErr):
			slog.Error("Batch document rejected", "path", schemaErr.Path)
			return c.Status(http.StatusBadRequest).JSON(
				models.CreateErrorResponse("SCHEMA_VIOLATION", schemaErr.Error()))

		case errors.Is(err, models.ErrStorageFailure):
			slog.Error("Batch storage failed", "error", err)
			return c.Status(http.StatusInternalServerError).JSON(
				models.CreateErrorResponse("STORAGE_FAILURE", err.Error()))

		case errors.Is(err, models.ErrInvalidJSON):
			slog.Error("Batch payload is not valid JSON", "error", err)
			return c.Status(http.StatusBadRequest).JSON(
				models.CreateErrorResponse("INVALID_JSON", err.Error()))

		default:
			// A failed publish after a successful commit lands here; the
			// rows stay committed and the caller learns which stage broke.
			slog.Error("Ingestion pipeline failed", "error", err)
			return c.Status(http.StatusInternalServerError).JSON(
				models.CreateErrorResponse("PROCESSING_FAILED", err.Error()))
		}
	}

	slog.Info("Batch processed",
		"batch_id", result.BatchID,
		"policies", result.PolicyCount,
		"rated", result.RatedCount)

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(fiber.Map{
		"message":      "Data successfully stored in PostgreSQL and uploaded to S3!",
		"batch_id":     result.BatchID,
		"policy_count": result.PolicyCount,
		"rated_count":  result.RatedCount,
		"object_key":   result.ObjectKey,
	}))
}

// readBatchPayload extracts the batch document from the request: a multipart
// 'file' upload wins, then the 'jsonData' form field, then the raw body.
func readBatchPayload(c fiber.Ctx) ([]byte, error) {
	if fileHeader, err := c.FormFile("file"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open uploaded file: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		return data, nil
	}

	if v := c.FormValue("jsonData"); v != "" {
		return []byte(v), nil
	}

	if body := c.Body(); len(body) > 0 {
		return body, nil
	}

	return nil, errors.New("request carries no batch document")
}
