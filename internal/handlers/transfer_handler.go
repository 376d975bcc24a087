package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"transfer-service/internal/models"
	"transfer-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

type TransferHandler struct {
	transferService *services.TransferService
}

func NewTransferHandler(transferService *services.TransferService) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

func (h *TransferHandler) Register(app *fiber.App) {
	app.Post("/fetch-from-s3", h.FetchFromS3) // POST /fetch-from-s3 - Copy a named object from store A to store B
}

type fetchFromS3Request struct {
	FileKey string `json:"file_key"`
}

// FetchFromS3 copies the named object from Object Store A to Object Store B
// under the same key, overwriting any existing object there.
func (h *TransferHandler) FetchFromS3(c fiber.Ctx) error {
	var req fetchFromS3Request
	if err := c.Bind().Body(&req); err != nil {
		slog.Error("error parsing request", "error", err)
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_REQUEST", "Invalid request body: "+err.Error()))
	}

	if req.FileKey == "" {
		return c.Status(http.StatusBadRequest).JSON(
			models.CreateErrorResponse("INVALID_REQUEST", "Missing 'file_key' in request"))
	}

	if err := h.transferService.Copy(c.Context(), req.FileKey); err != nil {
		switch {
		case errors.Is(err, models.ErrObjectNotFound):
			return c.Status(http.StatusNotFound).JSON(
				models.CreateErrorResponse("NOT_FOUND", err.Error()))

		case errors.Is(err, models.ErrDestinationWrite):
			slog.Error("Copy failed at destination", "file_key", req.FileKey, "error", err)
			return c.Status(http.StatusInternalServerError).JSON(
				models.CreateErrorResponse("DESTINATION_WRITE_FAILED", err.Error()))

		default:
			slog.Error("Copy failed at source", "file_key", req.FileKey, "error", err)
			return c.Status(http.StatusInternalServerError).JSON(
				models.CreateErrorResponse("COPY_FAILED", err.Error()))
		}
	}

	return c.Status(http.StatusOK).JSON(models.CreateSuccessResponse(fiber.Map{
		"message": fmt.Sprintf("File '%s' migrated from S3 to MinIO successfully!", req.FileKey),
	}))
}
