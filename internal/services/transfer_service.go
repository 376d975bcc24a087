package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"transfer-service/internal/models"
)

// ObjectSource reads a full object from store A. A missing key surfaces as
// models.ErrObjectNotFound.
type ObjectSource interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// ObjectDestination writes a full object to store B, overwriting any
// existing object at the key.
type ObjectDestination interface {
	Put(ctx context.Context, key string, data []byte) error
}

// TransferService copies one named object from store A to store B,
// unchanged, under the same key. The flow is independent of the ingestion
// pipeline.
type TransferService struct {
	source      ObjectSource
	destination ObjectDestination
}

func NewTransferService(source ObjectSource, destination ObjectDestination) *TransferService {
	return &TransferService{source: source, destination: destination}
}

// Copy fetches the object in full from the source, then writes the identical
// bytes to the destination. A destination failure after a successful read
// wraps models.ErrDestinationWrite; the destination object is untouched
// since the store commits a put fully or not at all.
func (s *TransferService) Copy(ctx context.Context, key string) error {
	data, err := s.source.Get(ctx, key)
	if err != nil {
		if errors.Is(err, models.ErrObjectNotFound) {
			slog.Warn("Source object not found", "key", key)
			return err
		}
		return fmt.Errorf("failed to fetch %q from source store: %w", key, err)
	}

	if err := s.destination.Put(ctx, key, data); err != nil {
		slog.Error("Destination write failed", "key", key, "error", err)
		return fmt.Errorf("failed to write %q to destination store: %w: %w", key, models.ErrDestinationWrite, err)
	}

	slog.Info("Object copied", "key", key, "bytes", len(data))
	return nil
}
