package services

import (
	"context"
	"fmt"
	"log/slog"
	"transfer-service/internal/models"

	"github.com/google/uuid"
)

// PublishedResultKey is the fixed object key the aggregated result set is
// published under in Object Store A.
const PublishedResultKey = "insurance_data.json"

// PolicyStore is the normalized store contract the pipeline needs: an
// all-or-nothing batch write and a stable-ordered read of every policy row
// joined with its vehicle damage.
type PolicyStore interface {
	CreateBatch(ctx context.Context, batch *models.BatchRows) error
	GetAllRatedInputs(ctx context.Context) ([]models.RatedInput, error)
}

// ResultPublisher hands the serialized result set to the external object
// store. One attempt; failure is reported, never retried.
type ResultPublisher interface {
	Put(ctx context.Context, key string, data []byte) error
}

// IngestService runs the ingestion pipeline: decompose the nested document
// into rows, persist them atomically, rate every stored policy, aggregate
// the rated set and publish it.
type IngestService struct {
	store      PolicyStore
	publisher  ResultPublisher
	decomposer *Decomposer
	aggregator *ResultAggregator
}

func NewIngestService(store PolicyStore, publisher ResultPublisher) *IngestService {
	return &IngestService{
		store:      store,
		publisher:  publisher,
		decomposer: NewDecomposer(),
		aggregator: NewResultAggregator(NewPremiumCalculator()),
	}
}

// IngestResult summarizes one completed pipeline run.
type IngestResult struct {
	BatchID     uuid.UUID `json:"batch_id"`
	PolicyCount int       `json:"policy_count"`
	RatedCount  int       `json:"rated_count"`
	ObjectKey   string    `json:"object_key"`
}

// IngestAndPublish processes one raw batch payload end to end. A DB commit
// followed by a failed publish is accepted: the rows stay committed and the
// publish error is surfaced to the caller.
func (s *IngestService) IngestAndPublish(ctx context.Context, payload []byte) (*IngestResult, error) {
	batchID := uuid.New()

	doc, err := s.decomposer.ParseDocument(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch document: %w", err)
	}

	rows, err := s.decomposer.Decompose(doc, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to decompose batch document: %w", err)
	}
	slog.Info("Decomposed batch document",
		"batch_id", batchID,
		"branches", len(doc.Branches),
		"policies", rows.PolicyCount())

	if err := s.store.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store batch: %w", err)
	}

	inputs, err := s.store.GetAllRatedInputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read stored policies: %w", err)
	}

	rated := s.aggregator.Aggregate(inputs)
	data, err := s.aggregator.Marshal(rated)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate result set: %w", err)
	}

	if err := s.publisher.Put(ctx, PublishedResultKey, data); err != nil {
		return nil, fmt.Errorf("failed to publish result set: %w", err)
	}

	slog.Info("Published rated result set",
		"batch_id", batchID,
		"key", PublishedResultKey,
		"rated_policies", len(rated))

	return &IngestResult{
		BatchID:     batchID,
		PolicyCount: rows.PolicyCount(),
		RatedCount:  len(rated),
		ObjectKey:   PublishedResultKey,
	}, nil
}
