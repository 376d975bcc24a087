package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"transfer-service/internal/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FAKES
// ============================================================================

// fakePolicyStore mimics the normalized store's contract: a failed batch
// write leaves nothing visible; a committed batch is readable joined with
// its vehicle damage, in insertion order.
type fakePolicyStore struct {
	inputs      []models.RatedInput
	createErr   error
	readErr     error
	createCalls int
}

func (f *fakePolicyStore) CreateBatch(_ context.Context, batch *models.BatchRows) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	for i := range batch.Policies {
		p := batch.Policies[i]
		v := batch.Vehicles[i]
		f.inputs = append(f.inputs, models.RatedInput{
			PolicyID:      p.PolicyID,
			PolicyType:    p.PolicyType,
			BasePremium:   p.BasePremium,
			VehicleDamage: v.VehicleDamage,
			RiskFactor:    p.RiskFactor,
			Discount:      p.Discount,
		})
	}
	return nil
}

func (f *fakePolicyStore) GetAllRatedInputs(_ context.Context) ([]models.RatedInput, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.inputs, nil
}

type fakePublisher struct {
	err   error
	key   string
	data  []byte
	calls int
}

func (f *fakePublisher) Put(_ context.Context, key string, data []byte) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.key = key
	f.data = data
	return nil
}

// ============================================================================
// PIPELINE
// ============================================================================

func TestIngestAndPublish_RoundTrip(t *testing.T) {
	store := &fakePolicyStore{}
	publisher := &fakePublisher{}
	svc := NewIngestService(store, publisher)

	result, err := svc.IngestAndPublish(context.Background(), []byte(validBatchJSON))
	require.NoError(t, err)

	assert.Equal(t, 3, result.PolicyCount)
	assert.Equal(t, 3, result.RatedCount)
	assert.Equal(t, PublishedResultKey, result.ObjectKey)
	assert.Equal(t, PublishedResultKey, publisher.key)

	var published []models.RatedPolicy
	require.NoError(t, json.Unmarshal(publisher.data, &published))
	require.Len(t, published, 3)

	// Submitted identifiers, types and discounts reappear verbatim.
	assert.Equal(t, "POL-001", published[0].PolicyID)
	assert.Equal(t, "auto", published[0].PolicyType)
	assert.Equal(t, 10.0, published[0].Discount)
	assert.Equal(t, 2900.0, published[0].CalculatedPremium)
	assert.Equal(t, models.DecisionGranted, published[0].InsuranceGranted)

	assert.Equal(t, "POL-002", published[1].PolicyID)
	assert.Equal(t, 13500.0, published[1].CalculatedPremium)
	assert.Equal(t, models.DecisionRejected, published[1].InsuranceGranted)

	assert.Equal(t, "POL-003", published[2].PolicyID)
	assert.Equal(t, "commercial", published[2].PolicyType)
	assert.Equal(t, 450.0, published[2].CalculatedPremium)
	assert.Equal(t, models.DecisionRejected, published[2].InsuranceGranted)
}

func TestIngestAndPublish_EmptyBatchPublishesEmptyArray(t *testing.T) {
	store := &fakePolicyStore{}
	publisher := &fakePublisher{}
	svc := NewIngestService(store, publisher)

	result, err := svc.IngestAndPublish(context.Background(), []byte(`{"branches": []}`))
	require.NoError(t, err)

	assert.Equal(t, 0, result.PolicyCount)
	assert.Equal(t, "[]", string(publisher.data))
}

func TestIngestAndPublish_SchemaViolationSkipsStorage(t *testing.T) {
	store := &fakePolicyStore{}
	publisher := &fakePublisher{}
	svc := NewIngestService(store, publisher)

	_, err := svc.IngestAndPublish(context.Background(), []byte(`{}`))

	var schemaErr *models.SchemaViolationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, 0, store.createCalls)
	assert.Equal(t, 0, publisher.calls)
}

func TestIngestAndPublish_StorageFailureSkipsPublish(t *testing.T) {
	store := &fakePolicyStore{
		createErr: fmt.Errorf("insert rejected: %w", models.ErrStorageFailure),
	}
	publisher := &fakePublisher{}
	svc := NewIngestService(store, publisher)

	_, err := svc.IngestAndPublish(context.Background(), []byte(validBatchJSON))

	assert.True(t, errors.Is(err, models.ErrStorageFailure))
	assert.Equal(t, 0, publisher.calls, "nothing may be published after a failed batch write")
	assert.Empty(t, store.inputs, "a failed batch write leaves no rows visible")
}

func TestIngestAndPublish_PublishFailureSurfaces(t *testing.T) {
	store := &fakePolicyStore{}
	publisher := &fakePublisher{err: errors.New("bucket unavailable")}
	svc := NewIngestService(store, publisher)

	_, err := svc.IngestAndPublish(context.Background(), []byte(validBatchJSON))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish result set")
	// The committed rows stay committed; only the publish stage failed.
	assert.Len(t, store.inputs, 3)
}

func TestIngestAndPublish_InvalidJSON(t *testing.T) {
	store := &fakePolicyStore{}
	publisher := &fakePublisher{}
	svc := NewIngestService(store, publisher)

	_, err := svc.IngestAndPublish(context.Background(), []byte(`not json`))

	assert.True(t, errors.Is(err, models.ErrInvalidJSON))
	assert.Equal(t, 0, store.createCalls)
}
