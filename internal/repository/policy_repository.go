package repository

import (
	"context"
	"fmt"
	"log/slog"
	"transfer-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// PolicyRepository is the normalized store for decomposed batches. The
// pipeline is append-only: batches are written, policy rows are read back
// joined with their vehicle damage, and nothing is ever updated or deleted.
type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// CreateBatch persists all four row sets of one batch in a single
// transaction. Either every row of the batch becomes visible or none does; a
// failure on any insert rolls the whole batch back and surfaces as a storage
// failure.
func (r *PolicyRepository) CreateBatch(ctx context.Context, batch *models.BatchRows) error {
	if batch.PolicyCount() == 0 {
		slog.Info("Empty batch, nothing to persist", "batch_id", batch.BatchID)
		return nil
	}

	slog.Info("Persisting batch", "batch_id", batch.BatchID, "policies", batch.PolicyCount())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Failed to begin batch transaction", "batch_id", batch.BatchID, "error", err)
		return fmt.Errorf("failed to begin batch transaction: %w: %w", models.ErrStorageFailure, err)
	}
	defer tx.Rollback()

	policyQuery := `
		INSERT INTO policy (
			policy_id, policy_type, base_premium, risk_factor, discount, branch_id, batch_id
		) VALUES (
			:policy_id, :policy_type, :base_premium, :risk_factor, :discount, :branch_id, :batch_id
		)`

	for _, p := range batch.Policies {
		if _, err := tx.NamedExecContext(ctx, policyQuery, p); err != nil {
			slog.Error("Failed to insert policy row", "policy_id", p.PolicyID, "error", err)
			return fmt.Errorf("failed to insert policy %s: %w: %w", p.PolicyID, models.ErrStorageFailure, err)
		}
	}

	customerQuery := `
		INSERT INTO customer_info (policy_id, name, age, address)
		VALUES (:policy_id, :name, :age, :address)`

	for _, c := range batch.Customers {
		if _, err := tx.NamedExecContext(ctx, customerQuery, c); err != nil {
			slog.Error("Failed to insert customer row", "policy_id", c.PolicyID, "error", err)
			return fmt.Errorf("failed to insert customer info for %s: %w: %w", c.PolicyID, models.ErrStorageFailure, err)
		}
	}

	vehicleQuery := `
		INSERT INTO vehicle_info (policy_id, make, model, year, vehicle_damage, batch_id)
		VALUES (:policy_id, :make, :model, :year, :vehicle_damage, :batch_id)`

	for _, v := range batch.Vehicles {
		if _, err := tx.NamedExecContext(ctx, vehicleQuery, v); err != nil {
			slog.Error("Failed to insert vehicle row", "policy_id", v.PolicyID, "error", err)
			return fmt.Errorf("failed to insert vehicle info for %s: %w: %w", v.PolicyID, models.ErrStorageFailure, err)
		}
	}

	coverageQuery := `
		INSERT INTO coverage_info (policy_id, liability, collision, comprehensive, discount)
		VALUES (:policy_id, :liability, :collision, :comprehensive, :discount)`

	for _, cv := range batch.Coverages {
		if _, err := tx.NamedExecContext(ctx, coverageQuery, cv); err != nil {
			slog.Error("Failed to insert coverage row", "policy_id", cv.PolicyID, "error", err)
			return fmt.Errorf("failed to insert coverage info for %s: %w: %w", cv.PolicyID, models.ErrStorageFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("Failed to commit batch", "batch_id", batch.BatchID, "error", err)
		return fmt.Errorf("failed to commit batch: %w: %w", models.ErrStorageFailure, err)
	}

	slog.Info("Batch persisted", "batch_id", batch.BatchID, "policies", batch.PolicyCount())
	return nil
}

// GetAllRatedInputs returns every stored policy row joined with its
// vehicle_damage, the only cross-table field the premium calculator needs.
// policy_id is only unique within a batch, so the join matches on batch_id
// too; otherwise a policy_id reused across batches would multiply rows.
// Ordering by the serial primary key keeps repeated reads stable between
// writes.
func (r *PolicyRepository) GetAllRatedInputs(ctx context.Context) ([]models.RatedInput, error) {
	var inputs []models.RatedInput
	query := `
		SELECT p.policy_id, p.policy_type, p.base_premium, p.risk_factor, p.discount,
		       v.vehicle_damage
		FROM policy p
		JOIN vehicle_info v ON v.policy_id = p.policy_id AND v.batch_id = p.batch_id
		ORDER BY p.id`

	if err := r.db.SelectContext(ctx, &inputs, query); err != nil {
		slog.Error("Failed to read policy rows", "error", err)
		return nil, fmt.Errorf("failed to read policy rows: %w: %w", models.ErrStorageFailure, err)
	}

	return inputs, nil
}
