package services

import (
	"fmt"
	"transfer-service/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Decomposer flattens a nested batch document into the four normalized row
// sets. It is a pure mapping: no defaulting, no storage access. Every policy
// must carry all required fields; the first missing one aborts the batch
// with a SchemaViolationError naming the path. Unrecognized risk_factor
// values are accepted as-is — the premium calculator handles them with its
// default multiplier.
type Decomposer struct{}

func NewDecomposer() *Decomposer {
	return &Decomposer{}
}

// ParseDocument unmarshals a raw batch payload.
func (d *Decomposer) ParseDocument(payload []byte) (*models.BatchDocument, error) {
	var doc models.BatchDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrInvalidJSON, err)
	}
	return &doc, nil
}

// Decompose produces exactly one row per table per policy, all tagged with
// the batch id. An empty branches list yields zero rows and is valid.
func (d *Decomposer) Decompose(doc *models.BatchDocument, batchID uuid.UUID) (*models.BatchRows, error) {
	if doc.Branches == nil {
		return nil, &models.SchemaViolationError{Path: "branches"}
	}

	rows := &models.BatchRows{BatchID: batchID}

	for bi, branch := range doc.Branches {
		branchPath := fmt.Sprintf("branches[%d]", bi)
		if branch.BranchID == nil {
			return nil, &models.SchemaViolationError{Path: branchPath + ".branch_id"}
		}
		if branch.Policies == nil {
			return nil, &models.SchemaViolationError{Path: branchPath + ".policies"}
		}

		for pi, policy := range branch.Policies {
			path := fmt.Sprintf("%s.policies[%d]", branchPath, pi)
			if err := d.appendPolicy(rows, &policy, *branch.BranchID, batchID, path); err != nil {
				return nil, err
			}
		}
	}

	return rows, nil
}

func (d *Decomposer) appendPolicy(rows *models.BatchRows, policy *models.PolicyDocument, branchID string, batchID uuid.UUID, path string) error {
	switch {
	case policy.PolicyID == nil:
		return &models.SchemaViolationError{Path: path + ".policy_id"}
	case policy.PolicyType == nil:
		return &models.SchemaViolationError{Path: path + ".policy_type"}
	case policy.BasePremium == nil:
		return &models.SchemaViolationError{Path: path + ".base_premium"}
	case policy.RiskFactor == nil:
		return &models.SchemaViolationError{Path: path + ".risk_factor"}
	case policy.CustomerInfo == nil:
		return &models.SchemaViolationError{Path: path + ".customer_info"}
	case policy.VehicleInfo == nil:
		return &models.SchemaViolationError{Path: path + ".vehicle_info"}
	case policy.CoverageInfo == nil:
		return &models.SchemaViolationError{Path: path + ".coverage_info"}
	}

	customer := policy.CustomerInfo
	switch {
	case customer.Name == nil:
		return &models.SchemaViolationError{Path: path + ".customer_info.name"}
	case customer.Age == nil:
		return &models.SchemaViolationError{Path: path + ".customer_info.age"}
	case customer.Address == nil:
		return &models.SchemaViolationError{Path: path + ".customer_info.address"}
	}

	vehicle := policy.VehicleInfo
	switch {
	case vehicle.Make == nil:
		return &models.SchemaViolationError{Path: path + ".vehicle_info.make"}
	case vehicle.Model == nil:
		return &models.SchemaViolationError{Path: path + ".vehicle_info.model"}
	case vehicle.Year == nil:
		return &models.SchemaViolationError{Path: path + ".vehicle_info.year"}
	case vehicle.VehicleDamage == nil:
		return &models.SchemaViolationError{Path: path + ".vehicle_info.vehicle_damage"}
	}

	coverage := policy.CoverageInfo
	switch {
	case coverage.Liability == nil:
		return &models.SchemaViolationError{Path: path + ".coverage_info.liability"}
	case coverage.Collision == nil:
		return &models.SchemaViolationError{Path: path + ".coverage_info.collision"}
	case coverage.Comprehensive == nil:
		return &models.SchemaViolationError{Path: path + ".coverage_info.comprehensive"}
	case coverage.Discount == nil:
		return &models.SchemaViolationError{Path: path + ".coverage_info.discount"}
	}

	// The input document carries the premium discount inside coverage_info;
	// the policy row gets its own copy so the calculator never needs the
	// coverage table. The two columns are kept distinct in the store.
	rows.Policies = append(rows.Policies, models.PolicyRow{
		PolicyID:    *policy.PolicyID,
		PolicyType:  *policy.PolicyType,
		BasePremium: *policy.BasePremium,
		RiskFactor:  *policy.RiskFactor,
		Discount:    *coverage.Discount,
		BranchID:    branchID,
		BatchID:     batchID,
	})
	rows.Customers = append(rows.Customers, models.CustomerInfoRow{
		PolicyID: *policy.PolicyID,
		Name:     *customer.Name,
		Age:      *customer.Age,
		Address:  *customer.Address,
	})
	rows.Vehicles = append(rows.Vehicles, models.VehicleInfoRow{
		PolicyID:      *policy.PolicyID,
		Make:          *vehicle.Make,
		Model:         *vehicle.Model,
		Year:          *vehicle.Year,
		VehicleDamage: *vehicle.VehicleDamage,
		BatchID:       batchID,
	})
	rows.Coverages = append(rows.Coverages, models.CoverageInfoRow{
		PolicyID:      *policy.PolicyID,
		Liability:     *coverage.Liability,
		Collision:     *coverage.Collision,
		Comprehensive: *coverage.Comprehensive,
		Discount:      *coverage.Discount,
	})

	return nil
}
