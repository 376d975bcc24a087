package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// NORMALIZED ROWS (ONE ROW PER TABLE PER POLICY)
// ============================================================================

type PolicyRow struct {
	ID          int64           `json:"id" db:"id"`
	PolicyID    string          `json:"policy_id" db:"policy_id"`
	PolicyType  string          `json:"policy_type" db:"policy_type"`
	BasePremium decimal.Decimal `json:"base_premium" db:"base_premium"`
	RiskFactor  string          `json:"risk_factor" db:"risk_factor"`
	Discount    decimal.Decimal `json:"discount" db:"discount"`
	BranchID    string          `json:"branch_id" db:"branch_id"`
	BatchID     uuid.UUID       `json:"batch_id" db:"batch_id"`
}

type CustomerInfoRow struct {
	ID       int64  `json:"id" db:"id"`
	PolicyID string `json:"policy_id" db:"policy_id"`
	Name     string `json:"name" db:"name"`
	Age      int    `json:"age" db:"age"`
	Address  string `json:"address" db:"address"`
}

// VehicleInfoRow carries batch_id alongside policy_id because policy_id is
// only unique within a batch; the rating join matches vehicles to policies
// on both columns.
type VehicleInfoRow struct {
	ID            int64           `json:"id" db:"id"`
	PolicyID      string          `json:"policy_id" db:"policy_id"`
	Make          string          `json:"make" db:"make"`
	Model         string          `json:"model" db:"model"`
	Year          int             `json:"year" db:"year"`
	VehicleDamage decimal.Decimal `json:"vehicle_damage" db:"vehicle_damage"`
	BatchID       uuid.UUID       `json:"batch_id" db:"batch_id"`
}

type CoverageInfoRow struct {
	ID            int64           `json:"id" db:"id"`
	PolicyID      string          `json:"policy_id" db:"policy_id"`
	Liability     decimal.Decimal `json:"liability" db:"liability"`
	Collision     decimal.Decimal `json:"collision" db:"collision"`
	Comprehensive decimal.Decimal `json:"comprehensive" db:"comprehensive"`
	Discount      decimal.Decimal `json:"discount" db:"discount"`
}

// BatchRows holds the four parallel row sets produced by decomposing one
// batch document. All four are written in a single transaction.
type BatchRows struct {
	BatchID   uuid.UUID
	Policies  []PolicyRow
	Customers []CustomerInfoRow
	Vehicles  []VehicleInfoRow
	Coverages []CoverageInfoRow
}

// PolicyCount returns the number of policies in the batch. The decomposer
// guarantees all four row sets have this length.
func (b *BatchRows) PolicyCount() int {
	return len(b.Policies)
}

// ============================================================================
// PREMIUM RATING
// ============================================================================

// RatedInput is one policy row joined with its vehicle_damage, the exact
// shape the premium calculator consumes. Produced by
// PolicyRepository.GetAllRatedInputs.
type RatedInput struct {
	PolicyID      string          `db:"policy_id"`
	PolicyType    string          `db:"policy_type"`
	BasePremium   decimal.Decimal `db:"base_premium"`
	VehicleDamage decimal.Decimal `db:"vehicle_damage"`
	RiskFactor    string          `db:"risk_factor"`
	Discount      decimal.Decimal `db:"discount"`
}

type InsuranceDecision string

const (
	DecisionGranted  InsuranceDecision = "Granted"
	DecisionRejected InsuranceDecision = "Rejected"
)

const (
	RiskFactorLow    = "low"
	RiskFactorMedium = "medium"
	RiskFactorHigh   = "high"
)

// RatedPolicy is the derived, never-persisted output record. Decimal values
// are converted to float64 here, at the serialization boundary only; all
// internal arithmetic stays decimal.
type RatedPolicy struct {
	PolicyID          string            `json:"policy_id"`
	PolicyType        string            `json:"policy_type"`
	BasePremium       float64           `json:"base_premium"`
	VehicleDamage     float64           `json:"vehicle_damage"`
	RiskFactor        string            `json:"risk_factor"`
	Discount          float64           `json:"discount"`
	CalculatedPremium float64           `json:"calculated_premium"`
	InsuranceGranted  InsuranceDecision `json:"insurance_granted"`
}
