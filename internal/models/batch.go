package models

import "github.com/shopspring/decimal"

// ============================================================================
// INGESTION DOCUMENT (NESTED INPUT)
// ============================================================================

// BatchDocument is the nested payload accepted by /process-and-upload: a list
// of branches, each carrying its policies. One submitted document is one
// ingestion batch. Scalar fields are pointers so the decomposer can
// distinguish a missing field from a zero value. A nil Branches slice means
// the "branches" key was absent (rejected); an explicit empty list is a
// valid no-op batch.
type BatchDocument struct {
	Branches []BranchDocument `json:"branches"`
}

type BranchDocument struct {
	BranchID *string          `json:"branch_id"`
	Policies []PolicyDocument `json:"policies"`
}

type PolicyDocument struct {
	PolicyID     *string           `json:"policy_id"`
	PolicyType   *string           `json:"policy_type"`
	BasePremium  *decimal.Decimal  `json:"base_premium"`
	RiskFactor   *string           `json:"risk_factor"`
	CustomerInfo *CustomerDocument `json:"customer_info"`
	VehicleInfo  *VehicleDocument  `json:"vehicle_info"`
	CoverageInfo *CoverageDocument `json:"coverage_info"`
}

type CustomerDocument struct {
	Name    *string `json:"name"`
	Age     *int    `json:"age"`
	Address *string `json:"address"`
}

type VehicleDocument struct {
	Make          *string          `json:"make"`
	Model         *string          `json:"model"`
	Year          *int             `json:"year"`
	VehicleDamage *decimal.Decimal `json:"vehicle_damage"`
}

type CoverageDocument struct {
	Liability     *decimal.Decimal `json:"liability"`
	Collision     *decimal.Decimal `json:"collision"`
	Comprehensive *decimal.Decimal `json:"comprehensive"`
	Discount      *decimal.Decimal `json:"discount"`
}
