package services

import (
	"errors"
	"testing"
	"transfer-service/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBatchJSON = `{
	"branches": [
		{
			"branch_id": "BR-01",
			"policies": [
				{
					"policy_id": "POL-001",
					"policy_type": "auto",
					"base_premium": 1000.00,
					"risk_factor": "low",
					"customer_info": {"name": "Ada Lovelace", "age": 36, "address": "12 Analytical Way"},
					"vehicle_info": {"make": "Toyota", "model": "Corolla", "year": 2020, "vehicle_damage": 2000.00},
					"coverage_info": {"liability": 300.00, "collision": 200.00, "comprehensive": 100.00, "discount": 10.00}
				},
				{
					"policy_id": "POL-002",
					"policy_type": "auto",
					"base_premium": 9000.00,
					"risk_factor": "medium",
					"customer_info": {"name": "Grace Hopper", "age": 45, "address": "7 Compiler Court"},
					"vehicle_info": {"make": "Ford", "model": "Falcon", "year": 2018, "vehicle_damage": 3000.00},
					"coverage_info": {"liability": 500.00, "collision": 400.00, "comprehensive": 300.00, "discount": 0.00}
				}
			]
		},
		{
			"branch_id": "BR-02",
			"policies": [
				{
					"policy_id": "POL-003",
					"policy_type": "commercial",
					"base_premium": 500.00,
					"risk_factor": "high",
					"customer_info": {"name": "Alan Turing", "age": 41, "address": "1 Enigma Lane"},
					"vehicle_info": {"make": "Austin", "model": "Seven", "year": 1935, "vehicle_damage": 100.00},
					"coverage_info": {"liability": 50.00, "collision": 25.00, "comprehensive": 10.00, "discount": 50.00}
				}
			]
		}
	]
}`

func decomposePayload(t *testing.T, payload string) (*models.BatchRows, error) {
	t.Helper()
	d := NewDecomposer()
	doc, err := d.ParseDocument([]byte(payload))
	require.NoError(t, err)
	return d.Decompose(doc, uuid.New())
}

func TestDecompose_OneRowPerTablePerPolicy(t *testing.T) {
	rows, err := decomposePayload(t, validBatchJSON)
	require.NoError(t, err)

	assert.Equal(t, 3, len(rows.Policies))
	assert.Equal(t, 3, len(rows.Customers))
	assert.Equal(t, 3, len(rows.Vehicles))
	assert.Equal(t, 3, len(rows.Coverages))

	first := rows.Policies[0]
	assert.Equal(t, "POL-001", first.PolicyID)
	assert.Equal(t, "auto", first.PolicyType)
	assert.Equal(t, "BR-01", first.BranchID)
	assert.Equal(t, "1000.00", first.BasePremium.StringFixed(2))
	assert.Equal(t, "low", first.RiskFactor)

	// The policy row's discount comes from coverage_info.
	assert.Equal(t, "10.00", first.Discount.StringFixed(2))
	assert.Equal(t, "10.00", rows.Coverages[0].Discount.StringFixed(2))

	assert.Equal(t, "POL-003", rows.Policies[2].PolicyID)
	assert.Equal(t, "BR-02", rows.Policies[2].BranchID)
	assert.Equal(t, "Alan Turing", rows.Customers[2].Name)
	assert.Equal(t, 1935, rows.Vehicles[2].Year)
	assert.Equal(t, "100.00", rows.Vehicles[2].VehicleDamage.StringFixed(2))
}

func TestDecompose_TagsRowsWithBatchID(t *testing.T) {
	d := NewDecomposer()
	doc, err := d.ParseDocument([]byte(validBatchJSON))
	require.NoError(t, err)

	batchID := uuid.New()
	rows, err := d.Decompose(doc, batchID)
	require.NoError(t, err)

	assert.Equal(t, batchID, rows.BatchID)
	for _, p := range rows.Policies {
		assert.Equal(t, batchID, p.BatchID)
	}
	for _, v := range rows.Vehicles {
		assert.Equal(t, batchID, v.BatchID)
	}
}

func TestDecompose_EmptyBranchesIsValidNoOp(t *testing.T) {
	rows, err := decomposePayload(t, `{"branches": []}`)
	require.NoError(t, err)

	assert.Equal(t, 0, rows.PolicyCount())
	assert.Empty(t, rows.Customers)
	assert.Empty(t, rows.Vehicles)
	assert.Empty(t, rows.Coverages)
}

func TestDecompose_MissingBranchesKey(t *testing.T) {
	_, err := decomposePayload(t, `{}`)

	var schemaErr *models.SchemaViolationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "branches", schemaErr.Path)
}

func TestDecompose_MissingFieldNamesItsPath(t *testing.T) {
	payload := `{
		"branches": [
			{
				"branch_id": "BR-01",
				"policies": [
					{
						"policy_id": "POL-001",
						"policy_type": "auto",
						"base_premium": 1000.00,
						"risk_factor": "low",
						"customer_info": {"name": "Ada Lovelace", "age": 36, "address": "12 Analytical Way"},
						"vehicle_info": {"make": "Toyota", "model": "Corolla", "year": 2020},
						"coverage_info": {"liability": 300.00, "collision": 200.00, "comprehensive": 100.00, "discount": 10.00}
					}
				]
			}
		]
	}`

	_, err := decomposePayload(t, payload)

	var schemaErr *models.SchemaViolationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "branches[0].policies[0].vehicle_info.vehicle_damage", schemaErr.Path)
}

func TestDecompose_MissingCustomerInfoObject(t *testing.T) {
	payload := `{
		"branches": [
			{
				"branch_id": "BR-01",
				"policies": [
					{
						"policy_id": "POL-001",
						"policy_type": "auto",
						"base_premium": 1000.00,
						"risk_factor": "low",
						"vehicle_info": {"make": "Toyota", "model": "Corolla", "year": 2020, "vehicle_damage": 2000.00},
						"coverage_info": {"liability": 300.00, "collision": 200.00, "comprehensive": 100.00, "discount": 10.00}
					}
				]
			}
		]
	}`

	_, err := decomposePayload(t, payload)

	var schemaErr *models.SchemaViolationError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "branches[0].policies[0].customer_info", schemaErr.Path)
}

func TestDecompose_UnknownRiskFactorAcceptedAsIs(t *testing.T) {
	payload := `{
		"branches": [
			{
				"branch_id": "BR-01",
				"policies": [
					{
						"policy_id": "POL-001",
						"policy_type": "auto",
						"base_premium": 1000.00,
						"risk_factor": "turbo",
						"customer_info": {"name": "Ada Lovelace", "age": 36, "address": "12 Analytical Way"},
						"vehicle_info": {"make": "Toyota", "model": "Corolla", "year": 2020, "vehicle_damage": 2000.00},
						"coverage_info": {"liability": 300.00, "collision": 200.00, "comprehensive": 100.00, "discount": 10.00}
					}
				]
			}
		]
	}`

	rows, err := decomposePayload(t, payload)
	require.NoError(t, err)

	assert.Equal(t, "turbo", rows.Policies[0].RiskFactor)
}

func TestParseDocument_InvalidJSON(t *testing.T) {
	d := NewDecomposer()

	_, err := d.ParseDocument([]byte(`{"branches": [`))

	assert.True(t, errors.Is(err, models.ErrInvalidJSON))
}
