package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

func TestFormatQuantity(t *testing.T) {
	cases := map[string]string{
		"0":         "0",
		"12":        "12",
		"25000":     "25.000",
		"1000000":   "1.000.000",
		"1234.5":    "1.234,5",
		"2.125":     "2,125",
		"-1500.25":  "-1.500,25",
		"3.1234567": "3,1235",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatQuantity(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateRequirementPDF(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	required := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)
	req := &entity.MaterialRequirement{
		ReferenceNumber:   "MRP-2025-001",
		Status:            entity.RequirementCalculated,
		CreationDate:      now,
		CalculationDate:   &now,
		PlanningStartDate: now,
		ConsiderStock:     true,
		Items: []entity.MaterialRequirementItem{
			{
				ProductCode: "ENG-001", ProductName: "Motor", Unit: "pcs",
				RequiredQuantity: decimal.NewFromInt(2), AvailableQuantity: decimal.NewFromInt(1),
				QuantityToProcure: decimal.NewFromInt(1), RequirementDate: required,
				PlannedOrderDate: required.AddDate(0, 0, -30), LeadTimeDays: 30,
			},
			{
				ProductCode: "HULL-001", ProductName: "Casco", Unit: "pcs",
				RequiredQuantity: decimal.NewFromInt(1), AvailableQuantity: decimal.NewFromInt(1),
				QuantityToProcure: decimal.Zero, RequirementDate: required,
				PlannedOrderDate: required, IsAvailable: true,
			},
		},
	}
	orders := []*entity.Order{{OrderNumber: "ORD-1", Status: entity.OrderStatusConfirmed}}

	content, err := NewMarotoReportGenerator("mrp-api").GenerateRequirementPDF(context.Background(), req, orders)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("%PDF")))
}
