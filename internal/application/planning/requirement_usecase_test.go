package planning_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/infrastructure/lock"
)

func day(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// boatWorld catálogo de lanchas, orden O1 confirmada y requerimiento MRP-001 en draft.
func boatWorld(t *testing.T) *mrpWorld {
	t.Helper()
	w := newWorld()
	require.NoError(t, w.boatCatalog(5, 3))
	require.NoError(t, w.anOrder("confirmada", "O1", 1, "BOAT-001", "2025-04-15"))
	require.NoError(t, w.aRequirement("MRP-001", "2025-03-01", "O1"))
	return w
}

func TestCreate_Validation(t *testing.T) {
	w := newWorld()
	require.NoError(t, w.boatCatalog(5, 3))
	require.NoError(t, w.anOrder("confirmada", "O1", 1, "BOAT-001", "2025-04-15"))
	orders := []string{w.orderIDs["O1"]}

	tests := []struct {
		name  string
		in    dto.CreateMaterialRequirementRequest
		field string
	}{
		{"sin referencia", dto.CreateMaterialRequirementRequest{PlanningStartDate: day("2025-03-01"), SourceOrders: orders}, "reference_number"},
		{"sin fecha de inicio", dto.CreateMaterialRequirementRequest{ReferenceNumber: "R1", SourceOrders: orders}, "planning_start_date"},
		{"fin antes del inicio", dto.CreateMaterialRequirementRequest{ReferenceNumber: "R1", PlanningStartDate: day("2025-03-01"), PlanningEndDate: day("2025-02-01"), SourceOrders: orders}, "planning_end_date"},
		{"sin órdenes", dto.CreateMaterialRequirementRequest{ReferenceNumber: "R1", PlanningStartDate: day("2025-03-01"), SourceOrders: []string{" ", ""}}, "source_orders"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.uc.Create(w.ctx, "", tt.in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
	require.NoError(t, w.noRequirements())
}

func TestCreate_UnknownOrder(t *testing.T) {
	w := newWorld()
	_, err := w.uc.Create(w.ctx, "", dto.CreateMaterialRequirementRequest{
		ReferenceNumber:   "R1",
		PlanningStartDate: day("2025-03-01"),
		SourceOrders:      []string{"no-existe"},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_DuplicateReferenceAndDedupSources(t *testing.T) {
	w := boatWorld(t)
	o1 := w.orderIDs["O1"]

	_, err := w.uc.Create(w.ctx, "", dto.CreateMaterialRequirementRequest{
		ReferenceNumber:   "MRP-001",
		PlanningStartDate: day("2025-03-01"),
		SourceOrders:      []string{o1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := w.uc.Create(w.ctx, "u1", dto.CreateMaterialRequirementRequest{
		ReferenceNumber:   "MRP-002",
		PlanningStartDate: day("2025-03-01"),
		SourceOrders:      []string{o1, o1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{o1}, out.SourceOrders)
	assert.Equal(t, "draft", out.Status)
	assert.True(t, out.ConsiderStock)
	assert.False(t, out.ConsiderMinStock)
	assert.Equal(t, "u1", out.CreatedBy)
	assert.Nil(t, out.CalculationDate)
}

func TestCalculate_BoatScenario(t *testing.T) {
	w := boatWorld(t)

	out, err := w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)
	assert.Equal(t, "calculated", out.Status)
	require.NotNil(t, out.CalculationDate)
	require.Len(t, out.Items, 2)

	eng := out.Items[0]
	assert.Equal(t, "ENG-001", eng.ProductCode)
	assert.True(t, eng.QuantityToProcure.IsZero())
	assert.Equal(t, "2025-03-16", eng.PlannedOrderDate.Format("2006-01-02"))
	assert.Contains(t, eng.Notes, "Tiempo de entrega: 30 días")
	assert.Equal(t, "HUL-001", out.Items[1].ProductCode)

	details, err := w.uc.GetDetails(w.ctx, w.mrID)
	require.NoError(t, err)
	require.Len(t, details.SourceOrderDetails, 1)
	assert.Equal(t, "O1", details.SourceOrderDetails[0].OrderNumber)
}

func TestCalculate_MinimumStockReducesAvailability(t *testing.T) {
	w := boatWorld(t)
	minStock := decimal.NewFromInt(3)
	_, err := w.products.Update(w.ctx, w.productIDs["ENG-001"], dto.UpdateProductRequest{MinimumStock: &minStock})
	require.NoError(t, err)
	yes := true
	_, err = w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{ConsiderMinStock: &yes})
	require.NoError(t, err)

	_, err = w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)
	require.NoError(t, w.itemQuantities("ENG-001", "1", "0", "1"))
	require.NoError(t, w.itemNotAvailable("ENG-001"))
}

func TestCalculate_FailureKeepsPreviousItems(t *testing.T) {
	w := boatWorld(t)
	_, err := w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)
	before, err := w.current()
	require.NoError(t, err)

	_, err = w.orders.ChangeStatus(w.ctx, w.orderIDs["O1"], dto.ChangeStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)

	_, err = w.uc.Calculate(w.ctx, w.mrID)
	var ineligible *domain.IneligibleSourceOrderError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, "O1", ineligible.OrderNumber)

	after, err := w.current()
	require.NoError(t, err)
	assert.Equal(t, "calculated", after.Status)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.CalculationDate, after.CalculationDate)
}

func TestCalculate_Locked(t *testing.T) {
	locker := lock.NewLocalLocker(20 * time.Millisecond)
	w := newWorldWith(locker)
	require.NoError(t, w.boatCatalog(5, 3))
	require.NoError(t, w.anOrder("confirmada", "O1", 1, "BOAT-001", "2025-04-15"))
	require.NoError(t, w.aRequirement("MRP-001", "2025-03-01", "O1"))

	release, err := locker.Obtain(context.Background(), "mrp:requirement:"+w.mrID)
	require.NoError(t, err)

	_, err = w.uc.Calculate(w.ctx, w.mrID)
	assert.ErrorIs(t, err, domain.ErrLocked)
	require.NoError(t, w.hasStatus("draft"))

	release()
	_, err = w.uc.Calculate(w.ctx, w.mrID)
	assert.NoError(t, err)
}

func TestUpdate_OnlyDraftOrCalculated(t *testing.T) {
	w := boatWorld(t)
	notes := "revisado"
	out, err := w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "revisado", out.Notes)

	_, err = w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)
	require.NoError(t, w.changeStatus("processing"))

	_, err = w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate_DoesNotRecalculate(t *testing.T) {
	w := boatWorld(t)
	_, err := w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)

	require.NoError(t, w.ignoreStock())
	require.NoError(t, w.hasStatus("calculated"))
	require.NoError(t, w.itemQuantities("HUL-001", "1", "5", "0"))
}

func TestChangeStatus_Transitions(t *testing.T) {
	w := boatWorld(t)

	_, err := w.uc.ChangeStatus(w.ctx, w.mrID, dto.ChangeStatusRequest{Status: "processing"})
	assert.ErrorIs(t, err, domain.ErrConflict, "draft no pasa a processing")

	_, err = w.uc.ChangeStatus(w.ctx, w.mrID, dto.ChangeStatusRequest{Status: "calculated"})
	assert.ErrorIs(t, err, domain.ErrConflict, "calculated solo se alcanza calculando")

	_, err = w.uc.ChangeStatus(w.ctx, w.mrID, dto.ChangeStatusRequest{Status: "archivado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)
	for _, s := range []string{"processing", "completed"} {
		out, err := w.uc.ChangeStatus(w.ctx, w.mrID, dto.ChangeStatusRequest{Status: s})
		require.NoError(t, err)
		assert.Equal(t, s, out.Status)
	}

	_, err = w.uc.ChangeStatus(w.ctx, w.mrID, dto.ChangeStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, domain.ErrConflict, "completed es terminal")
	_, err = w.uc.Calculate(w.ctx, w.mrID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDelete(t *testing.T) {
	w := boatWorld(t)
	require.NoError(t, w.uc.Delete(w.ctx, w.mrID))
	_, err := w.uc.GetByID(w.ctx, w.mrID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, w.uc.Delete(w.ctx, w.mrID), domain.ErrNotFound)
}

func TestList_FilterByStatus(t *testing.T) {
	w := boatWorld(t)
	_, err := w.uc.Create(w.ctx, "", dto.CreateMaterialRequirementRequest{
		ReferenceNumber:   "MRP-002",
		PlanningStartDate: day("2025-03-01"),
		SourceOrders:      []string{w.orderIDs["O1"]},
	})
	require.NoError(t, err)
	_, err = w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)

	all, err := w.uc.List(w.ctx, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 20, all.Page.Limit)

	calculated, err := w.uc.List(w.ctx, "CALCULATED", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, calculated.Items, 1)
	assert.Equal(t, "MRP-001", calculated.Items[0].ReferenceNumber)
	assert.Equal(t, 1, calculated.Items[0].SourceOrderCount)

	_, err = w.uc.List(w.ctx, "nope", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExports(t *testing.T) {
	w := boatWorld(t)

	_, _, err := w.uc.ExportSpreadsheet(w.ctx, w.mrID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, _, err = w.uc.ReportPDF(w.ctx, w.mrID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = w.uc.Calculate(w.ctx, w.mrID)
	require.NoError(t, err)

	xlsx, name, err := w.uc.ExportSpreadsheet(w.ctx, w.mrID)
	require.NoError(t, err)
	assert.Equal(t, "MRP-001.xlsx", name)
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")), "un XLSX es un zip")

	doc, name, err := w.uc.ReportPDF(w.ctx, w.mrID)
	require.NoError(t, err)
	assert.Equal(t, "MRP-001.pdf", name)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestUpdate_ClearPlanningEndDate(t *testing.T) {
	w := boatWorld(t)
	out, err := w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{PlanningEndDate: day("2025-06-01")})
	require.NoError(t, err)
	require.NotNil(t, out.PlanningEndDate)

	out, err = w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{})
	require.NoError(t, err)
	require.NotNil(t, out.PlanningEndDate, "sin cambios si no se envía nada")

	_, err = w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{
		PlanningEndDate:      day("2025-07-01"),
		ClearPlanningEndDate: true,
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "clear_planning_end_date", verr.Field)

	out, err = w.uc.Update(w.ctx, w.mrID, dto.UpdateMaterialRequirementRequest{ClearPlanningEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, out.PlanningEndDate)

	stored, err := w.current()
	require.NoError(t, err)
	assert.Nil(t, stored.PlanningEndDate)
}
