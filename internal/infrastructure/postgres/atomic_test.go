package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
)

// recorder cuenta lo que llega al pool y a la transacción.
type recorder struct {
	poolWrites int
	txExecs    int
	commits    int
	batchErr   error
}

type fakePool struct{ rec *recorder }

func (p fakePool) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	p.rec.poolWrites++
	return pgconn.CommandTag{}, nil
}

func (p fakePool) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("no soportado")
}

func (p fakePool) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func (p fakePool) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	p.rec.poolWrites++
	return fakeBatch{}
}

func (p fakePool) Begin(context.Context) (pgx.Tx, error) { return &fakeTx{rec: p.rec}, nil }

type fakeTx struct {
	pgx.Tx
	rec *recorder
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	t.rec.txExecs++
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return fakeBatch{err: t.rec.batchErr}
}

func (t *fakeTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(context.Context) error {
	t.rec.commits++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error { return nil }

type fakeBatch struct {
	pgx.BatchResults
	err error
}

func (b fakeBatch) Close() error { return b.err }

func boatBOM() *entity.BillOfMaterials {
	return &entity.BillOfMaterials{
		ID:        "bom",
		Name:      "Lancha",
		ProductID: "boat",
		Version:   entity.DefaultBOMVersion,
		IsActive:  true,
		Items:     []entity.BOMItem{{ComponentID: "hull", Quantity: decimal.NewFromInt(1)}},
	}
}

func TestBOMRepo_CreateCommitsHeaderAndLinesTogether(t *testing.T) {
	rec := &recorder{}
	require.NoError(t, NewBOMRepository(fakePool{rec}).Create(context.Background(), boatBOM()))
	assert.Equal(t, 1, rec.commits)
	assert.Equal(t, 1, rec.txExecs)
	assert.Zero(t, rec.poolWrites, "nada se escribe fuera de la transacción")
}

func TestBOMRepo_CreateRollsBackWhenLinesFail(t *testing.T) {
	rec := &recorder{batchErr: errors.New("conexión perdida")}
	err := NewBOMRepository(fakePool{rec}).Create(context.Background(), boatBOM())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert bom items")
	assert.Zero(t, rec.commits)
	assert.Zero(t, rec.poolWrites)
}

func TestBOMRepo_UpdateRollsBackWhenLinesFail(t *testing.T) {
	rec := &recorder{batchErr: errors.New("conexión perdida")}
	err := NewBOMRepository(fakePool{rec}).Update(context.Background(), boatBOM())
	require.Error(t, err)
	assert.Equal(t, 2, rec.txExecs, "cabecera y borrado de líneas dentro de la tx")
	assert.Zero(t, rec.commits)
	assert.Zero(t, rec.poolWrites)
}

func TestOrderRepo_UpdateRollsBackWhenLinesFail(t *testing.T) {
	rec := &recorder{batchErr: errors.New("conexión perdida")}
	order := &entity.Order{
		ID:          "o1",
		OrderNumber: "O1",
		Type:        entity.OrderTypeProduction,
		Status:      entity.OrderStatusConfirmed,
		OrderDate:   time.Now(),
		Items:       []entity.OrderItem{{ProductID: "boat", Quantity: decimal.NewFromInt(1)}},
	}
	err := NewOrderRepository(fakePool{rec}).Update(context.Background(), order)
	require.Error(t, err)
	assert.Zero(t, rec.commits)
	assert.Zero(t, rec.poolWrites)
}

func TestMaterialRequirementRepo_CreateLeavesNoHeaderOnMissingOrder(t *testing.T) {
	rec := &recorder{batchErr: &pgconn.PgError{Code: "23503"}}
	req := &entity.MaterialRequirement{
		ID:                "mr",
		ReferenceNumber:   "MRP-001",
		Status:            entity.RequirementDraft,
		PlanningStartDate: time.Now(),
		SourceOrderIDs:    []string{"o-borrada"},
	}
	err := NewMaterialRequirementRepository(fakePool{rec}).Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, rec.commits)
	assert.Zero(t, rec.poolWrites)
}
