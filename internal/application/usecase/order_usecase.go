package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de producción y compra.
type OrderUseCase struct {
	repo        repository.OrderRepository
	productRepo repository.ProductRepository
	mrRepo      repository.MaterialRequirementRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(repo repository.OrderRepository, productRepo repository.ProductRepository, mrRepo repository.MaterialRequirementRepository) *OrderUseCase {
	return &OrderUseCase{repo: repo, productRepo: productRepo, mrRepo: mrRepo}
}

// Create registra una orden. Estado por defecto DRAFT; fecha de orden por defecto ahora.
func (uc *OrderUseCase) Create(ctx context.Context, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	number := strings.TrimSpace(in.OrderNumber)
	if number == "" {
		return nil, domain.NewValidationError("order_number", "es requerido")
	}
	existing, err := uc.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: la orden %s ya existe", domain.ErrDuplicate, number)
	}
	orderType := entity.OrderType(in.OrderType)
	if !orderType.Valid() {
		return nil, domain.NewValidationError("order_type", "debe ser PRODUCTION o PURCHASE")
	}
	status := entity.OrderStatusDraft
	if in.Status != "" {
		status = entity.OrderStatus(in.Status)
		if !status.Valid() {
			return nil, domain.NewValidationError("status", "estado de orden desconocido")
		}
	}
	now := time.Now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	order := &entity.Order{
		ID:                      uuid.New().String(),
		OrderNumber:             number,
		Type:                    orderType,
		CustomerName:            in.CustomerName,
		CustomerReference:       in.CustomerReference,
		OrderDate:               orderDate,
		RequiredDate:            in.RequiredDate,
		EstimatedCompletionDate: in.EstimatedCompletionDate,
		Notes:                   in.Notes,
		CreatedBy:               userID,
		CreatedAt:               now,
	}
	order.SetStatus(status, now)
	if err := uc.buildItems(ctx, order, in.Items); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *OrderUseCase) GetByID(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// Update actualiza cabecera y, si vienen, reemplaza las líneas. El estado cambia solo vía ChangeStatus.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	order, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.OrderType != nil {
		t := entity.OrderType(*in.OrderType)
		if !t.Valid() {
			return nil, domain.NewValidationError("order_type", "debe ser PRODUCTION o PURCHASE")
		}
		order.Type = t
	}
	if in.CustomerName != nil {
		order.CustomerName = *in.CustomerName
	}
	if in.CustomerReference != nil {
		order.CustomerReference = *in.CustomerReference
	}
	if in.OrderDate != nil {
		order.OrderDate = *in.OrderDate
	}
	if in.RequiredDate != nil {
		order.RequiredDate = in.RequiredDate
	}
	if in.EstimatedCompletionDate != nil {
		order.EstimatedCompletionDate = in.EstimatedCompletionDate
	}
	if in.Notes != nil {
		order.Notes = *in.Notes
	}
	if in.Items != nil {
		if err := uc.buildItems(ctx, order, *in.Items); err != nil {
			return nil, err
		}
	}
	order.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ChangeStatus cambia el estado de la orden. COMPLETED registra la fecha real de finalización.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeStatusRequest) (*dto.OrderResponse, error) {
	status := entity.OrderStatus(strings.ToUpper(in.Status))
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "estado de orden desconocido")
	}
	order, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	order.SetStatus(status, time.Now())
	if err := uc.repo.UpdateStatus(ctx, order); err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// List lista órdenes con filtros de estado, tipo y rango de fecha de orden.
func (uc *OrderUseCase) List(ctx context.Context, in dto.OrderFilterRequest) (*dto.OrderListResponse, error) {
	in.DefaultPage()
	filter := repository.OrderFilter{From: in.From, To: in.To, Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		s := entity.OrderStatus(strings.ToUpper(in.Status))
		if !s.Valid() {
			return nil, domain.NewValidationError("status", "estado de orden desconocido")
		}
		filter.Status = &s
	}
	if in.OrderType != "" {
		t := entity.OrderType(strings.ToUpper(in.OrderType))
		if !t.Valid() {
			return nil, domain.NewValidationError("order_type", "debe ser PRODUCTION o PURCHASE")
		}
		filter.Type = &t
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Delete elimina una orden que no esté referenciada por ningún requerimiento.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	order, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	n, err := uc.mrRepo.CountBySourceOrder(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.NewConflictError("la orden %s es origen de %d requerimientos de materiales", order.OrderNumber, n)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *OrderUseCase) get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: orden %s", domain.ErrNotFound, id)
	}
	return order, nil
}

func (uc *OrderUseCase) buildItems(ctx context.Context, order *entity.Order, in []dto.OrderItemRequest) error {
	if len(in) == 0 {
		return domain.NewValidationError("items", "la orden debe tener al menos una línea")
	}
	ids := make([]string, 0, len(in))
	for _, it := range in {
		ids = append(ids, it.ProductID)
	}
	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}
	items := make([]entity.OrderItem, 0, len(in))
	for i, it := range in {
		field := fmt.Sprintf("items[%d]", i)
		if !known[it.ProductID] {
			return domain.NewValidationError(field+".product_id", "el producto no existe")
		}
		if !positive(it.Quantity) {
			return domain.NewValidationError(field+".quantity", "debe ser mayor que 0")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return domain.NewValidationError(field+".unit_price", "no puede ser negativo")
		}
		position := it.Position
		if position <= 0 {
			position = i + 1
		}
		items = append(items, entity.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Position:  position,
			Notes:     it.Notes,
		})
	}
	order.Items = items
	return nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Position:  it.Position,
			Notes:     it.Notes,
		})
	}
	return &dto.OrderResponse{
		ID:                      o.ID,
		OrderNumber:             o.OrderNumber,
		OrderType:               string(o.Type),
		Status:                  string(o.Status),
		CustomerName:            o.CustomerName,
		CustomerReference:       o.CustomerReference,
		OrderDate:               o.OrderDate,
		RequiredDate:            o.RequiredDate,
		EstimatedCompletionDate: o.EstimatedCompletionDate,
		ActualCompletionDate:    o.ActualCompletionDate,
		Notes:                   o.Notes,
		CreatedBy:               o.CreatedBy,
		Items:                   items,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
	}
}
