package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/domain"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
	"github.com/jhoicas/mrp-api/internal/infrastructure/postgres"
)

type demoProduct struct {
	code, name, typ string
	stock, minStock int64
	lead            int
}

type demoBOM struct {
	product string
	name    string
	lines   []demoLine
}

type demoLine struct {
	component string
	qty       string
	optional  bool
}

// Catálogo de lanchas: dos modelos terminados con asientos fabricados a partir de materiales.
var (
	demoProducts = []demoProduct{
		{"BOAT-001", "Lancha 5m", "FINAL", 0, 0, 0},
		{"BOAT-002", "Lancha 7m", "FINAL", 0, 0, 0},
		{"HUL-001", "Casco de fibra 5m", "COMPONENT", 5, 1, 0},
		{"HUL-002", "Casco de fibra 7m", "COMPONENT", 1, 0, 45},
		{"ENG-001", "Motor fuera de borda 40HP", "COMPONENT", 3, 1, 30},
		{"SEAT-001", "Asiento tapizado", "COMPONENT", 2, 0, 5},
		{"FOAM-001", "Espuma de alta densidad", "MATERIAL", 10, 4, 10},
		{"VINYL-001", "Vinilo náutico (m²)", "MATERIAL", 6, 2, 15},
		{"NAV-001", "Kit de luces de navegación", "MATERIAL", 0, 0, 20},
		{"SRV-001", "Inspección de calidad", "SERVICE", 0, 0, 0},
	}
	demoBOMs = []demoBOM{
		{"BOAT-001", "Lancha 5m estándar", []demoLine{{"HUL-001", "1", false}, {"ENG-001", "1", false}, {"NAV-001", "1", true}}},
		{"BOAT-002", "Lancha 7m estándar", []demoLine{{"HUL-002", "1", false}, {"ENG-001", "2", false}, {"SEAT-001", "4", false}, {"NAV-001", "1", false}}},
		{"SEAT-001", "Asiento tapizado", []demoLine{{"FOAM-001", "2", false}, {"VINYL-001", "1.5", false}}},
	}
)

func newDemoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Carga el catálogo de lanchas y dos órdenes confirmadas",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.pool.Close()

			productRepo := postgres.NewProductRepository(e.pool)
			bomRepo := postgres.NewBOMRepository(e.pool)
			orderRepo := postgres.NewOrderRepository(e.pool)
			mrRepo := postgres.NewMaterialRequirementRepository(e.pool)
			seeder := &demoSeeder{
				productRepo: productRepo,
				bomRepo:     bomRepo,
				products:    usecase.NewProductUseCase(productRepo, bomRepo),
				boms:        usecase.NewBOMUseCase(bomRepo, productRepo),
				orders:      usecase.NewOrderUseCase(orderRepo, productRepo, mrRepo),
			}
			if err := seeder.run(cmd.Context()); err != nil {
				return err
			}
			e.log.Info().Int("products", len(demoProducts)).Int("boms", len(demoBOMs)).Msg("catálogo de demostración cargado")
			return nil
		},
	}
}

type demoSeeder struct {
	productRepo repository.ProductRepository
	bomRepo     repository.BOMRepository
	products    *usecase.ProductUseCase
	boms        *usecase.BOMUseCase
	orders      *usecase.OrderUseCase
}

func (s *demoSeeder) run(ctx context.Context) error {
	ids := make(map[string]string, len(demoProducts))
	for _, p := range demoProducts {
		existing, err := s.productRepo.GetByCode(ctx, p.code)
		if err != nil {
			return err
		}
		if existing != nil {
			ids[p.code] = existing.ID
			continue
		}
		out, err := s.products.Create(ctx, dto.CreateProductRequest{
			Code:            p.code,
			Name:            p.name,
			ProductType:     p.typ,
			Unit:            entity.DefaultUnit,
			QuantityInStock: decimal.NewFromInt(p.stock),
			MinimumStock:    decimal.NewFromInt(p.minStock),
			LeadTimeDays:    p.lead,
		})
		if err != nil {
			return fmt.Errorf("producto %s: %w", p.code, err)
		}
		ids[p.code] = out.ID
	}

	for _, b := range demoBOMs {
		existing, err := s.bomRepo.List(ctx, repository.BOMFilter{ProductID: ids[b.product], Limit: 1})
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		in := dto.CreateBOMRequest{Name: b.name, ProductID: ids[b.product], Version: entity.DefaultBOMVersion}
		for i, l := range b.lines {
			in.Items = append(in.Items, dto.BOMItemRequest{
				ComponentID: ids[l.component],
				Quantity:    decimal.RequireFromString(l.qty),
				Position:    i + 1,
				IsOptional:  l.optional,
			})
		}
		if _, err := s.boms.Create(ctx, in); err != nil {
			return fmt.Errorf("BOM %s: %w", b.product, err)
		}
	}

	now := time.Now().UTC().Truncate(24 * time.Hour)
	orders := []dto.CreateOrderRequest{
		demoOrder("DEMO-O1", "Náutica del Sur", now.AddDate(0, 1, 15), ids["BOAT-001"], 1),
		demoOrder("DEMO-O2", "Club de Pesca Bahía", now.AddDate(0, 2, 0), ids["BOAT-002"], 2),
	}
	for _, o := range orders {
		if _, err := s.orders.Create(ctx, "", o); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("orden %s: %w", o.OrderNumber, err)
		}
	}
	return nil
}

func demoOrder(number, customer string, required time.Time, productID string, qty int64) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		OrderNumber:  number,
		OrderType:    string(entity.OrderTypeProduction),
		Status:       string(entity.OrderStatusConfirmed),
		CustomerName: customer,
		RequiredDate: &required,
		Items:        []dto.OrderItemRequest{{ProductID: productID, Quantity: decimal.NewFromInt(qty), Position: 1}},
	}
}
