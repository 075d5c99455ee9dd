package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/mrp-api/internal/application/auth"
	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/domain/repository"
	"github.com/jhoicas/mrp-api/internal/infrastructure/lock"
	"github.com/jhoicas/mrp-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/mrp-api/internal/infrastructure/pdf"
	"github.com/jhoicas/mrp-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mrp-api/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/mrp-api/internal/interfaces/http"
	"github.com/jhoicas/mrp-api/pkg/config"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// repositories puertos de persistencia según APP_STORAGE.
type repositories struct {
	users        repository.UserRepository
	products     repository.ProductRepository
	boms         repository.BOMRepository
	orders       repository.OrderRepository
	requirements repository.MaterialRequirementRepository
	tx           planning.TxRunner
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	// Cantidades como números JSON, no como strings.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()
	repos, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer repos.close()

	locker, closeLocker := newLocker(ctx, cfg, log)
	defer closeLocker()

	authUC := auth.NewAuthUseCase(repos.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	requirementUC := planning.NewMaterialRequirementUseCase(planning.Deps{
		Repo:      repos.requirements,
		OrderRepo: repos.orders,
		Tx:        repos.tx,
		Locker:    locker,
		MaxDepth:  cfg.MRP.MaxBOMDepth,
		Exporter:  report.NewExcelExporter(),
		Reporter:  infrapdf.NewMarotoReportGenerator(cfg.App.Name),
		Logger:    log,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "MRP API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: no se encontró la especificación")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        usecase.NewUserUseCase(repos.users),
		ProductUC:     usecase.NewProductUseCase(repos.products, repos.boms),
		BOMUC:         usecase.NewBOMUseCase(repos.boms, repos.products),
		OrderUC:       usecase.NewOrderUseCase(repos.orders, repos.products, repos.requirements),
		RequirementUC: requirementUC,
		JWTSecret:     cfg.JWT.Secret,
		Logger:        log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando el esquema) o el store en memoria.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repositories, error) {
	if cfg.App.Storage == config.StorageMemory {
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &repositories{
			users:        memory.NewUserRepository(store),
			products:     memory.NewProductRepository(store),
			boms:         memory.NewBOMRepository(store),
			orders:       memory.NewOrderRepository(store),
			requirements: memory.NewMaterialRequirementRepository(store),
			tx:           memory.NewTxRunner(store),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("esquema PostgreSQL aplicado")
	return &repositories{
		users:        postgres.NewUserRepository(pool),
		products:     postgres.NewProductRepository(pool),
		boms:         postgres.NewBOMRepository(pool),
		orders:       postgres.NewOrderRepository(pool),
		requirements: postgres.NewMaterialRequirementRepository(pool),
		tx:           postgres.NewTxRunner(pool),
		close:        pool.Close,
	}, nil
}

// newLocker usa Redis si REDIS_ADDR está configurado; si no, un lock en proceso.
func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (planning.Locker, func()) {
	if !cfg.Redis.Enabled() {
		return lock.NewLocalLocker(cfg.MRP.LockWait), func() {}
	}
	rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("locks distribuidos con Redis")
	return lock.NewRedisLocker(rdb, cfg.MRP.LockTTL, cfg.MRP.LockWait, log), func() { _ = rdb.Close() }
}
