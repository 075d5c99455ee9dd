package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/auth"
	"github.com/jhoicas/mrp-api/internal/application/planning"
	"github.com/jhoicas/mrp-api/internal/application/usecase"
	"github.com/jhoicas/mrp-api/internal/domain/entity"
	"github.com/jhoicas/mrp-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	BOMUC         *usecase.BOMUseCase
	OrderUC       *usecase.OrderUseCase
	RequirementUC *planning.MaterialRequirementUseCase
	JWTSecret     string
	Logger        *logger.Logger // registra los 500; nil descarta
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	v := NewValidator()
	api := app.Group("/api/v1", withLogger(deps.Logger))

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC, v)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/setup/init-admin", authHandler.InitAdmin)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)
	users.Get("/:id", authHandler.GetUser)

	planners := RequireRole(entity.RoleAdmin, entity.RolePlanner)

	products := protected.Group("/products", planners)
	productHandler := NewProductHandler(deps.ProductUC, v)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	boms := protected.Group("/boms", planners)
	bomHandler := NewBOMHandler(deps.BOMUC, v)
	boms.Post("/", bomHandler.Create)
	boms.Get("/", bomHandler.List)
	boms.Get("/:id", bomHandler.GetByID)
	boms.Put("/:id", bomHandler.Update)
	boms.Delete("/:id", bomHandler.Delete)

	orders := protected.Group("/orders", planners)
	orderHandler := NewOrderHandler(deps.OrderUC, v)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Put("/:id", orderHandler.Update)
	orders.Post("/:id/status", orderHandler.ChangeStatus)
	orders.Delete("/:id", orderHandler.Delete)

	requirements := protected.Group("/material-requirements", planners)
	mrHandler := NewMaterialRequirementHandler(deps.RequirementUC, v)
	requirements.Get("/", mrHandler.List)
	requirements.Post("/", mrHandler.Create)
	requirements.Get("/:id", mrHandler.GetByID)
	requirements.Get("/:id/details", mrHandler.GetDetails)
	requirements.Get("/:id/export.xlsx", mrHandler.ExportXLSX)
	requirements.Get("/:id/report.pdf", mrHandler.ReportPDF)
	requirements.Patch("/:id", mrHandler.Update)
	requirements.Delete("/:id", mrHandler.Delete)
	requirements.Post("/:id/calculate", mrHandler.Calculate)
	requirements.Post("/:id/status", mrHandler.ChangeStatus)
}
