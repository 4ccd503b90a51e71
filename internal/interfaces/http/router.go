package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/vortex-catalogo/internal/application/auth"
	"github.com/jhoicas/vortex-catalogo/internal/application/usecase"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	OrderUC   *usecase.OrderUseCase
	UserUC    *usecase.UserUseCase
	AuthUC    *auth.AuthUseCase
	Counter   Counter
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra los middlewares de petición y las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestID(), RequestLogger(deps.Log))

	app.Get("/health", Health(deps.Counter))

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.JWTSecret)
	managers := RequireRole(string(entity.RoleManager), string(entity.RoleDev))

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/esqueci-senha", authHandler.ForgotPassword)
	authGroup.Post("/redefinir-senha", authHandler.ResetPassword)

	// Productos: lectura pública, escritura autenticada
	products := api.Group("/produtos")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", requireAuth, productHandler.Create)
	products.Put("/:id", requireAuth, productHandler.Update)
	products.Patch("/:id/estoque", requireAuth, productHandler.AdjustStock)
	products.Delete("/:id", requireAuth, productHandler.Delete)

	// Pedidos: crear es público (tienda), el resto autenticado
	orders := api.Group("/pedidos")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", requireAuth, orderHandler.List)
	orders.Get("/:id", requireAuth, orderHandler.GetByID)
	orders.Get("/:id/comprovante", requireAuth, orderHandler.Receipt)
	orders.Put("/:id/concluir", requireAuth, orderHandler.Complete)
	orders.Delete("/:id", requireAuth, orderHandler.Delete)

	// Usuarios (gerente o dev)
	users := api.Group("/usuarios", requireAuth, managers)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Post("/verificar-senha", userHandler.VerifyPassword)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
