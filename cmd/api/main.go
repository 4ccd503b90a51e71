// @title           Vortex Catálogo API
// @version         1.0
// @description     Catálogo de productos, pedidos y usuarios de la tienda Vortex.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/vortex-catalogo/docs"
	"github.com/jhoicas/vortex-catalogo/internal/application/auth"
	"github.com/jhoicas/vortex-catalogo/internal/application/ports"
	"github.com/jhoicas/vortex-catalogo/internal/application/usecase"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/repository"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/cache"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/jsonstore"
	infrapdf "github.com/jhoicas/vortex-catalogo/internal/infrastructure/pdf"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/postgres"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/security"
	httpRouter "github.com/jhoicas/vortex-catalogo/internal/interfaces/http"
	"github.com/jhoicas/vortex-catalogo/pkg/config"
	"github.com/jhoicas/vortex-catalogo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var store repository.CatalogStore
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		docs := postgres.NewDocumentStore(pool)
		if err := docs.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("crear esquema")
		}
		store = docs
	default:
		files, err := jsonstore.New(cfg.Storage.DataDir)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Storage.DataDir).Msg("directorio de datos")
		}
		store = files
	}

	var viewCache ports.Cache
	switch cfg.Cache.Driver {
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Redis, cfg.Cache.TTL())
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rc.Close()
		viewCache = rc
	case config.CacheMemory:
		viewCache = cache.NewMemoryCache(cfg.Cache.TTL())
	}

	opts := []catalog.Option{
		catalog.WithStore(store),
		catalog.WithLogger(log.Component("catalog")),
	}
	if viewCache != nil {
		opts = append(opts, catalog.WithInvalidator(cache.NewInvalidator(viewCache)))
	}
	cat := catalog.New(security.NewBcryptHasher(cfg.Security.BcryptCost), opts...)
	if err := cat.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo")
	}
	if err := usecase.NewSeedUseCase(cat, cfg.Seed, log.Component("seed")).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("datos iniciales")
	}
	products, orders, users := cat.Counts()
	log.Info().Int("produtos", products).Int("pedidos", orders).Int("usuarios", users).Msg("catálogo cargado")

	jwtSecret := cfg.JWT.Secret
	if jwtSecret == "" {
		jwtSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET vacío: se generó uno aleatorio, las sesiones no sobreviven a un reinicio")
	}

	views := usecase.ViewCache{Cache: viewCache, TTL: cfg.Cache.TTL(), Log: log.Component("cache"), Generations: cat}
	productUC := usecase.NewProductUseCase(cat, views)
	orderUC := usecase.NewOrderUseCase(cat, infrapdf.NewReceiptGenerator("Vortex"), views)
	userUC := usecase.NewUserUseCase(cat, views)
	authUC := auth.NewAuthUseCase(cat, auth.JWTConfig{
		Secret:     jwtSecret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Security.ExposeResetToken, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Vortex Catálogo API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		OrderUC:   orderUC,
		UserUC:    userUC,
		AuthUC:    authUC,
		Counter:   cat,
		JWTSecret: jwtSecret,
		Log:       log.Component("http"),
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

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("generar JWT_SECRET: " + err.Error())
	}
	return hex.EncodeToString(b)
}
