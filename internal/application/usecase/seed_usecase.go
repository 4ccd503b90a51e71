package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/pkg/config"
)

// DefaultProducts productos de demostración para un catálogo vacío.
var DefaultProducts = []catalog.ProductInput{
	{Name: "Smartphone XYZ", Description: "Smartphone de última geração", Price: decimal.RequireFromString("1999.99"), Stock: 10},
	{Name: "Notebook ABC", Description: "Notebook para trabalho e jogos", Price: decimal.RequireFromString("3999.99"), Stock: 5},
	{Name: "Tablet Pro", Description: "Tablet com caneta digital", Price: decimal.RequireFromString("2499.99"), Stock: 18},
}

// SeedUseCase carga los datos iniciales: productos de demostración y el gerente administrador.
type SeedUseCase struct {
	catalog SeedCatalog
	cfg     config.SeedConfig
	log     zerolog.Logger
}

// NewSeedUseCase construye el caso de uso.
func NewSeedUseCase(c SeedCatalog, cfg config.SeedConfig, log zerolog.Logger) *SeedUseCase {
	return &SeedUseCase{catalog: c, cfg: cfg, log: log}
}

// Run crea los productos si no hay ninguno y el gerente si no hay usuarios. Es idempotente.
func (uc *SeedUseCase) Run(ctx context.Context) error {
	if !uc.cfg.Enabled {
		return nil
	}
	if len(uc.catalog.Products()) == 0 {
		for _, in := range DefaultProducts {
			if _, err := uc.catalog.CreateProduct(ctx, in); err != nil {
				return fmt.Errorf("seed producto %s: %w", in.Name, err)
			}
		}
		uc.log.Info().Int("productos", len(DefaultProducts)).Msg("productos de demostración creados")
	}

	u, created, err := uc.catalog.EnsureManager(ctx, catalog.UserInput{
		Name:     uc.cfg.AdminName,
		Email:    uc.cfg.AdminEmail,
		Phone:    uc.cfg.AdminPhone,
		Password: uc.cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("seed administrador: %w", err)
	}
	if created {
		uc.log.Warn().Str("user_id", u.ID).Str("email", u.Email).Msg("usuario administrador creado; cambie la contraseña")
	}
	return nil
}
