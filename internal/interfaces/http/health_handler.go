package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
)

// Counter cantidades actuales del catálogo.
type Counter interface {
	Counts() (products, orders, users int)
}

// Health godoc
// @Summary      Estado del servicio
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Router       /health [get]
func Health(counter Counter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		products, orders, users := counter.Counts()
		return c.JSON(dto.HealthResponse{Status: "ok", Products: products, Orders: orders, Users: users})
	}
}
