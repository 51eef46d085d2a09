package http

import (
	"github.com/gofiber/fiber/v2"

	appdte "github.com/tu-usuario/dte-engine/internal/application/dte"
)

// CatalogoHandler expone los catálogos del motor (público).
type CatalogoHandler struct {
	consultar *appdte.ConsultarUseCase
}

func NewCatalogoHandler(consultar *appdte.ConsultarUseCase) *CatalogoHandler {
	return &CatalogoHandler{consultar: consultar}
}

// TiposDTE lista los tipos de documento soportados y sus reglas visibles.
// GET /api/catalogos/tipos-dte
func (h *CatalogoHandler) TiposDTE(c *fiber.Ctx) error {
	return c.JSON(h.consultar.TiposDTE())
}
