// Package http expone el motor por HTTP con Fiber: handlers, middleware de
// autenticación y registro de rutas.
package http

import (
	"github.com/gofiber/fiber/v2"

	appdte "github.com/tu-usuario/dte-engine/internal/application/dte"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CalcularUC  *appdte.CalcularUseCase
	ValidarUC   *appdte.ValidarUseCase
	EmitirUC    *appdte.EmitirUseCase
	ConsultarUC *appdte.ConsultarUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogos (público)
	catalogos := api.Group("/catalogos")
	catalogoHandler := NewCatalogoHandler(deps.ConsultarUC)
	catalogos.Get("/tipos-dte", catalogoHandler.TiposDTE)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	dteGroup := protected.Group("/dte")
	dteHandler := NewDTEHandler(deps.CalcularUC, deps.ValidarUC, deps.EmitirUC, deps.ConsultarUC)
	dteGroup.Post("/calcular", dteHandler.Calcular)
	dteGroup.Post("/validar", dteHandler.Validar)
	dteGroup.Post("/emitir", dteHandler.Emitir)
	dteGroup.Get("/", dteHandler.List)
	dteGroup.Get("/:id", dteHandler.GetByID)
	dteGroup.Get("/:id/estado", dteHandler.Estado)
}
