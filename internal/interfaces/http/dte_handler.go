package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	appdte "github.com/tu-usuario/dte-engine/internal/application/dte"
	"github.com/tu-usuario/dte-engine/internal/application/dto"
	"github.com/tu-usuario/dte-engine/internal/domain"
)

// DTEHandler maneja las peticiones HTTP del motor de DTE (protegido).
type DTEHandler struct {
	calcular  *appdte.CalcularUseCase
	validar   *appdte.ValidarUseCase
	emitir    *appdte.EmitirUseCase
	consultar *appdte.ConsultarUseCase
}

// NewDTEHandler construye el handler.
func NewDTEHandler(
	calcular *appdte.CalcularUseCase,
	validar *appdte.ValidarUseCase,
	emitir *appdte.EmitirUseCase,
	consultar *appdte.ConsultarUseCase,
) *DTEHandler {
	return &DTEHandler{calcular: calcular, validar: validar, emitir: emitir, consultar: consultar}
}

// Calcular calcula los totales de un documento sin persistir.
// POST /api/dte/calcular
func (h *DTEHandler) Calcular(c *fiber.Ctx) error {
	var in dto.CalcularRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.calcular.Ejecutar(in)
	if err != nil {
		return errorAHTTP(c, err)
	}
	return c.JSON(resp)
}

// Validar ejecuta las tres etapas de validación y devuelve el reporte.
// POST /api/dte/validar
func (h *DTEHandler) Validar(c *fiber.Ctx) error {
	var in dto.ValidarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	reporte, err := h.validar.Ejecutar(in)
	if err != nil {
		return errorAHTTP(c, err)
	}
	return c.JSON(reporte)
}

// Emitir calcula, valida, firma y transmite un documento.
// POST /api/dte/emitir
func (h *DTEHandler) Emitir(c *fiber.Ctx) error {
	var in dto.EmitirRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// El NIT del token manda sobre el del body: un emisor no firma por otro.
	if nit := GetEmisorNIT(c); nit != "" {
		in.Emisor.NIT = nit
	}
	resp, err := h.emitir.Ejecutar(c.Context(), in)
	if err != nil {
		return errorAHTTP(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID obtiene un documento emitido por su ID.
// GET /api/dte/:id
func (h *DTEHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.consultar.ObtenerPorID(id)
	if err != nil {
		return errorAHTTP(c, err)
	}
	return c.JSON(resp)
}

// Estado devuelve el estado de procesamiento (consulta ligera para polling).
// GET /api/dte/:id/estado
func (h *DTEHandler) Estado(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.consultar.Estado(id)
	if err != nil {
		return errorAHTTP(c, err)
	}
	return c.JSON(resp)
}

// List lista las emisiones más recientes.
// GET /api/dte
func (h *DTEHandler) List(c *fiber.Ctx) error {
	limite := c.QueryInt("limite", 100)
	resp, err := h.consultar.Listar(limite)
	if err != nil {
		return errorAHTTP(c, err)
	}
	return c.JSON(resp)
}

// errorAHTTP traduce errores de dominio a códigos HTTP.
func errorAHTTP(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntradaInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNoEncontrado):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConfiguracion):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNSUPPORTED_TYPE", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
