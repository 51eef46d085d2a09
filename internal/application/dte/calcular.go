package dte

import (
	"fmt"

	"github.com/tu-usuario/dte-engine/internal/application/dto"
	"github.com/tu-usuario/dte-engine/internal/domain"
	domdte "github.com/tu-usuario/dte-engine/internal/domain/dte"
)

// CalcularUseCase calcula los totales de un documento sin persistir nada.
// Es el camino rápido para previsualizar montos desde el punto de venta.
type CalcularUseCase struct{}

// NewCalcularUseCase construye el caso de uso.
func NewCalcularUseCase() *CalcularUseCase {
	return &CalcularUseCase{}
}

// Ejecutar calcula los totales del documento. Un tipo de DTE no registrado
// resuelve a las reglas de Factura; una lista de ítems vacía es entrada
// inválida a nivel de API aunque el motor la defina como resultado en ceros.
func (uc *CalcularUseCase) Ejecutar(req dto.CalcularRequest) (*dto.CalcularResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: el documento no tiene ítems", domain.ErrEntradaInvalida)
	}

	resultado := domdte.CalcularDocumento(itemsDesdeRequest(req.Items), domdte.Opciones{
		TipoDTE:          req.TipoDTE,
		DescuentoGlobal:  req.DescuentoGlobal,
		AplicarRetencion: req.AplicarRetencion,
	})
	resultado.Tributos = domdte.GenerarTributos(&resultado)
	return dto.NuevaCalcularResponse(&resultado), nil
}

func itemsDesdeRequest(items []dto.ItemRequest) []domdte.ItemDTE {
	out := make([]domdte.ItemDTE, 0, len(items))
	for _, it := range items {
		out = append(out, domdte.ItemDTE{
			Descripcion:    it.Descripcion,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUni,
			Descuento:      it.MontoDescu,
			Exento:         it.Exento,
		})
	}
	return out
}
