package dte

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/dte-engine/internal/application/dto"
	"github.com/tu-usuario/dte-engine/internal/domain"
	domdte "github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/internal/domain/validation"
)

// ValidarUseCase ejecuta las tres etapas de validación sobre un documento ya
// armado y consolida el reporte. No persiste ni transmite nada.
type ValidarUseCase struct {
	schemas SchemaResolver
}

// NewValidarUseCase construye el caso de uso con el resolvedor de schemas.
func NewValidarUseCase(schemas SchemaResolver) *ValidarUseCase {
	return &ValidarUseCase{schemas: schemas}
}

// Ejecutar valida el documento: consistencia de cálculo, contrato estructural
// y reglas de negocio. A diferencia del cálculo, aquí el tipo de DTE se
// resuelve estricto: validar contra reglas de otro tipo enmascara errores.
func (uc *ValidarUseCase) Ejecutar(req dto.ValidarRequest) (*validation.ReporteGlobal, error) {
	if req.Documento == nil {
		return nil, fmt.Errorf("%w: documento ausente", domain.ErrEntradaInvalida)
	}

	tipo := req.TipoDTE
	if tipo == "" {
		tipo = tipoDesdeDocumento(req.Documento)
	}
	regla, err := domdte.ReglasEstrictas(tipo)
	if err != nil {
		return nil, err
	}
	schema, nombreSchema, err := uc.schemas.Obtener(tipo)
	if err != nil {
		return nil, err
	}

	items := itemsDesdeRequest(req.Items)
	aplicarRetencion := req.AplicarRetencion
	if len(items) == 0 {
		items = itemsDesdeCuerpo(req.Documento)
		aplicarRetencion = aplicarRetencion || documentoDeclaraRetencion(req.Documento)
	}
	resultado := domdte.CalcularDocumento(items, domdte.Opciones{
		TipoDTE:          tipo,
		DescuentoGlobal:  req.DescuentoGlobal,
		AplicarRetencion: aplicarRetencion,
	})

	calculo := validation.ValidarCalculo(&resultado, regla)
	estructura := validation.NuevoReporte(nombreSchema, validation.ValidarSchema(req.Documento, schema))
	negocio := validation.NuevoReporte("", validation.ValidarNegocio(req.Documento))

	global := validation.Consolidar(calculo, estructura, negocio)
	return &global, nil
}

func tipoDesdeDocumento(doc map[string]any) string {
	identificacion, _ := doc["identificacion"].(map[string]any)
	if identificacion == nil {
		return ""
	}
	tipo, _ := identificacion["tipoDte"].(string)
	return tipo
}

// itemsDesdeCuerpo reconstruye las líneas a partir del cuerpoDocumento para
// recalcular los totales. Las líneas de comprobante de retención traen el
// monto sujeto en vez de cantidad y precio; se normalizan a 1 x monto.
func itemsDesdeCuerpo(doc map[string]any) []domdte.ItemDTE {
	cuerpo, _ := doc["cuerpoDocumento"].([]any)
	items := make([]domdte.ItemDTE, 0, len(cuerpo))
	for _, elem := range cuerpo {
		linea, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		descripcion, _ := linea["descripcion"].(string)

		if monto, ok := numeroDe(linea, "montoSujetoGrav"); ok {
			items = append(items, domdte.ItemDTE{
				Descripcion:    descripcion,
				Cantidad:       decimal.NewFromInt(1),
				PrecioUnitario: decimal.NewFromFloat(monto),
			})
			continue
		}

		cantidad, _ := numeroDe(linea, "cantidad")
		precio, _ := numeroDe(linea, "precioUni")
		descuento, _ := numeroDe(linea, "montoDescu")
		gravada, _ := numeroDe(linea, "ventaGravada")
		exenta, _ := numeroDe(linea, "ventaExenta")
		items = append(items, domdte.ItemDTE{
			Descripcion:    descripcion,
			Cantidad:       decimal.NewFromFloat(cantidad),
			PrecioUnitario: decimal.NewFromFloat(precio),
			Descuento:      decimal.NewFromFloat(descuento),
			Exento:         gravada == 0 && exenta > 0,
		})
	}
	return items
}

// documentoDeclaraRetencion detecta si el resumen trae montos retenidos, para
// recalcular con la retención habilitada.
func documentoDeclaraRetencion(doc map[string]any) bool {
	resumen, _ := doc["resumen"].(map[string]any)
	for _, campo := range []string{"ivaRete1", "totalIVAretenido", "reteRenta"} {
		if v, ok := numeroDe(resumen, campo); ok && v > 0 {
			return true
		}
	}
	return false
}

func numeroDe(m map[string]any, clave string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[clave].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
