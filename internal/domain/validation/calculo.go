package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/pkg/money"
)

// ValidarCalculo verifica la consistencia interna de un resultado de cálculo
// contra las reglas de su tipo. Las fallas se acumulan, no se corta en la
// primera: una sola llamada reporta todos los problemas.
func ValidarCalculo(r *dte.ResultadoCalculo, regla dte.ReglaTipo) ReporteValidacion {
	var incidencias []Incidencia

	errorEn := func(ruta, formato string, args ...any) {
		incidencias = append(incidencias, Incidencia{
			Ruta:      ruta,
			Mensaje:   fmt.Sprintf(formato, args...),
			Severidad: SeveridadError,
		})
	}

	if r.Subtotal.IsNegative() {
		errorEn("subtotal", "el subtotal no puede ser negativo: %s", r.Subtotal)
	}
	if r.IVA.IsNegative() {
		errorEn("iva", "el IVA no puede ser negativo: %s", r.IVA)
	}

	// Monto mínimo: los comprobantes de retención validan el monto retenido
	// contra el mínimo; el resto de tipos valida el total del documento. Esta
	// separación es deliberada y no debe unificarse.
	if regla.BaseRetencionIVA {
		if r.Retencion.LessThan(regla.MontoMinimoDocumento) {
			errorEn("retencion", "la retención %s es menor al mínimo %s del tipo %s",
				r.Retencion.StringFixed(2), regla.MontoMinimoDocumento.StringFixed(2), regla.Codigo)
		}
	} else if r.MontoTotal.LessThan(regla.MontoMinimoDocumento) {
		errorEn("montoTotal", "el monto total %s es menor al mínimo %s del tipo %s",
			r.MontoTotal.StringFixed(2), regla.MontoMinimoDocumento.StringFixed(2), regla.Codigo)
	}

	// Rederivación aritmética del IVA con tolerancia de un centavo.
	if regla.IVA.Aplica {
		esperado := money.Round2(r.TotalGravada.Mul(regla.IVA.Tasa))
		if !money.IgualesConTolerancia(r.IVA, esperado) {
			errorEn("iva", "IVA declarado %s no coincide con round(gravada*tasa)=%s",
				r.IVA.StringFixed(2), esperado.StringFixed(2))
		}
	} else if r.IVA.GreaterThan(decimal.Zero) {
		errorEn("iva", "el tipo %s no grava IVA pero el resultado declara %s",
			regla.Codigo, r.IVA.StringFixed(2))
	}

	// Campos del resumen: los requeridos del tipo deben estar, los prohibidos no.
	for campo := range regla.CamposRequeridos {
		if _, ok := r.Resumen[campo]; !ok {
			errorEn("resumen."+campo, "falta el campo requerido %q para el tipo %s", campo, regla.Codigo)
		}
	}
	for campo := range regla.CamposProhibidos {
		if _, ok := r.Resumen[campo]; ok {
			errorEn("resumen."+campo, "el campo %q está prohibido para el tipo %s", campo, regla.Codigo)
		}
	}

	return NuevoReporte("calculo/"+regla.Codigo, incidencias)
}
