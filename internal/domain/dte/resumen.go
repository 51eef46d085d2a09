package dte

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dte-engine/pkg/mh"
	"github.com/tu-usuario/dte-engine/pkg/money"
)

// proyectorResumen emite los campos de resumen propios de un tipo de DTE a
// partir de los totales calculados. Cada tipo tiene una forma de salida
// distinta; la tabla cerrada de abajo es la única fuente de esa dispersión,
// de modo que agregar un tipo sea una registración y no editar N llamadores.
type proyectorResumen func(r *ResultadoCalculo) map[string]any

func fl(d decimal.Decimal) float64 { return money.Float(d) }

var proyectoresPorTipo = map[string]proyectorResumen{
	mh.TipoFactura: func(r *ResultadoCalculo) map[string]any {
		return map[string]any{
			"totalGravada":        fl(r.TotalGravada),
			"totalExenta":         fl(r.TotalExenta),
			"totalIva":            fl(r.IVA),
			"ivaRete1":            fl(r.Retencion),
			"subTotal":            fl(r.VentasNetas),
			"montoTotalOperacion": fl(r.MontoTotal),
			"totalPagar":          fl(r.TotalAPagar),
		}
	},
	mh.TipoCCF: func(r *ResultadoCalculo) map[string]any {
		// En el CCF el IVA viaja como línea de tributo, no como totalIva.
		return map[string]any{
			"totalGravada":        fl(r.TotalGravada),
			"totalExenta":         fl(r.TotalExenta),
			"subTotal":            fl(r.VentasNetas),
			"ivaRete1":            fl(r.Retencion),
			"montoTotalOperacion": fl(r.MontoTotal),
			"totalPagar":          fl(r.TotalAPagar),
		}
	},
	mh.TipoNotaRemision: func(r *ResultadoCalculo) map[string]any {
		// La nota de remisión ampara traslado de bienes: no hay monto a pagar.
		return map[string]any{
			"totalGravada":        fl(r.TotalGravada),
			"totalExenta":         fl(r.TotalExenta),
			"subTotal":            fl(r.VentasNetas),
			"montoTotalOperacion": fl(r.MontoTotal),
		}
	},
	mh.TipoComprobanteRet: func(r *ResultadoCalculo) map[string]any {
		// El comprobante de retención no tiene totalPagar: el monto operable es
		// la retención misma. Los llamadores leen totalIVAretenido del resumen.
		return map[string]any{
			"totalSujetoRetencion": fl(r.VentasNetas),
			"totalIVAretenido":     fl(r.Retencion),
		}
	},
	mh.TipoComprobanteLiq: func(r *ResultadoCalculo) map[string]any {
		return map[string]any{
			"totalGravada":        fl(r.TotalGravada),
			"totalExenta":         fl(r.TotalExenta),
			"subTotal":            fl(r.VentasNetas),
			"totalIva":            fl(r.IVA),
			"montoTotalOperacion": fl(r.MontoTotal),
		}
	},
	mh.TipoDocContableLiq: func(r *ResultadoCalculo) map[string]any {
		return map[string]any{
			"totalGravada":        fl(r.TotalGravada),
			"subTotal":            fl(r.VentasNetas),
			"totalIva":            fl(r.IVA),
			"ivaPerci1":           fl(r.IVA),
			"montoTotalOperacion": fl(r.MontoTotal),
			"totalPagar":          fl(r.TotalAPagar),
		}
	},
	mh.TipoFacturaExportacion: func(r *ResultadoCalculo) map[string]any {
		return map[string]any{
			"totalGravada":        fl(r.TotalGravada),
			"totalNoGravado":      fl(r.TotalExenta),
			"montoTotalOperacion": fl(r.MontoTotal),
			"totalPagar":          fl(r.TotalAPagar),
		}
	},
	mh.TipoFacturaSujetoExcl: func(r *ResultadoCalculo) map[string]any {
		return map[string]any{
			"totalCompra": fl(r.Subtotal),
			"subTotal":    fl(r.VentasNetas),
			"reteRenta":   fl(r.Retencion),
			"totalPagar":  fl(r.TotalAPagar),
		}
	},
	mh.TipoComprobanteDon: func(r *ResultadoCalculo) map[string]any {
		return map[string]any{
			"valorTotal":    fl(r.MontoTotal),
			"totalDonacion": fl(r.MontoTotal),
		}
	},
}

func init() {
	// Notas de crédito y débito comparten la forma de resumen del CCF al que
	// ajustan.
	proyectoresPorTipo[mh.TipoNotaCredito] = proyectoresPorTipo[mh.TipoCCF]
	proyectoresPorTipo[mh.TipoNotaDebito] = proyectoresPorTipo[mh.TipoCCF]
}

// proyectarResumen despacha al proyector del tipo. La tabla cubre todos los
// tipos registrados en reglasPorTipo; un tipo sin proyector produce resumen
// vacío (solo alcanzable si se registra una regla sin registrar su proyector).
func proyectarResumen(regla ReglaTipo, r *ResultadoCalculo) map[string]any {
	proyectar, ok := proyectoresPorTipo[regla.Codigo]
	if !ok {
		return map[string]any{}
	}
	return proyectar(r)
}
