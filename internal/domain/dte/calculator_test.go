package dte_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/pkg/mh"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(cantidad, precio, descuento string) dte.ItemDTE {
	return dte.ItemDTE{
		Cantidad:       d(cantidad),
		PrecioUnitario: d(precio),
		Descuento:      d(descuento),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de referencia del motor. Son los vectores exactos contra los que
// se verifica cualquier cambio en el cálculo: si alguien altera el redondeo,
// la tasa o la compuerta de retención, estos tests fallan de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

// Factura de consumidor final: 1 x 10.95 sin retención.
// ventasNetas=10.95, IVA=round(10.95*0.13)=1.42, montoTotal=12.37.
func TestCalcularDocumento_FacturaConsumidor(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "10.95", "0")},
		dte.Opciones{TipoDTE: mh.TipoFactura},
	)

	assert.True(t, r.VentasNetas.Equal(d("10.95")), "ventasNetas: %s", r.VentasNetas)
	assert.True(t, r.IVA.Equal(d("1.42")), "IVA: %s", r.IVA)
	assert.True(t, r.MontoTotal.Equal(d("12.37")), "montoTotal: %s", r.MontoTotal)
	assert.True(t, r.Retencion.IsZero(), "sin opt-in no hay retención")
}

// Factura con retención habilitada: 1 x 1000.
// IVA=130.00, retención=10% de ventasNetas=100.00, totalPagar=1130-100=1030.00.
func TestCalcularDocumento_FacturaConRetencion(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "1000", "0")},
		dte.Opciones{TipoDTE: mh.TipoFactura, AplicarRetencion: true},
	)

	assert.True(t, r.IVA.Equal(d("130.00")), "IVA: %s", r.IVA)
	assert.True(t, r.Retencion.Equal(d("100.00")), "retención: %s", r.Retencion)
	assert.True(t, r.TotalAPagar.Equal(d("1030.00")), "totalPagar: %s", r.TotalAPagar)
}

// Comprobante de retención: 1 x 100 con retención habilitada.
// El resumen emite totalSujetoRetencion/totalIVAretenido y nunca totalPagar.
func TestCalcularDocumento_ComprobanteRetencion(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "100", "0")},
		dte.Opciones{TipoDTE: mh.TipoComprobanteRet, AplicarRetencion: true},
	)

	require.Contains(t, r.Resumen, "totalSujetoRetencion")
	require.Contains(t, r.Resumen, "totalIVAretenido")
	assert.InDelta(t, 100.00, r.Resumen["totalSujetoRetencion"], 0.001)
	assert.InDelta(t, 10.00, r.Resumen["totalIVAretenido"], 0.001)
	assert.NotContains(t, r.Resumen, "totalPagar",
		"el comprobante de retención no define monto a pagar universal")
}

// La compuerta de retención exige opt-in Y base sobre el umbral: ambas.
func TestCalcularDocumento_RetencionBajoUmbral(t *testing.T) {
	// ventasNetas = 50 < umbral 100 del tipo 01: no procede aunque haya opt-in.
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "50", "0")},
		dte.Opciones{TipoDTE: mh.TipoFactura, AplicarRetencion: true},
	)
	assert.True(t, r.Retencion.IsZero(), "bajo el umbral no hay retención")

	// Sobre el umbral pero sin opt-in: tampoco.
	r = dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "500", "0")},
		dte.Opciones{TipoDTE: mh.TipoFactura, AplicarRetencion: false},
	)
	assert.True(t, r.Retencion.IsZero(), "sin opt-in no hay retención")
}

// Lista vacía: caso terminal definido, no error.
func TestCalcularDocumento_SinItems(t *testing.T) {
	r := dte.CalcularDocumento(nil, dte.Opciones{TipoDTE: mh.TipoFactura})

	assert.True(t, r.Subtotal.IsZero())
	assert.True(t, r.MontoTotal.IsZero())
	assert.Empty(t, r.Resumen)
	assert.Empty(t, r.Items)
}

// Descuentos por línea y descuento global se suman en Descuentos.
func TestCalcularDocumento_Descuentos(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("2", "25", "5")},
		dte.Opciones{TipoDTE: mh.TipoFactura, DescuentoGlobal: d("10")},
	)

	assert.True(t, r.Subtotal.Equal(d("50")), "subtotal: %s", r.Subtotal)
	assert.True(t, r.Descuentos.Equal(d("15")), "descuentos: %s", r.Descuentos)
	assert.True(t, r.VentasNetas.Equal(d("35")), "ventasNetas: %s", r.VentasNetas)
}

// Ítem marcado exento: todo el neto va a exenta, sin IVA de línea.
func TestCalcularItem_Exento(t *testing.T) {
	regla := dte.ReglasPara(mh.TipoFactura)
	it := item("1", "20", "0")
	it.Exento = true

	calc := dte.CalcularItem(it, regla)
	assert.True(t, calc.Exenta.Equal(d("20")))
	assert.True(t, calc.Gravada.IsZero())
	assert.True(t, calc.IVAItem.IsZero())
}

// Un neto negativo se propaga sin error; lo rechaza el validador de cálculo.
func TestCalcularItem_NetoNegativoSePropaga(t *testing.T) {
	regla := dte.ReglasPara(mh.TipoFactura)
	calc := dte.CalcularItem(item("1", "10", "15"), regla)
	assert.True(t, calc.Gravada.Equal(d("-5")), "gravada: %s", calc.Gravada)
}

// Exportación: IVA no aplica, el neto completo es exento/no gravado.
func TestCalcularDocumento_ExportacionSinIVA(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "250", "0")},
		dte.Opciones{TipoDTE: mh.TipoFacturaExportacion},
	)

	assert.True(t, r.IVA.IsZero(), "exportaciones no trasladan IVA")
	assert.True(t, r.TotalExenta.Equal(d("250")))
	assert.True(t, r.MontoTotal.Equal(d("250")))
}

// Propiedad de aditividad: ventasNetas + IVA == montoTotal (±0.01) para todo
// tipo cuyo IVA aplica, con listas de ítems arbitrarias.
func TestCalcularDocumento_Aditividad(t *testing.T) {
	listas := [][]dte.ItemDTE{
		{item("1", "10.95", "0")},
		{item("3", "7.33", "1.11"), item("2", "0.99", "0")},
		{item("10", "123.456", "0"), item("1", "0.01", "0"), item("7", "9.99", "3.50")},
	}
	for _, regla := range dte.TiposRegistrados() {
		if !regla.IVA.Aplica {
			continue
		}
		for i, items := range listas {
			r := dte.CalcularDocumento(items, dte.Opciones{TipoDTE: regla.Codigo})
			diff := r.VentasNetas.Add(r.IVA).Sub(r.MontoTotal).Abs()
			assert.True(t, diff.LessThanOrEqual(d("0.01")),
				"tipo %s lista %d: ventasNetas+IVA=%s, montoTotal=%s",
				regla.Codigo, i, r.VentasNetas.Add(r.IVA), r.MontoTotal)
		}
	}
}

// Propiedad de exclusividad de campos: las claves del resumen emitido son
// exactamente los campos requeridos del tipo y nunca incluyen los prohibidos.
func TestCalcularDocumento_ExclusividadDeCampos(t *testing.T) {
	items := []dte.ItemDTE{item("2", "75.50", "0.50")}
	for _, regla := range dte.TiposRegistrados() {
		r := dte.CalcularDocumento(items, dte.Opciones{
			TipoDTE:          regla.Codigo,
			AplicarRetencion: true,
		})

		assert.Len(t, r.Resumen, len(regla.CamposRequeridos),
			"tipo %s: número de claves del resumen", regla.Codigo)
		for campo := range regla.CamposRequeridos {
			assert.Contains(t, r.Resumen, campo, "tipo %s: falta %s", regla.Codigo, campo)
		}
		for campo := range regla.CamposProhibidos {
			assert.NotContains(t, r.Resumen, campo,
				"tipo %s: emite el campo prohibido %s", regla.Codigo, campo)
		}
	}
}
