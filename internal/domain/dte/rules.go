// Package dte implementa el motor de cálculo tributario multi-tipo para
// Documentos Tributarios Electrónicos de El Salvador: reglas por tipo,
// cálculo por ítem y por documento, proyección del resumen y tributos.
package dte

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dte-engine/internal/domain"
	"github.com/tu-usuario/dte-engine/pkg/mh"
)

// ReglaIVA indica si el tipo de documento grava IVA y a qué tasa.
type ReglaIVA struct {
	Aplica bool
	Tasa   decimal.Decimal
}

// ReglaRetencion indica si el tipo admite retención, la tasa y el umbral
// mínimo que la base debe superar para que la retención proceda.
type ReglaRetencion struct {
	Aplica       bool
	Tasa         decimal.Decimal
	UmbralMinimo decimal.Decimal
}

// ReglaTipo agrupa las reglas fiscales de un tipo de DTE. Es data pura e
// inmutable: se consulta por código y nunca se modifica en runtime.
type ReglaTipo struct {
	Codigo string
	Nombre string

	IVA       ReglaIVA
	Retencion ReglaRetencion

	// MontoMinimoDocumento: monto total mínimo para que el documento sea válido.
	// Para comprobantes de retención el validador compara la retención retenida,
	// no el total del documento.
	MontoMinimoDocumento decimal.Decimal

	// CamposRequeridos son exactamente las claves que el proyector de resumen
	// emite para este tipo. CamposProhibidos nunca deben aparecer en la salida.
	CamposRequeridos map[string]bool
	CamposProhibidos map[string]bool

	// TienePagoUniversal indica si el tipo define totalPagar como monto a pagar
	// universal. Los comprobantes de retención y liquidación no lo tienen: el
	// monto relevante vive en el resumen (totalIVAretenido).
	TienePagoUniversal bool

	// BaseRetencionIVA: la compuerta de retención se evalúa contra el IVA
	// calculado en lugar de las ventas netas (comprobantes de retención).
	BaseRetencionIVA bool
}

var (
	tasaIVA       = decimal.RequireFromString("0.13")
	tasaRetencion = decimal.RequireFromString("0.10")

	umbralRetencion = decimal.RequireFromString("100.00")
	umbralMinimoRet = decimal.RequireFromString("1.00")
	centavo         = decimal.RequireFromString("0.01")
	minExportacion  = decimal.RequireFromString("100.00")
)

func set(campos ...string) map[string]bool {
	m := make(map[string]bool, len(campos))
	for _, c := range campos {
		m[c] = true
	}
	return m
}

// reglasPorTipo es la tabla cerrada de reglas por tipo de DTE. Agregar un tipo
// nuevo es registrar una entrada aquí y su proyector en resumen.go; ningún otro
// punto del motor se edita.
var reglasPorTipo = map[string]ReglaTipo{
	mh.TipoFactura: {
		Codigo:               mh.TipoFactura,
		Nombre:               "Factura",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{Aplica: true, Tasa: tasaRetencion, UmbralMinimo: umbralRetencion},
		MontoMinimoDocumento: centavo,
		CamposRequeridos: set("totalGravada", "totalExenta", "totalIva", "ivaRete1",
			"subTotal", "montoTotalOperacion", "totalPagar"),
		CamposProhibidos:   set("totalSujetoRetencion", "totalIVAretenido", "totalCompra", "totalDonacion"),
		TienePagoUniversal: true,
	},
	mh.TipoCCF: {
		Codigo:               mh.TipoCCF,
		Nombre:               "Comprobante de Crédito Fiscal",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{Aplica: true, Tasa: tasaRetencion, UmbralMinimo: umbralRetencion},
		MontoMinimoDocumento: centavo,
		CamposRequeridos: set("totalGravada", "totalExenta", "subTotal", "ivaRete1",
			"montoTotalOperacion", "totalPagar"),
		CamposProhibidos:   set("totalSujetoRetencion", "totalIVAretenido", "totalCompra", "totalDonacion"),
		TienePagoUniversal: true,
	},
	mh.TipoNotaRemision: {
		Codigo:               mh.TipoNotaRemision,
		Nombre:               "Nota de Remisión",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{},
		MontoMinimoDocumento: decimal.Zero,
		CamposRequeridos:     set("totalGravada", "totalExenta", "subTotal", "montoTotalOperacion"),
		CamposProhibidos:     set("totalPagar", "totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal:   false,
	},
	mh.TipoNotaCredito: {
		Codigo:               mh.TipoNotaCredito,
		Nombre:               "Nota de Crédito",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{Aplica: true, Tasa: tasaRetencion, UmbralMinimo: umbralRetencion},
		MontoMinimoDocumento: centavo,
		CamposRequeridos: set("totalGravada", "totalExenta", "subTotal", "ivaRete1",
			"montoTotalOperacion", "totalPagar"),
		CamposProhibidos:   set("totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal: true,
	},
	mh.TipoNotaDebito: {
		Codigo:               mh.TipoNotaDebito,
		Nombre:               "Nota de Débito",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{Aplica: true, Tasa: tasaRetencion, UmbralMinimo: umbralRetencion},
		MontoMinimoDocumento: centavo,
		CamposRequeridos: set("totalGravada", "totalExenta", "subTotal", "ivaRete1",
			"montoTotalOperacion", "totalPagar"),
		CamposProhibidos:   set("totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal: true,
	},
	mh.TipoComprobanteRet: {
		Codigo: mh.TipoComprobanteRet,
		Nombre: "Comprobante de Retención",
		// El IVA se calcula porque es la base de la compuerta de retención,
		// pero no se emite como totalIva en el resumen.
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{Aplica: true, Tasa: tasaRetencion, UmbralMinimo: umbralMinimoRet},
		MontoMinimoDocumento: umbralMinimoRet,
		CamposRequeridos:     set("totalSujetoRetencion", "totalIVAretenido"),
		CamposProhibidos:     set("totalPagar", "totalGravada", "totalIva", "montoTotalOperacion"),
		TienePagoUniversal:   false,
		BaseRetencionIVA:     true,
	},
	mh.TipoComprobanteLiq: {
		Codigo:               mh.TipoComprobanteLiq,
		Nombre:               "Comprobante de Liquidación",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{},
		MontoMinimoDocumento: centavo,
		CamposRequeridos:     set("totalGravada", "totalExenta", "subTotal", "totalIva", "montoTotalOperacion"),
		CamposProhibidos:     set("totalPagar", "totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal:   false,
	},
	mh.TipoDocContableLiq: {
		Codigo:               mh.TipoDocContableLiq,
		Nombre:               "Documento Contable de Liquidación",
		IVA:                  ReglaIVA{Aplica: true, Tasa: tasaIVA},
		Retencion:            ReglaRetencion{},
		MontoMinimoDocumento: centavo,
		CamposRequeridos:     set("totalGravada", "subTotal", "totalIva", "ivaPerci1", "montoTotalOperacion", "totalPagar"),
		CamposProhibidos:     set("totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal:   true,
	},
	mh.TipoFacturaExportacion: {
		Codigo:               mh.TipoFacturaExportacion,
		Nombre:               "Factura de Exportación",
		IVA:                  ReglaIVA{}, // exportaciones gravadas con tasa 0%
		Retencion:            ReglaRetencion{},
		MontoMinimoDocumento: minExportacion,
		CamposRequeridos:     set("totalGravada", "totalNoGravado", "montoTotalOperacion", "totalPagar"),
		CamposProhibidos:     set("totalIva", "ivaRete1", "totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal:   true,
	},
	mh.TipoFacturaSujetoExcl: {
		Codigo:               mh.TipoFacturaSujetoExcl,
		Nombre:               "Factura de Sujeto Excluido",
		IVA:                  ReglaIVA{}, // sujetos excluidos no trasladan IVA
		Retencion:            ReglaRetencion{Aplica: true, Tasa: tasaRetencion, UmbralMinimo: umbralRetencion},
		MontoMinimoDocumento: centavo,
		CamposRequeridos:     set("totalCompra", "subTotal", "reteRenta", "totalPagar"),
		CamposProhibidos:     set("totalGravada", "totalIva", "totalSujetoRetencion", "totalIVAretenido"),
		TienePagoUniversal:   true,
	},
	mh.TipoComprobanteDon: {
		Codigo:               mh.TipoComprobanteDon,
		Nombre:               "Comprobante de Donación",
		IVA:                  ReglaIVA{}, // donaciones no gravadas
		Retencion:            ReglaRetencion{},
		MontoMinimoDocumento: decimal.Zero,
		CamposRequeridos:     set("valorTotal", "totalDonacion"),
		CamposProhibidos:     set("totalPagar", "totalGravada", "totalIva"),
		TienePagoUniversal:   false,
	},
}

// ReglasPara devuelve las reglas del tipo de DTE. Nunca falla: un código
// desconocido resuelve a las reglas de Factura ("01"). Este fallback es
// comportamiento documentado del motor de cálculo; la ruta de validación usa
// ReglasEstrictas para no enmascarar errores de digitación del código.
func ReglasPara(tipoDTE string) ReglaTipo {
	if regla, ok := reglasPorTipo[tipoDTE]; ok {
		return regla
	}
	return reglasPorTipo[mh.TipoFactura]
}

// ReglasEstrictas devuelve las reglas del tipo o ErrConfiguracion si el código
// no está registrado. Es la resolución que usan los validadores: validar contra
// las reglas de otro tipo es peor que fallar.
func ReglasEstrictas(tipoDTE string) (ReglaTipo, error) {
	regla, ok := reglasPorTipo[tipoDTE]
	if !ok {
		return ReglaTipo{}, fmt.Errorf("%w: tipo de DTE %q", domain.ErrConfiguracion, tipoDTE)
	}
	return regla, nil
}

// TiposRegistrados devuelve los códigos de tipo registrados (para catálogos).
func TiposRegistrados() []ReglaTipo {
	out := make([]ReglaTipo, 0, len(reglasPorTipo))
	for _, codigo := range []string{
		mh.TipoFactura, mh.TipoCCF, mh.TipoNotaRemision, mh.TipoNotaCredito,
		mh.TipoNotaDebito, mh.TipoComprobanteRet, mh.TipoComprobanteLiq,
		mh.TipoDocContableLiq, mh.TipoFacturaExportacion,
		mh.TipoFacturaSujetoExcl, mh.TipoComprobanteDon,
	} {
		out = append(out, reglasPorTipo[codigo])
	}
	return out
}
