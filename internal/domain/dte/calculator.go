package dte

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dte-engine/pkg/money"
)

// ItemDTE es una línea de detalle tal como la entrega el llamador. El motor
// nunca la muta: todo resultado derivado es una copia.
type ItemDTE struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	Descuento      decimal.Decimal
	Exento         bool
}

// ItemCalculado es la línea con sus montos derivados (gravada/exenta, IVA).
type ItemCalculado struct {
	ItemDTE
	Gravada decimal.Decimal
	Exenta  decimal.Decimal
	IVAItem decimal.Decimal
	Total   decimal.Decimal
}

// Opciones controla el cálculo de un documento completo.
type Opciones struct {
	TipoDTE          string
	DescuentoGlobal  decimal.Decimal
	AplicarRetencion bool
}

// ResultadoCalculo es el resultado completo del cálculo de un documento.
// Se produce fresco en cada recálculo y nunca se parcha en sitio: el llamador
// reemplaza el resultado anterior para no arrastrar estado parcial.
type ResultadoCalculo struct {
	TipoDTE      string
	Subtotal     decimal.Decimal
	Descuentos   decimal.Decimal
	VentasNetas  decimal.Decimal
	TotalGravada decimal.Decimal
	TotalExenta  decimal.Decimal
	IVA          decimal.Decimal
	Retencion    decimal.Decimal
	MontoTotal   decimal.Decimal
	TotalAPagar  decimal.Decimal
	Items        []ItemCalculado
	Resumen      map[string]any
	Tributos     []Tributo
}

// CalcularItem calcula el desglose gravado/exento y el IVA de una línea.
// El redondeo a 2 decimales ocurre en cada paso monetario. Un neto cero o
// negativo se propaga tal cual: la validación aguas arriba es quien rechaza
// totales negativos, no esta función.
func CalcularItem(item ItemDTE, regla ReglaTipo) ItemCalculado {
	neto := money.Round2(money.Round2(item.Cantidad.Mul(item.PrecioUnitario)).Sub(item.Descuento))

	calc := ItemCalculado{ItemDTE: item}
	if !regla.IVA.Aplica || item.Exento {
		calc.Exenta = neto
	} else {
		calc.Gravada = neto
		calc.IVAItem = money.Round2(neto.Mul(regla.IVA.Tasa))
	}
	calc.Total = money.Round2(calc.Gravada.Add(calc.Exenta).Add(calc.IVAItem))
	return calc
}

// CalcularDocumento agrega las líneas en los totales del documento y proyecta
// el resumen específico del tipo. Es una función pura: mismas entradas, mismo
// resultado, sin efectos secundarios.
//
// Una lista vacía de ítems es un caso terminal definido (resultado en ceros,
// resumen vacío), no un error.
func CalcularDocumento(items []ItemDTE, opciones Opciones) ResultadoCalculo {
	regla := ReglasPara(opciones.TipoDTE)

	resultado := ResultadoCalculo{
		TipoDTE: regla.Codigo,
		Resumen: map[string]any{},
	}
	if len(items) == 0 {
		return resultado
	}

	calculados := make([]ItemCalculado, 0, len(items))
	for _, item := range items {
		calc := CalcularItem(item, regla)
		calculados = append(calculados, calc)

		resultado.Subtotal = resultado.Subtotal.Add(money.Round2(item.Cantidad.Mul(item.PrecioUnitario)))
		resultado.Descuentos = resultado.Descuentos.Add(item.Descuento)
		resultado.TotalGravada = resultado.TotalGravada.Add(calc.Gravada)
		resultado.TotalExenta = resultado.TotalExenta.Add(calc.Exenta)
	}
	resultado.Items = calculados

	resultado.Subtotal = money.Round2(resultado.Subtotal)
	resultado.Descuentos = money.Round2(resultado.Descuentos.Add(opciones.DescuentoGlobal))
	resultado.VentasNetas = money.Round2(resultado.Subtotal.Sub(resultado.Descuentos))
	resultado.TotalGravada = money.Round2(resultado.TotalGravada)
	resultado.TotalExenta = money.Round2(resultado.TotalExenta)

	if regla.IVA.Aplica {
		resultado.IVA = money.Round2(resultado.TotalGravada.Mul(regla.IVA.Tasa))
	}

	resultado.Retencion = calcularRetencion(resultado, regla, opciones.AplicarRetencion)

	resultado.MontoTotal = money.Round2(resultado.VentasNetas.Add(resultado.IVA))
	if regla.TienePagoUniversal {
		resultado.TotalAPagar = money.Round2(resultado.MontoTotal.Sub(resultado.Retencion))
	}

	resultado.Resumen = proyectarResumen(regla, &resultado)
	return resultado
}

// calcularRetencion aplica la compuerta de dos partes: el llamador debe
// habilitarla explícitamente Y la base debe superar el umbral del tipo. Ambas
// condiciones son deliberadas, no redundantes. La base de la compuerta es el
// IVA para comprobantes de retención y las ventas netas para el resto; el
// monto retenido siempre es round(ventasNetas * tasa).
func calcularRetencion(r ResultadoCalculo, regla ReglaTipo, habilitada bool) decimal.Decimal {
	if !regla.Retencion.Aplica || !habilitada {
		return decimal.Zero
	}
	base := r.VentasNetas
	if regla.BaseRetencionIVA {
		base = r.IVA
	}
	if !base.GreaterThanOrEqual(regla.Retencion.UmbralMinimo) {
		return decimal.Zero
	}
	return money.Round2(r.VentasNetas.Mul(regla.Retencion.Tasa))
}
