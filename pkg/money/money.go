// Package money concentra el redondeo monetario del motor DTE.
// El Ministerio de Hacienda exige montos con dos decimales; el redondeo se
// aplica en cada paso intermedio del cálculo, no solo al final, para evitar
// deriva de centavos al acumular muchos ítems.
package money

import "github.com/shopspring/decimal"

// Round2 redondea a 2 decimales (mitad hacia arriba, alejándose de cero).
// Es idempotente: Round2(Round2(x)) == Round2(x).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FromFloat construye un decimal ya redondeado a 2 decimales desde un float64
// (entrada típica de documentos JSON deserializados).
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// Float devuelve el valor como float64 para emitirlo en el JSON del DTE.
// Solo debe usarse sobre montos ya redondeados a 2 decimales.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// IgualesConTolerancia compara dos montos con tolerancia de un centavo (0.01),
// la tolerancia estándar de las validaciones aritméticas del motor.
func IgualesConTolerancia(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(decimal.NewFromFloat(0.01))
}
