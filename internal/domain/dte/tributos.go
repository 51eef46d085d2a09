package dte

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dte-engine/pkg/mh"
	"github.com/tu-usuario/dte-engine/pkg/money"
)

// Tributo es una línea normalizada código/descripción/valor que se incrusta en
// resumen.tributos del documento de salida.
type Tributo struct {
	Codigo      string          `json:"codigo"`
	Descripcion string          `json:"descripcion"`
	Valor       decimal.Decimal `json:"valor"`
}

var tasaPercepcion = decimal.RequireFromString("0.02")

// GenerarTributos convierte los montos calculados en líneas de tributo.
// El orden es determinista: IVA ("20"), retención ("D1") y por último las
// líneas específicas del tipo (percepción 2% para documentos contables de
// liquidación).
func GenerarTributos(r *ResultadoCalculo) []Tributo {
	regla := ReglasPara(r.TipoDTE)

	var tributos []Tributo
	if regla.IVA.Aplica && r.IVA.GreaterThan(decimal.Zero) {
		tributos = append(tributos, Tributo{
			Codigo:      mh.TributoIVA,
			Descripcion: mh.DescripcionesTributo[mh.TributoIVA],
			Valor:       r.IVA,
		})
	}
	if regla.Retencion.Aplica && r.Retencion.GreaterThan(decimal.Zero) {
		tributos = append(tributos, Tributo{
			Codigo:      mh.TributoRetencion,
			Descripcion: mh.DescripcionesTributo[mh.TributoRetencion],
			Valor:       r.Retencion,
		})
	}
	if r.TipoDTE == mh.TipoDocContableLiq && r.TotalGravada.GreaterThan(decimal.Zero) {
		tributos = append(tributos, Tributo{
			Codigo:      mh.TributoPercepcion,
			Descripcion: mh.DescripcionesTributo[mh.TributoPercepcion],
			Valor:       money.Round2(r.TotalGravada.Mul(tasaPercepcion)),
		})
	}
	return tributos
}
