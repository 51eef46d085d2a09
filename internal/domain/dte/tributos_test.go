package dte_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/dte-engine/internal/domain/dte"
	"github.com/tu-usuario/dte-engine/pkg/mh"
)

func TestGenerarTributos_IVAYRetencion(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "1000", "0")},
		dte.Opciones{TipoDTE: mh.TipoFactura, AplicarRetencion: true},
	)
	tributos := dte.GenerarTributos(&r)

	require.Len(t, tributos, 2)
	// Orden determinista: primero IVA, luego retención.
	assert.Equal(t, mh.TributoIVA, tributos[0].Codigo)
	assert.True(t, tributos[0].Valor.Equal(d("130.00")))
	assert.Equal(t, mh.TributoRetencion, tributos[1].Codigo)
	assert.True(t, tributos[1].Valor.Equal(d("100.00")))
}

func TestGenerarTributos_SinIVANoEmiteLinea(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "500", "0")},
		dte.Opciones{TipoDTE: mh.TipoFacturaExportacion},
	)
	tributos := dte.GenerarTributos(&r)
	assert.Empty(t, tributos, "exportación sin IVA ni retención no genera tributos")
}

// El documento contable de liquidación agrega la línea de percepción 2%.
func TestGenerarTributos_PercepcionDCL(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "1000", "0")},
		dte.Opciones{TipoDTE: mh.TipoDocContableLiq},
	)
	tributos := dte.GenerarTributos(&r)

	require.Len(t, tributos, 2)
	assert.Equal(t, mh.TributoIVA, tributos[0].Codigo)
	ultimo := tributos[len(tributos)-1]
	assert.Equal(t, mh.TributoPercepcion, ultimo.Codigo)
	assert.True(t, ultimo.Valor.Equal(d("20.00")), "percepción 2%% de 1000: %s", ultimo.Valor)
}

func TestGenerarTributos_DescripcionesDeCatalogo(t *testing.T) {
	r := dte.CalcularDocumento(
		[]dte.ItemDTE{item("1", "100", "0")},
		dte.Opciones{TipoDTE: mh.TipoFactura},
	)
	tributos := dte.GenerarTributos(&r)
	require.Len(t, tributos, 1)
	assert.Equal(t, mh.DescripcionesTributo[mh.TributoIVA], tributos[0].Descripcion)
}
