package dte

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/dte-engine/internal/application/dto"
	"github.com/tu-usuario/dte-engine/internal/domain"
	"github.com/tu-usuario/dte-engine/pkg/mh"
)

func d(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return v
}

func TestCalcularFacturaSimple(t *testing.T) {
	uc := NewCalcularUseCase()

	resp, err := uc.Ejecutar(dto.CalcularRequest{
		TipoDTE: mh.TipoFactura,
		Items: []dto.ItemRequest{
			{Descripcion: "Servicio", Cantidad: d(t, "1"), PrecioUni: d(t, "10.95")},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.IVA.Equal(d(t, "1.42")), "IVA = %s", resp.IVA)
	assert.True(t, resp.MontoTotal.Equal(d(t, "12.37")), "montoTotal = %s", resp.MontoTotal)
	assert.True(t, resp.TotalAPagar.Equal(d(t, "12.37")))
	assert.Len(t, resp.Tributos, 1)
	assert.Equal(t, mh.TributoIVA, resp.Tributos[0].Codigo)
}

func TestCalcularConRetencion(t *testing.T) {
	uc := NewCalcularUseCase()

	resp, err := uc.Ejecutar(dto.CalcularRequest{
		TipoDTE:          mh.TipoFactura,
		AplicarRetencion: true,
		Items: []dto.ItemRequest{
			{Descripcion: "Consultoría", Cantidad: d(t, "1"), PrecioUni: d(t, "1000")},
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.IVA.Equal(d(t, "130")))
	assert.True(t, resp.Retencion.Equal(d(t, "100")))
	assert.True(t, resp.TotalAPagar.Equal(d(t, "1030")))

	// Retención presente como línea de tributo D1, después del IVA.
	require.Len(t, resp.Tributos, 2)
	assert.Equal(t, mh.TributoIVA, resp.Tributos[0].Codigo)
	assert.Equal(t, mh.TributoRetencion, resp.Tributos[1].Codigo)
}

func TestCalcularSinItems(t *testing.T) {
	uc := NewCalcularUseCase()

	_, err := uc.Ejecutar(dto.CalcularRequest{TipoDTE: mh.TipoFactura})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEntradaInvalida)
}

func TestCalcularTipoDesconocidoUsaFactura(t *testing.T) {
	uc := NewCalcularUseCase()

	resp, err := uc.Ejecutar(dto.CalcularRequest{
		TipoDTE: "99",
		Items: []dto.ItemRequest{
			{Descripcion: "x", Cantidad: d(t, "1"), PrecioUni: d(t, "100")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, mh.TipoFactura, resp.TipoDTE)
	assert.True(t, resp.IVA.Equal(d(t, "13")))
}
