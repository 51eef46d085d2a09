package validation_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/dte-engine/internal/domain/validation"
)

// documentoBase devuelve un DTE mínimo que pasa todas las reglas de negocio.
func documentoBase() map[string]any {
	return map[string]any{
		"identificacion": map[string]any{
			"tipoDte":          "01",
			"codigoGeneracion": "5E10D7CE-9A4C-4F44-8DA2-36A53EF3A41D",
			"fecEmi":           "2026-08-31",
		},
		"emisor": map[string]any{
			"nit": "06140101231018",
		},
		"cuerpoDocumento": []any{
			map[string]any{"cantidad": 1.0, "precioUni": 10.95, "montoDescu": 0.0},
		},
		"resumen": map[string]any{
			"subTotal":   10.95,
			"totalPagar": 12.37,
		},
	}
}

func TestValidarNegocio_DocumentoCorrecto(t *testing.T) {
	incidencias := validation.ValidarNegocio(documentoBase())
	assert.Empty(t, incidencias, "incidencias inesperadas: %v", incidencias)
}

func TestValidarNegocio_CodigoGeneracionNoUUID(t *testing.T) {
	doc := documentoBase()
	doc["identificacion"].(map[string]any)["codigoGeneracion"] = "no-es-un-uuid"

	incidencias := validation.ValidarNegocio(doc)
	require.NotEmpty(t, incidencias)
	assert.Equal(t, "identificacion.codigoGeneracion", incidencias[0].Ruta)
	assert.Equal(t, validation.SeveridadError, incidencias[0].Severidad)
}

// Un UUID v1 válido sintácticamente también se rechaza: debe ser v4.
func TestValidarNegocio_UUIDVersionIncorrecta(t *testing.T) {
	doc := documentoBase()
	doc["identificacion"].(map[string]any)["codigoGeneracion"] = "88A76E4E-8784-11EE-B9D1-0242AC120002"

	incidencias := validation.ValidarNegocio(doc)
	require.NotEmpty(t, incidencias)
	assert.Contains(t, incidencias[0].Mensaje, "UUID v4")
}

func TestValidarNegocio_FechaFormatoIncorrecto(t *testing.T) {
	doc := documentoBase()
	doc["identificacion"].(map[string]any)["fecEmi"] = "31/08/2026"

	incidencias := validation.ValidarNegocio(doc)
	require.NotEmpty(t, incidencias)
	assert.Equal(t, "identificacion.fecEmi", incidencias[0].Ruta)
	assert.Equal(t, validation.SeveridadError, incidencias[0].Severidad)
}

// Fecha futura: advertencia, no error.
func TestValidarNegocio_FechaFuturaEsAdvertencia(t *testing.T) {
	doc := documentoBase()
	futura := time.Now().AddDate(1, 0, 0).Format("2006-01-02")
	doc["identificacion"].(map[string]any)["fecEmi"] = futura

	incidencias := validation.ValidarNegocio(doc)
	require.Len(t, incidencias, 1)
	assert.Equal(t, validation.SeveridadAdvertencia, incidencias[0].Severidad)
}

func TestValidarNegocio_NITEmisorIncorrecto(t *testing.T) {
	doc := documentoBase()
	doc["emisor"].(map[string]any)["nit"] = "123456"

	incidencias := validation.ValidarNegocio(doc)
	require.NotEmpty(t, incidencias)
	assert.Equal(t, "emisor.nit", incidencias[0].Ruta)
	assert.Contains(t, incidencias[0].Mensaje, "14 dígitos")
}

func TestValidarNegocio_SubTotalNoConcilia(t *testing.T) {
	doc := documentoBase()
	doc["resumen"].(map[string]any)["subTotal"] = 99.99

	incidencias := validation.ValidarNegocio(doc)
	require.NotEmpty(t, incidencias)
	assert.Equal(t, "resumen.subTotal", incidencias[0].Ruta)
	assert.Equal(t, validation.SeveridadError, incidencias[0].Severidad)
}

// La conciliación tolera un centavo de diferencia.
func TestValidarNegocio_ConciliacionConTolerancia(t *testing.T) {
	doc := documentoBase()
	doc["resumen"].(map[string]any)["subTotal"] = 10.96

	assert.Empty(t, validation.ValidarNegocio(doc))
}

// ivaPerci1 que no es el 13% de la gravada: advertencia.
func TestValidarNegocio_PercepcionDesviada(t *testing.T) {
	doc := documentoBase()
	resumen := doc["resumen"].(map[string]any)
	resumen["totalGravada"] = 100.0
	resumen["ivaPerci1"] = 20.0 // 13% de 100 sería 13.00

	incidencias := validation.ValidarNegocio(doc)
	require.Len(t, incidencias, 1)
	assert.Equal(t, "resumen.ivaPerci1", incidencias[0].Ruta)
	assert.Equal(t, validation.SeveridadAdvertencia, incidencias[0].Severidad)
}

func TestValidarNegocio_PercepcionCorrecta(t *testing.T) {
	doc := documentoBase()
	resumen := doc["resumen"].(map[string]any)
	resumen["totalGravada"] = 100.0
	resumen["ivaPerci1"] = 13.0

	assert.Empty(t, validation.ValidarNegocio(doc))
}

// Notas de crédito y débito exigen documento relacionado.
func TestValidarNegocio_NotasRequierenRelacionado(t *testing.T) {
	for _, tipo := range []string{"05", "06"} {
		t.Run(fmt.Sprintf("tipo_%s", tipo), func(t *testing.T) {
			doc := documentoBase()
			doc["identificacion"].(map[string]any)["tipoDte"] = tipo

			incidencias := validation.ValidarNegocio(doc)
			require.NotEmpty(t, incidencias)
			assert.Equal(t, "documentoRelacionado", incidencias[0].Ruta)
			assert.Equal(t, validation.SeveridadError, incidencias[0].Severidad)

			doc["documentoRelacionado"] = []any{
				map[string]any{"tipoDocumento": "03", "numeroDocumento": "ABC123"},
			}
			assert.Empty(t, validation.ValidarNegocio(doc))
		})
	}
}

// Invalidación sin motivo ni objetivo: dos errores.
func TestValidarNegocio_InvalidacionIncompleta(t *testing.T) {
	doc := documentoBase()
	doc["invalidacion"] = map[string]any{}

	incidencias := validation.ValidarNegocio(doc)
	require.Len(t, incidencias, 2)
	rutas := []string{incidencias[0].Ruta, incidencias[1].Ruta}
	assert.Contains(t, rutas, "invalidacion.motivo")
	assert.Contains(t, rutas, "invalidacion.codigoGeneracionR")
}

func TestValidarNegocio_InvalidacionCompleta(t *testing.T) {
	doc := documentoBase()
	doc["invalidacion"] = map[string]any{
		"motivo":            "error en receptor",
		"codigoGeneracionR": "5E10D7CE-9A4C-4F44-8DA2-36A53EF3A41D",
	}
	assert.Empty(t, validation.ValidarNegocio(doc))
}

// Documento vacío: todas las reglas duras fallan, se acumulan sin abortar.
func TestValidarNegocio_DocumentoVacioAcumula(t *testing.T) {
	incidencias := validation.ValidarNegocio(map[string]any{})
	assert.GreaterOrEqual(t, len(incidencias), 3,
		"código, fecha y NIT deben reportarse juntos: %v", incidencias)
}
