package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/dte-engine/internal/domain/validation"
)

func incidencia(ruta string, sev validation.Severidad) validation.Incidencia {
	return validation.Incidencia{Ruta: ruta, Mensaje: "detalle", Severidad: sev}
}

func TestNuevoReporte_SeparaErroresYAdvertencias(t *testing.T) {
	reporte := validation.NuevoReporte("fe-01-v1", []validation.Incidencia{
		incidencia("a", validation.SeveridadError),
		incidencia("b", validation.SeveridadAdvertencia),
		incidencia("c", validation.SeveridadError),
	})

	assert.False(t, reporte.EsValido)
	assert.Len(t, reporte.Errores, 2)
	assert.Len(t, reporte.Advertencias, 1)
	assert.Equal(t, "fe-01-v1", reporte.NombreSchema)
}

func TestNuevoReporte_SoloAdvertenciasEsValido(t *testing.T) {
	reporte := validation.NuevoReporte("fe-01-v1", []validation.Incidencia{
		incidencia("a", validation.SeveridadAdvertencia),
	})
	assert.True(t, reporte.EsValido, "las advertencias no bloquean")
}

func TestConsolidar_SumaYConjuncion(t *testing.T) {
	calculo := validation.NuevoReporte("calculo/01", []validation.Incidencia{
		incidencia("iva", validation.SeveridadError),
	})
	estructura := validation.NuevoReporte("fe-01-v1", []validation.Incidencia{
		incidencia("extra", validation.SeveridadAdvertencia),
	})
	negocio := validation.NuevoReporte("negocio", nil)

	global := validation.Consolidar(calculo, estructura, negocio)

	// Un solo error en cualquier etapa invalida el conjunto; no hay precedencia.
	assert.False(t, global.EsValido)
	assert.Equal(t, 1, global.TotalErrores)
	assert.Equal(t, 1, global.TotalAdvertencias)
}

func TestConsolidar_TodoValido(t *testing.T) {
	vacio := validation.NuevoReporte("x", nil)
	global := validation.Consolidar(vacio, vacio, vacio)

	assert.True(t, global.EsValido)
	assert.Zero(t, global.TotalErrores)
	assert.Zero(t, global.TotalAdvertencias)
}
