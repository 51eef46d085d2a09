// Package validation implementa las tres etapas de validación de un DTE:
// consistencia del cálculo, contrato estructural (schema JSON) y reglas de
// negocio cruzadas, más el ensamblado del reporte consolidado.
//
// Política de propagación: ninguna incidencia interrumpe la validación; todas
// se acumulan para que una sola pasada reporte todos los problemas. El único
// fallo duro es domain.ErrConfiguracion (tipo o schema no registrado), porque
// sin reglas no hay validación con sentido.
package validation

// Severidad de una incidencia de validación.
type Severidad string

const (
	SeveridadError       Severidad = "error"
	SeveridadAdvertencia Severidad = "advertencia"
)

// Incidencia es un hallazgo puntual con la ruta del campo que lo origina.
type Incidencia struct {
	Ruta      string    `json:"ruta"`
	Mensaje   string    `json:"mensaje"`
	Severidad Severidad `json:"severidad"`
}

// ReporteValidacion agrupa las incidencias de una etapa. Se exporta como JSON
// descargable para auditoría, de ahí las etiquetas.
type ReporteValidacion struct {
	EsValido     bool         `json:"esValido"`
	Errores      []Incidencia `json:"errores"`
	Advertencias []Incidencia `json:"advertencias"`
	NombreSchema string       `json:"nombreSchema,omitempty"`
}

// NuevoReporte separa incidencias en errores y advertencias y deriva EsValido.
func NuevoReporte(nombreSchema string, incidencias []Incidencia) ReporteValidacion {
	reporte := ReporteValidacion{
		EsValido:     true,
		Errores:      []Incidencia{},
		Advertencias: []Incidencia{},
		NombreSchema: nombreSchema,
	}
	for _, inc := range incidencias {
		if inc.Severidad == SeveridadError {
			reporte.Errores = append(reporte.Errores, inc)
			reporte.EsValido = false
		} else {
			reporte.Advertencias = append(reporte.Advertencias, inc)
		}
	}
	return reporte
}

// ReporteGlobal consolida las tres etapas. Cualquier error en cualquier etapa
// invalida el conjunto; no hay precedencia entre etapas.
type ReporteGlobal struct {
	EsValido          bool              `json:"esValido"`
	TotalErrores      int               `json:"totalErrores"`
	TotalAdvertencias int               `json:"totalAdvertencias"`
	Calculo           ReporteValidacion `json:"calculo"`
	Estructura        ReporteValidacion `json:"estructura"`
	Negocio           ReporteValidacion `json:"negocio"`
}

// Consolidar fusiona los reportes de cálculo, estructura y negocio.
func Consolidar(calculo, estructura, negocio ReporteValidacion) ReporteGlobal {
	return ReporteGlobal{
		EsValido:          calculo.EsValido && estructura.EsValido && negocio.EsValido,
		TotalErrores:      len(calculo.Errores) + len(estructura.Errores) + len(negocio.Errores),
		TotalAdvertencias: len(calculo.Advertencias) + len(estructura.Advertencias) + len(negocio.Advertencias),
		Calculo:           calculo,
		Estructura:        estructura,
		Negocio:           negocio,
	}
}
