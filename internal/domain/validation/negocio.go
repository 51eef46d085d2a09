package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/dte-engine/pkg/mh"
	"github.com/tu-usuario/dte-engine/pkg/money"
)

var patronFecha = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var tasaIVA = decimal.RequireFromString("0.13")

// ValidarNegocio aplica las reglas de negocio cruzadas que el schema no puede
// expresar. Trabaja sobre el documento JSON deserializado y acumula todas las
// incidencias; nada se lanza a mitad de validación.
//
// Reglas: codigoGeneracion UUID v4; fecEmi con formato y no futura (futura es
// advertencia); NIT del emisor de 14 dígitos; subTotal declarado conciliado
// con las líneas (±0.01); ivaPerci1 coherente con el 13% de la venta gravada
// (advertencia); notas de crédito/débito con al menos un documento
// relacionado; invalidaciones con motivo y código de generación objetivo.
func ValidarNegocio(doc map[string]any) []Incidencia {
	var incidencias []Incidencia

	identificacion := subMapa(doc, "identificacion")
	emisor := subMapa(doc, "emisor")
	resumen := subMapa(doc, "resumen")

	incidencias = append(incidencias, validarCodigoGeneracion(identificacion)...)
	incidencias = append(incidencias, validarFechaEmision(identificacion)...)
	incidencias = append(incidencias, validarNITEmisor(emisor)...)
	incidencias = append(incidencias, validarConciliacion(doc, resumen)...)
	incidencias = append(incidencias, validarPercepcion(resumen)...)
	incidencias = append(incidencias, validarDocumentosRelacionados(doc, identificacion)...)
	incidencias = append(incidencias, validarInvalidacion(doc)...)

	return incidencias
}

func validarCodigoGeneracion(identificacion map[string]any) []Incidencia {
	codigo, ok := cadena(identificacion, "codigoGeneracion")
	if !ok || codigo == "" {
		return []Incidencia{{
			Ruta:      "identificacion.codigoGeneracion",
			Mensaje:   "código de generación ausente",
			Severidad: SeveridadError,
		}}
	}
	parsed, err := uuid.Parse(codigo)
	if err != nil || parsed.Version() != 4 {
		return []Incidencia{{
			Ruta:      "identificacion.codigoGeneracion",
			Mensaje:   fmt.Sprintf("código de generación %q no es un UUID v4", codigo),
			Severidad: SeveridadError,
		}}
	}
	return nil
}

func validarFechaEmision(identificacion map[string]any) []Incidencia {
	fecEmi, ok := cadena(identificacion, "fecEmi")
	if !ok || !patronFecha.MatchString(fecEmi) {
		return []Incidencia{{
			Ruta:      "identificacion.fecEmi",
			Mensaje:   fmt.Sprintf("fecha de emisión %q no cumple el formato YYYY-MM-DD", fecEmi),
			Severidad: SeveridadError,
		}}
	}
	fecha, err := time.Parse("2006-01-02", fecEmi)
	if err != nil {
		return []Incidencia{{
			Ruta:      "identificacion.fecEmi",
			Mensaje:   fmt.Sprintf("fecha de emisión %q inválida", fecEmi),
			Severidad: SeveridadError,
		}}
	}
	// Fecha futura: advertencia, no error. Los relojes de los puntos de venta
	// se desfasan; el rechazo duro lo decide Hacienda, no el motor.
	if fecha.After(time.Now().AddDate(0, 0, 1)) {
		return []Incidencia{{
			Ruta:      "identificacion.fecEmi",
			Mensaje:   fmt.Sprintf("fecha de emisión %s es futura", fecEmi),
			Severidad: SeveridadAdvertencia,
		}}
	}
	return nil
}

func validarNITEmisor(emisor map[string]any) []Incidencia {
	nit, _ := cadena(emisor, "nit")
	if err := mh.ValidarNIT(nit); err != nil {
		return []Incidencia{{
			Ruta:      "emisor.nit",
			Mensaje:   err.Error(),
			Severidad: SeveridadError,
		}}
	}
	return nil
}

// validarConciliacion compara el subTotal declarado con la suma de las líneas
// (cantidad*precioUni - montoDescu), con tolerancia de un centavo.
func validarConciliacion(doc, resumen map[string]any) []Incidencia {
	cuerpo, ok := doc["cuerpoDocumento"].([]any)
	if !ok || len(cuerpo) == 0 {
		return nil // el schema ya reporta el cuerpo ausente
	}
	declarado, ok := numero(resumen, "subTotal")
	if !ok {
		return nil
	}

	suma := decimal.Zero
	for _, elem := range cuerpo {
		linea, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		cantidad, _ := numero(linea, "cantidad")
		precio, _ := numero(linea, "precioUni")
		descuento, _ := numero(linea, "montoDescu")
		neto := money.Round2(money.Round2(decimal.NewFromFloat(cantidad).Mul(decimal.NewFromFloat(precio))).
			Sub(decimal.NewFromFloat(descuento)))
		suma = suma.Add(neto)
	}
	suma = money.Round2(suma)

	if !money.IgualesConTolerancia(suma, money.FromFloat(declarado)) {
		return []Incidencia{{
			Ruta: "resumen.subTotal",
			Mensaje: fmt.Sprintf("subTotal declarado %.2f no concilia con la suma de líneas %s",
				declarado, suma.StringFixed(2)),
			Severidad: SeveridadError,
		}}
	}
	return nil
}

// validarPercepcion: si el documento declara ivaPerci1, debe coincidir con el
// 13% de la venta gravada (±0.01). Deriva en advertencia porque los montos de
// percepción los fija el agente perceptor, no el emisor.
func validarPercepcion(resumen map[string]any) []Incidencia {
	percepcion, ok := numero(resumen, "ivaPerci1")
	if !ok || percepcion == 0 {
		return nil
	}
	gravada, ok := numero(resumen, "totalGravada")
	if !ok {
		return nil
	}
	esperado := money.Round2(decimal.NewFromFloat(gravada).Mul(tasaIVA))
	if !money.IgualesConTolerancia(money.FromFloat(percepcion), esperado) {
		return []Incidencia{{
			Ruta: "resumen.ivaPerci1",
			Mensaje: fmt.Sprintf("ivaPerci1 %.2f difiere del 13%% de la venta gravada (%s)",
				percepcion, esperado.StringFixed(2)),
			Severidad: SeveridadAdvertencia,
		}}
	}
	return nil
}

// validarDocumentosRelacionados: las notas de crédito y débito ajustan un
// documento original y deben referenciarlo.
func validarDocumentosRelacionados(doc, identificacion map[string]any) []Incidencia {
	tipo, _ := cadena(identificacion, "tipoDte")
	if tipo != mh.TipoNotaCredito && tipo != mh.TipoNotaDebito {
		return nil
	}
	relacionados, ok := doc["documentoRelacionado"].([]any)
	if !ok || len(relacionados) == 0 {
		return []Incidencia{{
			Ruta: "documentoRelacionado",
			Mensaje: fmt.Sprintf("el tipo %s requiere al menos un documento relacionado", tipo),
			Severidad: SeveridadError,
		}}
	}
	return nil
}

// validarInvalidacion: un evento de invalidación debe traer el motivo y el
// código de generación del documento que anula.
func validarInvalidacion(doc map[string]any) []Incidencia {
	invalidacion := subMapa(doc, "invalidacion")
	if invalidacion == nil {
		return nil
	}
	var incidencias []Incidencia
	if motivo, _ := cadena(invalidacion, "motivo"); motivo == "" {
		incidencias = append(incidencias, Incidencia{
			Ruta:      "invalidacion.motivo",
			Mensaje:   "la invalidación requiere un motivo",
			Severidad: SeveridadError,
		})
	}
	if objetivo, _ := cadena(invalidacion, "codigoGeneracionR"); objetivo == "" {
		incidencias = append(incidencias, Incidencia{
			Ruta:      "invalidacion.codigoGeneracionR",
			Mensaje:   "la invalidación requiere el código de generación del documento anulado",
			Severidad: SeveridadError,
		})
	}
	return incidencias
}

// ── acceso tolerante al documento JSON deserializado ─────────────────────────

func subMapa(doc map[string]any, clave string) map[string]any {
	if doc == nil {
		return nil
	}
	m, _ := doc[clave].(map[string]any)
	return m
}

func cadena(m map[string]any, clave string) (string, bool) {
	if m == nil {
		return "", false
	}
	s, ok := m[clave].(string)
	return s, ok
}

func numero(m map[string]any, clave string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[clave].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
