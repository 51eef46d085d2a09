package validation

import (
	"fmt"
	"regexp"
)

// NodoSchema describe un nodo del contrato estructural de un DTE, siguiendo el
// vocabulario núcleo de JSON Schema que publican los schemas oficiales del
// Ministerio de Hacienda. Se carga una vez por tipo y se trata como solo
// lectura.
type NodoSchema struct {
	// Type puede ser un string ("object") o una lista (["string", "null"]).
	Type                 any                    `json:"type,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Properties           map[string]*NodoSchema `json:"properties,omitempty"`
	Items                *NodoSchema            `json:"items,omitempty"`
	Enum                 []any                  `json:"enum,omitempty"`
	Pattern              string                 `json:"pattern,omitempty"`
	MinLength            *int                   `json:"minLength,omitempty"`
	MaxLength            *int                   `json:"maxLength,omitempty"`
	Minimum              *float64               `json:"minimum,omitempty"`
	Maximum              *float64               `json:"maximum,omitempty"`
	MinItems             *int                   `json:"minItems,omitempty"`
	MaxItems             *int                   `json:"maxItems,omitempty"`
	AdditionalProperties *bool                  `json:"additionalProperties,omitempty"`
}

// tipos devuelve los tipos admitidos por el nodo como lista normalizada.
func (n *NodoSchema) tipos() []string {
	switch t := n.Type.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	}
	return nil
}

func (n *NodoSchema) admiteNulo() bool {
	for _, t := range n.tipos() {
		if t == "null" {
			return true
		}
	}
	return false
}

// tipoJSON clasifica un valor deserializado de encoding/json con los nombres
// de tipo de JSON Schema.
func tipoJSON(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "desconocido"
}

func (n *NodoSchema) admiteTipo(tipo string) bool {
	tipos := n.tipos()
	if len(tipos) == 0 {
		return true // nodo sin type: no restringe
	}
	for _, t := range tipos {
		if t == tipo {
			return true
		}
		// JSON Schema: integer es un subconjunto de number.
		if t == "integer" && tipo == "number" {
			return true
		}
	}
	return false
}

// ValidarSchema recorre el documento contra su schema y acumula incidencias.
// Un desajuste de tipo es terminal para ese subárbol (no se desciende), pero
// los hermanos se siguen validando. Las claves desconocidas son advertencia,
// incluso bajo additionalProperties=false (laxitud heredada del contrato
// observado; el mensaje deja constancia de la bandera).
func ValidarSchema(documento any, schema *NodoSchema) []Incidencia {
	if schema == nil {
		return nil
	}
	return validarNodo(documento, schema, "")
}

func validarNodo(valor any, schema *NodoSchema, ruta string) []Incidencia {
	var incidencias []Incidencia

	if valor == nil {
		if !schema.admiteNulo() {
			incidencias = append(incidencias, errorSchema(ruta, "valor nulo no admitido"))
		}
		return incidencias
	}

	tipo := tipoJSON(valor)
	if !schema.admiteTipo(tipo) {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("tipo %s no coincide con el esperado %v", tipo, schema.Type)))
		return incidencias // terminal: no se desciende en este subárbol
	}

	switch v := valor.(type) {
	case map[string]any:
		incidencias = append(incidencias, validarObjeto(v, schema, ruta)...)
	case []any:
		incidencias = append(incidencias, validarArreglo(v, schema, ruta)...)
	case string:
		incidencias = append(incidencias, validarString(v, schema, ruta)...)
	case float64:
		incidencias = append(incidencias, validarNumero(v, schema, ruta)...)
	}

	if len(schema.Enum) > 0 {
		if !perteneceAEnum(valor, schema.Enum) {
			incidencias = append(incidencias, errorSchema(ruta,
				fmt.Sprintf("valor %v fuera del enum permitido", valor)))
		}
	}

	return incidencias
}

func validarObjeto(obj map[string]any, schema *NodoSchema, ruta string) []Incidencia {
	var incidencias []Incidencia

	for _, requerido := range schema.Required {
		if _, ok := obj[requerido]; !ok {
			incidencias = append(incidencias, Incidencia{
				Ruta:      unirRuta(ruta, requerido),
				Mensaje:   fmt.Sprintf("%s: falta '%s'", rutaONombre(ruta), requerido),
				Severidad: SeveridadError,
			})
		}
	}

	for clave, valor := range obj {
		sub, conocida := schema.Properties[clave]
		if !conocida {
			mensaje := fmt.Sprintf("propiedad desconocida '%s'", clave)
			if schema.AdditionalProperties != nil && !*schema.AdditionalProperties {
				mensaje += " (el schema declara additionalProperties=false)"
			}
			incidencias = append(incidencias, Incidencia{
				Ruta:      unirRuta(ruta, clave),
				Mensaje:   mensaje,
				Severidad: SeveridadAdvertencia,
			})
			continue
		}
		incidencias = append(incidencias, validarNodo(valor, sub, unirRuta(ruta, clave))...)
	}

	return incidencias
}

func validarArreglo(arr []any, schema *NodoSchema, ruta string) []Incidencia {
	var incidencias []Incidencia

	if schema.MinItems != nil && len(arr) < *schema.MinItems {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("el arreglo tiene %d elementos, mínimo %d", len(arr), *schema.MinItems)))
	}
	if schema.MaxItems != nil && len(arr) > *schema.MaxItems {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("el arreglo tiene %d elementos, máximo %d", len(arr), *schema.MaxItems)))
	}
	if schema.Items != nil {
		for i, elem := range arr {
			incidencias = append(incidencias,
				validarNodo(elem, schema.Items, fmt.Sprintf("%s[%d]", ruta, i))...)
		}
	}
	return incidencias
}

func validarString(s string, schema *NodoSchema, ruta string) []Incidencia {
	var incidencias []Incidencia

	if schema.MinLength != nil && len([]rune(s)) < *schema.MinLength {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("longitud %d menor al mínimo %d", len([]rune(s)), *schema.MinLength)))
	}
	if schema.MaxLength != nil && len([]rune(s)) > *schema.MaxLength {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("longitud %d mayor al máximo %d", len([]rune(s)), *schema.MaxLength)))
	}
	if schema.Pattern != "" {
		re, err := regexp.Compile(schema.Pattern)
		if err != nil {
			incidencias = append(incidencias, errorSchema(ruta,
				fmt.Sprintf("patrón inválido en el schema: %v", err)))
		} else if !re.MatchString(s) {
			incidencias = append(incidencias, errorSchema(ruta,
				fmt.Sprintf("valor %q no cumple el patrón %s", s, schema.Pattern)))
		}
	}
	return incidencias
}

func validarNumero(n float64, schema *NodoSchema, ruta string) []Incidencia {
	var incidencias []Incidencia

	if schema.Minimum != nil && n < *schema.Minimum {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("valor %v menor al mínimo %v", n, *schema.Minimum)))
	}
	if schema.Maximum != nil && n > *schema.Maximum {
		incidencias = append(incidencias, errorSchema(ruta,
			fmt.Sprintf("valor %v mayor al máximo %v", n, *schema.Maximum)))
	}
	return incidencias
}

func perteneceAEnum(valor any, enum []any) bool {
	for _, e := range enum {
		if e == valor {
			return true
		}
	}
	return false
}

func errorSchema(ruta, mensaje string) Incidencia {
	return Incidencia{Ruta: ruta, Mensaje: mensaje, Severidad: SeveridadError}
}

func unirRuta(ruta, clave string) string {
	if ruta == "" {
		return clave
	}
	return ruta + "." + clave
}

func rutaONombre(ruta string) string {
	if ruta == "" {
		return "documento"
	}
	return ruta
}
