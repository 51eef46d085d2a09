// Package schemas carga y cachea los contratos estructurales JSON por tipo de
// DTE. Los archivos siguen la convención fe-<tipo>-v1.json (un archivo por
// tipo, como los publica el Ministerio de Hacienda).
package schemas

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tu-usuario/dte-engine/internal/domain"
	"github.com/tu-usuario/dte-engine/internal/domain/validation"
)

// Registry resuelve el schema de un tipo de DTE. Se carga completo al
// construirse y después es de solo lectura: sin estado mutable entre llamadas.
type Registry struct {
	porTipo map[string]*validation.NodoSchema
	nombres map[string]string
}

// NewRegistry lee todos los fe-*-v1.json del directorio. Falla si el
// directorio no existe o algún archivo no deserializa: un schema corrupto es
// error de configuración, no algo que se descubra a media validación.
func NewRegistry(dir string) (*Registry, error) {
	entradas, err := filepath.Glob(filepath.Join(dir, "fe-*-v1.json"))
	if err != nil {
		return nil, fmt.Errorf("buscar schemas en %s: %w", dir, err)
	}
	if len(entradas) == 0 {
		return nil, fmt.Errorf("%w: sin schemas en %s", domain.ErrConfiguracion, dir)
	}

	reg := &Registry{
		porTipo: make(map[string]*validation.NodoSchema, len(entradas)),
		nombres: make(map[string]string, len(entradas)),
	}
	for _, ruta := range entradas {
		raw, err := os.ReadFile(ruta)
		if err != nil {
			return nil, fmt.Errorf("leer schema %s: %w", ruta, err)
		}
		var nodo validation.NodoSchema
		if err := json.Unmarshal(raw, &nodo); err != nil {
			return nil, fmt.Errorf("deserializar schema %s: %w", ruta, err)
		}
		nombre := filepath.Base(ruta)
		tipo := tipoDesdeNombre(nombre)
		reg.porTipo[tipo] = &nodo
		reg.nombres[tipo] = nombre
	}
	return reg, nil
}

// Obtener devuelve el schema y su nombre de archivo para el tipo de DTE.
// Un tipo sin schema registrado es ErrConfiguracion (fatal: sin contrato no
// hay validación estructural posible).
func (r *Registry) Obtener(tipoDTE string) (*validation.NodoSchema, string, error) {
	nodo, ok := r.porTipo[tipoDTE]
	if !ok {
		return nil, "", fmt.Errorf("%w: schema para tipo de DTE %q", domain.ErrConfiguracion, tipoDTE)
	}
	return nodo, r.nombres[tipoDTE], nil
}

// tipoDesdeNombre extrae el código de tipo de "fe-01-v1.json" -> "01".
func tipoDesdeNombre(nombre string) string {
	base := nombre[len("fe-"):]
	for i := 0; i < len(base); i++ {
		if base[i] == '-' {
			return base[:i]
		}
	}
	return base
}
