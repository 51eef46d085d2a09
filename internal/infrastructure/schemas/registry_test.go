package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/dte-engine/internal/domain"
)

const schemaMinimo = `{
  "type": "object",
  "required": ["identificacion"],
  "properties": {
    "identificacion": { "type": "object" }
  }
}`

func escribirSchema(t *testing.T, dir, nombre string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, nombre), []byte(schemaMinimo), 0o644))
}

func TestNewRegistryCargaPorTipo(t *testing.T) {
	dir := t.TempDir()
	escribirSchema(t, dir, "fe-01-v1.json")
	escribirSchema(t, dir, "fe-07-v1.json")

	reg, err := NewRegistry(dir)
	require.NoError(t, err)

	nodo, nombre, err := reg.Obtener("01")
	require.NoError(t, err)
	assert.NotNil(t, nodo)
	assert.Equal(t, "fe-01-v1.json", nombre)

	_, nombre, err = reg.Obtener("07")
	require.NoError(t, err)
	assert.Equal(t, "fe-07-v1.json", nombre)
}

func TestNewRegistryDirectorioVacio(t *testing.T) {
	_, err := NewRegistry(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguracion)
}

func TestNewRegistrySchemaCorrupto(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fe-01-v1.json"), []byte("{no es json"), 0o644))

	_, err := NewRegistry(dir)
	require.Error(t, err)
}

func TestObtenerTipoSinSchema(t *testing.T) {
	dir := t.TempDir()
	escribirSchema(t, dir, "fe-01-v1.json")

	reg, err := NewRegistry(dir)
	require.NoError(t, err)

	_, _, err = reg.Obtener("99")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguracion)
}

func TestRegistryCargaSchemasEmbarcados(t *testing.T) {
	// Los contratos que se despachan con el binario deben cargar sin error.
	reg, err := NewRegistry(filepath.Join("..", "..", "..", "schemas"))
	require.NoError(t, err)

	for _, tipo := range []string{"01", "03", "07", "11", "14"} {
		nodo, nombre, err := reg.Obtener(tipo)
		require.NoError(t, err, "tipo %s", tipo)
		assert.NotNil(t, nodo)
		assert.Equal(t, "fe-"+tipo+"-v1.json", nombre)
	}
}

func TestTipoDesdeNombre(t *testing.T) {
	assert.Equal(t, "01", tipoDesdeNombre("fe-01-v1.json"))
	assert.Equal(t, "14", tipoDesdeNombre("fe-14-v1.json"))
}
