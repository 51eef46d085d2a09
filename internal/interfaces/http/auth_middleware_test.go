package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/tu-usuario/dte-engine/internal/interfaces/http"
	pkgjwt "github.com/tu-usuario/dte-engine/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testEmisorNIT = "06141809241035"
	testIssuer    = "dte-engine-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con el middleware de auth
// y un handler que devuelve el NIT extraído del token.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"emisor_nit": apphttp.GetEmisorNIT(c)})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddlewareTokenValido(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testEmisorNIT, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, testEmisorNIT, payload["emisor_nit"])
}

func TestAuthMiddlewareSinHeader(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareFormatoInvalido(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "Token abc")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareFirmaIncorrecta(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate("otro-secret", testEmisorNIT, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddlewareTokenExpirado(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testEmisorNIT, testIssuer, -5)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
