package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/erp-conciliacion/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/erp-conciliacion/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "erp-conciliacion-test"
	testExpMin    = 60
)

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

const receiveBody = `{"flag":"GOODS_RECEIPT","active":true}`

// apiWithOrder API con autenticación y la orden po-1 ya creada por un operador.
func apiWithOrder(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := buildAPI(t, testJWTSecret)
	resp := send(t, app, http.MethodPost, "/api/orders", orderBody, tokenForRole(t, apphttp.RoleOperator))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return app
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole sobre las rutas de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestCambioDeEstado_AuditorRecibe403(t *testing.T) {
	app := apiWithOrder(t)

	resp := send(t, app, http.MethodPatch, "/api/orders/po-1/status", receiveBody, tokenForRole(t, apphttp.RoleAuditor))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Code)

	resp = send(t, app, http.MethodDelete, "/api/orders/po-1", "", tokenForRole(t, apphttp.RoleAuditor))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el auditor tampoco borra")
	resp.Body.Close()
}

func TestCambioDeEstado_RolesDeEscritura(t *testing.T) {
	for _, role := range []string{apphttp.RoleAdmin, apphttp.RoleOperator} {
		t.Run(role, func(t *testing.T) {
			app := apiWithOrder(t)
			resp := send(t, app, http.MethodPatch, "/api/orders/po-1/status", receiveBody, tokenForRole(t, role))
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		})
	}
}

func TestCambioDeEstado_TokenSinRol(t *testing.T) {
	app := apiWithOrder(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := send(t, app, http.MethodPatch, "/api/orders/po-1/status", receiveBody, "Bearer "+tok)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", decodeError(t, resp).Code)
}

func TestOrdenes_TokenAusenteOInvalido(t *testing.T) {
	app := apiWithOrder(t)
	cases := []struct {
		name string
		auth string
		code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin Bearer", "Basic abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := send(t, app, http.MethodGet, "/api/orders/po-1", "", tc.auth)
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, decodeError(t, resp).Code)
		})
	}
}

func TestOrdenes_TokenDeOtroSecreto(t *testing.T) {
	app := apiWithOrder(t)
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, apphttp.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := send(t, app, http.MethodPatch, "/api/orders/po-1/status", receiveBody, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestOrdenes_SinSecretoNoHayAutenticacion(t *testing.T) {
	app, _ := buildAPI(t, "")
	resp := send(t, app, http.MethodPost, "/api/orders", orderBody, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = send(t, app, http.MethodPatch, "/api/orders/po-1/status", receiveBody, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware: claims en el contexto
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleAuditor))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, apphttp.RoleAuditor, body["role"])
}
