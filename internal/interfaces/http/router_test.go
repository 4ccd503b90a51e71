package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vortex-catalogo/internal/application/auth"
	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
	"github.com/jhoicas/vortex-catalogo/internal/application/usecase"
	"github.com/jhoicas/vortex-catalogo/internal/domain/catalog"
	"github.com/jhoicas/vortex-catalogo/internal/domain/entity"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/cache"
	"github.com/jhoicas/vortex-catalogo/internal/infrastructure/security"
	apphttp "github.com/jhoicas/vortex-catalogo/internal/interfaces/http"
	"github.com/jhoicas/vortex-catalogo/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación completa sobre un catálogo en memoria
// ──────────────────────────────────────────────────────────────────────────────

type stubReceipts struct{}

func (stubReceipts) RenderOrderReceipt(context.Context, entity.Order) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	mem := cache.NewMemoryCache(time.Minute)
	c := catalog.New(security.NewBcryptHasher(bcrypt.MinCost),
		catalog.WithInvalidator(cache.NewInvalidator(mem)),
		catalog.WithTokenGenerator(func() (string, error) { return "tok-1", nil }))

	err := usecase.NewSeedUseCase(c, config.SeedConfig{
		Enabled:       true,
		AdminName:     "Administrador Geral",
		AdminEmail:    "admin@vortex.com",
		AdminPhone:    "11999999999",
		AdminPassword: "admin@2025",
	}, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	views := usecase.ViewCache{Cache: mem, TTL: time.Minute, Log: zerolog.Nop(), Generations: c}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC: usecase.NewProductUseCase(c, views),
		OrderUC:   usecase.NewOrderUseCase(c, stubReceipts{}, views),
		UserUC:    usecase.NewUserUseCase(c, views),
		AuthUC: auth.NewAuthUseCase(c, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer},
			true, zerolog.Nop()),
		Counter:   c,
		JWTSecret: testJWTSecret,
		Log:       zerolog.Nop(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func login(t *testing.T, app *fiber.App, credential, password string) string {
	t.Helper()
	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"credencial": credential, "senha": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := newAPI(t)
	resp, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var h dto.HealthResponse
	require.NoError(t, json.Unmarshal(body, &h))
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 3, h.Products)
	assert.Equal(t, 1, h.Users)
}

func TestProdutos_LecturaPublicaEscrituraAutenticada(t *testing.T) {
	app := newAPI(t)

	resp, body := call(t, app, http.MethodGet, "/api/produtos", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list, 3)
	assert.Equal(t, "Smartphone XYZ", list[0]["nome"])
	assert.Equal(t, 1999.99, list[0]["preco"])

	newProduct := map[string]any{"nome": "Fone", "descricao": "Fone sem fio", "preco": "199.90", "quantidade_estoque": "4"}
	resp, body = call(t, app, http.MethodPost, "/api/produtos", "", newProduct)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, body))

	token := login(t, app, "admin@vortex.com", "admin@2025")
	resp, body = call(t, app, http.MethodPost, "/api/produtos", token, newProduct)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "4", created.ID)
	assert.Equal(t, 4, created.Stock)

	resp, body = call(t, app, http.MethodPatch, "/api/produtos/4/estoque", token, map[string]any{"quantidade": -5})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))

	resp, body = call(t, app, http.MethodPatch, "/api/produtos/4/estoque", token, map[string]any{"quantidade": 1.5})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))

	resp, _ = call(t, app, http.MethodGet, "/api/produtos/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPedidos_FlujoCompleto(t *testing.T) {
	app := newAPI(t)
	token := login(t, app, "11999999999", "admin@2025")

	order := map[string]any{
		"produtos":         []map[string]any{{"id": "2", "quantidade": 2}},
		"cliente_nome":     "Maria Silva",
		"cliente_telefone": "11987654321",
		"cliente_endereco": "Rua A, 10",
	}
	resp, body := call(t, app, http.MethodPost, "/api/pedidos", "", order)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.OrderResponse
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "1", created.ID)
	assert.Equal(t, dto.StatusPending, created.Status)

	// El producto 2 está en un pedido pendiente.
	resp, body = call(t, app, http.MethodDelete, "/api/produtos/2", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "PRODUCT_IN_PENDING_ORDER", errorCode(t, body))

	resp, _ = call(t, app, http.MethodGet, "/api/pedidos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = call(t, app, http.MethodDelete, "/api/pedidos/1", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ORDER_PENDING", errorCode(t, body))

	resp, body = call(t, app, http.MethodGet, "/api/pedidos/1/comprovante", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	resp, body = call(t, app, http.MethodPut, "/api/pedidos/1/concluir", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var done dto.OrderResponse
	require.NoError(t, json.Unmarshal(body, &done))
	assert.Equal(t, dto.StatusCompleted, done.Status)

	resp, _ = call(t, app, http.MethodDelete, "/api/pedidos/1", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodGet, "/api/pedidos/1", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	overflow := []byte(`{"produtos":[{"id":"2","quantidade":18446744073709551617}],` +
		`"cliente_nome":"Maria Silva","cliente_telefone":"11987654321","cliente_endereco":"Rua A, 10"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", bytes.NewReader(overflow))
	req.Header.Set("Content-Type", "application/json")
	raw, err := app.Test(req, -1)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	order["produtos"] = []map[string]any{{"id": "2", "quantidade": 10}}
	resp, body = call(t, app, http.MethodPost, "/api/pedidos", "", order)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))
}

func TestUsuarios_PermisosYValidacion(t *testing.T) {
	app := newAPI(t)
	admin := login(t, app, "admin@vortex.com", "admin@2025")

	resp, body := call(t, app, http.MethodPost, "/api/usuarios", admin, map[string]string{
		"nome": "Joao", "email": "joao@vortex.com", "telefone": "11988887777", "senha": "senha123", "tipo": "funcionario",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = call(t, app, http.MethodPost, "/api/usuarios", admin, map[string]string{
		"nome": "João Souza", "email": "joao@vortex.com", "telefone": "11988887777", "senha": "senha123", "tipo": "funcionario",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPost, "/api/usuarios", admin, map[string]string{
		"nome": "Outro Joao", "email": "JOAO@vortex.com", "telefone": "11977776666", "senha": "senha123", "tipo": "funcionario",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, body))

	employee := login(t, app, "joao@vortex.com", "senha123")
	resp, _ = call(t, app, http.MethodGet, "/api/usuarios", employee, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = call(t, app, http.MethodGet, "/api/usuarios", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "senha_hash")
	var users []dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &users))
	assert.Len(t, users, 2)

	resp, body = call(t, app, http.MethodDelete, "/api/usuarios/1", admin, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))

	resp, body = call(t, app, http.MethodPut, "/api/usuarios/1", admin, map[string]string{"tipo": "funcionario"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LAST_MANAGER", errorCode(t, body))

	resp, body = call(t, app, http.MethodPost, "/api/usuarios/verificar-senha", admin, map[string]string{"senha": "admin@2025"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"sucesso":true`)

	resp, _ = call(t, app, http.MethodPost, "/api/usuarios/verificar-senha", admin, map[string]string{"senha": "errada123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuth_RecuperacionDeSenha(t *testing.T) {
	app := newAPI(t)

	resp, body := call(t, app, http.MethodPost, "/api/auth/esqueci-senha", "", map[string]string{"credencial": "admin@vortex.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var forgot dto.ForgotPasswordResponse
	require.NoError(t, json.Unmarshal(body, &forgot))
	assert.Equal(t, "tok-1", forgot.Token)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/redefinir-senha", "", map[string]string{
		"token": "tok-1", "senha": "nova1234", "confirmar_senha": "nova1234",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	login(t, app, "admin@vortex.com", "nova1234")

	resp, body = call(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{"credencial": "admin@vortex.com", "senha": "admin@2025"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}
