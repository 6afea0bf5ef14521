package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mirado/clinic-console-api/internal/handlers"
	"github.com/mirado/clinic-console-api/internal/models"
	"github.com/mirado/clinic-console-api/internal/services"
	"github.com/mirado/clinic-console-api/internal/store"
	"github.com/mirado/clinic-console-api/internal/utils"
)

const (
	adminA = "alice@clinic.example"
	adminB = "ben@clinic.example"
)

type testEnv struct {
	router    *gin.Engine
	handler   *handlers.Handler
	accounts  *store.MemoryAccounts
	documents *store.MemoryDocuments
	clinics   *store.MemoryClinics
	admins    *store.MemoryAdmins
}

// newTestEnv builds the full router over in-memory stores. External services
// point at unroutable hosts; tests that need them swap in an httptest server.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	accounts := store.NewMemoryAccounts()
	documents := store.NewMemoryDocuments()
	clinics := store.NewMemoryClinics()
	admins := store.NewMemoryAdmins()
	images := services.NewImageHostService("http://127.0.0.1:0", "test-key")
	quotes := services.NewQuoteService("http://127.0.0.1:0")

	h := handlers.NewHandler(accounts, documents, clinics, admins, images, quotes)
	r := gin.New()
	h.RegisterRoutes(r)

	return &testEnv{
		router:    r,
		handler:   h,
		accounts:  accounts,
		documents: documents,
		clinics:   clinics,
		admins:    admins,
	}
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := utils.GenerateJWT(email, "test-admin")
	require.NoError(t, err)
	return "Bearer " + tok
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) asAdmin(t *testing.T, admin, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{"Authorization": e.token(t, admin)})
}

func (e *testEnv) asPortal(t *testing.T, email, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, method, path, body, map[string]string{"X-Portal-Email": email})
}

// seedAccount inserts an account directly through the store, bypassing the
// pending default so tests can start from any status.
func (e *testEnv) seedAccount(t *testing.T, owner, username, email, status string) string {
	t.Helper()
	id, err := e.accounts.Create(t.Context(), models.Account{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
		Status:   status,
	}, owner)
	require.NoError(t, err)
	return id
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(w.Body).Decode(out))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/accounts", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/accounts", nil, map[string]string{"Authorization": "Bearer not-a-token"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
