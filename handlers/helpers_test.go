package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"dragnotes/db"
	"dragnotes/db/dbtest"
	"dragnotes/logger"
	"dragnotes/middleware"
	"dragnotes/service"
)

type testAPI struct {
	router *chi.Mux
	auth   *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	gdb := dbtest.New(t)
	log := logger.Nop()

	users := db.NewUserStore(gdb, log)
	auth := service.NewAuthService(users, service.NewPasswordHasher(4), service.NewTokenService("test-secret", 24*time.Hour), log)
	notes := service.NewNoteService(db.NewNoteStore(gdb, log), log)

	h := NewHandler(Deps{
		Auth:  auth,
		Notes: notes,
		Guard: middleware.NewGuard(auth),
		Ping:  func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Env:   "test",
	}, log)

	return &testAPI{router: h.Init(), auth: auth}
}

// do sends a request through the router. body may be nil, a string sent
// verbatim, or any value encoded as JSON.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// signupAndLogin registers email and returns a bearer token for it.
func (a *testAPI) signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	rr := a.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	return decode(t, rr)["token"].(string)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}
