package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/linkmark/internal/auth"
	"github.com/serroba/linkmark/internal/middleware"
	"github.com/stretchr/testify/assert"
)

type whoamiOutput struct {
	Body struct {
		Principal     string `json:"principal"`
		Authenticated bool   `json:"authenticated"`
	}
}

func setupAuthAPI(t *testing.T) (*chi.Mux, huma.API) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.Authentication(api))

	huma.Get(api, "/whoami", func(ctx context.Context, _ *struct{}) (*whoamiOutput, error) {
		out := &whoamiOutput{}
		out.Body.Principal, out.Body.Authenticated = auth.PrincipalFromContext(ctx)

		return out, nil
	})

	return router, api
}

func TestAuthentication(t *testing.T) {
	t.Run("passes the principal header into the context", func(t *testing.T) {
		router, _ := setupAuthAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(middleware.PrincipalHeader, "alice")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"alice"`)
		assert.Contains(t, w.Body.String(), `"authenticated":true`)
	})

	t.Run("missing header leaves the request anonymous", func(t *testing.T) {
		router, _ := setupAuthAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "anonymous requests are not rejected here")
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})

	t.Run("empty header counts as anonymous", func(t *testing.T) {
		router, _ := setupAuthAPI(t)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(middleware.PrincipalHeader, "")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	})
}
