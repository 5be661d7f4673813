package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gadgetbay/gadgetbay-backend/pkg/config"
	"github.com/gadgetbay/gadgetbay-backend/pkg/db"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "user-secret-user-secret-user-secret!",
			Issuer:            "gadgetbay",
			ExpirationMinutes: 60,
		},
		AdminJWT: config.AdminJWTConfig{
			Secret:            "admin-secret-admin-secret-admin-sec!",
			Issuer:            "gadgetbay-admin",
			ExpirationMinutes: 60,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	conn, err := gorm.Open(sqlite.Open("file:router_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	return NewRouter(cfg, logg, Deps{DB: db.FromGorm(conn)})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from liveness, got %d", rec.Code)
	}
}

func TestRouterProtectedRoutesRequireTokens(t *testing.T) {
	router := testRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/orders"},
		{http.MethodPut, "/profile"},
		{http.MethodPost, "/products"},
		{http.MethodGet, "/orders"},
		{http.MethodPost, "/admin/create"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without a token, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
