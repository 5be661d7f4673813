package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	productsvc "github.com/gadgetbay/gadgetbay-backend/internal/products"
	"github.com/gadgetbay/gadgetbay-backend/pkg/logger"
	"github.com/gadgetbay/gadgetbay-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateProduct(t *testing.T) {
	logg := testLogger()

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := strings.NewReader(`{"type":"Laptop","name":"X","brand":"Y","quantity":1,"video_file_id":"` + uuid.NewString() + `","bogus":true}`)
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		rec := httptest.NewRecorder()
		CreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("rejects bad type", func(t *testing.T) {
		body := strings.NewReader(`{"type":"Couch","name":"X","brand":"Y","quantity":1,"video_file_id":"` + uuid.NewString() + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		rec := httptest.NewRecorder()
		CreateProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad type, got %d", rec.Code)
		}
	})

	t.Run("creates", func(t *testing.T) {
		stub := &stubProductService{}
		body := strings.NewReader(`{"type":"Laptop","name":"ThinkPad","brand":"Lenovo","quantity":5,"video_file_id":"` + uuid.NewString() + `"}`)
		req := httptest.NewRequest(http.MethodPost, "/products", body)
		rec := httptest.NewRecorder()
		CreateProduct(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !stub.created {
			t.Fatalf("expected Create to be invoked")
		}
	})
}

func TestGetProduct(t *testing.T) {
	logg := testLogger()

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/products/nope", nil)
		req = withURLParam(req, "productId", "nope")
		rec := httptest.NewRecorder()
		GetProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("found", func(t *testing.T) {
		id := uuid.New()
		req := httptest.NewRequest(http.MethodGet, "/products/"+id.String(), nil)
		req = withURLParam(req, "productId", id.String())
		rec := httptest.NewRecorder()
		GetProduct(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestListProductsRejectsBadPaging(t *testing.T) {
	logg := testLogger()
	req := httptest.NewRequest(http.MethodGet, "/products?limit=9999", nil)
	rec := httptest.NewRecorder()
	ListProducts(&stubProductService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit, got %d", rec.Code)
	}
}

type stubProductService struct {
	created bool
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*productsvc.View, error) {
	s.created = true
	return &productsvc.View{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubProductService) Get(ctx context.Context, id uuid.UUID) (*productsvc.View, error) {
	return &productsvc.View{ID: id}, nil
}

func (s *stubProductService) List(ctx context.Context, params pagination.Params) (*productsvc.List, error) {
	return &productsvc.List{Meta: params.MetaFor(0)}, nil
}

func (s *stubProductService) Search(ctx context.Context, query string, params pagination.Params) (*productsvc.List, error) {
	return &productsvc.List{Meta: params.MetaFor(0)}, nil
}

func (s *stubProductService) Update(ctx context.Context, id uuid.UUID, input productsvc.UpdateInput) (*productsvc.View, error) {
	panic("unimplemented")
}

func (s *stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}
