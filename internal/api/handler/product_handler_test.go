package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/devtalles/apiecommerce/internal/api/middleware"
	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

type stubProductService struct {
	ports.ProductService
	products []*domain.Product
	buyFn    func(name string, qty int) error
	created  *ports.ProductInput
}

func (s *stubProductService) ListByCategory(_ context.Context, id int64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range s.products {
		if p.CategoryID == id {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductService) SearchProducts(_ context.Context, term string) ([]*domain.Product, error) {
	if term == "shoe" {
		return s.products, nil
	}
	return nil, nil
}

func (s *stubProductService) CreateProduct(_ context.Context, in ports.ProductInput) (*domain.Product, error) {
	s.created = &in
	return &domain.Product{ID: 4, Name: in.Name, CategoryID: in.CategoryID}, nil
}

func (s *stubProductService) BuyProduct(_ context.Context, name string, qty int) error {
	return s.buyFn(name, qty)
}

func authenticated(c echo.Context) echo.Context {
	c.Set(middleware.ContextKeyClaims, &domain.Claims{Subject: "2", Username: "bob", Role: domain.RoleCustomer})
	return c
}

func TestProductHandler_ListByCategory_EmptyIsNotFound(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{products: []*domain.Product{{ID: 1, Name: "Runner", CategoryID: 1}}})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("categoryId")
	c.SetParamValues("2")

	if err := h.ListByCategory(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("categoryId")
	c.SetParamValues("1")
	if err := h.ListByCategory(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var got []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || len(got) != 1 {
		t.Fatalf("unexpected body %s (%v)", rec.Body.String(), err)
	}
}

func TestProductHandler_Search_NoMatch(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{products: []*domain.Product{{ID: 1, Name: "Runner"}}})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("term")
	c.SetParamValues("hat")

	if err := h.Search(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubProductService{}
	h := NewProductHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/v1/products", `{"name":"Runner","sku":"R-1","price":-1,"category_id":1}`), rec)
	if err := h.Create(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest || stub.created != nil {
		t.Fatalf("expected 400 without service call, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(jsonRequest(http.MethodPost, "/api/v1/products", `{"name":"Runner","sku":"R-1","price":10,"stock":3,"category_id":1}`), rec)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderLocation) != "/api/v1/products/4" {
		t.Fatalf("unexpected location %q", rec.Header().Get(echo.HeaderLocation))
	}
}

func TestProductHandler_Buy(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{buyFn: func(name string, qty int) error {
		if name != "Runner" || qty != 2 {
			t.Fatalf("unexpected args %q %d", name, qty)
		}
		return nil
	}})

	rec := httptest.NewRecorder()
	c := authenticated(e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), rec))
	c.SetParamNames("name", "quantity")
	c.SetParamValues("Runner", "2")

	if err := h.Buy(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "purchased 2 unit(s) of 'Runner'" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestProductHandler_Buy_Rejections(t *testing.T) {
	e := newTestEcho()
	h := NewProductHandler(&stubProductService{buyFn: func(string, int) error {
		return domain.ErrInsufficientStock
	}})

	rec := httptest.NewRecorder()
	c := authenticated(e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), rec))
	c.SetParamNames("name", "quantity")
	c.SetParamValues("Runner", "0")
	if err := h.Buy(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}

	c = authenticated(e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), httptest.NewRecorder()))
	c.SetParamNames("name", "quantity")
	c.SetParamValues("Runner", "5")
	if err := h.Buy(c); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodPatch, "/", nil), rec)
	c.SetParamNames("name", "quantity")
	c.SetParamValues("Runner", "1")
	if err := h.Buy(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	e := newTestEcho()
	h := NewHealthHandler(map[string]PingFunc{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["mongodb"].Status != "ok" || resp.Dependencies["redis"].Status != "unhealthy" {
		t.Fatalf("unexpected readiness: %+v", resp)
	}
}
