package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type memoryStore struct {
	entries     map[string][]byte
	invalidated int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	bs, ok := s.entries[key]
	return bs, ok, nil
}

func (s *memoryStore) Set(_ context.Context, key string, payload []byte) error {
	s.entries[key] = payload
	return nil
}

func (s *memoryStore) Invalidate(_ context.Context) error {
	s.entries = make(map[string][]byte)
	s.invalidated++
	return nil
}

func TestCache_MissThenHit(t *testing.T) {
	e := echo.New()
	store := newMemoryStore()
	calls := 0
	e.GET("/categories", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]string{"name": "Shoes"})
	}, Cache(store, zerolog.Nop()))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("expected MISS, got %q", first.Header().Get("X-Cache"))
	}

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("expected HIT, got %q", second.Header().Get("X-Cache"))
	}
	if second.Code != http.StatusOK || second.Body.String() != first.Body.String() {
		t.Fatalf("cached response differs: %d %q", second.Code, second.Body.String())
	}
	if second.Header().Get(echo.HeaderContentType) != first.Header().Get(echo.HeaderContentType) {
		t.Fatalf("content type not restored: %q", second.Header().Get(echo.HeaderContentType))
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
}

func TestCache_SkipsErrors(t *testing.T) {
	e := echo.New()
	store := newMemoryStore()
	e.GET("/categories/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "category not found"})
	}, Cache(store, zerolog.Nop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/9", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if len(store.entries) != 0 {
		t.Fatalf("error response was cached")
	}
}

func TestCache_WriteInvalidates(t *testing.T) {
	e := echo.New()
	store := newMemoryStore()
	store.entries["stale"] = []byte("x")
	e.POST("/categories", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, Cache(store, zerolog.Nop()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/categories", nil))
	if store.invalidated != 1 || len(store.entries) != 0 {
		t.Fatalf("expected invalidation, got %d (%d entries)", store.invalidated, len(store.entries))
	}
}
