package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

type stubProductRepo struct {
	byID   map[int64]*domain.Product
	nextID int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[int64]*domain.Product)}
}

func (r *stubProductRepo) List(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubProductRepo) ListByCategory(_ context.Context, categoryID int64) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Search(_ context.Context, term string) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.byID {
		if strings.Contains(strings.ToLower(p.Name+" "+p.Description), strings.ToLower(term)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	if p, ok := r.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, p := range r.byID {
		if domain.Normalize(p.Name) == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	r.nextID++
	clone := *p
	clone.ID = r.nextID
	r.byID[clone.ID] = &clone
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) error {
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	delete(r.byID, id)
	return nil
}

func (r *stubProductRepo) DecrementStock(_ context.Context, name string, quantity int) error {
	for _, p := range r.byID {
		if domain.Normalize(p.Name) == name {
			if p.Stock < quantity {
				return domain.ErrInsufficientStock
			}
			p.Stock -= quantity
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func newProductSvc() (*ProductService, *stubProductRepo) {
	repo := newStubProductRepo()
	return NewProductService(repo, newStubCategoryRepo("Shoes"), zerolog.Nop()), repo
}

func validProductInput() ports.ProductInput {
	return ports.ProductInput{
		Name:        "Runner",
		Description: "Light running shoe",
		Price:       59.9,
		SKU:         "PROD-001-BLK-M",
		Stock:       5,
		CategoryID:  1,
	}
}

func TestProductService_Create(t *testing.T) {
	svc, _ := newProductSvc()

	p, err := svc.CreateProduct(context.Background(), validProductInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID != 1 || p.CreatedAt.IsZero() || p.UpdatedAt != nil {
		t.Fatalf("unexpected product: %+v", p)
	}

	if _, err := svc.CreateProduct(context.Background(), validProductInput()); !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists, got %v", err)
	}
}

func TestProductService_Create_Validation(t *testing.T) {
	svc, _ := newProductSvc()

	in := validProductInput()
	in.CategoryID = 9
	if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}

	in = validProductInput()
	in.SKU = " "
	if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for sku, got %v", err)
	}

	in = validProductInput()
	in.Price = -1
	if _, err := svc.CreateProduct(context.Background(), in); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for price, got %v", err)
	}
}

func TestProductService_Update(t *testing.T) {
	svc, repo := newProductSvc()
	if _, err := svc.CreateProduct(context.Background(), validProductInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	in := validProductInput()
	in.Price = 49.9
	if err := svc.UpdateProduct(context.Background(), 1, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID[1].Price != 49.9 || repo.byID[1].UpdatedAt == nil {
		t.Fatalf("product not updated: %+v", repo.byID[1])
	}

	if err := svc.UpdateProduct(context.Background(), 7, in); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_Buy(t *testing.T) {
	svc, repo := newProductSvc()
	if _, err := svc.CreateProduct(context.Background(), validProductInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.BuyProduct(context.Background(), " RUNNER", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.byID[1].Stock != 3 {
		t.Fatalf("expected stock 3, got %d", repo.byID[1].Stock)
	}

	if err := svc.BuyProduct(context.Background(), "runner", 4); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := svc.BuyProduct(context.Background(), "runner", 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.BuyProduct(context.Background(), "ghost", 1); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductService_ListByCategory_NonPositiveID(t *testing.T) {
	svc, _ := newProductSvc()

	got, err := svc.ListByCategory(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestProductService_Search(t *testing.T) {
	svc, _ := newProductSvc()
	if _, err := svc.CreateProduct(context.Background(), validProductInput()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := svc.SearchProducts(context.Background(), " running ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
}
