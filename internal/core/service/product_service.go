package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devtalles/apiecommerce/internal/core/domain"
	"github.com/devtalles/apiecommerce/internal/core/ports"
)

type ProductService struct {
	repo       ports.ProductRepository
	categories ports.CategoryRepository
	logger     zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, categories ports.CategoryRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, categories: categories, logger: logger}
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, domain.ErrProductNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// ListByCategory returns an empty slice for non-positive ids without a lookup.
func (s *ProductService) ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error) {
	if categoryID <= 0 {
		return []*domain.Product{}, nil
	}
	return s.repo.ListByCategory(ctx, categoryID)
}

// SearchProducts falls back to the full listing for a blank term.
func (s *ProductService) SearchProducts(ctx context.Context, term string) ([]*domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, term)
}

func (s *ProductService) CreateProduct(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	in, err := s.checkInput(ctx, in)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, domain.Normalize(in.Name))
	if err != nil {
		return nil, fmt.Errorf("check product name: %w", err)
	}
	if exists {
		return nil, domain.ErrProductExists
	}

	created, err := s.repo.Create(ctx, &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    in.ImageURL,
		SKU:         in.SKU,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("name", in.Name).Msg("failed to create product")
		return nil, err
	}

	s.logger.Info().Int64("product_id", created.ID).Str("sku", created.SKU).Msg("product created")
	return created, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id int64, in ports.ProductInput) error {
	existing, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}

	in, err = s.checkInput(ctx, in)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.ImageURL = in.ImageURL
	existing.SKU = in.SKU
	existing.Stock = in.Stock
	existing.CategoryID = in.CategoryID
	existing.UpdatedAt = &now

	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update product %d: %w", id, err)
	}
	return nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// BuyProduct decrements stock for the product whose normalized name matches.
func (s *ProductService) BuyProduct(ctx context.Context, name string, quantity int) error {
	if strings.TrimSpace(name) == "" || quantity <= 0 {
		return fmt.Errorf("%w: product name and a positive quantity are required", domain.ErrInvalidInput)
	}
	if err := s.repo.DecrementStock(ctx, domain.Normalize(name), quantity); err != nil {
		return err
	}
	s.logger.Info().Str("product", name).Int("quantity", quantity).Msg("product purchased")
	return nil
}

func (s *ProductService) checkInput(ctx context.Context, in ports.ProductInput) (ports.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case in.SKU == "":
		return in, fmt.Errorf("%w: sku is required", domain.ErrInvalidInput)
	case in.Price < 0:
		return in, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	case in.Stock < 0:
		return in, fmt.Errorf("%w: stock must not be negative", domain.ErrInvalidInput)
	}

	ok, err := s.categories.Exists(ctx, in.CategoryID)
	if err != nil {
		return in, fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return in, fmt.Errorf("%w: %d", domain.ErrUnknownCategory, in.CategoryID)
	}
	return in, nil
}
