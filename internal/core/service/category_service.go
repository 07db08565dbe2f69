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

type CategoryService struct {
	repo   ports.CategoryRepository
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, logger: logger}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	if id <= 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// CreateCategory rejects names that collide case- and whitespace-insensitively
// with an existing category.
func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	name, err := s.checkName(ctx, name)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.Category{Name: name, CreatedAt: time.Now().UTC()})
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to create category")
		return nil, err
	}

	s.logger.Info().Int64("category_id", created.ID).Str("name", created.Name).Msg("category created")
	return created, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name string) error {
	existing, err := s.GetCategory(ctx, id)
	if err != nil {
		return err
	}

	name, err = s.checkName(ctx, name)
	if err != nil {
		return err
	}

	existing.Name = name
	if err := s.repo.Update(ctx, existing); err != nil {
		return fmt.Errorf("update category %d: %w", id, err)
	}
	return nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) checkName(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	exists, err := s.repo.ExistsByName(ctx, domain.Normalize(name))
	if err != nil {
		return "", fmt.Errorf("check category name: %w", err)
	}
	if exists {
		return "", domain.ErrCategoryExists
	}
	return name, nil
}
