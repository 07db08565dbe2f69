package ports

import (
	"context"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// ProductRepository defines persistence operations for products.
// List-style methods return products ordered by name.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*domain.Product, error)
	// Search matches term case-insensitively against name and description.
	Search(ctx context.Context, term string) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id int64) error
	// DecrementStock atomically subtracts quantity from the named product's
	// stock. It fails with domain.ErrProductNotFound or
	// domain.ErrInsufficientStock without modifying anything.
	DecrementStock(ctx context.Context, name string, quantity int) error
}
