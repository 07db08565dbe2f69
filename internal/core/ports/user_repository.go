package ports

import (
	"context"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// UserRepository is the credential store. Username arguments are expected in
// normalized form (see domain.Normalize).
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Create assigns the ID and returns the stored user. A normalized
	// username collision yields domain.ErrDuplicateUser.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
