package ports

import (
	"context"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// RegisterInput carries a registration request as received from the client.
type RegisterInput struct {
	Username string
	Name     string
	Password string
	Role     string
}

// LoginResult always carries a message. An empty Token means the login failed.
type LoginResult struct {
	Token   string
	User    *domain.User
	Message string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Authenticate verifies credentials and issues a token on success.
	Authenticate(ctx context.Context, username, password string) (*domain.User, *domain.Token, error)
	// Login wraps Authenticate, folding authentication failures into the
	// result message. The returned error is reserved for infrastructure faults.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}
