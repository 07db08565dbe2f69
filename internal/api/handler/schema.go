package handler

import (
	"time"

	"github.com/devtalles/apiecommerce/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Users ---

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,max=72"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse keeps its shape on failure: token is empty and user is null.
type loginResponse struct {
	Token   string       `json:"token"`
	User    *userPayload `json:"user"`
	Message string       `json:"message"`
}

type userPayload struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserPayload(u *domain.User) *userPayload {
	if u == nil {
		return nil
	}
	return &userPayload{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toUserPayloads(users []*domain.User) []*userPayload {
	out := make([]*userPayload, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPayload(u))
	}
	return out
}

// --- Categories ---

type categoryRequest struct {
	Name string `json:"name" validate:"required,min=3,max=50"`
}

// --- Products ---

type productRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"       validate:"gte=0"`
	ImageURL    string  `json:"image_url"   validate:"omitempty,url"`
	SKU         string  `json:"sku"         validate:"required"`
	Stock       int     `json:"stock"       validate:"gte=0"`
	CategoryID  int64   `json:"category_id" validate:"required,gt=0"`
}
