package ports

import (
	"context"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

// UserRepository defines persistence operations for registered members.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
