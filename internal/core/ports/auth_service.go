package ports

import (
	"context"
	"time"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

// SignupInput carries self-registration data. New members always start as
// students in the default ward; committee roles are assigned out of band.
type SignupInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresIn time.Duration
	User      *domain.User
}

// TokenIdentity is the set of claims the Auth middleware extracts from a
// bearer token and hands to downstream handlers.
type TokenIdentity struct {
	UserID    string
	Name      string
	Email     string
	Role      string
	Ward      string
	JTI       string
	ExpiresAt time.Time
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Logout revokes the token's jti until its natural expiry.
	Logout(ctx context.Context, identity TokenIdentity) error
	// Verify resolves the authenticated user from token identity, falling
	// back to claim-derived fields when the user record is gone.
	Verify(ctx context.Context, identity TokenIdentity) (*domain.User, error)
}
