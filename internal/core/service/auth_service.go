package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// RevocationList abstracts the logout denylist (Redis). Revoked token IDs are
// kept until the token would have expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// AuthService implements signup, login, logout and verification.
type AuthService struct {
	users       ports.UserRepository
	revocations RevocationList
	jwtSecret   string
	tokenTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthService(users ports.UserRepository, revocations RevocationList, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Hour
	}
	return &AuthService{
		users:       users,
		revocations: revocations,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		log:         log,
	}
}

// Signup registers a new member. Everyone self-registers as a student in the
// default ward; leadership roles are granted by a stake representative later.
func (s *AuthService) Signup(ctx context.Context, input ports.SignupInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        email,
		Phone:        input.PhoneNumber,
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
		Ward:         domain.DefaultWard,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Msg("member registered")
	return created, nil
}

// Login authenticates by email and password and issues a signed bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("member logged in")
	return &ports.LoginResult{Token: token, ExpiresIn: s.tokenTTL, User: user}, nil
}

// Logout places the token's jti on the revocation list until its expiry.
// A token without a jti has nothing to revoke and succeeds as a no-op.
func (s *AuthService) Logout(ctx context.Context, identity ports.TokenIdentity) error {
	if identity.JTI == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, identity.JTI, identity.ExpiresAt); err != nil {
		return err
	}
	s.log.Info().Str("email", identity.Email).Msg("member logged out")
	return nil
}

// Verify resolves the full user record for a validated token. When the record
// no longer exists the claim-derived identity is returned instead, so a valid
// token keeps working across a user-store migration.
func (s *AuthService) Verify(ctx context.Context, identity ports.TokenIdentity) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err == nil {
		return user, nil
	}
	if err != domain.ErrUserNotFound {
		return nil, err
	}

	ward := identity.Ward
	if ward == "" {
		ward = domain.DefaultWard
	}
	return &domain.User{
		ID:    identity.UserID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
		Ward:  ward,
	}, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"ward":  user.Ward,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
		"jti":   uuid.NewString(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
