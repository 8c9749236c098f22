package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kuss/selfreliance-portal/internal/core/ports"
)

// ctxIdentity extracts the token claims injected by the Auth middleware and
// fast-fails before any service call: a present role and email prove the
// middleware ran on this route.
func ctxIdentity(c echo.Context) (ports.TokenIdentity, error) {
	role, _ := c.Get("role").(string)
	email, _ := c.Get("email").(string)
	if role == "" || email == "" {
		return ports.TokenIdentity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ := c.Get("user_id").(string)
	name, _ := c.Get("name").(string)
	ward, _ := c.Get("ward").(string)
	jti, _ := c.Get("jti").(string)
	expiresAt, _ := c.Get("expires_at").(time.Time)

	return ports.TokenIdentity{
		UserID:    userID,
		Name:      name,
		Email:     email,
		Role:      role,
		Ward:      ward,
		JTI:       jti,
		ExpiresAt: expiresAt,
	}, nil
}
