package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/internal/core/domain"
)

func TestHTTPErrorHandlerMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"token revoked", domain.ErrTokenRevoked, http.StatusUnauthorized, "token revoked"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"duplicate user", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"group not found", domain.ErrGroupNotFound, http.StatusNotFound, "group not found"},
		{"group full", domain.ErrGroupFull, http.StatusUnprocessableEntity, "group is full"},
		{"group closed", domain.ErrGroupClosed, http.StatusUnprocessableEntity, "group is not open for enrollment"},
		{"already enrolled", domain.ErrAlreadyEnrolled, http.StatusConflict, "student already enrolled"},
		{"wrapped sentinel", errors.Join(errors.New("context"), domain.ErrGroupFull), http.StatusUnprocessableEntity, "group is full"},
		{"echo error", echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot, "short and stout"},
		{"unexpected error", errors.New("mongo exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			var res struct {
				Error string `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if res.Error != tc.wantMsg {
				t.Errorf("error = %q, want %q", res.Error, tc.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandlerSkipsCommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.NoContent(http.StatusOK); err != nil {
		t.Fatalf("NoContent: %v", err)
	}
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrGroupFull, c)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, handler overwrote a committed response", rec.Code)
	}
}
