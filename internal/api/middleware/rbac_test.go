package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func runRBAC(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := RBAC(allowed...)(next)(c); err != nil {
		t.Fatalf("RBAC: %v", err)
	}
	return rec
}

func TestRBAC(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		allowed []string
		want    int
	}{
		{"allowed role", "instructor", []string{"instructor"}, http.StatusOK},
		{"one of several", "stake_rep", []string{"stake_rep", "stake_president"}, http.StatusOK},
		{"wrong role", "student", []string{"instructor"}, http.StatusForbidden},
		{"missing role", "", []string{"instructor"}, http.StatusForbidden},
		{"empty allow list", "instructor", nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := runRBAC(t, tc.role, tc.allowed...)
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
