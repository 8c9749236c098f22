// Package portal is the HTTP client for the self-reliance portal API. It owns
// no session state itself: the bearer credential lives in a session.Store, and
// a 401 from any endpoint clears that store so the caller drops straight to
// the login surface.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kuss/selfreliance-portal/pkg/session"
)

// ErrUnauthorized reports a request the backend rejected with 401. The local
// session has already been cleared by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

const defaultTimeout = 15 * time.Second

// Client calls the portal REST API. It implements session.Backend so a
// session.Controller can drive login, signup and logout through it.
type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	log     zerolog.Logger
}

func NewClient(baseURL string, store *session.Store, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		store:   store,
		log:     log,
	}
}

// wireUser mirrors the user record the backend embeds in auth responses.
type wireUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Ward  string `json:"ward"`
}

func (u *wireUser) toSession() *session.User {
	return &session.User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Ward:  u.Ward,
	}
}

type loginResponse struct {
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	User        *wireUser `json:"user"`
	AccessToken string    `json:"access_token"`
}

// Login exchanges credentials for a bearer token, stores the token, and
// returns the authenticated user.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	body := map[string]string{"email": email, "password": password}

	var res loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	if res.AccessToken == "" || res.User == nil {
		return nil, fmt.Errorf("login: incomplete response from backend")
	}

	c.store.SetCredential(res.AccessToken)
	return res.User.toSession(), nil
}

// Signup registers a new member. It does not log the member in; the session
// controller chains a login after a successful signup.
func (c *Client) Signup(ctx context.Context, data session.SignupData) error {
	body := map[string]string{
		"name":        data.Name,
		"email":       data.Email,
		"phoneNumber": data.PhoneNumber,
		"password":    data.Password,
	}
	return c.do(ctx, http.MethodPost, "/signup", body, nil)
}

// Logout asks the backend to revoke the current token. Revocation is
// best-effort server-side; a nil error only means the backend acknowledged.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

type verifyResponse struct {
	User *wireUser `json:"user"`
}

// Verify asks the backend to re-validate the stored token and returns the
// authoritative user record.
func (c *Client) Verify(ctx context.Context) (*session.User, error) {
	var res verifyResponse
	if err := c.do(ctx, http.MethodGet, "/auth/verify", nil, &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("verify: empty user in response")
	}
	return res.User.toSession(), nil
}

// do performs one API round trip: attach the bearer token if one is held,
// send, map error statuses, decode into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.store.Credential(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		// The backend no longer honors our token; keeping it would loop
		// every subsequent call through the same rejection.
		c.log.Info().Str("path", path).Msg("backend rejected credential, clearing session")
		c.store.Clear()
		return fmt.Errorf("%s %s: %w: %s", method, path, ErrUnauthorized, apiMessage(res.Body))
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: backend returned %d: %s", method, path, res.StatusCode, apiMessage(res.Body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

// apiMessage pulls the error string out of the standard error envelope,
// degrading gracefully when the body is not JSON.
func apiMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return "no details"
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return string(data)
}
