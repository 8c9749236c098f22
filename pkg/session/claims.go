// Package session implements the client-side session contract for the
// self-reliance portal: a credential store with layered persistence, a
// session controller that tracks expiry, and a role-based view router.
//
// The bearer credential is an opaque signed token issued by the backend. The
// client only decodes the claims segment; the signature is never verified
// here — trust is delegated to the backend on every API call.
package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedCredential reports a credential whose claims segment cannot be
// decoded. Callers inside this package recover from it by treating the
// credential as absent; it never escapes to application code.
var ErrMalformedCredential = errors.New("malformed credential")

// Claims is the decoded payload of a bearer credential.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	Role      string
	Ward      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// wireClaims tolerates the loosely-typed payloads different backend versions
// emit: the subject has been observed as both a JSON number and a string.
type wireClaims struct {
	Sub   json.RawMessage `json:"sub"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  string          `json:"role"`
	Ward  string          `json:"ward"`
	Iat   int64           `json:"iat"`
	Exp   int64           `json:"exp"`
}

// DecodeClaims extracts the claims from the middle Base64URL segment of a
// three-segment credential. It returns ErrMalformedCredential for anything
// that does not decode; it never panics on hostile input.
func DecodeClaims(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 || parts[1] == "" {
		return nil, ErrMalformedCredential
	}

	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	var wc wireClaims
	if err := json.Unmarshal(payload, &wc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}

	c := &Claims{
		Subject: flexString(wc.Sub),
		Name:    wc.Name,
		Email:   wc.Email,
		Role:    wc.Role,
		Ward:    wc.Ward,
	}
	if wc.Iat > 0 {
		c.IssuedAt = time.Unix(wc.Iat, 0).UTC()
	}
	if wc.Exp > 0 {
		c.ExpiresAt = time.Unix(wc.Exp, 0).UTC()
	}
	return c, nil
}

// flexString renders a raw JSON scalar as a string, whether the backend sent
// a string or a number.
func flexString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
