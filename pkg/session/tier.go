package session

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	credentialKey = "access_token"
	expiryKey     = "token_expiry"

	// cookieWindow bounds how long the cookie tier keeps a credential,
	// matching the backend-issued token lifetime.
	cookieWindow = 2 * time.Hour
)

// Tier is one persistence layer for the credential. The store writes to every
// tier and reads from the first one that answers, so losing a single tier
// never loses the session.
type Tier interface {
	Name() string
	// Load returns the persisted credential and its expiry. ok is false when
	// the tier holds nothing usable.
	Load() (raw string, expiry time.Time, ok bool, err error)
	Save(raw string, expiry time.Time) error
	Clear() error
}

// FileTier persists the credential as a small JSON document on disk. It is
// the primary, durable tier.
type FileTier struct {
	path string
}

func NewFileTier(path string) *FileTier {
	return &FileTier{path: path}
}

func (t *FileTier) Name() string { return "file" }

type fileTierDoc struct {
	AccessToken string `json:"access_token"`
	// TokenExpiry is epoch milliseconds, stored as a string for parity with
	// the cookie tier.
	TokenExpiry string `json:"token_expiry"`
}

func (t *FileTier) Load() (string, time.Time, bool, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, fmt.Errorf("file tier load: %w", err)
	}

	var doc fileTierDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", time.Time{}, false, fmt.Errorf("file tier load: %w", err)
	}
	if doc.AccessToken == "" {
		return "", time.Time{}, false, nil
	}
	return doc.AccessToken, parseEpochMillis(doc.TokenExpiry), true, nil
}

func (t *FileTier) Save(raw string, expiry time.Time) error {
	doc := fileTierDoc{
		AccessToken: raw,
		TokenExpiry: formatEpochMillis(expiry),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("file tier save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("file tier save: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o600); err != nil {
		return fmt.Errorf("file tier save: %w", err)
	}
	return nil
}

func (t *FileTier) Clear() error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file tier clear: %w", err)
	}
	return nil
}

// CookieTier persists the credential as Set-Cookie lines in a cookies file,
// one cookie per line, with a bounded expiry window. It is the fallback tier.
type CookieTier struct {
	path string
	now  func() time.Time
}

func NewCookieTier(path string) *CookieTier {
	return &CookieTier{path: path, now: func() time.Time { return time.Now().UTC() }}
}

func (t *CookieTier) Name() string { return "cookie" }

func (t *CookieTier) Load() (string, time.Time, bool, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", time.Time{}, false, nil
		}
		return "", time.Time{}, false, fmt.Errorf("cookie tier load: %w", err)
	}
	defer f.Close()

	header := http.Header{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			header.Add("Set-Cookie", line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", time.Time{}, false, fmt.Errorf("cookie tier load: %w", err)
	}

	var raw string
	var expiry time.Time
	now := t.now()
	for _, ck := range (&http.Response{Header: header}).Cookies() {
		if !ck.Expires.IsZero() && ck.Expires.Before(now) {
			continue
		}
		switch ck.Name {
		case credentialKey:
			raw = ck.Value
		case expiryKey:
			expiry = parseEpochMillis(ck.Value)
		}
	}
	if raw == "" {
		return "", time.Time{}, false, nil
	}
	return raw, expiry, true, nil
}

func (t *CookieTier) Save(raw string, expiry time.Time) error {
	window := t.now().Add(cookieWindow)
	cookies := []*http.Cookie{
		{Name: credentialKey, Value: raw, Path: "/", Expires: window, SameSite: http.SameSiteStrictMode},
		{Name: expiryKey, Value: formatEpochMillis(expiry), Path: "/", Expires: window, SameSite: http.SameSiteStrictMode},
	}

	var b strings.Builder
	for _, ck := range cookies {
		b.WriteString(ck.String())
		b.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0o700); err != nil {
		return fmt.Errorf("cookie tier save: %w", err)
	}
	if err := os.WriteFile(t.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("cookie tier save: %w", err)
	}
	return nil
}

func (t *CookieTier) Clear() error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("cookie tier clear: %w", err)
	}
	return nil
}

func parseEpochMillis(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func formatEpochMillis(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}
