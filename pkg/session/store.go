package session

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store owns the bearer credential: it answers validity questions locally,
// from the decoded claims, and keeps the credential durable across process
// restarts by writing it to every configured tier.
//
// A malformed or expired credential is indistinguishable from an absent one
// to callers; both degrade to "no session".
type Store struct {
	mu     sync.Mutex
	tiers  []Tier
	raw    string
	claims *Claims
	expiry time.Time
	now    func() time.Time
	log    zerolog.Logger
}

// NewStore builds a Store over the given tiers, tried in order on read and
// written to all on write. A store with no tiers is memory-only.
func NewStore(log zerolog.Logger, tiers ...Tier) *Store {
	return &Store{
		tiers: tiers,
		now:   func() time.Time { return time.Now().UTC() },
		log:   log,
	}
}

// SetCredential decodes and adopts a new credential, persisting it to every
// tier. A credential that fails to decode clears the store instead of
// erroring: the caller is left with no session and must re-authenticate.
func (s *Store) SetCredential(raw string) {
	claims, err := DecodeClaims(raw)
	if err != nil {
		s.log.Warn().Err(err).Msg("discarding undecodable credential")
		s.Clear()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.raw = raw
	s.claims = claims
	s.expiry = claims.ExpiresAt

	for _, tier := range s.tiers {
		if err := tier.Save(raw, s.expiry); err != nil {
			// One tier failing is survivable; the others still hold the session.
			s.log.Warn().Err(err).Str("tier", tier.Name()).Msg("credential save failed")
		}
	}
}

// Credential returns the current raw credential, reloading from the tiers if
// memory is empty. An expired credential is cleared everywhere and reported
// as absent.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credentialLocked()
}

// Claims returns the decoded claims of the current valid credential.
func (s *Store) Claims() (*Claims, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentialLocked(); !ok {
		return nil, false
	}
	c := *s.claims
	return &c, true
}

// IsValid reports whether a credential is present and strictly unexpired.
func (s *Store) IsValid() bool {
	_, ok := s.Credential()
	return ok
}

// TimeUntilExpiry returns the non-negative duration until the credential
// expires, or false when no valid credential is held.
func (s *Store) TimeUntilExpiry() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentialLocked(); !ok {
		return 0, false
	}
	d := s.expiry.Sub(s.now())
	if d < 0 {
		d = 0
	}
	return d, true
}

// Clear removes the credential from memory and every tier. Safe to call when
// nothing is held.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Store) credentialLocked() (string, bool) {
	if s.raw == "" {
		s.reloadLocked()
	}
	if s.raw == "" {
		return "", false
	}

	if !s.expiry.After(s.now()) {
		s.clearLocked()
		return "", false
	}
	return s.raw, true
}

// reloadLocked restores the credential from the first tier that has one.
// Persisted expiry is only a hint; the decoded claim stays authoritative.
func (s *Store) reloadLocked() {
	for _, tier := range s.tiers {
		raw, _, ok, err := tier.Load()
		if err != nil {
			s.log.Warn().Err(err).Str("tier", tier.Name()).Msg("credential load failed")
			continue
		}
		if !ok {
			continue
		}

		claims, err := DecodeClaims(raw)
		if err != nil {
			s.log.Warn().Err(err).Str("tier", tier.Name()).Msg("discarding undecodable persisted credential")
			continue
		}

		s.raw = raw
		s.claims = claims
		s.expiry = claims.ExpiresAt
		return
	}
}

func (s *Store) clearLocked() {
	s.raw = ""
	s.claims = nil
	s.expiry = time.Time{}

	for _, tier := range s.tiers {
		if err := tier.Clear(); err != nil {
			s.log.Warn().Err(err).Str("tier", tier.Name()).Msg("credential clear failed")
		}
	}
}
