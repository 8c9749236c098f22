package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultCheckInterval    = time.Minute
	defaultWarningThreshold = 10 * time.Minute

	// Placeholder identity fields used when a session is restored from bare
	// claims and no verify endpoint or cached record can fill them in.
	placeholderName = "Member"
	placeholderWard = "unknown"
)

// User is the client-side user record driving role-based view dispatch.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Ward  string `json:"ward"`
}

// SignupData carries self-registration fields.
type SignupData struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
}

// Backend is the slice of the REST API the controller drives. The
// implementation is expected to place the issued credential into the shared
// Store on successful login.
type Backend interface {
	Login(ctx context.Context, email, password string) (*User, error)
	Signup(ctx context.Context, data SignupData) error
	Logout(ctx context.Context) error
}

// Snapshot is the read-only session state exposed to consumers.
type Snapshot struct {
	User            *User
	Authenticated   bool
	Loading         bool
	ExpiryWarning   bool
	TimeUntilExpiry time.Duration
}

// Options tunes the controller. The zero value gives production behavior.
type Options struct {
	CheckInterval    time.Duration
	WarningThreshold time.Duration
	// UserCache, when set, persists the user record for instant restore.
	UserCache UserCache
	// DisableClaimIdentity turns off the placeholder-identity fallback: a
	// restored credential without a cached user record then yields an
	// unauthenticated session instead of a claims-synthesized user.
	DisableClaimIdentity bool
}

// Controller is the only component that mutates session state. It cycles
// between Unauthenticated and Authenticated for the life of the process.
type Controller struct {
	backend Backend
	store   *Store
	log     zerolog.Logger
	opts    Options

	mu            sync.Mutex
	user          *User
	authenticated bool
	loading       bool
	warning       bool
	stop          chan struct{}
}

// NewController wires a controller over a backend and credential store. Call
// Start to restore any persisted session, and Close to tear the ticker down.
func NewController(backend Backend, store *Store, log zerolog.Logger, opts Options) *Controller {
	if opts.CheckInterval <= 0 {
		opts.CheckInterval = defaultCheckInterval
	}
	if opts.WarningThreshold <= 0 {
		opts.WarningThreshold = defaultWarningThreshold
	}
	return &Controller{
		backend: backend,
		store:   store,
		log:     log,
		opts:    opts,
		loading: true,
	}
}

// Start attempts to restore a persisted session: a cached user record with a
// still-valid credential wins; otherwise a valid credential alone yields a
// claims-synthesized user with placeholder fields. Either way the controller
// leaves the loading state.
func (c *Controller) Start() {
	defer func() {
		c.mu.Lock()
		c.loading = false
		c.mu.Unlock()
	}()

	if !c.store.IsValid() {
		c.log.Debug().Msg("no usable credential, starting unauthenticated")
		return
	}

	if c.opts.UserCache != nil {
		if cached, ok, err := c.opts.UserCache.Load(); err != nil {
			c.log.Warn().Err(err).Msg("user cache unreadable")
		} else if ok {
			c.becomeAuthenticated(cached)
			c.log.Info().Str("email", cached.Email).Msg("session restored from cache")
			return
		}
	}

	if c.opts.DisableClaimIdentity {
		c.log.Info().Msg("valid credential but no cached user, claim identity disabled")
		c.clearSession(false)
		return
	}

	claims, ok := c.store.Claims()
	if !ok {
		return
	}
	user := &User{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
		Ward:  claims.Ward,
	}
	if user.Name == "" {
		user.Name = placeholderName
	}
	if user.Ward == "" {
		user.Ward = placeholderWard
	}
	c.becomeAuthenticated(user)
	c.log.Info().Str("email", user.Email).Msg("session restored from credential claims")
}

// Login authenticates against the backend. On failure the controller stays
// unauthenticated and the error is returned to the caller; nothing retries
// automatically.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	user, err := c.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if c.opts.UserCache != nil {
		if err := c.opts.UserCache.Save(user); err != nil {
			c.log.Warn().Err(err).Msg("user cache save failed")
		}
	}

	c.becomeAuthenticated(user)
	return nil
}

// Signup registers and then immediately logs the new member in with the same
// credentials.
func (c *Controller) Signup(ctx context.Context, data SignupData) error {
	if err := c.backend.Signup(ctx, data); err != nil {
		return err
	}
	return c.Login(ctx, data.Email, data.Password)
}

// Logout notifies the backend best-effort, then unconditionally clears local
// state. Calling it twice is safe and leaves the same state as calling it
// once.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.backend.Logout(ctx); err != nil {
		c.log.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
	}
	c.clearSession(true)
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Authenticated: c.authenticated,
		Loading:       c.loading,
		ExpiryWarning: c.warning,
	}
	if c.user != nil {
		u := *c.user
		snap.User = &u
	}
	if d, ok := c.store.TimeUntilExpiry(); ok {
		snap.TimeUntilExpiry = d
	}
	return snap
}

// Close stops the periodic expiry check. The controller can be started again
// only by constructing a new one.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickerLocked()
}

func (c *Controller) becomeAuthenticated(user *User) {
	c.mu.Lock()
	c.user = user
	c.authenticated = true
	c.warning = false
	c.startTickerLocked()
	c.mu.Unlock()

	// Immediate check on entering the state, so a nearly-expired restored
	// credential raises the warning without waiting a full interval.
	c.checkExpiry()
}

// clearSession is the single convergence point for logout, forced expiry and
// failed restore. It is idempotent: overlapping ticks and explicit logouts
// may both land here.
func (c *Controller) clearSession(clearCredential bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = nil
	c.authenticated = false
	c.warning = false
	c.stopTickerLocked()

	if c.opts.UserCache != nil {
		if err := c.opts.UserCache.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("user cache clear failed")
		}
	}
	if clearCredential {
		c.store.Clear()
	}
}

func (c *Controller) startTickerLocked() {
	if c.stop != nil {
		return
	}
	stop := make(chan struct{})
	c.stop = stop

	go func() {
		ticker := time.NewTicker(c.opts.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				c.checkExpiry()
			}
		}
	}()
}

func (c *Controller) stopTickerLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

// checkExpiry runs once per tick while authenticated. The warning flag is
// sticky: once raised it stays up until the session ends.
func (c *Controller) checkExpiry() {
	c.mu.Lock()
	if !c.authenticated {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	remaining, ok := c.store.TimeUntilExpiry()
	if !ok || remaining <= 0 {
		c.log.Info().Msg("credential expired, forcing logout")
		if err := c.backend.Logout(context.Background()); err != nil {
			c.log.Debug().Err(err).Msg("backend logout on expiry failed")
		}
		c.clearSession(true)
		return
	}

	if remaining < c.opts.WarningThreshold {
		c.mu.Lock()
		if !c.warning {
			c.warning = true
			c.log.Warn().Dur("remaining", remaining).Msg("credential expires soon")
		}
		c.mu.Unlock()
	}
}
