package session

import "io"

// View renders one role's landing surface. Implementations must not mutate
// session state.
type View interface {
	Name() string
	Render(snap Snapshot, w io.Writer) error
}

// Router maps session state to a view. Resolution is pure: it never mutates
// anything and always returns a usable view, falling back to a generic member
// view for roles it does not recognize.
type Router struct {
	login    View
	loading  View
	fallback View
	byRole   map[string]View
}

// NewRouter builds a router with the three structural views. Role views are
// added with Register.
func NewRouter(login, loading, fallback View) *Router {
	return &Router{
		login:    login,
		loading:  loading,
		fallback: fallback,
		byRole:   make(map[string]View),
	}
}

// Register binds a role to its view, replacing any previous binding.
func (r *Router) Register(role string, v View) {
	r.byRole[role] = v
}

// Resolve picks the view for the given session state. Precedence: loading,
// then unauthenticated, then the role's view, then the fallback.
func (r *Router) Resolve(snap Snapshot) View {
	switch {
	case snap.Loading:
		return r.loading
	case !snap.Authenticated || snap.User == nil:
		return r.login
	}

	if v, ok := r.byRole[snap.User.Role]; ok {
		return v
	}
	return r.fallback
}
