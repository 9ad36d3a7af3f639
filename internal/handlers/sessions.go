package handlers

import (
	"net/http"

	"github.com/ternarybob/atlas/internal/services/session"
)

// SessionResolver maps the session cookie to a session, issuing a new
// cookie when the request has none or its session expired.
type SessionResolver struct {
	store      *session.Store
	cookieName string
	secure     bool
}

// NewSessionResolver creates a resolver for cookieName
func NewSessionResolver(store *session.Store, cookieName string, secure bool) *SessionResolver {
	return &SessionResolver{
		store:      store,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Resolve returns the caller's session
func (s *SessionResolver) Resolve(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if cookie, err := r.Cookie(s.cookieName); err == nil {
		id = cookie.Value
	}

	sess, created := s.store.GetOrCreate(id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     s.cookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return sess
}

// Lookup returns the caller's session without creating one
func (s *SessionResolver) Lookup(r *http.Request) (*session.Session, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, false
	}
	return s.store.Get(cookie.Value)
}
