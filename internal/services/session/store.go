package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Store keeps sessions in memory and expires them after ttl of inactivity
type Store struct {
	cache *cache.Cache
}

// NewStore creates a store whose entries expire after ttl and are purged
// every cleanup interval.
func NewStore(ttl, cleanup time.Duration) *Store {
	return &Store{
		cache: cache.New(ttl, cleanup),
	}
}

// Get returns the session with id and extends its lifetime
func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	if x, found := s.cache.Get(id); found {
		sess := x.(*Session)
		s.cache.Set(id, sess, cache.DefaultExpiration)
		return sess, true
	}
	return nil, false
}

// GetOrCreate returns the session with id, creating a fresh one under a new
// ID when id is unknown or expired. created reports whether a new session was
// made so the caller can issue a cookie.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		return sess, false
	}

	sess = newSession(uuid.New().String())
	if err := s.cache.Add(sess.ID, sess, cache.DefaultExpiration); err != nil {
		// uuid collision, practically unreachable
		existing, _ := s.Get(sess.ID)
		return existing, false
	}
	return sess, true
}

// Delete removes the session with id
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Count returns the number of live sessions
func (s *Store) Count() int {
	return s.cache.ItemCount()
}
