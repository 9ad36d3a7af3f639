package session

import (
	"errors"
	"sync"
	"time"

	"github.com/ternarybob/atlas/internal/models"
)

// ErrBusy is returned when a generation is already running for the session
var ErrBusy = errors.New("an itinerary is already being generated for this session")

// State is what a session remembers between requests
type State struct {
	Selection models.Selection         `json:"selection"`
	Prompt    string                   `json:"-"`
	Result    *models.GenerationResult `json:"result,omitempty"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// Session holds one user's last generation cycle. At most one generation may
// be in flight per session.
type Session struct {
	ID string

	mu    sync.Mutex
	busy  bool
	state State
}

func newSession(id string) *Session {
	return &Session{ID: id}
}

// Begin marks the session busy, or returns ErrBusy if it already is.
// Every successful Begin must be paired with End.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

// End clears the busy flag
func (s *Session) End() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// Busy reports whether a generation is in flight
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Record replaces the remembered cycle with the latest one. A failed
// generation also replaces a previous success, so nothing stale is exported.
func (s *Session) Record(selection models.Selection, prompt string, result models.GenerationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = State{
		Selection: selection,
		Prompt:    prompt,
		Result:    &result,
		UpdatedAt: time.Now(),
	}
}

// Select remembers the current selection without touching the last result
func (s *Session) Select(selection models.Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Selection = selection
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state
	if state.Result != nil {
		result := *state.Result
		state.Result = &result
	}
	return state
}

// LastSuccess returns the state of the last cycle if it ended with a
// successful generation.
func (s *Session) LastSuccess() (State, bool) {
	state := s.Snapshot()
	if state.Result == nil || !state.Result.OK {
		return State{}, false
	}
	return state, true
}
