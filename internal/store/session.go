package store

import (
	"sync"
)

// Session is the ephemeral draft-metadata store. It holds small values
// (ids, titles, form fields) for the life of the process and is cleared
// when the draft is saved or cancelled.
type Session struct {
	mu   sync.Mutex
	meta map[string]string
}

// NewSession creates an empty session store.
func NewSession() *Session {
	return &Session{meta: make(map[string]string)}
}

// StashMeta merges the given metadata into the session.
func (s *Session) StashMeta(meta map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range meta {
		s.meta[k] = v
	}
}

// LoadMeta returns a copy of the current metadata.
func (s *Session) LoadMeta() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.meta))
	for k, v := range s.meta {
		out[k] = v
	}
	return out
}

// Clear drops all session metadata.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta = make(map[string]string)
}

// Store bundles the durable and session stores behind the pending-report
// lifecycle: stash at generation, retrieve during review, clear on save
// or cancel.
type Store struct {
	Durable *Durable
	Session *Session
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{
		Durable: NewDurable(dir),
		Session: NewSession(),
	}
}

// Clear removes both the durable payload and the session metadata.
func (s *Store) Clear(id string) error {
	s.Session.Clear()
	return s.Durable.Clear(id)
}
