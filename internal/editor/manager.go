package editor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mbenito/docueval/internal/report"
)

// ErrNoSession is returned when no editing session exists for a report id.
var ErrNoSession = errors.New("no editing session for report")

// Manager holds the active editing sessions, one per report id.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Open creates (or re-seeds) the session for a report id.
func (m *Manager) Open(id string, r report.Report, documentType string, onChange func(report.Report)) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		existing.Reset(r)
		return existing
	}
	s := NewSession(r, documentType, onChange)
	m.sessions[id] = s
	return s
}

// Get returns the session for a report id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSession, id)
	}
	return s, nil
}

// Close discards the session for a report id.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Op is one edit operation, the wire form accepted by the edit endpoint.
type Op struct {
	Kind    string `json:"kind"` // set_scalar, set_row, add_row, set_field, set_group_text, add_record, toggle
	Section string `json:"section"`
	Group   string `json:"group,omitempty"`
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Apply dispatches one operation to the session.
func (s *Session) Apply(op Op) error {
	if op.Section == "" {
		return fmt.Errorf("operation is missing a section")
	}
	switch op.Kind {
	case "toggle":
		s.ToggleEditing(op.Section)
		return nil
	case "set_scalar":
		return s.SetScalar(op.Section, op.Value)
	case "set_row":
		return s.SetListRow(op.Section, op.Row, op.Value)
	case "add_row":
		return s.AddListRow(op.Section, op.Value)
	case "set_field":
		return s.SetRecordField(op.Section, op.Group, op.Row, op.Field, op.Value)
	case "set_group_text":
		return s.SetGroupText(op.Section, op.Group, op.Value)
	case "add_record":
		return s.AddRecord(op.Section, op.Group)
	default:
		return fmt.Errorf("unknown edit operation: %q", op.Kind)
	}
}
