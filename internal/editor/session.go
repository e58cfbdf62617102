// Package editor implements section-wise, shape-preserving editing of a
// generated report. A session holds an editable copy of the input report
// and a per-section editing flag; every mutation is copy-on-write from
// the latest draft and never changes a section's structural kind.
package editor

import (
	"fmt"
	"sync"

	"github.com/mbenito/docueval/internal/report"
)

// Session is one report-editing session.
type Session struct {
	mu           sync.Mutex
	documentType string
	original     report.Report
	draft        report.Report
	editing      map[string]bool
	onChange     func(report.Report)
}

// NewSession seeds a session from the input report. onChange, when set,
// fires with the current draft after any mutation that leaves the draft
// deep-different from the input; it never fires for a reset.
func NewSession(r report.Report, documentType string, onChange func(report.Report)) *Session {
	s := &Session{
		documentType: documentType,
		onChange:     onChange,
	}
	s.seed(r)
	return s
}

func (s *Session) seed(r report.Report) {
	s.original = report.Clone(r)
	s.draft = report.Clone(r)
	s.editing = make(map[string]bool)
}

// Reset re-seeds the session from a new input report, discarding pending
// edits and editing flags. The reset itself does not notify.
func (s *Session) Reset(r report.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed(r)
}

// DocumentType returns the session's document type.
func (s *Session) DocumentType() string {
	return s.documentType
}

// Draft returns a deep copy of the current editable state.
func (s *Session) Draft() report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.Clone(s.draft)
}

// Changed reports whether the draft deep-differs from the input report.
func (s *Session) Changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !report.Equal(s.draft, s.original)
}

// ToggleEditing flips one section's editing flag without touching other
// sections' flags or any values.
func (s *Session) ToggleEditing(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing[section] = !s.editing[section]
	return s.editing[section]
}

// Editing reports one section's editing flag.
func (s *Session) Editing(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing[section]
}

// mutate applies fn to the current draft and notifies when the result
// both differs from the previous draft and deep-differs from the input.
func (s *Session) mutate(fn func(report.Report) report.Report) {
	s.mu.Lock()
	next := fn(s.draft)
	if report.Equal(next, s.draft) {
		s.mu.Unlock()
		return
	}
	s.draft = next
	changed := !report.Equal(s.draft, s.original)
	notify := s.onChange
	var snapshot report.Report
	if changed && notify != nil {
		snapshot = report.Clone(s.draft)
	}
	s.mu.Unlock()

	if changed && notify != nil {
		notify(snapshot)
	}
}

// kindOf classifies the current draft value of a section.
func (s *Session) kindOf(section string) report.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.Classify(s.draft[section])
}

// SetScalar sets a scalar section's text. A nil or absent value counts as
// an empty scalar and becomes an explicit string on first edit.
func (s *Session) SetScalar(section, value string) error {
	if kind := s.kindOf(section); kind != report.KindScalar {
		return typeMigrationError(section, kind, report.KindScalar)
	}
	s.mutate(func(r report.Report) report.Report {
		return report.SetScalar(r, section, value)
	})
	return nil
}

// SetListRow replaces one row of a string-list section. Row 0 of an empty
// list targets the synthesized blank row.
func (s *Session) SetListRow(section string, row int, value string) error {
	if row < 0 {
		return fmt.Errorf("row index %d out of range", row)
	}
	if kind := s.kindOf(section); kind != report.KindStringList {
		return typeMigrationError(section, kind, report.KindStringList)
	}
	s.mutate(func(r report.Report) report.Report {
		return report.SetListRow(r, section, row, value)
	})
	return nil
}

// AddListRow appends a row to a string-list section. Rows are only ever
// added, never removed.
func (s *Session) AddListRow(section, value string) error {
	if kind := s.kindOf(section); kind != report.KindStringList {
		return typeMigrationError(section, kind, report.KindStringList)
	}
	s.mutate(func(r report.Report) report.Report {
		return report.AppendListRow(r, section, value)
	})
	return nil
}

// SetRecordField replaces one field of one record in one group of an
// object section. Index 0 of an empty group targets the synthesized
// blank record.
func (s *Session) SetRecordField(section, group string, index int, field, value string) error {
	if index < 0 {
		return fmt.Errorf("record index %d out of range", index)
	}
	if field == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if kind := s.kindOf(section); kind != report.KindRecordGroup {
		return typeMigrationError(section, kind, report.KindRecordGroup)
	}
	s.mutate(func(r report.Report) report.Report {
		return report.SetRecordField(r, section, group, index, field, value)
	})
	return nil
}

// SetGroupText sets a non-list key of an object section directly, the
// grouped editor's single-input case.
func (s *Session) SetGroupText(section, key, value string) error {
	if kind := s.kindOf(section); kind != report.KindRecordGroup {
		return typeMigrationError(section, kind, report.KindRecordGroup)
	}
	s.mu.Lock()
	if obj, ok := s.draft[section].(map[string]any); ok {
		if report.Classify(obj[key]) == report.KindStringList {
			s.mu.Unlock()
			return fmt.Errorf("key %q of section %q holds a list: edits cannot change its shape", key, section)
		}
	}
	s.mu.Unlock()
	s.mutate(func(r report.Report) report.Report {
		return report.SetGroupText(r, section, key, value)
	})
	return nil
}

// AddRecord appends an empty record to a group of an object section.
func (s *Session) AddRecord(section, group string) error {
	if kind := s.kindOf(section); kind != report.KindRecordGroup {
		return typeMigrationError(section, kind, report.KindRecordGroup)
	}
	s.mutate(func(r report.Report) report.Report {
		return report.AppendRecord(r, section, group)
	})
	return nil
}

func typeMigrationError(section string, have, want report.Kind) error {
	return fmt.Errorf("section %q is %s, not %s: edits cannot change a section's shape", section, have, want)
}
