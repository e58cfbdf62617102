// Package report defines the structured evaluation report value model and
// the copy-on-write mutation primitives the editor is built on.
// A report is the JSON object returned by the model: top-level keys are
// sections, and every section value is one of three shapes (scalar text,
// list of strings, or a group of record lists).
package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Report is a generated evaluation report, keyed by section name.
type Report map[string]any

// Kind classifies a section value's structural shape. The shape is decided
// once per section and never changes across edits.
type Kind int

const (
	// KindScalar is a single text value (also the coercion target for
	// anything that is not a list or an object, e.g. numbers).
	KindScalar Kind = iota

	// KindStringList is a flat list of scalar rows.
	KindStringList

	// KindRecordGroup is an object whose keys hold lists of multi-field
	// records (e.g. potential_issues with compliance_issues/security_concerns).
	KindRecordGroup
)

func (k Kind) String() string {
	switch k {
	case KindStringList:
		return "string_list"
	case KindRecordGroup:
		return "record_group"
	default:
		return "scalar"
	}
}

// Classify returns the shape of a section value. Lists classify as
// KindStringList, non-list objects as KindRecordGroup, and everything
// else (strings, nil, numbers, booleans) falls back to KindScalar so an
// odd value never fails a render.
func Classify(v any) Kind {
	switch v.(type) {
	case []any, []string:
		return KindStringList
	case map[string]any:
		return KindRecordGroup
	default:
		return KindScalar
	}
}

// Parse decodes JSON text into a Report.
func Parse(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return r, nil
}

// Clone returns a deep copy of r. Mutating the copy never affects r.
func Clone(r Report) Report {
	if r == nil {
		return nil
	}
	out := make(Report, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	default:
		return val
	}
}

// Equal reports deep structural equality between two reports.
func Equal(a, b Report) bool {
	return equalValue(map[string]any(a), map[string]any(b))
}

func equalValue(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, ok := bv[k]
			if !ok || !equalValue(v, bval) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equalValue(av[i], bv[i]) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return a == b
	}
}

// IsEmptySection reports whether a section value has no content: nil,
// blank string, empty list, or an object whose lists are all empty.
func IsEmptySection(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		for _, item := range val {
			if !IsEmptySection(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
