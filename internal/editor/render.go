package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mbenito/docueval/internal/report"
	"github.com/mbenito/docueval/internal/sections"
)

// SyntheticField is the field name synthesized for a record that has no
// keys yet, so there is always something to type into.
const SyntheticField = "value"

// Placeholder is shown for sections without content.
const Placeholder = "No content."

// FieldInput is one editable input of a record.
type FieldInput struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Multiline bool   `json:"multiline"`
}

// RecordView is one record of a record group.
type RecordView struct {
	Index  int          `json:"index"`
	Fields []FieldInput `json:"fields"`
}

// GroupView is one key of an object section.
type GroupView struct {
	Key string `json:"key"`

	// Records is set when the key holds a list of records.
	Records []RecordView `json:"records,omitempty"`

	// Text is set when the key holds a direct value instead.
	Text      string `json:"text,omitempty"`
	DirectKey bool   `json:"direct_key,omitempty"`
}

// SectionView is the render model for one section, covering both the
// read-only and the editing presentation.
type SectionView struct {
	Key     string `json:"key"`
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Editing bool   `json:"editing"`
	Empty   bool   `json:"empty"`

	// Read-only presentation
	Placeholder string   `json:"placeholder,omitempty"`
	Paragraph   string   `json:"paragraph,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`

	// Editing presentation (scaffolded)
	Text   string      `json:"text,omitempty"`
	Rows   []string    `json:"rows,omitempty"`
	Groups []GroupView `json:"groups,omitempty"`
}

// Render returns the ordered render models for every section of the
// session's document type.
func (s *Session) Render() []SectionView {
	order := sections.OrderFor(s.documentType)

	views := make([]SectionView, 0, len(order))
	for _, key := range order {
		views = append(views, s.RenderSection(key))
	}
	return views
}

// RenderSection builds the render model for one section from the current
// draft.
func (s *Session) RenderSection(key string) SectionView {
	s.mu.Lock()
	value := cloneAny(s.draft[key])
	editing := s.editing[key]
	s.mu.Unlock()

	view := SectionView{
		Key:     key,
		Title:   sections.Title(key),
		Kind:    report.Classify(value).String(),
		Editing: editing,
		Empty:   report.IsEmptySection(value),
	}

	if editing {
		renderEditing(&view, value)
		return view
	}
	renderReadOnly(&view, value)
	return view
}

// renderReadOnly fills the presentational transform: paragraph for
// scalars, bulleted lines for lists, record blocks for groups, and a
// placeholder for empty sections.
func renderReadOnly(view *SectionView, value any) {
	if view.Empty {
		view.Placeholder = Placeholder
		return
	}

	switch report.Classify(value) {
	case report.KindStringList:
		for _, row := range listRows(value) {
			view.Bullets = append(view.Bullets, row)
		}
	case report.KindRecordGroup:
		view.Groups = groupViews(value.(map[string]any), false)
	default:
		view.Paragraph = scalarText(value)
	}
}

// renderEditing fills the editable presentation, synthesizing the minimum
// scaffold (one blank row or record) so the user has something to type
// into.
func renderEditing(view *SectionView, value any) {
	switch report.Classify(value) {
	case report.KindStringList:
		view.Rows = listRows(value)
		if len(view.Rows) == 0 {
			view.Rows = []string{""}
		}
	case report.KindRecordGroup:
		view.Groups = groupViews(value.(map[string]any), true)
	default:
		view.Text = scalarText(value)
	}
}

// groupViews renders each key of an object section. List-valued keys get
// a repeated record editor; other keys bind a single input directly.
func groupViews(obj map[string]any, scaffold bool) []GroupView {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	views := make([]GroupView, 0, len(keys))
	for _, key := range keys {
		gv := GroupView{Key: key}
		switch report.Classify(obj[key]) {
		case report.KindStringList:
			records := asRecords(obj[key])
			if scaffold && len(records) == 0 {
				records = []map[string]any{{}}
			}
			for i, rec := range records {
				gv.Records = append(gv.Records, recordView(i, rec))
			}
		default:
			gv.Text = scalarText(obj[key])
			gv.DirectKey = true
		}
		views = append(views, gv)
	}
	return views
}

// recordView renders one record's inputs. A record with no keys yet gets
// a single synthetic field; inputs whose field name contains
// "explanation" are multi-line.
func recordView(index int, rec map[string]any) RecordView {
	fields := recordFieldOrder(rec)
	if len(fields) == 0 {
		fields = []string{SyntheticField}
	}

	view := RecordView{Index: index}
	for _, name := range fields {
		view.Fields = append(view.Fields, FieldInput{
			Name:      name,
			Value:     scalarText(rec[name]),
			Multiline: strings.Contains(name, "explanation"),
		})
	}
	return view
}

// canonicalFieldOrder fixes the display order of the well-known issue
// record fields; anything else sorts after them alphabetically.
var canonicalFieldOrder = []string{"excerpt", "location", "explanation"}

func recordFieldOrder(rec map[string]any) []string {
	var ordered []string
	seen := make(map[string]bool, len(rec))
	for _, name := range canonicalFieldOrder {
		if _, ok := rec[name]; ok {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range rec {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// scalarText coerces any non-structured value to display text; nil shows
// as empty.
func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

func listRows(v any) []string {
	var rows []string
	switch list := v.(type) {
	case []any:
		for _, item := range list {
			rows = append(rows, scalarText(item))
		}
	case []string:
		rows = append(rows, list...)
	}
	return rows
}

func asRecords(v any) []map[string]any {
	var records []map[string]any
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if rec, ok := item.(map[string]any); ok {
				records = append(records, rec)
			} else {
				records = append(records, map[string]any{SyntheticField: item})
			}
		}
	}
	return records
}

func cloneAny(v any) any {
	return report.Clone(report.Report{"v": v})["v"]
}
