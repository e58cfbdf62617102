package report

// Copy-on-write mutation primitives. Every function returns a new Report
// and never modifies its input; untouched siblings are deep-copied so the
// result shares no mutable state with the original. None of these change
// a section's Kind.

// SetScalar replaces a scalar section's text. A nil or missing value
// becomes an explicit string.
func SetScalar(r Report, section, value string) Report {
	out := Clone(r)
	out[section] = value
	return out
}

// SetListRow replaces row i of a string-list section. Out-of-range
// indexes grow the list with empty rows up to i first, which covers the
// synthesized blank row the editor shows for an empty list.
func SetListRow(r Report, section string, i int, value string) Report {
	out := Clone(r)
	rows := asList(out[section])
	for len(rows) <= i {
		rows = append(rows, "")
	}
	rows[i] = value
	out[section] = rows
	return out
}

// AppendListRow adds a row to the end of a string-list section.
func AppendListRow(r Report, section, value string) Report {
	out := Clone(r)
	out[section] = append(asList(out[section]), value)
	return out
}

// SetRecordField replaces one field of record index of group within an
// object section. Missing groups, short record lists, and missing fields
// are scaffolded on the way in so the first edit of an empty structure
// lands on a real record.
func SetRecordField(r Report, section, group string, index int, field, value string) Report {
	out := Clone(r)

	obj, ok := out[section].(map[string]any)
	if !ok {
		obj = map[string]any{}
	}

	records := asList(obj[group])
	for len(records) <= index {
		records = append(records, map[string]any{})
	}

	rec, ok := records[index].(map[string]any)
	if !ok {
		rec = map[string]any{}
	}
	rec[field] = value
	records[index] = rec

	obj[group] = records
	out[section] = obj
	return out
}

// SetGroupText replaces a non-list key of an object section with text,
// the direct-input case of the grouped record editor.
func SetGroupText(r Report, section, key, value string) Report {
	out := Clone(r)

	obj, ok := out[section].(map[string]any)
	if !ok {
		obj = map[string]any{}
	}
	obj[key] = value
	out[section] = obj
	return out
}

// AppendRecord adds an empty record to a group within an object section.
func AppendRecord(r Report, section, group string) Report {
	out := Clone(r)

	obj, ok := out[section].(map[string]any)
	if !ok {
		obj = map[string]any{}
	}
	obj[group] = append(asList(obj[group]), map[string]any{})
	out[section] = obj
	return out
}

// asList normalizes a cloned section value to []any without aliasing the
// source. Non-list values yield an empty list.
func asList(v any) []any {
	switch rows := v.(type) {
	case []any:
		return rows
	case []string:
		out := make([]any, len(rows))
		for i, s := range rows {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}
