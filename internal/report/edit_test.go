package report

import (
	"testing"
)

func TestSetScalar(t *testing.T) {
	original := Report{"summary": "old", "points": []any{"a"}}
	got := SetScalar(original, "summary", "new")

	if got["summary"] != "new" {
		t.Errorf("summary = %v, want new", got["summary"])
	}
	if original["summary"] != "old" {
		t.Error("input report was mutated")
	}
	if Classify(got["points"]) != KindStringList {
		t.Error("untouched sibling changed shape")
	}
}

func TestSetListRow(t *testing.T) {
	t.Run("replaces an existing row", func(t *testing.T) {
		original := Report{"points": []any{"a", "b"}}
		got := SetListRow(original, "points", 1, "B")

		rows := got["points"].([]any)
		if rows[0] != "a" || rows[1] != "B" {
			t.Errorf("rows = %v", rows)
		}
		if original["points"].([]any)[1] != "b" {
			t.Error("input report was mutated")
		}
	})

	t.Run("grows an empty list to reach the row", func(t *testing.T) {
		got := SetListRow(Report{"points": []any{}}, "points", 0, "first")
		rows := got["points"].([]any)
		if len(rows) != 1 || rows[0] != "first" {
			t.Errorf("rows = %v, want [first]", rows)
		}
	})

	t.Run("pads intermediate rows with empty strings", func(t *testing.T) {
		got := SetListRow(Report{"points": []any{"a"}}, "points", 3, "d")
		rows := got["points"].([]any)
		if len(rows) != 4 {
			t.Fatalf("len(rows) = %d, want 4", len(rows))
		}
		if rows[1] != "" || rows[2] != "" || rows[3] != "d" {
			t.Errorf("rows = %v", rows)
		}
	})

	t.Run("creates the list for a missing section", func(t *testing.T) {
		got := SetListRow(Report{}, "points", 0, "x")
		if Classify(got["points"]) != KindStringList {
			t.Errorf("points = %T, want list", got["points"])
		}
	})
}

func TestAppendListRow(t *testing.T) {
	original := Report{"points": []any{"a"}}
	got := AppendListRow(original, "points", "b")

	if len(got["points"].([]any)) != 2 {
		t.Errorf("rows = %v", got["points"])
	}
	if len(original["points"].([]any)) != 1 {
		t.Error("input report was mutated")
	}
}

func TestSetRecordField(t *testing.T) {
	t.Run("edits an existing record", func(t *testing.T) {
		original := Report{
			"issues": map[string]any{
				"compliance_issues": []any{
					map[string]any{"excerpt": "old", "location": "p1"},
				},
			},
		}
		got := SetRecordField(original, "issues", "compliance_issues", 0, "excerpt", "new")

		rec := got["issues"].(map[string]any)["compliance_issues"].([]any)[0].(map[string]any)
		if rec["excerpt"] != "new" || rec["location"] != "p1" {
			t.Errorf("record = %v", rec)
		}
		origRec := original["issues"].(map[string]any)["compliance_issues"].([]any)[0].(map[string]any)
		if origRec["excerpt"] != "old" {
			t.Error("input report was mutated")
		}
	})

	t.Run("scaffolds group and record when absent", func(t *testing.T) {
		got := SetRecordField(Report{"issues": map[string]any{}}, "issues", "security_concerns", 0, "excerpt", "x")

		records := got["issues"].(map[string]any)["security_concerns"].([]any)
		if len(records) != 1 {
			t.Fatalf("records = %v", records)
		}
		if records[0].(map[string]any)["excerpt"] != "x" {
			t.Errorf("record = %v", records[0])
		}
	})

	t.Run("grows the record list to reach the index", func(t *testing.T) {
		original := Report{
			"issues": map[string]any{
				"compliance_issues": []any{map[string]any{"excerpt": "a"}},
			},
		}
		got := SetRecordField(original, "issues", "compliance_issues", 2, "excerpt", "c")
		records := got["issues"].(map[string]any)["compliance_issues"].([]any)
		if len(records) != 3 {
			t.Fatalf("len(records) = %d, want 3", len(records))
		}
		if records[2].(map[string]any)["excerpt"] != "c" {
			t.Errorf("records[2] = %v", records[2])
		}
	})
}

func TestSetGroupText(t *testing.T) {
	original := Report{"issues": map[string]any{"note": "old"}}
	got := SetGroupText(original, "issues", "note", "new")

	if got["issues"].(map[string]any)["note"] != "new" {
		t.Errorf("note = %v", got["issues"].(map[string]any)["note"])
	}
	if original["issues"].(map[string]any)["note"] != "old" {
		t.Error("input report was mutated")
	}
}

func TestAppendRecord(t *testing.T) {
	original := Report{"issues": map[string]any{"compliance_issues": []any{}}}
	got := AppendRecord(original, "issues", "compliance_issues")

	records := got["issues"].(map[string]any)["compliance_issues"].([]any)
	if len(records) != 1 {
		t.Fatalf("records = %v", records)
	}
	if rec, ok := records[0].(map[string]any); !ok || len(rec) != 0 {
		t.Errorf("records[0] = %v, want empty record", records[0])
	}
	if len(original["issues"].(map[string]any)["compliance_issues"].([]any)) != 0 {
		t.Error("input report was mutated")
	}
}
