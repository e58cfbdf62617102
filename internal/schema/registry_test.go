package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		first := Resolve(DocTypeTermsOfReference)
		second := Resolve(DocTypeTermsOfReference)

		if first.Instruction != second.Instruction {
			t.Error("instruction differs between identical resolutions")
		}
		a, err := first.Schema.JSONSchema()
		if err != nil {
			t.Fatalf("JSONSchema() error = %v", err)
		}
		b, err := second.Schema.JSONSchema()
		if err != nil {
			t.Fatalf("JSONSchema() error = %v", err)
		}
		if string(a) != string(b) {
			t.Error("schema differs between identical resolutions")
		}
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		canonical := Resolve(DocTypeTermsOfReference)
		variants := []string{
			"Terms of Reference",
			"TERMS OF REFERENCE",
			"  terms of reference  ",
			"\tTerms Of Reference\n",
		}
		for _, v := range variants {
			got := Resolve(v)
			if got.Instruction != canonical.Instruction {
				t.Errorf("Resolve(%q) instruction differs from canonical", v)
			}
			if !reflect.DeepEqual(got.Schema, canonical.Schema) {
				t.Errorf("Resolve(%q) schema differs from canonical", v)
			}
		}
	})

	t.Run("unknown type falls back to base", func(t *testing.T) {
		for _, dt := range []string{"purchase order", "", "   "} {
			got := Resolve(dt)
			if got.Instruction != BaseInstruction() {
				t.Errorf("Resolve(%q) instruction = %q, want base instruction", dt, got.Instruction)
			}
			if !reflect.DeepEqual(got.Schema, BaseSchema()) {
				t.Errorf("Resolve(%q) schema is not the base schema", dt)
			}
		}
	})

	t.Run("registered type appends its instruction", func(t *testing.T) {
		got := Resolve(DocTypeTermsOfReference)
		if !strings.HasPrefix(got.Instruction, BaseInstruction()) {
			t.Error("type-specific instruction does not start with the base instruction")
		}
		if got.Instruction == BaseInstruction() {
			t.Error("type-specific instruction adds nothing to the base instruction")
		}
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Terms of Reference", "terms of reference"},
		{"  TERMS OF REFERENCE ", "terms of reference"},
		{"memo", "memo"},
		{"", "\x00unknown"},
		{"   ", "\x00unknown"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBaseSchema(t *testing.T) {
	f := BaseSchema()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	wantKeys := []string{KeyDocumentName, KeySummary, KeyKeyPoints}
	for _, key := range wantKeys {
		if _, ok := f.Properties[key]; !ok {
			t.Errorf("base schema missing property %q", key)
		}
	}
	if len(f.Properties) != len(wantKeys) {
		t.Errorf("base schema has %d properties, want %d", len(f.Properties), len(wantKeys))
	}
	if !reflect.DeepEqual(f.Required, wantKeys) {
		t.Errorf("base schema required = %v, want %v", f.Required, wantKeys)
	}
}

func TestTermsOfReferenceSchema(t *testing.T) {
	f := TermsOfReferenceSchema()
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	t.Run("every property is required", func(t *testing.T) {
		if len(f.Required) != len(f.Properties) {
			t.Errorf("required %d keys, have %d properties", len(f.Required), len(f.Properties))
		}
		for _, key := range f.Required {
			if _, ok := f.Properties[key]; !ok {
				t.Errorf("required key %q has no property", key)
			}
		}
	})

	t.Run("potential issues is a record-group object", func(t *testing.T) {
		issues, ok := f.Properties[KeyPotentialIssues]
		if !ok {
			t.Fatal("schema has no potential_issues property")
		}
		if issues.Kind != KindObject {
			t.Fatalf("potential_issues kind = %v, want object", issues.Kind)
		}
		for _, group := range []string{KeyComplianceIssues, KeySecurityConcerns} {
			records, ok := issues.Properties[group]
			if !ok {
				t.Fatalf("potential_issues missing group %q", group)
			}
			if records.Kind != KindRecordArray {
				t.Fatalf("group %q kind = %v, want record array", group, records.Kind)
			}
			for _, field := range []string{"excerpt", "location", "explanation"} {
				if _, ok := records.Properties[field]; !ok {
					t.Errorf("group %q missing field %q", group, field)
				}
			}
			if len(records.Required) != 3 {
				t.Errorf("group %q requires %d fields, want 3", group, len(records.Required))
			}
		}
	})
}

func TestFieldJSONSchema(t *testing.T) {
	t.Run("object marshals to a json schema document", func(t *testing.T) {
		raw, err := TermsOfReferenceSchema().JSONSchema()
		if err != nil {
			t.Fatalf("JSONSchema() error = %v", err)
		}

		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("schema is not valid JSON: %v", err)
		}
		if doc["type"] != "object" {
			t.Errorf("top-level type = %v, want object", doc["type"])
		}
		props, ok := doc["properties"].(map[string]any)
		if !ok {
			t.Fatal("schema has no properties object")
		}
		if _, ok := props[KeyScopeOfWork]; !ok {
			t.Error("marshaled schema missing scope_of_work")
		}
		required, ok := doc["required"].([]any)
		if !ok || len(required) == 0 {
			t.Fatal("schema has no required list")
		}
		if required[0] != KeyDocumentName {
			t.Errorf("required[0] = %v, want %q", required[0], KeyDocumentName)
		}
	})

	t.Run("string array marshals with item type", func(t *testing.T) {
		raw, err := StrArray("items").JSONSchema()
		if err != nil {
			t.Fatalf("JSONSchema() error = %v", err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			t.Fatalf("schema is not valid JSON: %v", err)
		}
		if doc["type"] != "array" {
			t.Errorf("type = %v, want array", doc["type"])
		}
		items, ok := doc["items"].(map[string]any)
		if !ok || items["type"] != "string" {
			t.Errorf("items = %v, want string item type", doc["items"])
		}
	})
}

func TestFieldValidate(t *testing.T) {
	t.Run("rejects required key without property", func(t *testing.T) {
		f := Object(map[string]Field{"a": Str("")}, "a", "b")
		if err := f.Validate(); err == nil {
			t.Error("expected error for required key with no property")
		}
	})

	t.Run("accepts required subset of properties", func(t *testing.T) {
		f := Object(map[string]Field{"a": Str(""), "b": Str("")}, "a")
		if err := f.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})
}
