package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mbenito/docueval/internal/report"
)

func TestDurable(t *testing.T) {
	t.Run("stash and retrieve round-trip", func(t *testing.T) {
		d := NewDurable(t.TempDir())

		in := Pending{
			FileBase64: "JVBERi0xLjQ=",
			Report: report.Report{
				"summary":    "text",
				"key_points": []any{"a", "b"},
			},
		}
		if err := d.Stash("report-1", in); err != nil {
			t.Fatalf("Stash() error = %v", err)
		}

		out, err := d.Retrieve("report-1")
		if err != nil {
			t.Fatalf("Retrieve() error = %v", err)
		}
		if out.FileBase64 != in.FileBase64 {
			t.Errorf("file = %q", out.FileBase64)
		}
		if !report.Equal(out.Report, in.Report) {
			t.Errorf("report = %v, want %v", out.Report, in.Report)
		}
	})

	t.Run("stash overwrites an existing payload", func(t *testing.T) {
		d := NewDurable(t.TempDir())

		if err := d.Stash("report-1", Pending{Report: report.Report{"summary": "one"}}); err != nil {
			t.Fatal(err)
		}
		if err := d.Stash("report-1", Pending{Report: report.Report{"summary": "two"}}); err != nil {
			t.Fatal(err)
		}
		out, err := d.Retrieve("report-1")
		if err != nil {
			t.Fatal(err)
		}
		if out.Report["summary"] != "two" {
			t.Errorf("summary = %v, want two", out.Report["summary"])
		}
	})

	t.Run("missing id yields ErrNotFound", func(t *testing.T) {
		d := NewDurable(t.TempDir())
		_, err := d.Retrieve("nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("clear removes the payload", func(t *testing.T) {
		d := NewDurable(t.TempDir())
		if err := d.Stash("report-1", Pending{Report: report.Report{}}); err != nil {
			t.Fatal(err)
		}
		if err := d.Clear("report-1"); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if _, err := d.Retrieve("report-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error after clear = %v, want ErrNotFound", err)
		}
	})

	t.Run("clearing a missing id is not an error", func(t *testing.T) {
		d := NewDurable(t.TempDir())
		if err := d.Clear("never-stored"); err != nil {
			t.Errorf("Clear() error = %v", err)
		}
	})

	t.Run("rejects unsafe ids", func(t *testing.T) {
		d := NewDurable(t.TempDir())
		for _, id := range []string{"", "../escape", "a/b", "a.b", "a b"} {
			if err := d.Stash(id, Pending{}); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Stash(%q) error = %v, want ErrInvalidID", id, err)
			}
			if _, err := d.Retrieve(id); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Retrieve(%q) error = %v, want ErrInvalidID", id, err)
			}
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		d := NewDurable(dir)
		if err := d.Stash("report-1", Pending{Report: report.Report{}}); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if filepath.Ext(e.Name()) == ".tmp" {
				t.Errorf("leftover temp file %q", e.Name())
			}
		}
	})
}

func TestSession(t *testing.T) {
	t.Run("merges metadata", func(t *testing.T) {
		s := NewSession()
		s.StashMeta(map[string]string{"report_id": "r1", "document_type": "memo"})
		s.StashMeta(map[string]string{"document_type": "terms of reference"})

		meta := s.LoadMeta()
		if meta["report_id"] != "r1" {
			t.Errorf("report_id = %q", meta["report_id"])
		}
		if meta["document_type"] != "terms of reference" {
			t.Errorf("document_type = %q", meta["document_type"])
		}
	})

	t.Run("returned metadata is a copy", func(t *testing.T) {
		s := NewSession()
		s.StashMeta(map[string]string{"k": "v"})

		meta := s.LoadMeta()
		meta["k"] = "mutated"
		if s.LoadMeta()["k"] != "v" {
			t.Error("mutating a returned copy changed the session")
		}
	})

	t.Run("clear drops everything", func(t *testing.T) {
		s := NewSession()
		s.StashMeta(map[string]string{"k": "v"})
		s.Clear()
		if len(s.LoadMeta()) != 0 {
			t.Error("metadata survived a clear")
		}
	})
}

func TestStoreClear(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Durable.Stash("r1", Pending{Report: report.Report{"summary": "x"}}); err != nil {
		t.Fatal(err)
	}
	s.Session.StashMeta(map[string]string{"report_id": "r1"})

	if err := s.Clear("r1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := s.Durable.Retrieve("r1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("durable payload survived: %v", err)
	}
	if len(s.Session.LoadMeta()) != 0 {
		t.Error("session metadata survived")
	}
}
