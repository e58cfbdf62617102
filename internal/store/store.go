// Package store carries a generated report between the generation step
// and the review/save step. Large payloads go to a durable file-backed
// key-value store; small draft metadata lives in an ephemeral session
// store for the life of the process.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"unicode"

	"github.com/mbenito/docueval/internal/report"
)

// ErrNotFound is returned when no pending report exists for an id. It is
// recoverable: callers fall back to whatever metadata they still hold.
var ErrNotFound = errors.New("pending report not found")

// ErrInvalidID is returned when a report id contains characters that
// cannot form a safe storage key.
var ErrInvalidID = errors.New("invalid report id")

// Pending is the stashed draft payload for one generated report.
type Pending struct {
	FileBase64 string        `json:"file_base64,omitempty"`
	Report     report.Report `json:"report_data"`
}

// Durable is a file-backed pending-report store. One JSON file per report
// id; writes are atomic (temp file + rename). A mutex serializes access;
// there is exactly one active editing session per report id.
type Durable struct {
	mu  sync.Mutex
	dir string
}

// NewDurable creates a durable store rooted at dir.
func NewDurable(dir string) *Durable {
	return &Durable{dir: dir}
}

// validateID rejects ids that could escape the store directory. Report
// ids are generated UUIDs; anything outside letters, digits, and hyphens
// is refused.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidID)
	}
	for i, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidID, r, i)
		}
	}
	return nil
}

func (d *Durable) path(id string) string {
	return filepath.Join(d.dir, id+".json")
}

// Stash durably persists the pending payload under the report id.
func (d *Durable) Stash(id string, payload Pending) error {
	if err := validateID(id); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create pending directory: %w", err)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode pending report: %w", err)
	}

	tmp, err := os.CreateTemp(d.dir, id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write pending report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, d.path(id)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to store pending report: %w", err)
	}
	return nil
}

// Retrieve reads back a stashed payload. Missing records yield
// ErrNotFound.
func (d *Durable) Retrieve(id string) (Pending, error) {
	if err := validateID(id); err != nil {
		return Pending{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Pending{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Pending{}, fmt.Errorf("failed to read pending report: %w", err)
	}

	var payload Pending
	if err := json.Unmarshal(data, &payload); err != nil {
		return Pending{}, fmt.Errorf("failed to decode pending report: %w", err)
	}
	return payload, nil
}

// Clear removes the durable payload for the id. Clearing an id that was
// never stashed is not an error.
func (d *Durable) Clear(id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear pending report: %w", err)
	}
	return nil
}
