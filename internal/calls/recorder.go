package calls

import (
	"log/slog"

	"github.com/mbenito/docueval/internal/providers"
)

// Recorder handles fire-and-forget call recording. Failures are logged
// and never surfaced to the caller.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder creates a new call recorder.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Record captures a generation call.
func (r *Recorder) Record(result *providers.GenerateResult, opts RecordOptions) {
	if r == nil || r.store == nil || result == nil {
		return
	}
	if err := r.store.Append(FromResult(result, opts)); err != nil {
		r.logger.Warn("failed to record generation call", "error", err)
	}
}
