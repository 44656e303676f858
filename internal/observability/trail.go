package observability

import (
	"fmt"

	"go.uber.org/zap"
)

// Trail is the append-only list of human-readable execution events accumulated
// during a run. It is returned to the caller as the primary debugging artifact,
// so entry order must reflect chronological execution. Entries are mirrored to
// the structured logger as they are appended.
//
// A Trail is owned by a single run and is not safe for concurrent use; runs
// share no state, so none is needed.
type Trail struct {
	log     *zap.Logger
	entries []string
}

// NewTrail creates a trail mirroring entries to log. A nil log is allowed and
// disables mirroring.
func NewTrail(log *zap.Logger) *Trail {
	if log == nil {
		log = zap.NewNop()
	}
	return &Trail{log: log}
}

// Add appends a formatted entry to the trail.
func (t *Trail) Add(format string, args ...any) {
	entry := fmt.Sprintf(format, args...)
	t.entries = append(t.entries, entry)
	t.log.Info(entry)
}

// Entries returns the accumulated entries in append order.
func (t *Trail) Entries() []string {
	if t.entries == nil {
		return []string{}
	}
	return t.entries
}

// Len returns the number of entries.
func (t *Trail) Len() int {
	return len(t.entries)
}
