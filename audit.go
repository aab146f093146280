package fixpoint

import (
	"fmt"
	"time"
)

// Level classifies an audit entry.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// An AuditEntry is one line of the run's audit trail. Entries are append-only
// and ordered by emission time.
type AuditEntry struct {
	Time    time.Time `json:"timestamp"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
}

// A Conflict records two different rules writing the same state path in the
// same sweep. Conflicts are informational; the later rule in priority order
// wins the write.
type Conflict struct {
	Field        string `json:"field"`
	PreviousRule string `json:"previousRule"`
	CurrentRule  string `json:"currentRule"`
	Iteration    int    `json:"iteration"`
}

// recorder accumulates the audit trail and conflict log for a single Apply
// call. Appends never fail. A fresh recorder is created per call, so no log
// state survives between runs.
type recorder struct {
	now       func() time.Time
	audit     []AuditEntry
	conflicts []Conflict
}

func newRecorder(now func() time.Time) *recorder {
	if now == nil {
		now = time.Now
	}
	return &recorder{now: now}
}

func (rec *recorder) log(level Level, format string, args ...any) {
	rec.audit = append(rec.audit, AuditEntry{
		Time:    rec.now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

func (rec *recorder) infof(format string, args ...any) {
	rec.log(LevelInfo, format, args...)
}

func (rec *recorder) warnf(format string, args ...any) {
	rec.log(LevelWarning, format, args...)
}

func (rec *recorder) conflict(field, previous, current string, iteration int) {
	// The same pair of rules fighting over the same field repeats every
	// sweep until the run settles; one entry per pairing is enough.
	for _, c := range rec.conflicts {
		if c.Field == field && c.PreviousRule == previous && c.CurrentRule == current {
			return
		}
	}
	rec.conflicts = append(rec.conflicts, Conflict{
		Field:        field,
		PreviousRule: previous,
		CurrentRule:  current,
		Iteration:    iteration,
	})
	rec.warnf("conflict on %q: %s overwrote %s (iteration %d)", field, current, previous, iteration)
}
