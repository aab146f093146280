package fixpoint

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result of one Apply call. Immutable once returned; the engine keeps no
// reference to it or to its state maps.
type Result struct {
	// Input is a copy of the state the caller passed in.
	Input map[string]any `json:"input"`

	// Output is the state after the final sweep. It may be fed back as the
	// input of a later Apply call, as watch-style collaborators do.
	Output map[string]any `json:"output"`

	// Iterations is the number of sweeps actually run, including the final
	// sweep that confirmed no change.
	Iterations int `json:"iterations"`

	// Converged is false when the run stopped at the iteration cap.
	Converged bool `json:"converged"`

	// Audit is the ordered trail of applied/skipped decisions, conflicts
	// and warnings emitted during the run.
	Audit []AuditEntry `json:"audit"`

	// Conflicts lists same-sweep writes to one path by different rules.
	Conflicts []Conflict `json:"conflicts"`

	// RulesApplied holds the names of rules whose condition was true, in
	// the order they fired. A rule appears once per sweep it fired in.
	RulesApplied []string `json:"rulesApplied"`
}

// String renders a run summary with the audit trail and conflict log.
func (r *Result) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nFIXPOINT RESULT\n")
	tw.AppendHeader(table.Row{"Iterations", "Converged", "Rules\nApplied", "Conflicts", "Audit\nEntries"})
	tw.AppendRow(table.Row{
		r.Iterations,
		yesNo(r.Converged),
		len(r.RulesApplied),
		len(r.Conflicts),
		len(r.Audit),
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)

	out := tw.Render()
	out += "\n" + r.auditTable()
	if len(r.Conflicts) > 0 {
		out += "\n" + r.conflictTable()
	}
	return out
}

func (r *Result) auditTable() string {
	tw := table.NewWriter()
	tw.SetTitle("Audit Trail")
	tw.AppendHeader(table.Row{"Time", "Level", "Message"})
	for _, entry := range r.Audit {
		tw.AppendRow(table.Row{
			entry.Time.Format("15:04:05.000"),
			string(entry.Level),
			entry.Message,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60},
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func (r *Result) conflictTable() string {
	tw := table.NewWriter()
	tw.SetTitle("Conflicts")
	tw.AppendHeader(table.Row{"Field", "Previous Rule", "Current Rule", "Iteration"})
	for _, c := range r.Conflicts {
		tw.AppendRow(table.Row{c.Field, c.PreviousRule, c.CurrentRule, fmt.Sprintf("%d", c.Iteration)})
	}
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
