package fixpoint

import (
	"errors"
	"strings"
	"time"
)

// DefaultMaxIterations caps the fixpoint loop when neither the ruleset nor
// the engine options specify a limit.
const DefaultMaxIterations = 10

var (
	ErrNilRuleset   = errors.New("nil ruleset")
	ErrMissingRules = errors.New("ruleset has no rules list")
)

// Engine repeatedly applies a prioritized ruleset to a state until the state
// stops changing or the iteration cap is reached.
//
// An Engine holds no per-run state; the audit trail and conflict log are
// local to each Apply call and returned in its Result. One Engine may serve
// concurrent Apply calls, each of which works on its own deep copy of the
// input state.
type Engine struct {
	evaluator Evaluator
	opts      EngineOptions
}

// See the functional definitions below for the meaning.
type EngineOptions struct {
	MaxIterations int
	Clock         func() time.Time
}

type EngineOption func(o *EngineOptions)

func applyEngineOptions(o *EngineOptions, opts ...EngineOption) {
	for _, opt := range opts {
		opt(o)
	}
}

// WithMaxIterations sets the default sweep cap used when a ruleset does not
// set max_iterations.
// Default: DefaultMaxIterations.
func WithMaxIterations(n int) EngineOption {
	return func(o *EngineOptions) {
		o.MaxIterations = n
	}
}

// WithClock sets the time source for audit entry timestamps.
// Default: time.Now.
func WithClock(clock func() time.Time) EngineOption {
	return func(o *EngineOptions) {
		o.Clock = clock
	}
}

// NewEngine initializes an engine that evaluates conditions and templates
// with the given evaluator.
func NewEngine(evaluator Evaluator, opts ...EngineOption) *Engine {
	e := Engine{
		evaluator: evaluator,
		opts: EngineOptions{
			MaxIterations: DefaultMaxIterations,
		},
	}
	applyEngineOptions(&e.opts, opts...)
	return &e
}

// Apply runs the ruleset against the input state until a sweep makes no
// change (convergence) or the iteration cap is reached.
//
// The input state is deep-copied before the first sweep and never modified.
// Within each sweep the rules run in ascending priority order (ties keep
// list order). A sweep counts as changed if the canonical serialized form of
// the state at its end differs from the form at its start; rewriting a value
// that ends up identical is not a change. Hitting the cap is not an error;
// it is reported in the audit trail and by Result.Converged.
//
// Apply returns an error only for structurally unusable input: a nil
// ruleset, a missing rules list, or a state that cannot be serialized to
// JSON. Failures inside rule evaluation degrade to skipped rules or
// unresolved template text, recorded in the audit trail.
func (e *Engine) Apply(state map[string]any, ruleset *Ruleset) (*Result, error) {
	if ruleset == nil {
		return nil, ErrNilRuleset
	}
	if ruleset.Rules == nil {
		return nil, ErrMissingRules
	}

	input, err := deepCopy(state)
	if err != nil {
		return nil, err
	}
	working, err := deepCopy(state)
	if err != nil {
		return nil, err
	}

	maxIterations := ruleset.MaxIterations
	if maxIterations <= 0 {
		maxIterations = e.opts.MaxIterations
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	sorted := ruleset.sortedRules()
	rec := newRecorder(e.opts.Clock)
	rec.infof("applying %d rules (max_iterations=%d)", len(sorted), maxIterations)

	iterations := 0
	converged := false
	for iterations < maxIterations {
		iterations++
		// Tracks which rule last wrote each path in this sweep, for
		// conflict detection.
		writes := map[string]string{}

		before := canonical(working)
		for _, rule := range sorted {
			e.applyRule(rule, working, writes, iterations, rec)
		}

		if canonical(working) == before {
			converged = true
			rec.infof("converged after %d iterations", iterations)
			break
		}
	}
	if !converged {
		rec.warnf("max iterations (%d) reached without convergence", maxIterations)
	}

	return &Result{
		Input:        input,
		Output:       working,
		Iterations:   iterations,
		Converged:    converged,
		Audit:        rec.audit,
		Conflicts:    rec.conflicts,
		RulesApplied: rulesApplied(rec.audit),
	}, nil
}

// applyRule evaluates one rule against the working state and, when its
// condition holds, resolves and writes each Then assignment in order. Each
// assignment is resolved against the state as mutated by the assignments
// before it, so one field may reference another set earlier in the same
// rule. A false condition applies the Else assignments instead, if any.
// Resolved values are copied before the write: the state must never share
// structure with a rule's literal values, or later sweeps would mutate the
// ruleset itself.
func (e *Engine) applyRule(rule *Rule, state map[string]any, writes map[string]string, iteration int, rec *recorder) {
	ok, err := e.evaluator.Condition(rule.If, BuildContext(state))
	if err != nil {
		rec.warnf("rule %s: condition %v: %v", rule.Name, rule.If, err)
	}

	assignments := rule.Then
	if ok {
		rec.infof("applied: %s", rule.Name)
	} else {
		if len(rule.Else) == 0 {
			rec.infof("skipped: %s", rule.Name)
			return
		}
		rec.infof("applied else: %s", rule.Name)
		assignments = rule.Else
	}

	for _, a := range assignments {
		value, err := e.evaluator.Resolve(a.Value, BuildContext(state))
		if err != nil {
			rec.warnf("rule %s: resolving %q for %q: %v", rule.Name, a.Value, a.Path, err)
		}
		if previous, written := writes[a.Path]; written && previous != rule.Name {
			rec.conflict(a.Path, previous, rule.Name, iteration)
		}
		if err := SetPath(state, a.Path, copyValue(value)); err != nil {
			rec.warnf("rule %s: writing %q: %v", rule.Name, a.Path, err)
			continue
		}
		writes[a.Path] = rule.Name
	}
}

const appliedPrefix = "applied: "

// rulesApplied derives the ordered list of fired rule names from the audit
// trail. A rule appears once per sweep in which its condition was true.
func rulesApplied(audit []AuditEntry) []string {
	applied := []string{}
	for _, entry := range audit {
		if strings.HasPrefix(entry.Message, appliedPrefix) {
			applied = append(applied, strings.TrimPrefix(entry.Message, appliedPrefix))
		}
	}
	return applied
}
