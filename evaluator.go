package fixpoint

// Evaluator is the interface implemented by types that can evaluate rule
// conditions and resolve template values against a data context. The engine
// does not specify an expression language; the Evaluator does. See the cel
// subpackage for the standard implementation.
//
// Evaluators must be safe for concurrent use: independent Apply calls may
// share one Evaluator.
type Evaluator interface {
	// Condition reports whether a rule condition holds against the context.
	// A nil condition is true; a bool is itself; a string is evaluated as an
	// expression. Any evaluation failure means false, with the failure
	// returned so the caller can audit it.
	Condition(condition any, context map[string]any) (bool, error)

	// Resolve resolves an assignment value. Non-strings and plain strings
	// are returned unchanged; a string whose whole trimmed content matches
	// {{ <expr> }} is evaluated against the context. On evaluation failure
	// the original template string is returned together with the failure,
	// so a broken expression degrades to visible literal text.
	Resolve(value any, context map[string]any) (any, error)

	// Parse checks that an expression is syntactically valid without
	// evaluating it. Used by ValidateRuleset.
	Parse(expression string) error
}
