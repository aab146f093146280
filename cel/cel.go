package cel

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"

	"github.com/spclabs/fixpoint"
)

// templatePattern matches strings whose entire trimmed content is a
// {{ <expr> }} template. Strings that merely contain a template are left
// alone on purpose; only exact whole-string templates are evaluated.
var templatePattern = regexp.MustCompile(`(?s)^\{\{(.*)\}\}$`)

// Evaluator implements fixpoint.Evaluator with CEL expressions.
//
// Expressions are compiled on first use and cached by expression text, so
// the per-sweep cost of the fixpoint loop is evaluation only. An Evaluator
// is safe for concurrent use.
type Evaluator struct {
	env *celgo.Env

	mu       sync.RWMutex
	programs map[string]celgo.Program
}

var _ fixpoint.Evaluator = (*Evaluator)(nil)

// NewEvaluator builds the CEL environment: the standard library, the
// strings/math/encoders extensions, the fixpoint builtins (now, uuid,
// toJson, fromJson) and the reduce macro. No host state is declared into
// the environment.
func NewEvaluator() (*Evaluator, error) {
	opts := []celgo.EnvOption{
		celgo.CrossTypeNumericComparisons(true),
		ext.Strings(),
		ext.Math(),
		ext.Encoders(),
	}
	opts = append(opts, functions()...)
	opts = append(opts, macros()...)

	env, err := celgo.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("building CEL environment: %w", err)
	}
	return &Evaluator{
		env:      env,
		programs: make(map[string]celgo.Program),
	}, nil
}

// Condition reports whether a rule condition holds. A nil condition is true,
// a bool is itself, and a string is evaluated as a CEL expression that must
// produce a boolean. Any failure reports false along with the cause; an
// empty string is not an expression and fails like any other.
func (e *Evaluator) Condition(condition any, context map[string]any) (bool, error) {
	switch c := condition.(type) {
	case nil:
		return true, nil
	case bool:
		return c, nil
	case string:
		if strings.TrimSpace(c) == "" {
			return false, fmt.Errorf("condition is an empty string; omit the condition for an always-true rule")
		}
		v, err := e.eval(c, context)
		if err != nil {
			return false, err
		}
		b, ok := v.(bool)
		if !ok {
			return false, fmt.Errorf("condition %q produced %T, want bool", c, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("condition must be a string or bool, got %T", condition)
	}
}

// Resolve resolves an assignment value. Only a string whose whole trimmed
// content matches {{ <expr> }} is evaluated; everything else passes through
// verbatim. The now() and uuid() builtins are recognized directly so they
// work without touching the CEL machinery. On evaluation failure the
// original template string is returned with the cause, so a broken
// expression shows up in the output as literal text instead of failing the
// run.
func (e *Evaluator) Resolve(value any, context map[string]any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	m := templatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s, nil
	}
	expr := strings.TrimSpace(m[1])

	switch expr {
	case "now()":
		return nowISO(), nil
	case "uuid()":
		return newUUID(), nil
	}

	v, err := e.eval(expr, context)
	if err != nil {
		return s, err
	}
	return v, nil
}

// Parse checks expression syntax without evaluating or caching it.
func (e *Evaluator) Parse(expression string) error {
	_, iss := e.env.Parse(expression)
	if iss != nil && iss.Err() != nil {
		return fmt.Errorf("parsing %q: %w", expression, iss.Err())
	}
	return nil
}

// eval runs the expression against the context and converts the result to a
// JSON-native Go value.
func (e *Evaluator) eval(expression string, context map[string]any) (any, error) {
	prg, err := e.program(expression)
	if err != nil {
		return nil, err
	}
	out, _, err := prg.Eval(context)
	if err != nil {
		return nil, fmt.Errorf("evaluating %q: %w", expression, err)
	}
	return native(out)
}

// program returns the compiled program for the expression, compiling and
// caching it on first use.
func (e *Evaluator) program(expression string) (celgo.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[expression]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Parse(expression)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("parsing %q: %w", expression, iss.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", expression, err)
	}

	e.mu.Lock()
	e.programs[expression] = prg
	e.mu.Unlock()
	return prg, nil
}
