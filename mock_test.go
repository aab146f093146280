package fixpoint_test

import (
	"fmt"
	"testing"

	"github.com/matryer/is"

	"github.com/spclabs/fixpoint"
)

// mockEvaluator is a minimal Evaluator for exercising the driver without a
// real expression language. It understands two condition strings, "yes" and
// "no", and resolves the template "{{ bump }}" to a counter that changes on
// every call, which keeps a rule "hot" until the iteration cap.
type mockEvaluator struct {
	conditionsChecked []string
	resolved          int
	counter           int
}

func (m *mockEvaluator) Condition(condition any, context map[string]any) (bool, error) {
	m.conditionsChecked = append(m.conditionsChecked, fmt.Sprintf("%v", condition))
	switch c := condition.(type) {
	case nil:
		return true, nil
	case bool:
		return c, nil
	case string:
		switch c {
		case "yes":
			return true, nil
		case "no":
			return false, nil
		}
		return false, fmt.Errorf("mock cannot evaluate %q", c)
	default:
		return false, fmt.Errorf("unsupported condition type %T", condition)
	}
}

func (m *mockEvaluator) Resolve(value any, context map[string]any) (any, error) {
	m.resolved++
	if value == "{{ bump }}" {
		m.counter++
		return m.counter, nil
	}
	return value, nil
}

func (m *mockEvaluator) Parse(expression string) error {
	if expression == "yes" || expression == "no" {
		return nil
	}
	return fmt.Errorf("mock cannot parse %q", expression)
}

func TestDriverWithMockEvaluator(t *testing.T) {
	is := is.New(t)

	mock := &mockEvaluator{}
	engine := fixpoint.NewEngine(mock)

	rs := &fixpoint.Ruleset{
		Rules: []*fixpoint.Rule{
			{Name: "fires", If: "yes", Then: fixpoint.Assignments{{Path: "a", Value: 1}}},
			{Name: "skips", If: "no", Then: fixpoint.Assignments{{Path: "b", Value: 2}}},
			{Name: "errors", If: "unknown", Then: fixpoint.Assignments{{Path: "c", Value: 3}}},
		},
	}

	result, err := engine.Apply(map[string]any{}, rs)
	is.NoErr(err)

	is.Equal(result.Output["a"], 1)
	_, hasB := result.Output["b"]
	_, hasC := result.Output["c"]
	is.True(!hasB)
	is.True(!hasC)

	// Every rule's condition is checked every sweep; only the firing rule
	// resolves its assignment.
	is.Equal(result.Iterations, 2)
	is.Equal(len(mock.conditionsChecked), 6)
	is.Equal(mock.resolved, 2)
	is.Equal(result.RulesApplied, []string{"fires", "fires"})
}

func TestDriverCapWithMockEvaluator(t *testing.T) {
	is := is.New(t)

	mock := &mockEvaluator{}
	engine := fixpoint.NewEngine(mock, fixpoint.WithMaxIterations(3))

	rs := &fixpoint.Ruleset{
		Rules: []*fixpoint.Rule{
			{Name: "hot", Then: fixpoint.Assignments{{Path: "n", Value: "{{ bump }}"}}},
		},
	}

	result, err := engine.Apply(map[string]any{}, rs)
	is.NoErr(err)

	is.Equal(result.Iterations, 3)
	is.True(!result.Converged)

	// The ruleset's own cap overrides the engine default.
	rs.MaxIterations = 5
	mock.counter = 0
	result, err = engine.Apply(map[string]any{}, rs)
	is.NoErr(err)
	is.Equal(result.Iterations, 5)
}
