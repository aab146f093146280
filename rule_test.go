package fixpoint

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matryer/is"
	"gopkg.in/yaml.v3"
)

func TestRuleUnmarshalJSONDefaults(t *testing.T) {
	is := is.New(t)

	var r Rule
	is.NoErr(json.Unmarshal([]byte(`{"name":"approve","if":"score > 650","then":{"status":"approved"}}`), &r))

	is.Equal(r.Name, "approve")
	is.Equal(r.Priority, DefaultPriority)
	is.Equal(r.If, "score > 650")
	is.Equal(len(r.Then), 1)
	is.Equal(r.Then[0].Path, "status")
	is.Equal(r.Then[0].Value, "approved")
}

func TestRuleUnmarshalJSONConditionForms(t *testing.T) {
	is := is.New(t)

	var always Rule
	is.NoErr(json.Unmarshal([]byte(`{"name":"always","then":{"x":1}}`), &always))
	is.Equal(always.If, nil)

	var literal Rule
	is.NoErr(json.Unmarshal([]byte(`{"name":"lit","if":false,"then":{"x":1}}`), &literal))
	is.Equal(literal.If, false)
}

func TestAssignmentsPreserveJSONOrder(t *testing.T) {
	is := is.New(t)

	src := `{"name":"seq","then":{"z":1,"a":2,"m":3,"b":4}}`
	var r Rule
	is.NoErr(json.Unmarshal([]byte(src), &r))

	is.Equal(r.Then.paths(), []string{"z", "a", "m", "b"})
	is.Equal(r.Then[0].Value, int64(1))

	// Round-trip keeps the order.
	out, err := json.Marshal(r.Then)
	is.NoErr(err)
	is.Equal(string(out), `{"z":1,"a":2,"m":3,"b":4}`)
}

func TestAssignmentsRejectNonObject(t *testing.T) {
	is := is.New(t)

	var a Assignments
	err := json.Unmarshal([]byte(`[1,2]`), &a)
	is.True(err != nil)
}

func TestRuleUnmarshalYAML(t *testing.T) {
	is := is.New(t)

	src := `
max_iterations: 5
rules:
  - name: double
    priority: 1
    if: a < 10
    then:
      b: first
      a: "{{ a * 2 }}"
  - name: fallback
    if: false
    then:
      status: rejected
    else:
      status: pending
`
	var rs Ruleset
	is.NoErr(yaml.Unmarshal([]byte(src), &rs))

	is.Equal(rs.MaxIterations, 5)
	is.Equal(len(rs.Rules), 2)

	double := rs.Rules[0]
	is.Equal(double.Priority, 1.0)
	is.Equal(double.Then.paths(), []string{"b", "a"})
	is.Equal(double.Then[1].Value, "{{ a * 2 }}")

	fallback := rs.Rules[1]
	is.Equal(fallback.Priority, DefaultPriority)
	is.Equal(fallback.If, false)
	is.Equal(fallback.Else[0].Value, "pending")
}

func TestSortedRulesStable(t *testing.T) {
	is := is.New(t)

	rs := &Ruleset{Rules: []*Rule{
		{Name: "c", Priority: 2},
		{Name: "a", Priority: 1},
		{Name: "b", Priority: 1},
		{Name: "d", Priority: DefaultPriority},
	}}

	sorted := rs.sortedRules()
	names := make([]string, len(sorted))
	for i, r := range sorted {
		names[i] = r.Name
	}
	is.Equal(names, []string{"a", "b", "c", "d"})

	// The ruleset's own order is untouched.
	is.Equal(rs.Rules[0].Name, "c")
}

func TestRulesetString(t *testing.T) {
	rs := &Ruleset{Rules: []*Rule{
		NewRule("approve", "score > 650").Set("status", "approved"),
	}}

	out := rs.String()
	for _, want := range []string{"approve", "score > 650", "status"} {
		if !strings.Contains(out, want) {
			t.Errorf("Ruleset.String() missing %q:\n%s", want, out)
		}
	}
}
