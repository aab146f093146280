package fixpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// DefaultPriority is assigned to rules that do not specify one.
// Lower priorities run earlier in a sweep.
const DefaultPriority = 999.0

// A Rule is a named, prioritized condition/action pair.
//
// The condition (If) is evaluated against the current state; when it holds,
// each Then assignment is resolved and written to the state at its dot-path.
// When it does not hold and the rule carries Else assignments, those are
// applied instead.
//
// If may be:
//   - absent (nil): the rule always fires
//   - a bool literal: used as-is
//   - a string: an expression evaluated against the state context; any
//     evaluation failure counts as false and the rule is skipped
type Rule struct {
	// Name identifies the rule in the audit trail and conflict log. (required)
	Name string `json:"name" yaml:"name"`

	// Priority orders rules within a sweep; lower runs earlier. Ties keep
	// the order the rules were listed in. Defaults to DefaultPriority when
	// absent from a decoded rule file.
	Priority float64 `json:"priority" yaml:"priority"`

	// If is the rule condition. See the type comment for accepted forms.
	If any `json:"if,omitempty" yaml:"if,omitempty"`

	// Then assigns values to state paths when the condition holds.
	// Assignments run in the order they are written in the rule, and each
	// one sees the state as mutated by the assignments before it.
	Then Assignments `json:"then,omitempty" yaml:"then,omitempty"`

	// Else assigns values to state paths when the condition does not hold.
	Else Assignments `json:"else,omitempty" yaml:"else,omitempty"`
}

// NewRule initializes a rule with the name and condition expression,
// at the default priority.
func NewRule(name string, condition string) *Rule {
	r := &Rule{
		Name:     name,
		Priority: DefaultPriority,
	}
	if condition != "" {
		r.If = condition
	}
	return r
}

// Set appends an assignment to the rule's Then list and returns the rule,
// allowing chained construction.
func (r *Rule) Set(path string, value any) *Rule {
	r.Then = append(r.Then, Assignment{Path: path, Value: value})
	return r
}

// UnmarshalJSON decodes a rule, defaulting Priority when it is absent.
func (r *Rule) UnmarshalJSON(b []byte) error {
	type alias Rule
	a := alias{Priority: DefaultPriority}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&a); err != nil {
		return err
	}
	a.If = normalizeValue(a.If)
	*r = Rule(a)
	return nil
}

// UnmarshalYAML decodes a rule, defaulting Priority when it is absent.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	type alias Rule
	a := alias{Priority: DefaultPriority}
	if err := node.Decode(&a); err != nil {
		return err
	}
	a.If = normalizeValue(a.If)
	*r = Rule(a)
	return nil
}

// An Assignment writes a single value (or template) to a dot-path in the state.
type Assignment struct {
	Path  string
	Value any
}

// Assignments is an ordered list of path assignments. In JSON and YAML it is
// written as an object; decoding preserves the order the keys appear in the
// source, which is significant: assignments run in that order.
type Assignments []Assignment

// UnmarshalJSON reads an object while preserving key order.
func (a *Assignments) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("assignments must be an object, got %v", tok)
	}

	out := Assignments{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("assignment key must be a string, got %v", keyTok)
		}
		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("assignment %q: %w", key, err)
		}
		out = append(out, Assignment{Path: key, Value: normalizeValue(val)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON writes the assignments as an object in their defined order.
func (a Assignments) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(kv.Path)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalYAML reads a mapping node while preserving key order.
func (a *Assignments) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("assignments must be a mapping, got kind %v at line %d", node.Kind, node.Line)
	}
	out := Assignments{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		var val any
		if err := node.Content[i+1].Decode(&val); err != nil {
			return fmt.Errorf("assignment %q: %w", key, err)
		}
		out = append(out, Assignment{Path: key, Value: normalizeValue(val)})
	}
	*a = out
	return nil
}

// MarshalYAML writes the assignments as a mapping in their defined order.
func (a Assignments) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range a {
		var key, val yaml.Node
		if err := key.Encode(kv.Path); err != nil {
			return nil, err
		}
		if err := val.Encode(kv.Value); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &key, &val)
	}
	return node, nil
}

func (a Assignments) paths() []string {
	ps := make([]string, 0, len(a))
	for _, kv := range a {
		ps = append(ps, kv.Path)
	}
	return ps
}

// A Ruleset is the unit of configuration passed to Engine.Apply: the rules to
// run and the sweep cap. Rulesets are treated as immutable during a run.
type Ruleset struct {
	// MaxIterations caps the number of sweeps in one Apply call.
	// Zero means use the engine default.
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`

	// Rules to apply, in any order; Apply sorts them by priority.
	Rules []*Rule `json:"rules" yaml:"rules"`
}

// sortedRules returns the rules ordered by ascending priority, ties broken by
// list order. The returned slice is new; the ruleset is not modified.
func (rs *Ruleset) sortedRules() []*Rule {
	sorted := make([]*Rule, len(rs.Rules))
	copy(sorted, rs.Rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// String returns the rules in evaluation order as a table.
func (rs *Ruleset) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nFIXPOINT RULES\n")
	tw.AppendHeader(table.Row{"\nRule", "\nPriority", "\nCondition", "Then\nPaths", "Else\nPaths"})

	for _, r := range rs.sortedRules() {
		cond := ""
		if r.If != nil {
			cond = fmt.Sprintf("%v", r.If)
		}
		tw.AppendRow(table.Row{
			r.Name,
			fmt.Sprintf("%v", r.Priority),
			cond,
			strings.Join(r.Then.paths(), ", "),
			strings.Join(r.Else.paths(), ", "),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 40},
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}
