package cel

import (
	"reflect"
	"testing"

	"github.com/google/cel-go/common/types"
)

func TestNativeConversions(t *testing.T) {
	adapter := types.DefaultTypeAdapter

	cases := []struct {
		name string
		in   any
		want any
	}{
		{"bool", true, true},
		{"int", int64(7), int64(7)},
		{"double", 2.5, 2.5},
		{"string", "x", "x"},
		{"bytes", []byte("ab"), []byte("ab")},
		{"nil", nil, nil},
		{"list", []any{int64(1), "two"}, []any{int64(1), "two"}},
		{"map", map[string]any{"k": int64(1)}, map[string]any{"k": int64(1)}},
		{"nested", map[string]any{"l": []any{map[string]any{"d": 1.5}}},
			map[string]any{"l": []any{map[string]any{"d": 1.5}}}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := native(adapter.NativeToValue(c.in))
			if err != nil {
				t.Fatalf("native(%v): %v", c.in, err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("native(%v) = %#v, want %#v", c.in, got, c.want)
			}
		})
	}
}

func TestNativeUintFitsInt(t *testing.T) {
	got, err := native(types.Uint(42))
	if err != nil {
		t.Fatal(err)
	}
	if got != int64(42) {
		t.Errorf("native(Uint(42)) = %#v, want int64(42)", got)
	}
}

func TestTemplatePattern(t *testing.T) {
	cases := []struct {
		in    string
		match bool
	}{
		{"{{ a }}", true},
		{"{{a}}", true},
		{"{{ a + b }}", true},
		{"{{ multi\nline }}", true},
		{"plain", false},
		{"Result: {{a}}", false},
		{"{{ a }} trailing", false},
		{"{ a }", false},
		{"{{}}", true},
	}
	for _, c := range cases {
		got := templatePattern.MatchString(c.in)
		if got != c.match {
			t.Errorf("templatePattern(%q) = %v, want %v", c.in, got, c.match)
		}
	}
}
