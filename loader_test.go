package fixpoint_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/spclabs/fixpoint"
)

const mortgageJSON = `{
  "max_iterations": 10,
  "rules": [
    {
      "name": "debt_ratio",
      "priority": 1,
      "then": {
        "ratios.dti": "{{ debts_monthly / income_monthly }}"
      }
    },
    {
      "name": "approve",
      "priority": 2,
      "if": "ratios_dti < 0.43",
      "then": {
        "decision.status": "approved",
        "decision.reason": "dti within limits"
      },
      "else": {
        "decision.status": "declined",
        "decision.reason": "dti too high"
      }
    }
  ]
}`

func TestLoadRulesetJSON(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "mortgage.json")
	is.NoErr(os.WriteFile(path, []byte(mortgageJSON), 0o644))

	rs, err := fixpoint.LoadRuleset(path)
	is.NoErr(err)

	is.Equal(rs.MaxIterations, 10)
	is.Equal(len(rs.Rules), 2)
	is.Equal(rs.Rules[0].Priority, 1.0)

	approve := rs.Rules[1]
	is.Equal(approve.If, "ratios_dti < 0.43")
	is.Equal(len(approve.Then), 2)
	is.Equal(approve.Then[0].Path, "decision.status")
	is.Equal(approve.Then[1].Path, "decision.reason")
	is.Equal(approve.Else[0].Value, "declined")
}

func TestLoadRulesetYAML(t *testing.T) {
	is := is.New(t)

	src := `
rules:
  - name: classify
    if: gpa >= 3.5
    then:
      tier: honors
    else:
      tier: standard
`
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	is.NoErr(os.WriteFile(path, []byte(src), 0o644))

	rs, err := fixpoint.LoadRuleset(path)
	is.NoErr(err)

	is.Equal(rs.MaxIterations, 0) // engine default applies
	is.Equal(rs.Rules[0].Name, "classify")
	is.Equal(rs.Rules[0].Priority, fixpoint.DefaultPriority)
	is.Equal(rs.Rules[0].Then[0].Value, "honors")
}

func TestLoadRulesetErrors(t *testing.T) {
	is := is.New(t)

	_, err := fixpoint.LoadRuleset(filepath.Join(t.TempDir(), "missing.json"))
	is.True(err != nil)

	path := filepath.Join(t.TempDir(), "rules.toml")
	is.NoErr(os.WriteFile(path, []byte(""), 0o644))
	_, err = fixpoint.LoadRuleset(path)
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "unsupported"))

	bad := filepath.Join(t.TempDir(), "bad.json")
	is.NoErr(os.WriteFile(bad, []byte(`{"rules": [}`), 0o644))
	_, err = fixpoint.LoadRuleset(bad)
	is.True(err != nil)
}

func TestReadRulesetJSONTrailingData(t *testing.T) {
	is := is.New(t)

	_, err := fixpoint.ReadRulesetJSON(strings.NewReader(`{"rules":[]} {"rules":[]}`))
	is.True(err != nil)
}

func TestWriteRulesetJSONRoundTrip(t *testing.T) {
	is := is.New(t)

	rs, err := fixpoint.ReadRulesetJSON(strings.NewReader(mortgageJSON))
	is.NoErr(err)

	var buf bytes.Buffer
	is.NoErr(fixpoint.WriteRulesetJSON(&buf, rs))

	again, err := fixpoint.ReadRulesetJSON(&buf)
	is.NoErr(err)

	is.Equal(len(again.Rules), 2)
	// Assignment order survives the round trip.
	is.Equal(again.Rules[1].Then[0].Path, "decision.status")
	is.Equal(again.Rules[1].Then[1].Path, "decision.reason")
}
