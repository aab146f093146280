package fixpoint

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadRuleset reads a ruleset from a JSON (.json) or YAML (.yaml, .yml)
// file, chosen by extension.
func LoadRuleset(path string) (*Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening ruleset file")
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadRulesetYAML(f)
	case ".json":
		return ReadRulesetJSON(f)
	default:
		return nil, errors.Errorf("unsupported ruleset file extension %q", filepath.Ext(path))
	}
}

// ReadRulesetJSON decodes a ruleset from JSON. Trailing data after the
// ruleset object is an error.
func ReadRulesetJSON(r io.Reader) (*Ruleset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rs Ruleset
	if err := dec.Decode(&rs); err != nil {
		return nil, errors.Wrap(err, "decoding ruleset JSON")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("trailing data after ruleset JSON")
	}
	return &rs, nil
}

// ReadRulesetYAML decodes a ruleset from YAML.
func ReadRulesetYAML(r io.Reader) (*Ruleset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading ruleset YAML")
	}
	var rs Ruleset
	if err := yaml.Unmarshal(b, &rs); err != nil {
		return nil, errors.Wrap(err, "decoding ruleset YAML")
	}
	return &rs, nil
}

// WriteRulesetJSON serializes a ruleset as indented JSON, preserving
// assignment order. The output round-trips through ReadRulesetJSON.
func WriteRulesetJSON(w io.Writer, rs *Ruleset) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rs); err != nil {
		return errors.Wrap(err, "encoding ruleset JSON")
	}
	_, err := w.Write(buf.Bytes())
	return errors.Wrap(err, "writing ruleset JSON")
}
