package fixpoint

import (
	"fmt"
	"sync/atomic"
)

// Vault provides lock-free, hot-swappable access to the current ruleset.
//
// Watch-style collaborators poll state, call Apply with the vault's current
// ruleset, and feed Result.Output back as the next input; a Vault lets the
// ruleset be replaced between those calls without coordinating with readers.
// A stored ruleset must be treated as immutable; Replace with a new value
// instead of modifying one in place.
type Vault struct {
	current   atomic.Pointer[Ruleset]
	evaluator Evaluator
}

// NewVault creates a vault holding the initial ruleset. The evaluator is
// used to validate rulesets before they are stored; it may be nil to skip
// condition parse checks.
func NewVault(evaluator Evaluator, initial *Ruleset) (*Vault, error) {
	v := &Vault{evaluator: evaluator}
	if initial == nil {
		initial = &Ruleset{Rules: []*Rule{}}
	}
	if err := v.validate(initial); err != nil {
		return nil, fmt.Errorf("initial ruleset: %w", err)
	}
	v.current.Store(initial)
	return v, nil
}

// Current returns the ruleset stored in the vault.
func (v *Vault) Current() *Ruleset {
	return v.current.Load()
}

// Replace validates the ruleset and makes it the vault's current one.
// In-flight Apply calls keep the ruleset they started with.
func (v *Vault) Replace(rs *Ruleset) error {
	if err := v.validate(rs); err != nil {
		return err
	}
	v.current.Store(rs)
	return nil
}

func (v *Vault) validate(rs *Ruleset) error {
	problems := ValidateRuleset(rs, v.evaluator)
	if len(problems) > 0 {
		return fmt.Errorf("invalid ruleset: %s", problems[0])
	}
	return nil
}
