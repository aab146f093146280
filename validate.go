package fixpoint

import "fmt"

// ValidateRuleset checks a ruleset for structural problems and returns one
// message per problem found, or an empty list if the ruleset is valid.
//
// Checks: the rules list is present, every rule has a name unique within the
// set, priorities are non-negative, string conditions parse in the given
// evaluator's expression language, and every rule has at least one of
// Then/Else. Validation is advisory; Apply does not call it.
//
// A nil evaluator skips the condition parse check.
func ValidateRuleset(ruleset *Ruleset, evaluator Evaluator) []string {
	if ruleset == nil {
		return []string{"ruleset is nil"}
	}
	if ruleset.Rules == nil {
		return []string{"ruleset has no rules list"}
	}

	problems := []string{}
	seen := map[string]int{}

	for i, rule := range ruleset.Rules {
		if rule == nil {
			problems = append(problems, fmt.Sprintf("rule %d: nil rule", i))
			continue
		}
		if rule.Name == "" {
			problems = append(problems, fmt.Sprintf("rule %d: missing name", i))
		} else if first, dup := seen[rule.Name]; dup {
			problems = append(problems, fmt.Sprintf("rule %d: duplicate name %q (first used by rule %d)", i, rule.Name, first))
		} else {
			seen[rule.Name] = i
		}

		if rule.Priority < 0 {
			problems = append(problems, fmt.Sprintf("rule %d (%s): negative priority %v", i, rule.Name, rule.Priority))
		}

		switch cond := rule.If.(type) {
		case nil, bool:
		case string:
			if evaluator != nil {
				if err := evaluator.Parse(cond); err != nil {
					problems = append(problems, fmt.Sprintf("rule %d (%s): condition: %v", i, rule.Name, err))
				}
			}
		default:
			problems = append(problems, fmt.Sprintf("rule %d (%s): condition must be a string or bool, got %T", i, rule.Name, rule.If))
		}

		if len(rule.Then) == 0 && len(rule.Else) == 0 {
			problems = append(problems, fmt.Sprintf("rule %d (%s): no then or else assignments", i, rule.Name))
		}
	}
	return problems
}
