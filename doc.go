// Package fixpoint provides a declarative rule-evaluation engine that
// repeatedly applies a set of prioritized condition/action rules to a
// JSON-like state until the state stops changing or an iteration cap is
// reached.
//
// Fixpoint itself does not specify an expression language for conditions and
// templates; that is supplied by an implementation of the Evaluator
// interface. The cel subpackage provides the standard implementation, backed
// by Google's CEL.
//
// Typical use:
//
//  1. Load or construct a Ruleset
//  2. Optionally check it with ValidateRuleset
//  3. Create an Engine with an Evaluator
//  4. Call Apply with the input state
//  5. Inspect Result.Output, and the audit trail and conflict log when the
//     outcome needs explaining
//
// # Rules
//
// A rule has a name, a priority (lower runs earlier, default 999), an
// optional condition, and ordered assignments of values to dot-paths in the
// state. Assignment values that are whole-string templates of the form
// {{ <expr> }} are evaluated against the current state; anything else is
// written verbatim. A string that merely contains a template, such as
// "Result: {{x}}", is intentionally not resolved.
//
// # The fixpoint loop
//
// One sweep evaluates every rule in priority order against the state,
// applying the assignments of rules whose conditions hold. Sweeps repeat
// until one of them changes nothing, or until max_iterations sweeps have
// run. Two rules writing the same path in one sweep is recorded as a
// conflict, not an error; the later rule in priority order wins.
//
// # Failure handling
//
// The engine favors a complete, inspectable result over hard failure: a
// condition that fails to evaluate skips its rule, and a template that fails
// to resolve is written as literal text, in both cases with a warning in the
// audit trail. Apply returns an error only when the ruleset or state is
// structurally unusable.
//
// # Ownership and concurrency
//
// One Apply call exclusively owns its working state, which is deep-copied
// from the caller's input. Engines and Evaluators are safe for concurrent
// use; run concurrent Apply calls freely as long as each gets its own input
// map. Rulesets must not be modified during a run; use a Vault to swap
// rulesets between runs.
package fixpoint
