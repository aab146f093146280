// Package cel provides an implementation of the fixpoint Evaluator interface
// backed by Google's cel-go.
//
// See https://github.com/google/cel-go and https://cel.dev for more
// information about CEL. Condition and template expressions must conform to
// the CEL spec: https://github.com/google/cel-spec.
//
// Expressions are parsed but not type-checked, since the fixpoint state is
// schema-less: identifiers resolve at evaluation time against the context
// built from the current state. A reference to a key the state does not hold
// is an evaluation failure, which the engine degrades to a skipped rule or
// unresolved template text.
//
// Beyond the CEL standard library (arithmetic, comparisons, the ternary
// operator, property access, comprehension macros such as map and filter,
// and size()), the environment exposes the strings, math and encoders
// extension libraries, a reduce macro, and four functions of its own:
//
//	list.reduce(acc, x, init, expr)  fold a list; e.g. nums.reduce(acc, n, 0, acc + n)
//	now()                            current UTC time as an ISO-8601 string
//	uuid()                           a random UUID v4 string
//	toJson(x)                        JSON-encode any value to a string
//	fromJson(s)                      parse a JSON string to a value
//
// Nothing from the host environment is reachable from an expression: the
// evaluation scope holds only the supplied data context and the functions
// above.
package cel
