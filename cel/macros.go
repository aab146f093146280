package cel

import (
	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/ast"
	"github.com/google/cel-go/common/types"
)

// macros declares the reduce macro. CEL ships map and filter as macros over
// its comprehension primitive but no fold; reduce expands to the same
// primitive with a caller-named accumulator:
//
//	[1, 2, 3].reduce(acc, n, 0, acc + n)  // 6
func macros() []celgo.EnvOption {
	return []celgo.EnvOption{
		celgo.Macros(celgo.ReceiverMacro("reduce", 4, expandReduce)),
	}
}

func expandReduce(mef celgo.MacroExprFactory, target ast.Expr, args []ast.Expr) (ast.Expr, *celgo.Error) {
	accuVar, ok := identName(args[0])
	if !ok {
		return nil, mef.NewError(args[0].ID(), "reduce accumulator name must be an identifier")
	}
	iterVar, ok := identName(args[1])
	if !ok {
		return nil, mef.NewError(args[1].ID(), "reduce iteration variable must be an identifier")
	}
	return mef.NewComprehension(
		target,
		iterVar,
		accuVar,
		args[2], // accumulator init
		mef.NewLiteral(types.True),
		args[3], // step
		mef.NewIdent(accuVar),
	), nil
}

func identName(e ast.Expr) (string, bool) {
	if e.Kind() != ast.IdentKind {
		return "", false
	}
	return e.AsIdent(), true
}
