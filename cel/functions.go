package cel

import (
	"encoding/json"
	"time"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/uuid"
)

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func newUUID() string {
	return uuid.NewString()
}

// functions declares the fixpoint builtins available in every expression.
// They are pure with respect to the host: no filesystem, network or process
// state is reachable through them.
func functions() []celgo.EnvOption {
	return []celgo.EnvOption{
		celgo.Function("now",
			celgo.Overload("now_string", []*celgo.Type{}, celgo.StringType,
				celgo.FunctionBinding(func(args ...ref.Val) ref.Val {
					return types.String(nowISO())
				}))),

		celgo.Function("uuid",
			celgo.Overload("uuid_string", []*celgo.Type{}, celgo.StringType,
				celgo.FunctionBinding(func(args ...ref.Val) ref.Val {
					return types.String(newUUID())
				}))),

		celgo.Function("toJson",
			celgo.Overload("tojson_dyn_string", []*celgo.Type{celgo.DynType}, celgo.StringType,
				celgo.UnaryBinding(func(v ref.Val) ref.Val {
					n, err := native(v)
					if err != nil {
						return types.NewErr("toJson: %v", err)
					}
					b, err := json.Marshal(n)
					if err != nil {
						return types.NewErr("toJson: %v", err)
					}
					return types.String(b)
				}))),

		celgo.Function("fromJson",
			celgo.Overload("fromjson_string_dyn", []*celgo.Type{celgo.StringType}, celgo.DynType,
				celgo.UnaryBinding(func(v ref.Val) ref.Val {
					s, ok := v.(types.String)
					if !ok {
						return types.NewErr("fromJson: want string, got %v", v.Type())
					}
					var parsed any
					if err := json.Unmarshal([]byte(s), &parsed); err != nil {
						return types.NewErr("fromJson: %v", err)
					}
					return types.DefaultTypeAdapter.NativeToValue(parsed)
				}))),
	}
}
