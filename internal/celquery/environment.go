// Package celquery holds the CEL environment and compiled-program
// cache used for querying decoded save trees.
package celquery

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// RootVar is the name the decoded tree is bound to in a query.
const RootVar = "save"

// NewEnvironment creates a CEL environment for save-tree queries. The
// tree arrives as nested map[string]any / []any, so the root variable
// is dynamic, plus a few helpers games-data queries keep needing.
func NewEnvironment() (*cel.Env, error) {
	env, err := cel.NewEnv(
		cel.Variable(RootVar, cel.DynType),
		cel.StdLib(),
		saveTreeFunctions(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

func saveTreeFunctions() cel.EnvOption {
	return cel.Lib(&treeLib{})
}

type treeLib struct{}

func (*treeLib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		// number coerces any scalar leaf to a double, since save
		// trees mix ints, floats, and numeric strings freely.
		cel.Function("number",
			cel.Overload("number_dyn", []*cel.Type{cel.DynType}, cel.DoubleType,
				cel.UnaryBinding(func(val ref.Val) ref.Val {
					converted := val.ConvertToType(types.DoubleType)
					if types.IsError(converted) {
						return types.Double(0)
					}
					return converted
				}),
			),
		),
		cel.Function("isError",
			cel.Overload("iserror_any", []*cel.Type{cel.AnyType}, cel.BoolType,
				cel.UnaryBinding(func(val ref.Val) ref.Val {
					return types.Bool(types.IsError(val))
				}),
			),
		),
	}
}

func (*treeLib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}
