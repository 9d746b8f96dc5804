// Package num is the built-in numeric plugin (spec §6 builtins): lifts Go's
// int/int64/float64 host values to num/literal, and implements num/add,
// num/sub, num/mul, num/div plus the eq and show trait instances for the
// "number" type tag. Grounded on cel-go's overload set in
// operators/operators.go and the arithmetic overloads interpreter/dispatcher
// resolves by operand type, here flattened into one plugin.
package num

import (
	"fmt"

	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

const (
	literalKind = "num/literal"
	addKind     = "num/add"
	subKind     = "num/sub"
	mulKind     = "num/mul"
	divKind     = "num/div"
	eqKind      = "num/eq"
	showKind    = "num/show"
)

// Plugin returns the composable registry.Plugin contribution for numbers.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Name: "num",
		Ctors: map[string]registry.Ctor{
			"add": func(args ...any) *graph.CExpr { return graph.MakeCExpr(addKind, args...) },
			"sub": func(args ...any) *graph.CExpr { return graph.MakeCExpr(subKind, args...) },
			"mul": func(args ...any) *graph.CExpr { return graph.MakeCExpr(mulKind, args...) },
			"div": func(args ...any) *graph.CExpr { return graph.MakeCExpr(divKind, args...) },
		},
		Kinds: map[string]registry.KindSpec{
			literalKind: {Output: "number"},
			addKind:     {Inputs: []string{"number", "number"}, Output: "number"},
			subKind:     {Inputs: []string{"number", "number"}, Output: "number"},
			mulKind:     {Inputs: []string{"number", "number"}, Output: "number"},
			divKind:     {Inputs: []string{"number", "number"}, Output: "number"},
			eqKind:      {Inputs: []string{"number", "number"}, Output: "boolean"},
			showKind:    {Inputs: []string{"number"}, Output: "string"},
		},
		Traits: map[string]registry.Trait{
			"eq":   {OutputTypeTag: "boolean", Mapping: map[string]string{"number": eqKind}},
			"show": {OutputTypeTag: "string", Mapping: map[string]string{"number": showKind}},
		},
		Lifts: map[string]string{"number": literalKind},
		DefaultInterpreter: func() fold.Interpreter {
			return fold.Interpreter{
				addKind:  binary(func(a, b float64) any { return a + b }),
				subKind:  binary(func(a, b float64) any { return a - b }),
				mulKind:  binary(func(a, b float64) any { return a * b }),
				divKind:  binary(func(a, b float64) any { return a / b }),
				eqKind:   binary(func(a, b float64) any { return a == b }),
				showKind: show,
			}
		},
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("exgraph: num builtin expected a number, got %T", v)
	}
}

func binary(op func(a, b float64) any) fold.Handler {
	return func(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
		vals, err := ctx.Children(entry)
		if err != nil {
			return nil, err
		}
		if len(vals) != 2 {
			return nil, fmt.Errorf("exgraph: num binary op expected 2 children, got %d", len(vals))
		}
		a, err := toFloat(vals[0])
		if err != nil {
			return nil, err
		}
		b, err := toFloat(vals[1])
		if err != nil {
			return nil, err
		}
		return op(a, b), nil
	}
}

func show(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	vals, err := ctx.Children(entry)
	if err != nil {
		return nil, err
	}
	n, err := toFloat(vals[0])
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%g", n), nil
}
