// Package str is the built-in string plugin (spec §6 builtins): lifts Go
// strings to str/literal, implements str/concat (the target of the surface
// package's tagged-template-string builder) plus eq and show trait
// instances for the "string" type tag. Grounded the same way as num:
// cel-go's string overloads in operators/operators.go collapsed into one
// plugin file.
package str

import (
	"fmt"
	"strings"

	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

const (
	literalKind = "str/literal"
	concatKind  = "str/concat"
	eqKind      = "str/eq"
	showKind    = "str/show"
)

// Plugin returns the composable registry.Plugin contribution for strings.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Name: "str",
		Ctors: map[string]registry.Ctor{
			"concat": func(args ...any) *graph.CExpr { return graph.MakeCExpr(concatKind, args...) },
		},
		Kinds: map[string]registry.KindSpec{
			literalKind: {Output: "string"},
			concatKind:  {Output: "string"},
			eqKind:      {Inputs: []string{"string", "string"}, Output: "boolean"},
			showKind:    {Inputs: []string{"string"}, Output: "string"},
		},
		Traits: map[string]registry.Trait{
			"eq":   {OutputTypeTag: "boolean", Mapping: map[string]string{"string": eqKind}},
			"show": {OutputTypeTag: "string", Mapping: map[string]string{"string": showKind}},
		},
		Lifts: map[string]string{"string": literalKind},
		DefaultInterpreter: func() fold.Interpreter {
			return fold.Interpreter{
				concatKind: concat,
				eqKind:     eq,
				showKind:   showHandler,
			}
		},
	}
}

func concat(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	vals, err := ctx.Children(entry)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, v := range vals {
		fmt.Fprint(&b, v)
	}
	return b.String(), nil
}

func eq(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	vals, err := ctx.Children(entry)
	if err != nil {
		return nil, err
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("exgraph: str/eq expected 2 children, got %d", len(vals))
	}
	a, ok1 := vals[0].(string)
	b, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("exgraph: str/eq expected two strings, got %T and %T", vals[0], vals[1])
	}
	return a == b, nil
}

func showHandler(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	vals, err := ctx.Children(entry)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%v", vals[0]), nil
}
