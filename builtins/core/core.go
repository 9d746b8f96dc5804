// Package core provides fold-time handlers for the two "core" kinds spec
// §4.4/§9 name but leave to an implementation to wire up: core/access
// (Design Notes §9's explicit property-access builder) and
// core/lambda_param (the lexical-variable read a recurse_scoped handler's
// bound name resolves to, spec §4.5's recurse_scoped/lookup pair). Neither
// kind is elaborator-special beyond core/access's dedicated elaboration
// step (elaborate.go handles that internally); core/lambda_param is an
// ordinary regular-kind node at the elaborator level, reaching this
// package's handler only at fold time.
package core

import (
	"fmt"

	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

const (
	// AccessKind matches elaborate.go's unexported accessKind constant;
	// kept in sync by naming convention rather than a shared constant,
	// since core/access's elaboration step lives in the elaborate package
	// itself (spec §4.4 step 4) and only its fold-time evaluation belongs
	// here.
	AccessKind = "core/access"
	// LambdaParamKind nodes carry the bound name as their single child (a
	// lifted string literal) and resolve it against the fold's current
	// lexical-binding stack (fold.FoldContext.Lookup) rather than storing
	// it in Out directly — Out-with-no-children is reserved for literal
	// leaves, which must never invoke a handler (spec §4.5's "already
	// computed" shortcut).
	LambdaParamKind = "core/lambda_param"
)

// Plugin returns the composable registry.Plugin contribution for these two
// core kinds.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Name: "core",
		Ctors: map[string]registry.Ctor{
			"var": func(args ...any) *graph.CExpr { return graph.MakeCExpr(LambdaParamKind, args...) },
		},
		Kinds: map[string]registry.KindSpec{
			LambdaParamKind: {Inputs: []string{"string"}, Output: "unknown"},
			AccessKind:      {Inputs: []string{"object"}, Output: "unknown"},
		},
		DefaultInterpreter: func() fold.Interpreter {
			return fold.Interpreter{
				LambdaParamKind: lambdaParam,
				AccessKind:      access,
			}
		},
	}
}

// Var builds core/lambda_param(name): read the current value bound to name
// by the nearest enclosing FoldContext.RecurseScoped call.
func Var(name string) *graph.CExpr {
	return graph.MakeCExpr(LambdaParamKind, name)
}

func lambdaParam(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	v, err := ctx.Child(entry, 0)
	if err != nil {
		return nil, err
	}
	name, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("exgraph: core/lambda_param expected a string name, got %T", v)
	}
	val, bound := ctx.Lookup(name)
	if !bound {
		return nil, fmt.Errorf("exgraph: core/lambda_param %q read outside any recurse_scoped binding", name)
	}
	return val, nil
}

func access(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	obj, err := ctx.Child(entry, 0)
	if err != nil {
		return nil, err
	}
	key, ok := entry.Out.(string)
	if !ok {
		return nil, fmt.Errorf("exgraph: core/access node missing its string key")
	}
	m, ok := obj.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("exgraph: core/access on non-object value %T", obj)
	}
	v, present := m[key]
	if !present {
		return nil, fmt.Errorf("exgraph: core/access: key %q not found", key)
	}
	return v, nil
}
