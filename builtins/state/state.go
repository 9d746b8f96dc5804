// Package state is the built-in mutable-cell plugin (spec §6 builtins,
// Design Notes §9's imperative sugar): st/let declares a named cell, st/get
// reads it, st/set overwrites it, st/push appends to it as an accumulator.
// Each cell's value lives in a map closed over by one DefaultInterpreter
// call (spec §5: "fresh state must be captured per call"), so concurrent
// folds of the same NExpr never share cell storage.
//
// Names are lifted like any other string argument (spec §4.4 step 1), so a
// raw Go string passed to Let/Get/Set/Push becomes an ordinary str/literal
// leaf rather than a special case in the elaborator.
//
// Grounded on cel-go's Activation (interpreter/activation.go), the mutable
// name->value binding environment a program evaluates against — generalized
// here from a read-only binding chain to a rebindable cell store, since the
// spec calls for imperative-style sugar cel's read-only CEL dialect has no
// analogue for.
package state

import (
	"fmt"

	"github.com/exgraph/exgraph/capture"
	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

const (
	letKind  = "st/let"
	getKind  = "st/get"
	setKind  = "st/set"
	pushKind = "st/push"
)

// Plugin returns the composable registry.Plugin contribution for cells.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Name: "state",
		Ctors: map[string]registry.Ctor{
			"let":  func(args ...any) *graph.CExpr { return graph.MakeCExpr(letKind, args...) },
			"get":  func(args ...any) *graph.CExpr { return graph.MakeCExpr(getKind, args...) },
			"set":  func(args ...any) *graph.CExpr { return graph.MakeCExpr(setKind, args...) },
			"push": func(args ...any) *graph.CExpr { return graph.MakeCExpr(pushKind, args...) },
		},
		Kinds: map[string]registry.KindSpec{
			letKind:  {Inputs: []string{"string"}, Output: "unknown"},
			getKind:  {Inputs: []string{"string"}, Output: "unknown"},
			setKind:  {Inputs: []string{"string"}, Output: "unknown"},
			pushKind: {Inputs: []string{"string"}, Output: "unknown"},
		},
		DefaultInterpreter: func() fold.Interpreter {
			cells := map[string]any{}
			return fold.Interpreter{
				letKind:  letHandler(cells),
				getKind:  getHandler(cells),
				setKind:  setHandler(cells),
				pushKind: pushHandler(cells),
			}
		},
	}
}

// Let builds st/let(name, initial). It is a statement: callers using
// capture.Recorder should route it through capture so an unreachable let
// is caught as capture.CheckReachable's UnreachableOrphan rather than
// silently discarded by gc.
func Let(r *capture.Recorder, name string, initial any) *graph.CExpr {
	e := graph.MakeCExpr(letKind, name, initial)
	if r != nil {
		r.Record("let", e)
	}
	return e
}

// Get builds st/get(name), reading the current value of a cell declared by
// an earlier Let in the same program.
func Get(name string) *graph.CExpr {
	return graph.MakeCExpr(getKind, name)
}

// Set builds st/set(name, value), recorded as an effect for reachability
// checking the same way Let is.
func Set(r *capture.Recorder, name string, value any) *graph.CExpr {
	e := graph.MakeCExpr(setKind, name, value)
	if r != nil {
		r.Record("set", e)
	}
	return e
}

// Push builds st/push(name, value), appending value to the slice held in
// the named cell (creating it if absent), recorded the same way.
func Push(r *capture.Recorder, name string, value any) *graph.CExpr {
	e := graph.MakeCExpr(pushKind, name, value)
	if r != nil {
		r.Record("push", e)
	}
	return e
}

func cellName(ctx *fold.FoldContext, entry graph.NodeEntry) (string, error) {
	v, err := ctx.Child(entry, 0)
	if err != nil {
		return "", err
	}
	name, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("exgraph: state builtin expected a string cell name, got %T", v)
	}
	return name, nil
}

func letHandler(cells map[string]any) fold.Handler {
	return func(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
		name, err := cellName(ctx, entry)
		if err != nil {
			return nil, err
		}
		v, err := ctx.Child(entry, 1)
		if err != nil {
			return nil, err
		}
		cells[name] = v
		return v, nil
	}
}

func getHandler(cells map[string]any) fold.Handler {
	return func(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
		name, err := cellName(ctx, entry)
		if err != nil {
			return nil, err
		}
		v, ok := cells[name]
		if !ok {
			return nil, fmt.Errorf("exgraph: st/get read cell %q before it was declared with st/let", name)
		}
		return v, nil
	}
}

func setHandler(cells map[string]any) fold.Handler {
	return func(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
		name, err := cellName(ctx, entry)
		if err != nil {
			return nil, err
		}
		v, err := ctx.Child(entry, 1)
		if err != nil {
			return nil, err
		}
		cells[name] = v
		return v, nil
	}
}

func pushHandler(cells map[string]any) fold.Handler {
	return func(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
		name, err := cellName(ctx, entry)
		if err != nil {
			return nil, err
		}
		v, err := ctx.Child(entry, 1)
		if err != nil {
			return nil, err
		}
		seq, _ := cells[name].([]any)
		seq = append(seq, v)
		cells[name] = seq
		return seq, nil
	}
}
