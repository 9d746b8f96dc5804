// Package errctl is the built-in error-control plugin (spec §6 builtins):
// err/fail raises a UserError, err/guard raises one conditionally, and
// err/try_catch runs a body and falls through to a handler bound to the
// caught error when the body raises a UserError. There is no explicit error
// stack data structure: Go's own call stack already unwinds LIFO through
// nested fold.FoldContext.Node calls, so "catch" is implemented as an
// ordinary Go error check around a recursive evaluation, the same pattern
// cel-go's interpreter uses to propagate *common.Error up through nested
// Eval calls rather than threading an explicit error-stack value.
package errctl

import (
	"errors"
	"fmt"

	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
	"github.com/exgraph/exgraph/xerr"
)

const (
	failKind     = "err/fail"
	guardKind    = "err/guard"
	tryCatchKind = "err/try_catch"
)

// Plugin returns the composable registry.Plugin contribution for error
// control flow.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Name: "errctl",
		Ctors: map[string]registry.Ctor{
			"fail":      func(args ...any) *graph.CExpr { return graph.MakeCExpr(failKind, args...) },
			"guard":     func(args ...any) *graph.CExpr { return graph.MakeCExpr(guardKind, args...) },
			"try_catch": func(args ...any) *graph.CExpr { return graph.MakeCExpr(tryCatchKind, args...) },
		},
		Kinds: map[string]registry.KindSpec{
			failKind:     {Inputs: []string{"string"}, Output: "unknown"},
			guardKind:    {Inputs: []string{"boolean", "string"}, Output: "boolean"},
			tryCatchKind: {Output: "unknown"},
		},
		DefaultInterpreter: func() fold.Interpreter {
			return fold.Interpreter{
				failKind:     fail,
				guardKind:    guard,
				tryCatchKind: tryCatch,
			}
		},
	}
}

// Fail builds err/fail(message): unconditionally raises xerr.UserError when
// evaluated.
func Fail(message any) *graph.CExpr {
	return graph.MakeCExpr(failKind, message)
}

// Guard builds err/guard(cond, message): raises xerr.UserError(message) if
// cond evaluates falsy, otherwise returns cond's value.
func Guard(cond any, message any) *graph.CExpr {
	return graph.MakeCExpr(guardKind, cond, message)
}

// TryCatch builds err/try_catch(body, handler): evaluates body, and on a
// UserError falls through to handler with the error's message bound to the
// lexical name "error" (spec §4.5 recurse_scoped).
func TryCatch(body, handler *graph.CExpr) *graph.CExpr {
	return graph.MakeCExpr(tryCatchKind, body, handler)
}

func fail(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	msg, err := messageOf(ctx, entry, 0)
	if err != nil {
		return nil, err
	}
	return nil, &xerr.UserError{Message: msg}
}

func guard(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	cond, err := ctx.Child(entry, 0)
	if err != nil {
		return nil, err
	}
	ok, isBool := cond.(bool)
	if !isBool {
		return nil, fmt.Errorf("exgraph: err/guard expected a boolean condition, got %T", cond)
	}
	if !ok {
		msg, err := messageOf(ctx, entry, 1)
		if err != nil {
			return nil, err
		}
		return nil, &xerr.UserError{Message: msg}
	}
	return cond, nil
}

func tryCatch(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	ids := entry.Children.FlatIDs()
	if len(ids) != 2 {
		return nil, fmt.Errorf("exgraph: err/try_catch expects 2 children, got %d", len(ids))
	}
	v, err := ctx.Node(ids[0])
	if err == nil {
		return v, nil
	}
	var userErr *xerr.UserError
	if !errors.As(err, &userErr) {
		return nil, err
	}
	return ctx.RecurseScoped(ids[1], map[string]any{"error": userErr.Message})
}

func messageOf(ctx *fold.FoldContext, entry graph.NodeEntry, idx int) (string, error) {
	v, err := ctx.Child(entry, idx)
	if err != nil {
		return "", err
	}
	msg, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("exgraph: error message must be a string, got %T", v)
	}
	return msg, nil
}
