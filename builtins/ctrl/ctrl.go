// Package ctrl is the built-in sequencing plugin (spec §6 builtins,
// §4.7's closing rule): core/begin evaluates an ordered sequence of
// statements and yields the last one's value. Each/While are
// construction-time sugar built on capture.Recorder that unroll a host-side
// loop into a sequence of recorded CExpr statements wrapped in core/begin,
// and Par wraps its arguments in core/begin directly —
// the graph itself has no loop node, since spec §4 models a DAG of values,
// not a control-flow graph. Grounded on cel-go's comprehension desugaring
// (checker/standard library's comprehensions get rewritten to an explicit
// fold/build/result macro expansion before planning), generalized here to
// happen at Go-construction time instead of inside a macro expander.
package ctrl

import (
	"github.com/exgraph/exgraph/capture"
	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

// BeginKind is the sequential-evaluation kind: core/begin [s1, s2, ..., sN]
// evaluates every child in order and yields sN's value. Finalize and
// WrapBlock in package capture take a beginKind argument so callers can
// plug in an alternate sequencing kind; the builtins use this one.
const BeginKind = "core/begin"

// Plugin returns the composable registry.Plugin contribution for
// sequencing.
func Plugin() registry.Plugin {
	return registry.Plugin{
		Name: "ctrl",
		Ctors: map[string]registry.Ctor{
			"begin": func(args ...any) *graph.CExpr { return graph.MakeCExpr(BeginKind, args...) },
		},
		Kinds: map[string]registry.KindSpec{
			BeginKind: {Output: "unknown"},
		},
		DefaultInterpreter: func() fold.Interpreter {
			return fold.Interpreter{
				BeginKind: begin,
			}
		},
	}
}

func begin(ctx *fold.FoldContext, entry graph.NodeEntry) (any, error) {
	ids := entry.Children.FlatIDs()
	var last any
	for _, id := range ids {
		v, err := ctx.Node(id)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// Each unrolls a host-side loop over items at construction time (spec §4.7):
// body is called once per item inside its own recording block, and the
// resulting statements are wrapped in a BeginKind node once the block
// closes (capture.WrapBlock), with any node consumed as another's argument
// dropped rather than double-counted as a top-level statement.
func Each[T any](r *capture.Recorder, items []T, body func(item T) *graph.CExpr) *graph.CExpr {
	close := r.PushBlock()
	var last *graph.CExpr
	for _, item := range items {
		last = body(item)
	}
	block := close()
	wrapped := capture.WrapBlock(BeginKind, block, last)
	r.Record("each", wrapped)
	return wrapped
}

// While unrolls a host-side loop at construction time for as long as cond
// reports true, recording one block iteration per pass the same way Each
// does. cond is re-evaluated against host state body's caller closes over,
// not against any graph value — the condition itself never appears in the
// resulting expression tree, matching a host "while" macro rather than a
// graph-level conditional.
func While(r *capture.Recorder, cond func() bool, body func() *graph.CExpr) *graph.CExpr {
	close := r.PushBlock()
	var last *graph.CExpr
	for cond() {
		last = body()
	}
	block := close()
	wrapped := capture.WrapBlock(BeginKind, block, last)
	r.Record("while", wrapped)
	return wrapped
}

// Par sequences exprs under a BeginKind node. The fold engine in this
// module is single-threaded cooperative evaluation (Design Notes §9), so
// there is no concurrent evaluation to offer; Par exists as an honest
// sequential stand-in for a host language's parallel-block sugar rather
// than silently dropping the construct.
func Par(args ...any) *graph.CExpr {
	return graph.MakeCExpr(BeginKind, args...)
}
