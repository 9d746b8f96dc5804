// Package fold implements the cooperative, cache-memoized, DAG-aware tree
// walker that evaluates an NExpr against an Interpreter. It is the Go
// analogue of cel-go's interpreter package (interpreter.go, astwalker.go,
// evalstate.go), reshaped around exgraph's yield-based handler contract
// instead of cel-go's direct-recursive Interpretable tree.
package fold

import "github.com/exgraph/exgraph/graph"

// Handler is the coroutine contract for one node kind (spec §4.5). Design
// Notes §9 observes that exgraph's coroutines are single-shot — every yield
// receives exactly one reply — so a callback-passing style suffices; no
// goroutines or channels are needed. A Handler is simply a function that
// uses the FoldContext to request child values or external effects and
// returns this node's final value.
type Handler func(ctx *FoldContext, entry graph.NodeEntry) (any, error)

// Interpreter maps node-kind strings to their handlers (spec §3).
type Interpreter map[string]Handler

// Merge returns a new Interpreter containing every entry of i, overridden
// by every entry of other (later wins), mirroring the plugin "later wins"
// rule used elsewhere in exgraph.
func (i Interpreter) Merge(other Interpreter) Interpreter {
	out := make(Interpreter, len(i)+len(other))
	for k, v := range i {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
