package algebra

import "github.com/exgraph/exgraph/graph"

// SelectWhere returns the set of node IDs matching pred.
func SelectWhere(expr *graph.NExpr, pred Predicate) map[string]bool {
	out := map[string]bool{}
	for id, entry := range expr.Adj {
		if pred(entry, id, expr.Adj) {
			out[id] = true
		}
	}
	return out
}

// MapWhere replaces each matching entry with fn(entry); non-matching
// entries pass through unchanged. Root and counter are preserved unless
// the root itself matches and fn's replacement carries a different
// HasOut/Kind output-type shape, in which case the expression's effective
// output type simply follows the replacement (spec §4.6) — no special
// casing is needed here since NExpr has no separate output-type field
// beyond what Adj[RootID] already encodes.
func MapWhere(expr *graph.NExpr, pred Predicate, fn func(graph.NodeEntry) graph.NodeEntry) *graph.NExpr {
	out := expr.Clone()
	for id, entry := range expr.Adj {
		if pred(entry, id, expr.Adj) {
			out.Adj[id] = fn(entry)
		}
	}
	return out
}

// ReplaceWhere swaps only the Kind of each matching entry, preserving
// Children/Out, and returns a DirtyExpr pending Commit (spec §4.6).
func ReplaceWhere(expr *graph.NExpr, pred Predicate, newKind string) *graph.DirtyExpr {
	mapped := MapWhere(expr, pred, func(e graph.NodeEntry) graph.NodeEntry {
		e.Kind = newKind
		return e
	})
	return Dirty(mapped)
}
