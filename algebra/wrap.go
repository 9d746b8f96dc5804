package algebra

import "github.com/exgraph/exgraph/graph"

// WrapByName inserts a fresh wrapperKind entry directly above targetID
// (spec §4.6): every other entry's reference to targetID is remapped to
// the new wrapper ID, the wrapper's single child is targetID, and the
// wrapper inherits targetID's Out. If targetID was the root, the wrapper
// becomes the new root. Consumes exactly one counter slot.
func WrapByName(expr *graph.NExpr, targetID, wrapperKind string) *graph.DirtyExpr {
	counter := graph.NewIDCounterFrom(expr.Counter)
	wrapperID := counter.Mint()

	adj := make(map[string]graph.NodeEntry, len(expr.Adj)+1)
	replace := func(id string) string {
		if id == targetID {
			return wrapperID
		}
		return id
	}
	for id, entry := range expr.Adj {
		entry.Children = entry.Children.MapIDs(replace)
		adj[id] = entry
	}

	target := expr.Adj[targetID]
	adj[wrapperID] = graph.NodeEntry{
		Kind:     wrapperKind,
		Children: graph.Seq(graph.Leaf(targetID)),
		Out:      target.Out,
		HasOut:   target.HasOut,
	}

	root := expr.RootID
	if root == targetID {
		root = wrapperID
	}

	return &graph.DirtyExpr{RootID: root, Adj: adj, Counter: counter.Counter()}
}
