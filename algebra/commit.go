package algebra

import (
	"github.com/exgraph/exgraph/graph"
)

// Dirty marks expr as a pending edit (spec §4.6). Re-exported here (rather
// than only in package graph) because every algebra transformation that
// mutates structure returns a *graph.DirtyExpr, and callers typically
// import algebra, not graph, to reach for it.
func Dirty(expr *graph.NExpr) *graph.DirtyExpr {
	return graph.Dirty(expr)
}

// Commit validates a DirtyExpr's invariants (spec §3: every ID in a
// children position exists in Adj, RootID exists in Adj) and returns a
// fresh, committed NExpr. It fails rather than silently dropping dangling
// references.
func Commit(d *graph.DirtyExpr) (*graph.NExpr, error) {
	if _, ok := d.Adj[d.RootID]; !ok {
		return nil, &invariantError{reason: "root id " + d.RootID + " missing from adjacency map"}
	}
	for id, entry := range d.Adj {
		for _, child := range entry.Children.FlatIDs() {
			if _, ok := d.Adj[child]; !ok {
				return nil, &invariantError{reason: "node " + id + " references missing child " + child}
			}
		}
	}
	return graph.MakeNExpr(d.RootID, d.Adj, d.Counter), nil
}

type invariantError struct{ reason string }

func (e *invariantError) Error() string { return "exgraph: invariant violated: " + e.reason }
