package algebra

import (
	"strings"

	"github.com/exgraph/exgraph/graph"
)

// GC removes every node not forward-reachable from the root via Children
// (spec §4.6). Evaluation result is preserved: nothing reachable is ever
// touched, only unreachable garbage is dropped.
func GC(expr *graph.NExpr) *graph.NExpr {
	return gc(expr, false)
}

// GCPreservingAliases behaves like GC but additionally keeps every entry
// whose key begins with "@", even if unreachable from the root, so named
// aliases survive a collection pass the way the distilled spec calls for.
func GCPreservingAliases(expr *graph.NExpr) *graph.NExpr {
	return gc(expr, true)
}

func gc(expr *graph.NExpr, preserveAliases bool) *graph.NExpr {
	reachable := reachableFrom(expr, expr.RootID)
	if preserveAliases {
		for id, entry := range expr.Adj {
			if strings.HasPrefix(id, "@") {
				reachable[id] = true
				for _, child := range entry.Children.FlatIDs() {
					markReachable(expr, child, reachable)
				}
			}
		}
	}

	adj := make(map[string]graph.NodeEntry, len(reachable))
	for id := range reachable {
		adj[id] = expr.Adj[id]
	}
	return graph.MakeNExpr(expr.RootID, adj, expr.Counter)
}

// reachableFrom performs a forward DFS over Children from start, returning
// the visited-set. This is gc's own reachability computation; the wired
// open-component-model dag library is used elsewhere in this package
// (xhash's canonical ordering, and DetectCycle in dag.go) where an actual
// general-purpose DAG data structure — rather than a single-pass
// visited-set walk — is the natural fit.
func reachableFrom(expr *graph.NExpr, start string) map[string]bool {
	visited := map[string]bool{}
	markReachable(expr, start, visited)
	return visited
}

func markReachable(expr *graph.NExpr, id string, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true
	entry, ok := expr.Adj[id]
	if !ok {
		return
	}
	for _, child := range entry.Children.FlatIDs() {
		markReachable(expr, child, visited)
	}
}
