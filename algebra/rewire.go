package algebra

import "github.com/exgraph/exgraph/graph"

// RewireChildren replaces every occurrence of oldID in any children
// position (across every entry, including alias entries' single child
// pointer) with newID (spec §4.6). It does not alter the aliased node
// itself — only the reference to it — so an alias's Kind/Out fields are
// untouched; only its Children pointer may change, exactly like any other
// entry's.
func RewireChildren(d *graph.DirtyExpr, oldID, newID string) *graph.DirtyExpr {
	adj := make(map[string]graph.NodeEntry, len(d.Adj))
	replace := func(id string) string {
		if id == oldID {
			return newID
		}
		return id
	}
	for id, entry := range d.Adj {
		entry.Children = entry.Children.MapIDs(replace)
		adj[id] = entry
	}
	root := d.RootID
	if root == oldID {
		root = newID
	}
	return &graph.DirtyExpr{RootID: root, Adj: adj, Counter: d.Counter}
}
