package algebra

import (
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
	"github.com/exgraph/exgraph/xerr"
)

// SpliceWhere removes every node matching pred and reconnects parents to
// the matched node's children[childIndex] (spec §4.6). If the root
// matches, the chosen child becomes the new root. A chain of matched nodes
// (a matched node's chosen child is itself matched) is resolved
// transitively.
//
// Spec §9 flags splice's output-type conformance as an open design choice:
// the source only flags a compile-time branded error while still
// performing the splice at runtime. This implementation takes the other
// branch explicitly: it refuses at runtime (returns InvalidChildIndex)
// when the replacement's declared output type does not conform to the
// matched node's declared output type, rather than silently producing a
// graph whose evaluation semantics have changed underneath the caller.
func SpliceWhere(reg *registry.Registry, expr *graph.NExpr, pred Predicate, childIndex int) (*graph.DirtyExpr, error) {
	matched := SelectWhere(expr, pred)
	resolved := map[string]string{}

	var resolve func(id string, visited map[string]bool) (string, error)
	resolve = func(id string, visited map[string]bool) (string, error) {
		if r, ok := resolved[id]; ok {
			return r, nil
		}
		if visited[id] {
			return "", &xerr.CycleInSplice{ID: id}
		}
		visited[id] = true

		entry := expr.Adj[id]
		ids := entry.Children.FlatIDs()
		if childIndex < 0 || childIndex >= len(ids) {
			return "", &xerr.InvalidChildIndex{Kind: entry.Kind, Index: childIndex, Reason: "index out of range for this node's children"}
		}
		target := ids[childIndex]

		if !conforms(reg, entry.Kind, expr.Adj[target].Kind) {
			return "", &xerr.InvalidChildIndex{Kind: entry.Kind, Index: childIndex, Reason: "replacement output type does not conform to the matched node's declared output type"}
		}

		if matched[target] {
			r, err := resolve(target, visited)
			if err != nil {
				return "", err
			}
			resolved[id] = r
			return r, nil
		}
		resolved[id] = target
		return target, nil
	}

	for id := range matched {
		if _, err := resolve(id, map[string]bool{}); err != nil {
			return nil, err
		}
	}

	remap := func(id string) string {
		if r, ok := resolved[id]; ok {
			return r
		}
		return id
	}

	adj := make(map[string]graph.NodeEntry, len(expr.Adj))
	for id, entry := range expr.Adj {
		if matched[id] {
			continue
		}
		entry.Children = entry.Children.MapIDs(remap)
		adj[id] = entry
	}

	root := remap(expr.RootID)
	return &graph.DirtyExpr{RootID: root, Adj: adj, Counter: expr.Counter}, nil
}

// conforms reports whether a node of kind got may stand in for a node of
// kind want under splice's output-type check. Unregistered or permissive
// ("object"/"unknown") output tags are treated as conforming, matching the
// elaborator's own permissiveness toward those tags.
func conforms(reg *registry.Registry, want, got string) bool {
	w, wok := reg.KindOutputs[want]
	g, gok := reg.KindOutputs[got]
	if !wok || !gok {
		return true
	}
	if w == "object" || w == "unknown" || g == "object" || g == "unknown" {
		return true
	}
	return w == g
}
