// Package algebra implements pure and mutable transformations over a
// normalized NExpr: selection, mapping, replacement, wrapping, splicing,
// garbage collection, rewiring, and aliasing (spec §4.6). It plays the role
// cel-go's interpreter/prune.go and common/ast/navigable.go play together —
// a uniform, ID-indexed way to rewrite a compiled graph — generalized to
// exgraph's adjacency-map representation.
package algebra

import "github.com/exgraph/exgraph/graph"

// Predicate is a first-class test over one adjacency-map entry (spec
// §4.6). The uniform (entry, id, adj) signature lets every predicate
// inspect sibling/parent context (e.g. byName needs to scan alias entries)
// without a separate interface per predicate kind.
type Predicate func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool

// ByKind matches nodes whose Kind is exactly k.
func ByKind(k string) Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		return entry.Kind == k
	}
}

// IsLeaf matches nodes with no children at all.
func IsLeaf() Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		return entry.Children.IsEmpty() || len(entry.Children.FlatIDs()) == 0
	}
}

// HasChildCount matches nodes whose flat child count equals n.
func HasChildCount(n int) Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		return len(entry.Children.FlatIDs()) == n
	}
}

// Not negates a predicate.
func Not(p Predicate) Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		return !p(entry, id, adj)
	}
}

// And is a short-circuiting conjunction of predicates.
func And(preds ...Predicate) Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		for _, p := range preds {
			if !p(entry, id, adj) {
				return false
			}
		}
		return true
	}
}

// Or is a short-circuiting disjunction of predicates.
func Or(preds ...Predicate) Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		for _, p := range preds {
			if p(entry, id, adj) {
				return true
			}
		}
		return false
	}
}

// ByName matches the single node aliased at "@n" (spec §3 invariant 5).
func ByName(n string) Predicate {
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		alias, ok := adj["@"+n]
		if !ok || !alias.Children.IsSeq() {
			return false
		}
		items := alias.Children.Items()
		if len(items) != 1 || !items[0].IsLeaf() {
			return false
		}
		return items[0].ID() == id
	}
}
