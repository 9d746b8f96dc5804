package algebra

import "github.com/exgraph/exgraph/graph"

// Name adds a "@aliasName" metadata entry referencing targetId (spec
// §4.6): kind "@alias", single child [targetId], with the target's Out
// copied. It does not consume a counter slot — aliases are metadata, not
// new evaluable nodes.
func Name(expr *graph.NExpr, aliasName, targetID string) *graph.NExpr {
	out := expr.Clone()
	target := out.Adj[targetID]
	out.Adj["@"+aliasName] = graph.NodeEntry{
		Kind:     "@alias",
		Children: graph.Seq(graph.Leaf(targetID)),
		Out:      target.Out,
		HasOut:   target.HasOut,
	}
	return out
}
