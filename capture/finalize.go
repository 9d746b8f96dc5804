package capture

import "github.com/exgraph/exgraph/graph"

// Finalize implements spec §4.7's closing rule: "After the program builder
// returns, if effects is non-empty, the final result is core/begin
// [effects..., result]." beginKind is passed in rather than hardcoded so
// callers outside the default builtins (an alternate control plugin, say)
// can choose their own sequencing kind.
func Finalize(r *Recorder, beginKind string, result *graph.CExpr) *graph.CExpr {
	if len(r.effects) == 0 {
		return result
	}
	roots := FilterConsumed(r.effects)
	args := make([]any, 0, len(roots)+1)
	for _, e := range roots {
		args = append(args, e.Expr)
	}
	if !containsExpr(roots, result) {
		args = append(args, result)
	}
	return graph.MakeCExpr(beginKind, args...)
}

// WrapBlock collects a closed block's recorded nodes plus an optional
// trailing result expression, drops any node consumed as another node's
// argument (FilterConsumed), and wraps what remains in a beginKind node
// (spec §4.7: "$.each ... wraps the roots in a core/begin node"). If result
// is already present in block (the common case: the callback's return
// value is itself the last statement it recorded), it is not appended a
// second time.
func WrapBlock(beginKind string, block []Recorded, result *graph.CExpr) *graph.CExpr {
	all := block
	if result != nil && !containsExpr(block, result) {
		all = append(append([]Recorded(nil), block...), Recorded{Expr: result, CtorName: "begin"})
	}
	roots := FilterConsumed(all)
	args := make([]any, len(roots))
	for i, r := range roots {
		args[i] = r.Expr
	}
	return graph.MakeCExpr(beginKind, args...)
}

func containsExpr(nodes []Recorded, target *graph.CExpr) bool {
	for _, n := range nodes {
		if n.Expr == target {
			return true
		}
	}
	return false
}
