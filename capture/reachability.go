package capture

import (
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/xerr"
)

// isExempt reports the kinds never reported as orphans even if a Recorder captured
// them and they ended up unreachable: they are internal bookkeeping kinds,
// not user-facing statements (spec §4.7).
func isExempt(kind string) bool {
	switch kind {
	case "core/input", "core/literal", "core/lambda_param":
		return true
	}
	return len(kind) >= 3 && kind[:3] == "st/"
}

// CheckReachable verifies that every top-level effect the recorder
// captured is reachable from final (the program's assembled result tree),
// failing with UnreachableOrphan named after the offending constructor
// (spec §4.7). Call this after Finalize has wrapped effects into final, as
// a safety net against a constructor whose recorded node was never wired
// into the returned tree.
func CheckReachable(r *Recorder, final *graph.CExpr) error {
	reachable := map[*graph.CExpr]bool{}
	markReachable(final, reachable)

	for _, rec := range r.effects {
		if isExempt(rec.Expr.Kind) {
			continue
		}
		if !reachable[rec.Expr] {
			return &xerr.UnreachableOrphan{Ctor: rec.CtorName, Kind: rec.Expr.Kind}
		}
	}
	return nil
}

func markReachable(v any, reachable map[*graph.CExpr]bool) {
	switch val := v.(type) {
	case *graph.CExpr:
		if reachable[val] {
			return
		}
		reachable[val] = true
		for _, arg := range val.Args {
			markReachable(arg, reachable)
		}
	case []any:
		for _, item := range val {
			markReachable(item, reachable)
		}
	case map[string]any:
		for _, item := range val {
			markReachable(item, reachable)
		}
	}
}
