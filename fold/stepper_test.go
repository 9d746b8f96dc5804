package fold

import (
	"testing"

	"github.com/exgraph/exgraph/graph"
)

// effectKind's handler delegates to the ambient effect dispatch rather than
// computing a value itself, giving RunAST/Tick something to pause on.
const effectKind = "test/effect"

func effectInterpreter() Interpreter {
	return Interpreter{
		effectKind: func(ctx *FoldContext, entry graph.NodeEntry) (any, error) {
			return ctx.Effect("double", entry.Out)
		},
	}
}

func TestRunAST_ThreadsStateAcrossEffects(t *testing.T) {
	// HasOut stays false so the literal-leaf shortcut never applies and
	// test/effect's handler always runs; Out here carries the effect's
	// payload, not a precomputed result.
	adj := map[string]graph.NodeEntry{
		"a": {Kind: effectKind, Out: 21.0, HasOut: false, Children: graph.Seq()},
	}
	expr := graph.MakeNExpr("a", adj, "b")

	handler := func(eff StepEffect, ctx StepContext, state int) (any, int, error) {
		n := eff.Payload.(float64)
		return n * 2, state + 1, nil
	}

	v, finalState, err := RunAST[int](expr, effectInterpreter(), handler, 0)
	if err != nil {
		t.Fatalf("RunAST: %v", err)
	}
	if v != 42.0 {
		t.Fatalf("RunAST value = %v, want 42.0", v)
	}
	if finalState != 1 {
		t.Fatalf("RunAST final state = %d, want 1 (handler invoked exactly once)", finalState)
	}
}

func TestFold_EffectDispatchedToWithEffectDispatch(t *testing.T) {
	adj := map[string]graph.NodeEntry{
		"a": {Kind: effectKind, Out: 10.0, HasOut: false, Children: graph.Seq()},
	}
	expr := graph.MakeNExpr("a", adj, "b")

	v, err := Fold(expr, effectInterpreter(), WithEffectDispatch(func(eff StepEffect, ctx StepContext) (any, error) {
		return eff.Payload.(float64) + 1, nil
	}))
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if v != 11.0 {
		t.Fatalf("Fold() = %v, want 11.0", v)
	}
}

func TestFold_EffectWithNoDispatchFails(t *testing.T) {
	adj := map[string]graph.NodeEntry{
		"a": {Kind: effectKind, Out: 10.0, HasOut: false, Children: graph.Seq()},
	}
	expr := graph.MakeNExpr("a", adj, "b")

	if _, err := Fold(expr, effectInterpreter()); err == nil {
		t.Fatalf("expected an error: no effect dispatch configured")
	}
}
