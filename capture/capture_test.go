package capture

import (
	"errors"
	"testing"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/xerr"
)

func TestRecorder_RecordGoesToBlockWhenOpen(t *testing.T) {
	r := New()
	close := r.PushBlock()
	r.Record("push", graph.MakeCExpr("st/push", "acc", 1))
	block := close()

	if len(block) != 1 {
		t.Fatalf("block has %d entries, want 1", len(block))
	}
	if len(r.Effects()) != 0 {
		t.Fatalf("top-level effects should stay empty while recording inside a block")
	}
}

func TestRecorder_RecordGoesToEffectsOutsideBlock(t *testing.T) {
	r := New()
	r.Record("let", graph.MakeCExpr("st/let", "acc", 0))
	if len(r.Effects()) != 1 {
		t.Fatalf("top-level effects has %d entries, want 1", len(r.Effects()))
	}
}

func TestFilterConsumed_DropsNodesUsedAsArguments(t *testing.T) {
	leaf := graph.MakeCExpr("num/literal", 1)
	wrapper := graph.MakeCExpr("num/show", leaf)
	nodes := []Recorded{
		{Expr: leaf, CtorName: "literal"},
		{Expr: wrapper, CtorName: "show"},
	}
	roots := FilterConsumed(nodes)
	if len(roots) != 1 || roots[0].Expr != wrapper {
		t.Fatalf("FilterConsumed should keep only the wrapper, got %+v", roots)
	}
}

// Regression test for the double-counting bug: when result is already the
// last entry recorded in block (the common each/while shape), WrapBlock
// must not append it a second time.
func TestWrapBlock_DoesNotDuplicateResultAlreadyInBlock(t *testing.T) {
	push := graph.MakeCExpr("st/push", "acc", 1)
	block := []Recorded{{Expr: push, CtorName: "push"}}

	wrapped := WrapBlock("core/begin", block, push)
	if len(wrapped.Args) != 1 {
		t.Fatalf("wrapped begin has %d args, want 1 (push must appear exactly once)", len(wrapped.Args))
	}
}

func TestWrapBlock_AppendsResultNotInBlock(t *testing.T) {
	first := graph.MakeCExpr("st/set", "x", 1)
	result := graph.MakeCExpr("st/get", "x")
	block := []Recorded{{Expr: first, CtorName: "set"}}

	wrapped := WrapBlock("core/begin", block, result)
	if len(wrapped.Args) != 2 {
		t.Fatalf("wrapped begin has %d args, want 2 (set, then get)", len(wrapped.Args))
	}
	if wrapped.Args[1] != any(result) {
		t.Fatalf("wrapped begin's last arg should be the supplied result")
	}
}

func TestFinalize_WrapsEffectsWhenNonEmpty(t *testing.T) {
	r := New()
	r.Record("fail", graph.MakeCExpr("err/fail", "boom"))
	result := graph.MakeCExpr("num/literal", 1)

	final := Finalize(r, "core/begin", result)
	if final.Kind != "core/begin" {
		t.Fatalf("Finalize should wrap in core/begin when effects exist, got kind %q", final.Kind)
	}
	if len(final.Args) != 2 {
		t.Fatalf("final has %d args, want 2", len(final.Args))
	}
}

func TestFinalize_ReturnsResultDirectlyWhenNoEffects(t *testing.T) {
	r := New()
	result := graph.MakeCExpr("num/literal", 1)
	final := Finalize(r, "core/begin", result)
	if final != result {
		t.Fatalf("Finalize with no effects should return result unwrapped")
	}
}

func TestCheckReachable_FlagsNonExemptOrphan(t *testing.T) {
	r := New()
	orphan := graph.MakeCExpr("err/fail", "boom")
	r.Record("fail", orphan)

	final := graph.MakeCExpr("num/literal", 1) // orphan never wired in

	err := CheckReachable(r, final)
	if err == nil {
		t.Fatalf("expected UnreachableOrphan for a recorded effect absent from the final tree")
	}
	var unreachable *xerr.UnreachableOrphan
	if !errors.As(err, &unreachable) {
		t.Fatalf("expected *xerr.UnreachableOrphan, got %T: %v", err, err)
	}
}

func TestCheckReachable_PassesWhenEffectReachable(t *testing.T) {
	r := New()
	orphan := graph.MakeCExpr("err/fail", "boom")
	r.Record("fail", orphan)
	final := graph.MakeCExpr("core/begin", orphan, graph.MakeCExpr("num/literal", 1))

	if err := CheckReachable(r, final); err != nil {
		t.Fatalf("CheckReachable: %v", err)
	}
}
