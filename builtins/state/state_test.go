package state

import (
	"testing"

	"github.com/exgraph/exgraph/builtins/ctrl"
	"github.com/exgraph/exgraph/builtins/num"
	"github.com/exgraph/exgraph/builtins/str"
	"github.com/exgraph/exgraph/capture"
	"github.com/exgraph/exgraph/elaborate"
	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

func run(t *testing.T, prog *graph.CExpr) any {
	t.Helper()
	plugins := []registry.Plugin{Plugin(), ctrl.Plugin(), num.Plugin(), str.Plugin()}
	reg, err := registry.Compose(plugins...)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	nexpr, err := elaborate.Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	v, err := fold.Fold(nexpr, registry.BuildInterpreter(plugins...))
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	return v
}

func TestState_LetGetRoundTrip(t *testing.T) {
	r := capture.New()
	letExpr := Let(r, "x", 1)
	got := run(t, graph.MakeCExpr(ctrl.BeginKind, letExpr, Get("x")))
	if got != 1.0 && got != 1 {
		t.Fatalf("get(x) after let(x,1) = %v, want 1", got)
	}
}

func TestState_SetOverwrites(t *testing.T) {
	r := capture.New()
	letExpr := Let(r, "x", 1)
	setExpr := Set(r, "x", 2)
	got := run(t, graph.MakeCExpr(ctrl.BeginKind, letExpr, setExpr, Get("x")))
	if got != 2.0 && got != 2 {
		t.Fatalf("get(x) after set(x,2) = %v, want 2", got)
	}
}

func TestState_PushAccumulates(t *testing.T) {
	r := capture.New()
	letExpr := Let(r, "xs", 0)
	push1 := Push(r, "xs", "a")
	push2 := Push(r, "xs", "b")
	got := run(t, graph.MakeCExpr(ctrl.BeginKind, letExpr, push1, push2))
	seq, ok := got.([]any)
	if !ok || len(seq) != 2 || seq[0] != "a" || seq[1] != "b" {
		t.Fatalf("push(xs,a); push(xs,b) = %v, want [a b]", got)
	}
}

func TestState_GetBeforeLetFails(t *testing.T) {
	reg, err := registry.Compose(Plugin(), str.Plugin())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	nexpr, err := elaborate.Elaborate(reg, Get("never-declared"))
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	_, err = fold.Fold(nexpr, registry.BuildInterpreter(Plugin(), str.Plugin()))
	if err == nil {
		t.Fatalf("expected an error reading an undeclared cell")
	}
}

func TestState_RecorderRoutesLetToTopLevelEffects(t *testing.T) {
	r := capture.New()
	Let(r, "x", 1)
	if len(r.Effects()) != 1 {
		t.Fatalf("Effects() has %d entries, want 1", len(r.Effects()))
	}
	if r.Effects()[0].CtorName != "let" {
		t.Fatalf("Effects()[0].CtorName = %q, want let", r.Effects()[0].CtorName)
	}
}
