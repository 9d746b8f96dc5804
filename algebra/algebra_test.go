package algebra

import (
	"testing"

	"github.com/exgraph/exgraph/builtins/num"
	"github.com/exgraph/exgraph/elaborate"
	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

func buildProgram(t *testing.T) *graph.NExpr {
	t.Helper()
	reg, err := registry.Compose(num.Plugin())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	prog := graph.MakeCExpr("num/mul", graph.MakeCExpr("num/add", 3, 4), 5)
	nexpr, err := elaborate.Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	return nexpr
}

func TestPredicates(t *testing.T) {
	nexpr := buildProgram(t)

	adds := SelectWhere(nexpr, ByKind("num/add"))
	if len(adds) != 1 {
		t.Fatalf("ByKind(num/add) matched %d nodes, want 1", len(adds))
	}

	literals := SelectWhere(nexpr, And(ByKindGlob("num/*"), IsLeaf()))
	if len(literals) != 3 {
		t.Fatalf("leaf num/* nodes = %d, want 3 (3, 4, 5)", len(literals))
	}

	two := SelectWhere(nexpr, HasChildCount(2))
	if len(two) != 2 {
		t.Fatalf("2-child nodes = %d, want 2 (add and mul)", len(two))
	}

	none := SelectWhere(nexpr, Not(ByKindGlob("num/*")))
	if len(none) != 0 {
		t.Fatalf("expected no non-num/* nodes, got %d", len(none))
	}
}

// invariant 6 (spec §8): gc(expr) preserves the evaluation result — it only
// ever drops unreachable garbage, never anything the root depends on.
func TestGC_PreservesEvaluationResult(t *testing.T) {
	nexpr := buildProgram(t)
	interp := registry.BuildInterpreter(num.Plugin())

	before, err := fold.Fold(nexpr, interp)
	if err != nil {
		t.Fatalf("Fold (before gc): %v", err)
	}

	collected := GC(nexpr)
	after, err := fold.Fold(collected, registry.BuildInterpreter(num.Plugin()))
	if err != nil {
		t.Fatalf("Fold (after gc): %v", err)
	}
	if before != after {
		t.Fatalf("gc changed the evaluation result: %v -> %v", before, after)
	}
}

func TestGC_DropsUnreachableGarbage(t *testing.T) {
	nexpr := buildProgram(t)
	garbage := nexpr.Clone()
	garbage.Adj["zzz"] = graph.NodeEntry{Kind: "num/literal", HasOut: true, Out: 999.0}

	collected := GC(garbage)
	if _, ok := collected.Entry("zzz"); ok {
		t.Fatalf("gc should have dropped the unreachable node")
	}
	if len(collected.Adj) != len(nexpr.Adj) {
		t.Fatalf("gc left %d nodes, want %d (garbage dropped, everything else kept)", len(collected.Adj), len(nexpr.Adj))
	}
}

func TestGCPreservingAliases_KeepsAliasEvenWhenUnreachable(t *testing.T) {
	nexpr := buildProgram(t)
	addID := nexpr.Root().Children.FlatIDs()[0]
	aliased := nexpr.Clone()
	aliased.Adj["@x"] = graph.NodeEntry{Children: graph.Seq(graph.Leaf(addID))}

	// Replace the root so the original add subtree is no longer reachable
	// from it, leaving only the alias pointing at it.
	detached := aliased.Clone()
	detached.Adj[detached.RootID] = graph.NodeEntry{Kind: "num/literal", HasOut: true, Out: 0.0}

	collected := GCPreservingAliases(detached)
	if _, ok := collected.Entry("@x"); !ok {
		t.Fatalf("GCPreservingAliases should keep the @x alias entry")
	}
	if _, ok := collected.Entry(addID); !ok {
		t.Fatalf("GCPreservingAliases should keep the aliased node reachable through @x")
	}

	plain := GC(detached)
	if _, ok := plain.Entry("@x"); ok {
		t.Fatalf("plain GC should drop an unreachable alias")
	}
}

// invariant 8 (spec §8): commit(dirty(expr)) is the identity on expr.
func TestCommitDirty_Identity(t *testing.T) {
	nexpr := buildProgram(t)
	committed, err := Commit(Dirty(nexpr))
	if err != nil {
		t.Fatalf("Commit(Dirty(expr)): %v", err)
	}
	if committed.RootID != nexpr.RootID {
		t.Fatalf("RootID = %q, want %q", committed.RootID, nexpr.RootID)
	}
	if len(committed.Adj) != len(nexpr.Adj) {
		t.Fatalf("Adj size = %d, want %d", len(committed.Adj), len(nexpr.Adj))
	}
}

func TestCommit_RejectsDanglingChildReference(t *testing.T) {
	nexpr := buildProgram(t)
	broken := nexpr.Clone()
	broken.Adj[broken.RootID] = graph.NodeEntry{
		Kind:     "num/mul",
		Children: graph.Seq(graph.Leaf("does-not-exist")),
	}
	if _, err := Commit(Dirty(broken)); err == nil {
		t.Fatalf("expected Commit to reject a dangling child reference")
	}
}

func TestCommit_RejectsMissingRoot(t *testing.T) {
	nexpr := buildProgram(t)
	broken := nexpr.Clone()
	broken.RootID = "does-not-exist"
	if _, err := Commit(Dirty(broken)); err == nil {
		t.Fatalf("expected Commit to reject a missing root id")
	}
}

// invariant 9 (spec §8): injectInput(prog, d) leaves every non-core/input
// entry untouched and only rewrites core/input nodes' Out.
func TestInjectInput_OnlyTouchesInputNodes(t *testing.T) {
	nexpr := buildProgram(t)
	withInput := nexpr.Clone()
	withInput.Adj["zzz"] = graph.NodeEntry{Kind: CoreInputKind}
	// Make it reachable so the scenario is realistic, though InjectInput
	// itself does not care about reachability.
	root := withInput.Root()
	ids := append(append([]string(nil), root.Children.FlatIDs()...), "zzz")
	refs := make([]graph.ChildRef, len(ids))
	for i, id := range ids {
		refs[i] = graph.Leaf(id)
	}
	withInput.Adj[withInput.RootID] = graph.NodeEntry{Kind: root.Kind, Children: graph.Seq(refs...)}

	injected := InjectInput(withInput, 42.0)

	entry, _ := injected.Entry("zzz")
	if !entry.HasOut || entry.Out != 42.0 {
		t.Fatalf("core/input node not updated: %+v", entry)
	}

	for id, before := range withInput.Adj {
		if id == "zzz" {
			continue
		}
		after, _ := injected.Entry(id)
		if after.Kind != before.Kind || after.HasOut != before.HasOut || after.Out != before.Out {
			t.Fatalf("non-core/input node %q was modified: before %+v, after %+v", id, before, after)
		}
	}
}
