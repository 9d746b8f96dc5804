package elaborate

import (
	"errors"
	"testing"

	"github.com/exgraph/exgraph/builtins/num"
	"github.com/exgraph/exgraph/builtins/state"
	"github.com/exgraph/exgraph/builtins/str"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
	"github.com/exgraph/exgraph/xerr"
)

func mustRegistry(t *testing.T, plugins ...registry.Plugin) *registry.Registry {
	t.Helper()
	reg, err := registry.Compose(plugins...)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	return reg
}

// invariant 3 (spec §8): elaborating the same CExpr tree twice yields the
// same adjacency map, since IDs are minted in deterministic DFS order.
func TestElaborate_DeterministicAcrossRuns(t *testing.T) {
	reg := mustRegistry(t, num.Plugin())
	prog := graph.MakeCExpr("num/add", graph.MakeCExpr("num/mul", 2, 3), 4)

	first, err := Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate (first): %v", err)
	}
	second, err := Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate (second): %v", err)
	}

	if first.RootID != second.RootID {
		t.Fatalf("RootID differs across runs: %q vs %q", first.RootID, second.RootID)
	}
	if len(first.Adj) != len(second.Adj) {
		t.Fatalf("Adj size differs across runs: %d vs %d", len(first.Adj), len(second.Adj))
	}
	for id, entry := range first.Adj {
		other, ok := second.Entry(id)
		if !ok || other.Kind != entry.Kind {
			t.Fatalf("node %q differs across runs: %+v vs %+v", id, entry, other)
		}
	}
}

// invariant 4 (spec §8): a CExpr referenced twice by pointer identity
// elaborates to exactly one shared node ID, not two duplicate subtrees.
func TestElaborate_SharedSubtreeMemoizedByPointerIdentity(t *testing.T) {
	reg := mustRegistry(t, num.Plugin())
	shared := graph.MakeCExpr("num/add", 1, 2)
	prog := graph.MakeCExpr("num/mul", shared, shared)

	nexpr, err := Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	ids := nexpr.Root().Children.FlatIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 child ids, got %d", len(ids))
	}
	if ids[0] != ids[1] {
		t.Fatalf("shared CExpr elaborated to distinct ids %q and %q", ids[0], ids[1])
	}
	// Two literal-1/literal-2 leaves plus one add plus one mul: 4 total nodes,
	// not 7 (which a naive non-memoized elaborator would produce).
	if len(nexpr.Adj) != 4 {
		t.Fatalf("expected 4 total nodes (shared subtree is not duplicated), got %d", len(nexpr.Adj))
	}
}

func TestElaborate_CannotLiftUnregisteredHostType(t *testing.T) {
	reg := mustRegistry(t, num.Plugin())
	prog := graph.MakeCExpr("num/add", "not a number", 1)
	_, err := Elaborate(reg, prog)
	if err == nil {
		t.Fatalf("expected an error: no string lift rule registered without str.Plugin()")
	}
	var cannotLift *xerr.CannotLift
	if !errors.As(err, &cannotLift) {
		t.Fatalf("expected *xerr.CannotLift, got %T: %v", err, err)
	}
}

// spec §9 open question: trait dispatch with no concrete arg type and more
// than one mapping candidate fails deterministically rather than picking
// arbitrarily.
func TestElaborate_AmbiguousDispatchOnUnresolvedTraitArgs(t *testing.T) {
	reg := mustRegistry(t, num.Plugin(), str.Plugin(), state.Plugin())
	// st/get's declared Output is "unknown" (spec §4.4 step 5's output-type
	// table), so both sides of eq(...) arrive at trait dispatch with no
	// concrete type to settle the pair on.
	prog := graph.MakeCExpr("eq", state.Get("x"), state.Get("y"))
	_, err := Elaborate(reg, prog)
	if err == nil {
		t.Fatalf("expected AmbiguousDispatch when both eq args are unresolved object/unknown")
	}
	var ambiguous *xerr.AmbiguousDispatch
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected *xerr.AmbiguousDispatch, got %T: %v", err, err)
	}
}
