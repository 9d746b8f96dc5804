package debug

import (
	"strings"
	"testing"

	"github.com/exgraph/exgraph/builtins/num"
	"github.com/exgraph/exgraph/elaborate"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

func buildExpr(t *testing.T) *graph.NExpr {
	t.Helper()
	reg, err := registry.Compose(num.Plugin())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	prog := graph.MakeCExpr("num/mul", graph.MakeCExpr("num/add", 1, 2), 3)
	nexpr, err := elaborate.Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	return nexpr
}

func TestToDebugString_IncludesEveryNodeKind(t *testing.T) {
	nexpr := buildExpr(t)
	out := ToDebugString(nexpr)
	for _, kind := range []string{"num/literal", "num/add", "num/mul"} {
		if !strings.Contains(out, kind) {
			t.Errorf("debug string missing kind %q:\n%s", kind, out)
		}
	}
}

type staticAdorner struct{ label string }

func (a staticAdorner) GetMetadata(id string, entry graph.NodeEntry) string { return a.label }

func TestToAdornedDebugString_IncludesAdornment(t *testing.T) {
	nexpr := buildExpr(t)
	out := ToAdornedDebugString(nexpr, staticAdorner{label: "#tag"})
	if !strings.Contains(out, "#tag") {
		t.Errorf("adorned debug string missing adornment:\n%s", out)
	}
}

func TestSortedIDs_IsDeterministicAndComplete(t *testing.T) {
	nexpr := buildExpr(t)
	first := SortedIDs(nexpr)
	second := SortedIDs(nexpr)
	if len(first) != len(nexpr.Adj) {
		t.Fatalf("SortedIDs returned %d ids, want %d", len(first), len(nexpr.Adj))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("SortedIDs is not deterministic: %v vs %v", first, second)
		}
	}
}

func TestToYAML_RendersRootAndNodes(t *testing.T) {
	nexpr := buildExpr(t)
	out, err := ToYAML(nexpr)
	if err != nil {
		t.Fatalf("ToYAML: %v", err)
	}
	if !strings.Contains(out, "root:") {
		t.Errorf("YAML missing root key:\n%s", out)
	}
	if !strings.Contains(out, "num/mul") {
		t.Errorf("YAML missing num/mul kind:\n%s", out)
	}
}
