package num

import (
	"testing"

	"github.com/exgraph/exgraph/elaborate"
	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

func run(t *testing.T, prog *graph.CExpr) any {
	t.Helper()
	reg, err := registry.Compose(Plugin())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	nexpr, err := elaborate.Elaborate(reg, prog)
	if err != nil {
		t.Fatalf("Elaborate: %v", err)
	}
	v, err := fold.Fold(nexpr, registry.BuildInterpreter(Plugin()))
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	return v
}

func TestNum_Arithmetic(t *testing.T) {
	cases := []struct {
		name string
		prog *graph.CExpr
		want any
	}{
		{"add", graph.MakeCExpr(addKind, 2, 3), 5.0},
		{"sub", graph.MakeCExpr(subKind, 5, 3), 2.0},
		{"mul", graph.MakeCExpr(mulKind, 4, 3), 12.0},
		{"div", graph.MakeCExpr(divKind, 9, 3), 3.0},
		{"eq-true", graph.MakeCExpr(eqKind, 3, 3), true},
		{"eq-false", graph.MakeCExpr(eqKind, 3, 4), false},
		{"show", graph.MakeCExpr(showKind, 3), "3"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := run(t, c.prog); got != c.want {
				t.Errorf("%s = %v, want %v", c.name, got, c.want)
			}
		})
	}
}

func TestNum_IntAndFloatMixFreely(t *testing.T) {
	got := run(t, graph.MakeCExpr(addKind, 1, 2.5))
	if got != 3.5 {
		t.Fatalf("add(1, 2.5) = %v, want 3.5", got)
	}
}
