package registry

import (
	"errors"
	"testing"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/xerr"
)

func ctor(kind string) Ctor {
	return func(args ...any) *graph.CExpr { return graph.MakeCExpr(kind, args...) }
}

func TestCompose_LaterPluginWinsCtorConflict(t *testing.T) {
	first := Plugin{Name: "a", Ctors: map[string]Ctor{"add": ctor("a/add")}}
	second := Plugin{Name: "b", Ctors: map[string]Ctor{"add": ctor("b/add")}}

	reg, err := Compose(first, second)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	got := reg.Ctors["add"](1, 2)
	if got.Kind != "b/add" {
		t.Fatalf("add ctor kind = %q, want b/add (later plugin should win)", got.Kind)
	}
}

func TestCompose_IdenticalKindRedeclarationAllowed(t *testing.T) {
	spec := KindSpec{Inputs: []string{"number", "number"}, Output: "number"}
	first := Plugin{Name: "a", Kinds: map[string]KindSpec{"num/add": spec}}
	second := Plugin{Name: "b", Kinds: map[string]KindSpec{"num/add": spec}}

	if _, err := Compose(first, second); err != nil {
		t.Fatalf("Compose with identical kind redeclaration should succeed, got: %v", err)
	}
}

func TestCompose_IncompatibleKindRedeclarationConflicts(t *testing.T) {
	first := Plugin{Name: "a", Kinds: map[string]KindSpec{
		"num/add": {Inputs: []string{"number", "number"}, Output: "number"},
	}}
	second := Plugin{Name: "b", Kinds: map[string]KindSpec{
		"num/add": {Inputs: []string{"string", "string"}, Output: "string"},
	}}

	_, err := Compose(first, second)
	if err == nil {
		t.Fatalf("expected a PluginConflict error")
	}
	var conflict *xerr.PluginConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *xerr.PluginConflict, got %T: %v", err, err)
	}
	if conflict.Kind != "num/add" {
		t.Fatalf("conflict.Kind = %q, want num/add", conflict.Kind)
	}
}

func TestCompose_AutoGeneratedTraitCtor(t *testing.T) {
	p := Plugin{
		Name: "eqtrait",
		Traits: map[string]Trait{
			"eq": {OutputTypeTag: "boolean", Mapping: map[string]string{"number": "num/eq"}},
		},
	}
	reg, err := Compose(p)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	c, ok := reg.Ctors["eq"]
	if !ok {
		t.Fatalf("expected an auto-generated ctor for trait %q", "eq")
	}
	got := c(1, 2)
	if got.Kind != "eq" {
		t.Fatalf("auto ctor kind = %q, want %q (deferred trait-name resolution)", got.Kind, "eq")
	}
}

func TestCompose_ExplicitCtorWinsOverAutoGeneratedTraitCtor(t *testing.T) {
	p := Plugin{
		Name:  "eqtrait",
		Ctors: map[string]Ctor{"eq": ctor("explicit/eq")},
		Traits: map[string]Trait{
			"eq": {OutputTypeTag: "boolean", Mapping: map[string]string{"number": "num/eq"}},
		},
	}
	reg, err := Compose(p)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	got := reg.Ctors["eq"](1, 2)
	if got.Kind != "explicit/eq" {
		t.Fatalf("eq ctor kind = %q, want explicit/eq (explicit ctor must win over auto-generated)", got.Kind)
	}
}

func TestCompose_TraitMappingsMergeAcrossPlugins(t *testing.T) {
	numPlugin := Plugin{Name: "num", Traits: map[string]Trait{
		"eq": {OutputTypeTag: "boolean", Mapping: map[string]string{"number": "num/eq"}},
	}}
	strPlugin := Plugin{Name: "str", Traits: map[string]Trait{
		"eq": {OutputTypeTag: "boolean", Mapping: map[string]string{"string": "str/eq"}},
	}}
	reg, err := Compose(numPlugin, strPlugin)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	mapping := reg.TraitMap["eq"]
	if mapping["number"] != "num/eq" || mapping["string"] != "str/eq" {
		t.Fatalf("merged trait map = %v, want both number and string entries", mapping)
	}
}

func TestCompose_RejectsPluginMissingName(t *testing.T) {
	if _, err := Compose(Plugin{}); err == nil {
		t.Fatalf("expected validation error for a plugin with no Name")
	}
}
