package registry

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/xerr"
)

var validate = validator.New()

// Registry is the merged, immutable view of one or more plugins: the
// runtime dispatch maps the elaborator consults (spec §4.3). It is built
// once by Compose and never mutated afterward.
type Registry struct {
	Ctors       map[string]Ctor
	Kinds       map[string]KindSpec
	Traits      map[string]Trait
	LiftMap     map[string]string
	TraitMap    map[string]map[string]string
	KindInputs  map[string][]string
	KindOutputs map[string]string
	Shapes      map[string]Shape
}

// Compose merges any number of plugins into one Registry (spec §4.3). Later
// plugins win constructor-name conflicts; kindString conflicts are allowed
// only when both plugins declare an identical KindSpec, otherwise Compose
// fails with PluginConflict.
func Compose(plugins ...Plugin) (*Registry, error) {
	reg := &Registry{
		Ctors:       map[string]Ctor{},
		Kinds:       map[string]KindSpec{},
		Traits:      map[string]Trait{},
		LiftMap:     map[string]string{},
		TraitMap:    map[string]map[string]string{},
		KindInputs:  map[string][]string{},
		KindOutputs: map[string]string{},
		Shapes:      map[string]Shape{},
	}

	for _, p := range plugins {
		if err := validate.Struct(&p); err != nil {
			return nil, fmt.Errorf("exgraph: invalid plugin %q: %w", p.Name, err)
		}

		// Constructors: later plugin wins (spec §4.3), a plain overwrite —
		// plugins are merged in their given order and mergo.WithOverride
		// replaces mergo's default "do not overwrite" semantics, so a later
		// plugin's constructor replaces an earlier one of the same name.
		if err := mergo.Merge(&reg.Ctors, p.Ctors, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("exgraph: merging ctors from plugin %q: %w", p.Name, err)
		}

		for kind, spec := range p.Kinds {
			if existing, ok := reg.Kinds[kind]; ok && !kindSpecEqual(existing, spec) {
				return nil, &xerr.PluginConflict{Kind: kind, Reason: fmt.Sprintf("plugin %q redeclares kind with incompatible spec", p.Name)}
			}
			reg.Kinds[kind] = spec
			reg.KindInputs[kind] = spec.Inputs
			reg.KindOutputs[kind] = spec.Output
		}

		if err := mergo.Merge(&reg.Shapes, p.Shapes, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("exgraph: merging shapes from plugin %q: %w", p.Name, err)
		}

		if err := mergo.Merge(&reg.LiftMap, p.Lifts, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("exgraph: merging lifts from plugin %q: %w", p.Name, err)
		}

		for name, trait := range p.Traits {
			reg.Traits[name] = trait
			merged := reg.TraitMap[name]
			if merged == nil {
				merged = map[string]string{}
			}
			for typeTag, kind := range trait.Mapping {
				merged[typeTag] = kind
			}
			reg.TraitMap[name] = merged
		}
	}

	// spec §4.3: "For every trait name encountered in any plugin's traits,
	// $ exposes an auto-generated constructor name(a, b) that builds a
	// CExpr with kind = traitName (deferred resolution). If a plugin
	// already provides a constructor of the same name, the plugin's wins."
	for name := range reg.Traits {
		if _, exists := reg.Ctors[name]; exists {
			continue
		}
		traitName := name
		reg.Ctors[traitName] = func(args ...any) *graph.CExpr {
			return graph.MakeCExpr(traitName, args...)
		}
	}

	return reg, nil
}

func kindSpecEqual(a, b KindSpec) bool {
	if a.Output != b.Output || len(a.Inputs) != len(b.Inputs) {
		return false
	}
	for i := range a.Inputs {
		if a.Inputs[i] != b.Inputs[i] {
			return false
		}
	}
	return true
}
