// Package surface implements the constructor surface ($ in spec prose):
// the per-operation builder API a host program calls into to assemble a
// CExpr tree. Go has no dynamic per-name method dispatch, so where the
// distilled spec describes "$.add(3, 4)" this package exposes
// Surface.Call("add", 3, 4) — the same deferred-name dispatch, expressed
// the only way a statically typed host language can. Grounded on
// cel/cel.go's functional-options Env, which likewise merges
// plugin-provided pieces (there: EnvOptions/ProgramOptions) into one
// composed entry point before any expression is built.
package surface

import (
	"fmt"

	"github.com/stoewer/go-strcase"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
)

// Surface is the composed constructor surface built from one or more
// plugins via registry.Compose.
type Surface struct {
	reg *registry.Registry
}

// New wraps a composed Registry as a constructor surface.
func New(reg *registry.Registry) *Surface {
	return &Surface{reg: reg}
}

// Registry returns the underlying composed registry, e.g. for passing to
// elaborate.Elaborate or registry.BuildInterpreter.
func (s *Surface) Registry() *registry.Registry {
	return s.reg
}

// Call builds a CExpr via the constructor registered under name —
// including the auto-generated trait constructors Compose adds for every
// trait name with no explicit ctor override (spec §4.3). It panics if name
// is not registered by any composed plugin: an unknown constructor name is
// a host-code bug caught at construction time, not a data error the spec
// models as one of the named runtime error kinds (§7).
func (s *Surface) Call(name string, args ...any) *graph.CExpr {
	ctor, ok := s.reg.Ctors[name]
	if !ok {
		// Plugins register constructor names in snake_case (spec §6 examples:
		// "add", "to_upper"); tolerate a host caller spelling a multi-word
		// name in camelCase or PascalCase by normalizing once before giving up.
		if normalized := strcase.SnakeCase(name); normalized != name {
			if ctor, ok = s.reg.Ctors[normalized]; ok {
				return ctor(args...)
			}
		}
		panic(fmt.Sprintf("exgraph: no constructor registered for %q", name))
	}
	return ctor(args...)
}

// Template builds the Go-idiomatic equivalent of a host language's tagged
// template literal (Design Notes §9): parts is the N+1 literal segments
// surrounding N interpolated values, and the result is a str/concat call
// over the interleaved sequence. It requires a "concat" constructor to be
// registered (the str builtin plugin provides one); panics via Call
// otherwise, the same construction-time contract as any other surface call.
func (s *Surface) Template(parts []string, values ...any) *graph.CExpr {
	if len(parts) != len(values)+1 {
		panic(fmt.Sprintf("exgraph: Template expects len(parts) == len(values)+1, got %d parts and %d values", len(parts), len(values)))
	}
	args := make([]any, 0, len(parts)+len(values))
	for i, part := range parts {
		args = append(args, part)
		if i < len(values) {
			args = append(args, values[i])
		}
	}
	return s.Call("concat", args...)
}

// Access builds the explicit access(obj, key) node the core elaborates as
// core/access (spec §4.4 step 4). Design Notes §9: the host language's
// property-access proxy sugar ("input.foo.bar") is out of scope for this
// core; only this explicit builder is implemented here.
func Access(obj any, key string) *graph.CExpr {
	return graph.MakeCExpr("core/access", obj, key)
}
