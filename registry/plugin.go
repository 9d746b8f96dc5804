// Package registry implements plugin composition: merging plugin-provided
// constructors, node-kind registries, trait instances, and lift rules into
// the runtime dispatch maps the elaborator consults. It is the Go analogue
// of cel-go's checker/decls declaration merging and interpreter/dispatcher
// overload registry, generalized to exgraph's plugin shape.
package registry

import (
	"github.com/exgraph/exgraph/fold"
	"github.com/exgraph/exgraph/graph"
)

// Ctor builds a CExpr from the constructor surface's arguments. Plugins
// register these under a constructor name; the surface package turns them
// into callable builder functions.
type Ctor func(args ...any) *graph.CExpr

// KindSpec records a node kind's declared input type tags (in positional
// order) and its output type tag, consulted by the elaborator for
// permissive type-checking (spec §4.4 step 5) and by spliceWhere for
// output-type conformance checks (spec §4.6).
type KindSpec struct {
	Inputs []string `validate:"dive,required"`
	Output string   `validate:"required"`
}

// Trait records one trait's dispatch table: the trait's declared output
// type tag, and a mapping from a concrete argument type tag to the kind
// string that implements the trait for that type (e.g. "eq" maps "number"
// to "num/eq" and "string" to "str/eq").
type Trait struct {
	OutputTypeTag string
	Mapping       map[string]string
}

// Shape describes how a structural constructor (spec §4.4 step 3) should
// walk its single value argument. A Shape is one of:
//   - ShapeDynamic: walk the value's own runtime shape ("*" in spec prose).
//   - a Seq of Shapes (ShapeSeq): positional recursion into a sequence.
//   - a map[string]Shape: keyed recursion into a record.
//   - a concrete type tag string: expect a primitive of that tag.
type Shape struct {
	Dynamic  bool
	Seq      []Shape
	Rec      map[string]Shape
	TypeTag  string
	isLeaf   bool
}

// ShapeDynamic is the "*" descriptor: walk the value's own shape.
var ShapeDynamic = Shape{Dynamic: true}

// ShapeSeq builds a positional-recursion shape descriptor.
func ShapeSeq(items ...Shape) Shape { return Shape{Seq: items} }

// ShapeRec builds a keyed-recursion shape descriptor.
func ShapeRec(fields map[string]Shape) Shape { return Shape{Rec: fields} }

// ShapeLeaf builds a concrete-primitive shape descriptor expecting the
// given host type tag.
func ShapeLeaf(typeTag string) Shape { return Shape{TypeTag: typeTag, isLeaf: true} }

// IsLeaf reports whether this shape expects a primitive rather than
// recursing further.
func (s Shape) IsLeaf() bool { return s.isLeaf }

// Plugin is the contract every plugin (built-in or external SDK adapter)
// must satisfy (spec §6). A plugin never depends on the host's module
// system; every cross-reference is by name (trait name, kind string, type
// tag), which is what allows compose() to merge an arbitrary number of
// plugins without import cycles between them.
type Plugin struct {
	Name   string `validate:"required"`
	Ctors  map[string]Ctor
	Kinds  map[string]KindSpec `validate:"dive"`
	Traits map[string]Trait
	Lifts  map[string]string
	Shapes map[string]Shape
	// DefaultInterpreter, if set, returns a fresh interpreter contribution
	// for this plugin's kinds; fold/builtins consult this rather than a
	// single shared instance so interpreter state (cells, error stacks)
	// never leaks across concurrent folds (spec §5).
	DefaultInterpreter func() fold.Interpreter
}
