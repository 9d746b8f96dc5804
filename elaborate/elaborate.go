// Package elaborate translates a permissive, construction-time CExpr into a
// normalized NExpr (spec §4.4): trait resolution, structural walking, light
// type checking, and deduping of shared subtrees. It is the Go analogue of
// cel-go's interpreter/planner.go, which likewise compiles an AST into a
// runtime plan in a single DFS pass while consulting a pre-built dispatch
// table (there, the Dispatcher; here, a *registry.Registry).
package elaborate

import (
	"fmt"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/registry"
	"github.com/exgraph/exgraph/xerr"
)

const (
	accessKind = "core/access"
)

// elaborated records what elaborating a *CExpr produced, memoized by
// pointer identity so a CExpr object appearing twice in the input yields
// one ID referenced twice rather than two duplicate subtrees (spec §4.4,
// testable property 4).
type elaborated struct {
	id      string
	typeTag string
}

type elaborator struct {
	reg     *registry.Registry
	adj     map[string]graph.NodeEntry
	counter *graph.IDCounter
	memo    map[*graph.CExpr]elaborated
}

// Elaborate walks expr depth-first, post-order, assigning fresh IDs from
// "a", and returns the resulting NExpr. It never returns a partially built
// graph: any failure aborts the whole elaboration (spec §4.4: "Fails with
// typed errors; never partial").
func Elaborate(reg *registry.Registry, expr *graph.CExpr) (*graph.NExpr, error) {
	el := &elaborator{
		reg:     reg,
		adj:     map[string]graph.NodeEntry{},
		counter: graph.NewIDCounter(),
		memo:    map[*graph.CExpr]elaborated{},
	}
	root, err := el.elaborateExpr(expr)
	if err != nil {
		return nil, err
	}
	return graph.MakeNExpr(root.id, el.adj, el.counter.Counter()), nil
}

func (el *elaborator) emit(kind string, children graph.ChildRef) string {
	id := el.counter.Mint()
	el.adj[id] = graph.NodeEntry{Kind: kind, Children: children}
	return id
}

func (el *elaborator) emitLeaf(kind string, out any) string {
	id := el.counter.Mint()
	el.adj[id] = graph.NodeEntry{Kind: kind, Out: out, HasOut: true}
	return id
}

// elaborateExpr dispatches a *CExpr through spec §4.4 steps 2-5 (step 1,
// raw primitives, is handled by elaboratePrimitive since a primitive never
// arrives here directly — it arrives as an argument elsewhere).
func (el *elaborator) elaborateExpr(expr *graph.CExpr) (elaborated, error) {
	if cached, ok := el.memo[expr]; ok {
		return cached, nil
	}

	var result elaborated
	var err error

	switch {
	case expr.Kind == accessKind:
		result, err = el.elaborateAccess(expr)
	case el.isTraitKind(expr.Kind):
		result, err = el.elaborateTrait(expr)
	case el.isStructuralKind(expr.Kind):
		result, err = el.elaborateStructural(expr)
	default:
		result, err = el.elaborateRegular(expr)
	}
	if err != nil {
		return elaborated{}, err
	}

	el.memo[expr] = result
	return result, nil
}

func (el *elaborator) isTraitKind(kind string) bool {
	_, ok := el.reg.TraitMap[kind]
	return ok
}

func (el *elaborator) isStructuralKind(kind string) bool {
	_, ok := el.reg.Shapes[kind]
	return ok
}

// elaborateArg elaborates one constructor argument, which must be a
// *CExpr or a raw host primitive (spec §4.4 step 1/5): regular and trait
// kinds only ever produce a flat sequence of child IDs, never a nested
// shape — that is reserved for structural kinds (step 3).
func (el *elaborator) elaborateArg(v any) (elaborated, error) {
	switch val := v.(type) {
	case *graph.CExpr:
		return el.elaborateExpr(val)
	default:
		return el.elaboratePrimitive(v)
	}
}

// elaboratePrimitive implements spec §4.4 step 1.
func (el *elaborator) elaboratePrimitive(v any) (elaborated, error) {
	tag := HostTypeTag(v)
	kind, ok := el.reg.LiftMap[tag]
	if !ok {
		return elaborated{}, &xerr.CannotLift{TypeTag: tag}
	}
	id := el.emitLeaf(kind, v)
	return elaborated{id: id, typeTag: el.outputTag(kind)}, nil
}

func (el *elaborator) outputTag(kind string) string {
	if tag, ok := el.reg.KindOutputs[kind]; ok {
		return tag
	}
	return "unknown"
}

// elaborateTrait implements spec §4.4 step 2.
func (el *elaborator) elaborateTrait(expr *graph.CExpr) (elaborated, error) {
	mapping := el.reg.TraitMap[expr.Kind]

	args := make([]elaborated, len(expr.Args))
	for i, raw := range expr.Args {
		a, err := el.elaborateArg(raw)
		if err != nil {
			return elaborated{}, err
		}
		args[i] = a
	}

	dispatchType, err := el.chooseDispatchType(expr.Kind, mapping, args)
	if err != nil {
		return elaborated{}, err
	}

	kind, ok := mapping[dispatchType]
	if !ok {
		return elaborated{}, &xerr.NoTraitInstance{Trait: expr.Kind, TypeTag: dispatchType}
	}

	if len(args) == 2 {
		l, r := args[0].typeTag, args[1].typeTag
		if isConcrete(l) && isConcrete(r) && l != r {
			return elaborated{}, &xerr.TraitTypeMismatch{Trait: expr.Kind, Left: l, Right: r}
		}
	}

	ids := make([]graph.ChildRef, len(args))
	for i, a := range args {
		ids[i] = graph.Leaf(a.id)
	}
	id := el.emit(kind, graph.Seq(ids...))
	return elaborated{id: id, typeTag: el.outputTag(kind)}, nil
}

// chooseDispatchType implements spec §4.4 step 2's dispatch-type choice,
// and resolves spec §9's open question on ties: the source picks an
// arbitrary available mapping when every arg is object/unknown; this
// implementation instead requires the remaining candidate set (after
// intersecting with the trait's declared mapping) to be a singleton,
// failing with AmbiguousDispatch otherwise.
func (el *elaborator) chooseDispatchType(trait string, mapping map[string]string, args []elaborated) (string, error) {
	for _, a := range args {
		if isConcrete(a.typeTag) {
			return a.typeTag, nil
		}
	}
	if len(mapping) == 1 {
		for k := range mapping {
			return k, nil
		}
	}
	candidates := make([]string, 0, len(mapping))
	for k := range mapping {
		candidates = append(candidates, k)
	}
	return "", &xerr.AmbiguousDispatch{Trait: trait, Candidates: candidates}
}

func isConcrete(tag string) bool {
	return tag != "" && tag != "object" && tag != "unknown"
}

// elaborateStructural implements spec §4.4 step 3.
func (el *elaborator) elaborateStructural(expr *graph.CExpr) (elaborated, error) {
	if len(expr.Args) != 1 {
		return elaborated{}, fmt.Errorf("exgraph: structural kind %q expects exactly one value argument, got %d", expr.Kind, len(expr.Args))
	}
	shape := el.reg.Shapes[expr.Kind]
	ref, err := el.walkShape(expr.Kind, shape, expr.Args[0])
	if err != nil {
		return elaborated{}, err
	}
	id := el.emit(expr.Kind, ref)
	return elaborated{id: id, typeTag: el.outputTag(expr.Kind)}, nil
}

func (el *elaborator) walkShape(kind string, shape registry.Shape, value any) (graph.ChildRef, error) {
	switch {
	case shape.Dynamic:
		return el.walkDynamic(value)
	case shape.Seq != nil:
		seq, ok := value.([]any)
		if !ok {
			return graph.ChildRef{}, fmt.Errorf("exgraph: kind %q expected an ordered sequence, got %T", kind, value)
		}
		if len(seq) != len(shape.Seq) {
			return graph.ChildRef{}, fmt.Errorf("exgraph: kind %q expected %d positional elements, got %d", kind, len(shape.Seq), len(seq))
		}
		out := make([]graph.ChildRef, len(seq))
		for i, sub := range shape.Seq {
			r, err := el.walkShape(kind, sub, seq[i])
			if err != nil {
				return graph.ChildRef{}, err
			}
			out[i] = r
		}
		return graph.Seq(out...), nil
	case shape.Rec != nil:
		rec, ok := value.(map[string]any)
		if !ok {
			return graph.ChildRef{}, fmt.Errorf("exgraph: kind %q expected a keyed map, got %T", kind, value)
		}
		out := make(map[string]graph.ChildRef, len(shape.Rec))
		for key, sub := range shape.Rec {
			v, present := rec[key]
			if !present {
				return graph.ChildRef{}, fmt.Errorf("exgraph: kind %q missing required field %q", kind, key)
			}
			r, err := el.walkShape(kind, sub, v)
			if err != nil {
				return graph.ChildRef{}, err
			}
			out[key] = r
		}
		return graph.Rec(out), nil
	case shape.IsLeaf():
		a, err := el.elaborateArg(value)
		if err != nil {
			return graph.ChildRef{}, err
		}
		if shape.TypeTag != "" && a.typeTag != shape.TypeTag && isConcrete(a.typeTag) {
			return graph.ChildRef{}, &xerr.TypeMismatch{Kind: kind, Expected: shape.TypeTag, Actual: a.typeTag}
		}
		return graph.Leaf(a.id), nil
	default:
		return graph.ChildRef{}, fmt.Errorf("exgraph: kind %q has an empty shape descriptor", kind)
	}
}

// walkDynamic implements the "*" shape descriptor: walk the value's own
// runtime shape rather than a declared one.
func (el *elaborator) walkDynamic(value any) (graph.ChildRef, error) {
	switch v := value.(type) {
	case []any:
		out := make([]graph.ChildRef, len(v))
		for i, item := range v {
			r, err := el.walkDynamic(item)
			if err != nil {
				return graph.ChildRef{}, err
			}
			out[i] = r
		}
		return graph.Seq(out...), nil
	case map[string]any:
		out := make(map[string]graph.ChildRef, len(v))
		for k, item := range v {
			r, err := el.walkDynamic(item)
			if err != nil {
				return graph.ChildRef{}, err
			}
			out[k] = r
		}
		return graph.Rec(out), nil
	default:
		a, err := el.elaborateArg(value)
		if err != nil {
			return graph.ChildRef{}, err
		}
		return graph.Leaf(a.id), nil
	}
}

// elaborateAccess implements spec §4.4 step 4: core/access elaborates its
// object child and stores the key as the dedicated access node's Out.
func (el *elaborator) elaborateAccess(expr *graph.CExpr) (elaborated, error) {
	if len(expr.Args) != 2 {
		return elaborated{}, fmt.Errorf("exgraph: %s expects (object, key), got %d args", accessKind, len(expr.Args))
	}
	obj, err := el.elaborateArg(expr.Args[0])
	if err != nil {
		return elaborated{}, err
	}
	key, ok := expr.Args[1].(string)
	if !ok {
		return elaborated{}, fmt.Errorf("exgraph: %s key must be a string, got %T", accessKind, expr.Args[1])
	}
	id := el.counter.Mint()
	el.adj[id] = graph.NodeEntry{Kind: accessKind, Children: graph.Seq(graph.Leaf(obj.id)), Out: key, HasOut: true}
	return elaborated{id: id, typeTag: "unknown"}, nil
}

// elaborateRegular implements spec §4.4 step 5.
func (el *elaborator) elaborateRegular(expr *graph.CExpr) (elaborated, error) {
	inputs := el.reg.KindInputs[expr.Kind]
	refs := make([]graph.ChildRef, len(expr.Args))
	for i, raw := range expr.Args {
		a, err := el.elaborateArg(raw)
		if err != nil {
			return elaborated{}, err
		}
		if i < len(inputs) {
			expected := inputs[i]
			if expected != "" && expected != "object" && expected != "unknown" && isConcrete(a.typeTag) && a.typeTag != expected {
				return elaborated{}, &xerr.TypeMismatch{Kind: expr.Kind, Index: i, Expected: expected, Actual: a.typeTag}
			}
		}
		refs[i] = graph.Leaf(a.id)
	}
	id := el.emit(expr.Kind, graph.Seq(refs...))
	return elaborated{id: id, typeTag: el.outputTag(expr.Kind)}, nil
}
