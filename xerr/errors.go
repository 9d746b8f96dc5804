// Package xerr defines the named error kinds from spec §7. Each is a small
// exported struct type implementing error through a pointer receiver,
// matched and inspected with errors.As for the offending kind/constructor
// name; the package defines no sentinel values. This follows the typed-error
// pattern cel-go uses for its dispatcher's NoSuchOverloadErr rather than ad
// hoc fmt.Errorf strings.
package xerr

import "fmt"

// CannotLift: a raw primitive had no lift rule for its host type tag.
type CannotLift struct {
	TypeTag string
}

func (e *CannotLift) Error() string {
	return fmt.Sprintf("exgraph: cannot lift host value of type %q: no lift rule registered", e.TypeTag)
}

// NoTraitInstance: no mapping for the chosen dispatch type.
type NoTraitInstance struct {
	Trait   string
	TypeTag string
}

func (e *NoTraitInstance) Error() string {
	return fmt.Sprintf("exgraph: no instance of trait %q for type %q", e.Trait, e.TypeTag)
}

// TraitTypeMismatch: binary trait args had conflicting concrete types.
type TraitTypeMismatch struct {
	Trait    string
	Left     string
	Right    string
}

func (e *TraitTypeMismatch) Error() string {
	return fmt.Sprintf("exgraph: trait %q called with mismatched types %q and %q", e.Trait, e.Left, e.Right)
}

// AmbiguousDispatch: both trait args were object/unknown and more than one
// dispatch candidate remained, with no explicit type hint (spec §9 open
// question, resolved here as a deterministic failure rather than an
// arbitrary pick).
type AmbiguousDispatch struct {
	Trait      string
	Candidates []string
}

func (e *AmbiguousDispatch) Error() string {
	return fmt.Sprintf("exgraph: ambiguous dispatch for trait %q: candidates %v, no explicit type hint", e.Trait, e.Candidates)
}

// TypeMismatch: structural or positional input type disagrees with the
// kind spec.
type TypeMismatch struct {
	Kind     string
	Index    int
	Expected string
	Actual   string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("exgraph: kind %q argument %d expected type %q, got %q", e.Kind, e.Index, e.Expected, e.Actual)
}

// NoHandler: the interpreter lacks the node's kind.
type NoHandler struct {
	Kind string
}

func (e *NoHandler) Error() string {
	return fmt.Sprintf("exgraph: no handler registered for kind %q", e.Kind)
}

// UnreachableOrphan: constructor produced a node that is not in the final
// tree (spec §4.7).
type UnreachableOrphan struct {
	Ctor string
	Kind string
}

func (e *UnreachableOrphan) Error() string {
	return fmt.Sprintf("exgraph: %q (kind %q) was recorded but is not reachable from the program result", e.Ctor, e.Kind)
}

// DirtyRefused: attempt to fold a DirtyExpr.
type DirtyRefused struct{}

func (e *DirtyRefused) Error() string {
	return "exgraph: refusing to evaluate an uncommitted DirtyExpr; call Commit first"
}

// PluginConflict: two plugins registered the same kind incompatibly.
type PluginConflict struct {
	Kind   string
	Reason string
}

func (e *PluginConflict) Error() string {
	return fmt.Sprintf("exgraph: plugin conflict on kind %q: %s", e.Kind, e.Reason)
}

// CycleInSplice: splice produced or would produce a broken reference.
type CycleInSplice struct {
	ID string
}

func (e *CycleInSplice) Error() string {
	return fmt.Sprintf("exgraph: splice would introduce a cycle through %q", e.ID)
}

// InvalidChildIndex: splice's childIndex is out of range, or (per the
// chosen resolution to spec §9's splice-type-safety open question) the
// replacement child's output type does not conform to the matched node's
// declared output type.
type InvalidChildIndex struct {
	Kind   string
	Index  int
	Reason string
}

func (e *InvalidChildIndex) Error() string {
	return fmt.Sprintf("exgraph: invalid splice at kind %q index %d: %s", e.Kind, e.Index, e.Reason)
}

// UserError: raised by the error plugin's fail/guard.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}
