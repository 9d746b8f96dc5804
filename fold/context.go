package fold

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/xerr"
)

// StepEffect is any yield request a handler produces that the fold engine
// does not recognize as one of the built-in dependency requests (spec
// §4.5). It is delegated to the ambient StepHandler.
type StepEffect struct {
	Tag     string
	Payload any
}

// StepContext accompanies an effect delegated to a StepHandler (spec §6).
type StepContext struct {
	Depth      int
	Path       []string
	ParentKind string
}

// StepHandler is the caller-supplied effect handler for the stepwise entry
// point (spec §6). It must be deterministic over its effect payload for
// test reproducibility.
type StepHandler[S any] func(effect StepEffect, ctx StepContext, state S) (any, S, error)

// bindingFrame is one layer of lexical bindings pushed by RecurseScoped,
// used by lambda/recursion handlers (e.g. a lambda-parameter kind) to
// resolve a name to a value while evaluating the lambda body.
type bindingFrame struct {
	name  string
	value any
}

// FoldContext is the yield surface a Handler uses to request dependency
// values or delegate external effects (spec §4.5). One FoldContext is
// shared for the lifetime of a single Fold/Stepper run; it owns the
// memoization cache and the lexical-binding stack.
type FoldContext struct {
	expr     *graph.NExpr
	interp   Interpreter
	volatile map[string]bool
	memo     map[string]any
	bindings []bindingFrame
	log      zerolog.Logger

	depth int
	path  []string

	// effectFn dispatches a StepEffect outside of the stepwise protocol
	// (the non-stepwise Fold entry point still allows handlers to yield
	// effects, bubbled to this table rather than to a per-call StepHandler).
	effectFn func(StepEffect, StepContext) (any, error)
}

// Child evaluates children[i] of entry, which must be a flat ordered
// sequence (spec §4.5: "produce the value of children[i]").
func (c *FoldContext) Child(entry graph.NodeEntry, i int) (any, error) {
	ids := entry.Children.FlatIDs()
	if i < 0 || i >= len(ids) {
		return nil, fmt.Errorf("exgraph: child index %d out of range (node has %d children)", i, len(ids))
	}
	return c.Node(ids[i])
}

// Children evaluates every flat child of entry, in order.
func (c *FoldContext) Children(entry graph.NodeEntry) ([]any, error) {
	ids := entry.Children.FlatIDs()
	out := make([]any, len(ids))
	for i, id := range ids {
		v, err := c.Node(id)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Node evaluates the node named id in the adjacency map (spec §4.5:
// "produce the value of node id"), consulting and populating the
// memoization cache unless the node's kind is marked volatile. This is
// also the implementation of the legacy "recurse" yield request: a plugin
// holding a raw descendant ID recurses into it exactly the same way.
func (c *FoldContext) Node(id string) (any, error) {
	entry, ok := c.expr.Adj[id]
	if !ok {
		return nil, fmt.Errorf("exgraph: node %q not found in adjacency map", id)
	}

	volatile := c.volatile[entry.Kind]
	if !volatile {
		if v, ok := c.memo[id]; ok {
			c.log.Debug().Str("id", id).Str("kind", entry.Kind).Msg("fold: memo hit")
			return v, nil
		}
	}

	if entry.HasOut && len(entry.Children.FlatIDs()) == 0 {
		// Literal/lifted leaf: its value is already precomputed.
		if !volatile {
			c.memo[id] = entry.Out
		}
		return entry.Out, nil
	}

	handler, ok := c.interp[entry.Kind]
	if !ok {
		return nil, &xerr.NoHandler{Kind: entry.Kind}
	}

	c.depth++
	c.path = append(c.path, id)
	c.log.Debug().Str("id", id).Str("kind", entry.Kind).Int("depth", c.depth).Msg("fold: dispatch")
	v, err := handler(c, entry)
	c.path = c.path[:len(c.path)-1]
	c.depth--
	if err != nil {
		return nil, err
	}

	if !volatile {
		c.memo[id] = v
	}
	return v, nil
}

// RecurseScoped evaluates childID under temporary lexical bindings (spec
// §4.5: "recurse_scoped"), used by lambda/recursion handlers. Bindings are
// popped on return, whether or not evaluation succeeded.
func (c *FoldContext) RecurseScoped(childID string, bindings map[string]any) (any, error) {
	n := 0
	for name, value := range bindings {
		c.bindings = append(c.bindings, bindingFrame{name: name, value: value})
		n++
	}
	defer func() {
		c.bindings = c.bindings[:len(c.bindings)-n]
	}()
	return c.Node(childID)
}

// Lookup resolves name against the lexical-binding stack, innermost frame
// first (so a shadowing recurse_scoped wins over an outer one).
func (c *FoldContext) Lookup(name string) (any, bool) {
	for i := len(c.bindings) - 1; i >= 0; i-- {
		if c.bindings[i].name == name {
			return c.bindings[i].value, true
		}
	}
	return nil, false
}

// Effect delegates a yield request the fold engine does not itself
// understand to the ambient effect handler (spec §4.5's final yield case:
// "any other tagged object: delegated as an external effect").
func (c *FoldContext) Effect(tag string, payload any) (any, error) {
	if c.effectFn == nil {
		return nil, fmt.Errorf("exgraph: unhandled external effect %q: no step handler configured", tag)
	}
	ctx := StepContext{Depth: c.depth, Path: append([]string(nil), c.path...)}
	if len(c.path) > 0 {
		if parent, ok := c.expr.Adj[c.path[len(c.path)-1]]; ok {
			ctx.ParentKind = parent.Kind
		}
	}
	return c.effectFn(StepEffect{Tag: tag, Payload: payload}, ctx)
}
