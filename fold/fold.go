package fold

import (
	"github.com/rs/zerolog"

	"github.com/exgraph/exgraph/graph"
	"github.com/exgraph/exgraph/xerr"
)

// Option configures a Fold/Stepper run.
type Option func(*foldConfig)

type foldConfig struct {
	volatile map[string]bool
	logger   zerolog.Logger
	effectFn func(StepEffect, StepContext) (any, error)
}

// WithVolatileKinds marks the given node kinds as volatile: the
// memoization cache never serves a cached value for them, so every
// reference re-invokes the handler (spec §4.5). Typical use: a lambda
// parameter kind, whose value differs across invocations sharing the same
// node ID.
func WithVolatileKinds(kinds ...string) Option {
	return func(c *foldConfig) {
		if c.volatile == nil {
			c.volatile = map[string]bool{}
		}
		for _, k := range kinds {
			c.volatile[k] = true
		}
	}
}

// WithLogger attaches a zerolog.Logger that receives one debug event per
// memoization hit and per handler dispatch. Off by default
// (zerolog.Nop()); useful for diagnosing a fold that appears stuck.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *foldConfig) { c.logger = logger }
}

// WithEffectDispatch supplies the effect dispatch table for the
// non-stepwise Fold entry point (spec §4.5): a function invoked whenever a
// handler yields a request this package does not itself recognize.
func WithEffectDispatch(fn func(StepEffect, StepContext) (any, error)) Option {
	return func(c *foldConfig) { c.effectFn = fn }
}

func newConfig(opts []Option) *foldConfig {
	c := &foldConfig{logger: zerolog.Nop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fold evaluates expr.RootID to a value against interp (spec §4.5's
// non-stepwise entry point). External effects are bubbled to the effect
// dispatch table supplied via WithEffectDispatch; if a handler yields one
// and none was supplied, Fold fails.
func Fold(expr *graph.NExpr, interp Interpreter, opts ...Option) (any, error) {
	cfg := newConfig(opts)
	ctx := &FoldContext{
		expr:     expr,
		interp:   interp,
		volatile: cfg.volatile,
		memo:     map[string]any{},
		log:      cfg.logger,
		effectFn: cfg.effectFn,
	}
	return ctx.Node(expr.RootID)
}

// FoldAny is Fold's contract-checked counterpart for call sites that hold
// a value that might still be an uncommitted graph.DirtyExpr (for instance
// the result of a graph-algebra pipeline). It fails with DirtyRefused
// rather than evaluating uncommitted state (spec §4.6: "Evaluating a
// DirtyExpr is a contract error").
func FoldAny(x any, interp Interpreter, opts ...Option) (any, error) {
	switch v := x.(type) {
	case *graph.NExpr:
		return Fold(v, interp, opts...)
	case *graph.DirtyExpr:
		return nil, &xerr.DirtyRefused{}
	default:
		return nil, &xerr.DirtyRefused{}
	}
}
