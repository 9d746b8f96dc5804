package fold

import (
	"github.com/exgraph/exgraph/graph"
)

// Step is one pause point (or the final result) of a Stepper run (spec
// §4.5/§6). Exactly one of (Done, Effect) is meaningful: when Done is
// true, Value/Err hold the finished fold's outcome; otherwise Effect/Ctx
// describe the external effect awaiting a reply via the next Tick call.
type Step[S any] struct {
	Done    bool
	Value   any
	Err     error
	Effect  StepEffect
	Ctx     StepContext
	State   S
}

// stepRequest/stepReply are the internal handoff between the evaluating
// goroutine and the Stepper's Tick caller. Each channel is unbuffered and
// used for exactly one message per round trip, matching Design Notes §9:
// "every yield receives exactly one reply" — no multi-shot resume is ever
// needed.
type stepRequest struct {
	effect StepEffect
	ctx    StepContext
}

type stepReply struct {
	value any
	err   error
}

type stepResult struct {
	value any
	err   error
	done  bool
}

// Stepper drives a fold one external effect at a time, threading caller
// state S across yields (spec §6 StepHandler contract). The evaluation
// itself runs on its own goroutine; Tick is the only synchronization
// point, so from the caller's point of view the whole thing behaves like a
// single-shot coroutine despite using a goroutine internally to get real
// suspend points for tick().
type Stepper[S any] struct {
	reqCh   chan stepRequest
	replyCh chan stepReply
	doneCh  chan stepResult

	state   S
	started bool
	done    bool
}

// NewStepper prepares (but does not start) a stepwise fold of expr against
// interp, with initial threaded state.
func NewStepper[S any](expr *graph.NExpr, interp Interpreter, initial S, opts ...Option) *Stepper[S] {
	cfg := newConfig(opts)
	s := &Stepper[S]{
		reqCh:   make(chan stepRequest),
		replyCh: make(chan stepReply),
		doneCh:  make(chan stepResult, 1),
		state:   initial,
	}

	ctx := &FoldContext{
		expr:     expr,
		interp:   interp,
		volatile: cfg.volatile,
		memo:     map[string]any{},
		log:      cfg.logger,
		effectFn: func(eff StepEffect, sc StepContext) (any, error) {
			s.reqCh <- stepRequest{effect: eff, ctx: sc}
			r := <-s.replyCh
			return r.value, r.err
		},
	}

	go func() {
		v, err := ctx.Node(expr.RootID)
		s.doneCh <- stepResult{value: v, err: err, done: true}
	}()

	return s
}

// Tick advances the stepper. On the very first call, value/state seed
// nothing (the fold has not yielded yet) and may be zero values. On every
// subsequent call, value is fed back as the result of the previously
// reported effect and state replaces the threaded state, exactly as the
// StepHandler contract prescribes (spec §6: "Returns {value, state} to
// feed back into the coroutine and update threaded state").
func (s *Stepper[S]) Tick(value any, state S) (Step[S], error) {
	if s.done {
		return Step[S]{Done: true}, nil
	}
	if s.started {
		s.state = state
		select {
		case s.replyCh <- stepReply{value: value}:
		case r := <-s.doneCh:
			s.done = true
			return Step[S]{Done: true, Value: r.value, Err: r.err, State: s.state}, r.err
		}
	}
	s.started = true

	select {
	case req := <-s.reqCh:
		return Step[S]{Effect: req.effect, Ctx: req.ctx, State: s.state}, nil
	case r := <-s.doneCh:
		s.done = true
		return Step[S]{Done: true, Value: r.value, Err: r.err, State: s.state}, r.err
	}
}

// RunAST drives a Stepper to completion, threading state through handler
// exactly as spec §4.5's runAST describes: child dependency requests are
// auto-recursed by the fold engine itself (never surfaced to handler);
// only unrecognized yields (external effects) reach handler.
func RunAST[S any](expr *graph.NExpr, interp Interpreter, handler StepHandler[S], state S, opts ...Option) (any, S, error) {
	stepper := NewStepper(expr, interp, state, opts...)
	var lastValue any
	var lastState S = state
	for {
		step, err := stepper.Tick(lastValue, lastState)
		if err != nil {
			return nil, step.State, err
		}
		if step.Done {
			return step.Value, step.State, step.Err
		}
		v, ns, herr := handler(step.Effect, step.Ctx, step.State)
		if herr != nil {
			return nil, ns, herr
		}
		lastValue, lastState = v, ns
	}
}

// FoldAST is an alias kept for symmetry with spec §4.5's naming ("fold(),
// runAST(), foldAST()"): a stepwise fold whose handler performs no state
// threading beyond the zero value, useful when the only purpose of going
// stepwise is to observe each external effect (e.g. for tracing) rather
// than to react to it.
func FoldAST(expr *graph.NExpr, interp Interpreter, handler func(StepEffect, StepContext) (any, error), opts ...Option) (any, error) {
	v, _, err := RunAST[struct{}](expr, interp, func(e StepEffect, c StepContext, s struct{}) (any, struct{}, error) {
		val, herr := handler(e, c)
		return val, s, herr
	}, struct{}{}, opts...)
	return v, err
}
