// Package capture implements the per-program recording stack used by
// statement-like constructors (cell mutation, each, while — spec §4.7).
// There is no teacher analogue in cel-go (CEL has no imperative statement
// layer), so this package is modeled on Design Notes §9's guidance
// instead: "model it as a stack parameter or as a per-builder object,
// never as a module-level mutable." Every recording stack here is an
// explicit value owned by one program builder; none of it is package-level
// state.
package capture

import "github.com/exgraph/exgraph/graph"

// Recorded is one constructor-produced node captured by the stack, kept
// alongside the user-facing constructor name so an orphan check (spec
// §4.7) can name it in an error.
type Recorded struct {
	Expr      *graph.CExpr
	CtorName  string
}

// Recorder is the per-builder recording stack. A fresh Recorder must be
// created for each top-level program definition; sharing one across
// builders would leak effects between unrelated programs.
type Recorder struct {
	effects []Recorded
	blocks  [][]Recorded
}

// New returns an empty recording stack.
func New() *Recorder {
	return &Recorder{}
}

// InBlock reports whether a block (each/while body) is currently open.
func (r *Recorder) InBlock() bool {
	return len(r.blocks) > 0
}

// Record pushes a statement-like node onto the current block if one is
// open, or onto the program's top-level effects list otherwise (spec
// §4.7: "Inside a recording context ... outside any block, they are
// pushed onto effects").
func (r *Recorder) Record(ctorName string, expr *graph.CExpr) {
	rec := Recorded{Expr: expr, CtorName: ctorName}
	if n := len(r.blocks); n > 0 {
		r.blocks[n-1] = append(r.blocks[n-1], rec)
		return
	}
	r.effects = append(r.effects, rec)
}

// PushBlock opens a new recording block (used while running an each/while
// callback) and returns a function that closes it, returning everything
// recorded inside.
func (r *Recorder) PushBlock() (close func() []Recorded) {
	r.blocks = append(r.blocks, nil)
	return func() []Recorded {
		n := len(r.blocks)
		block := r.blocks[n-1]
		r.blocks = r.blocks[:n-1]
		return block
	}
}

// Effects returns the program's top-level effects recorded so far, in
// order.
func (r *Recorder) Effects() []Recorded {
	return r.effects
}

// FilterConsumed removes from nodes every entry whose Expr pointer also
// appears as a direct argument of another entry in nodes, so a subtree
// recorded once (e.g. a cell read used both as a statement and as an
// argument elsewhere) is not duplicated when the block's roots are wrapped
// (spec §4.7: each "filters out nodes that are consumed as arguments by
// other recorded nodes").
func FilterConsumed(nodes []Recorded) []Recorded {
	consumed := map[*graph.CExpr]bool{}
	for _, n := range nodes {
		for _, arg := range n.Expr.Args {
			if c, ok := arg.(*graph.CExpr); ok {
				consumed[c] = true
			}
		}
	}
	var roots []Recorded
	for _, n := range nodes {
		if !consumed[n.Expr] {
			roots = append(roots, n)
		}
	}
	return roots
}
