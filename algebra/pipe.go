package algebra

import "github.com/exgraph/exgraph/graph"

// Op is one stage of a Pipe: a transformation from a committed NExpr to
// the next committed NExpr. Stages that naturally produce a DirtyExpr
// (WrapByName, SpliceWhere, ReplaceWhere) are lifted into an Op with
// CommitOp below, so Pipe itself never has to special-case dirty state.
type Op func(*graph.NExpr) (*graph.NExpr, error)

// Pipe left-to-right composes graph operations (spec §4.6): the output of
// each stage feeds the next.
func Pipe(expr *graph.NExpr, ops ...Op) (*graph.NExpr, error) {
	cur := expr
	for _, op := range ops {
		next, err := op(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// CommitOp lifts a dirty-producing transformation into an Op by committing
// its result before handing it to the next pipeline stage.
func CommitOp(f func(*graph.NExpr) (*graph.DirtyExpr, error)) Op {
	return func(expr *graph.NExpr) (*graph.NExpr, error) {
		d, err := f(expr)
		if err != nil {
			return nil, err
		}
		return Commit(d)
	}
}
