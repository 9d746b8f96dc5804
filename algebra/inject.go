package algebra

import "github.com/exgraph/exgraph/graph"

// CoreInputKind is the node kind used to mark a program's input slots,
// bound via InjectInput before evaluation (spec §4.6).
const CoreInputKind = "core/input"

// InjectInput replaces every core/input entry's Out with data, leaving
// every other entry untouched (spec §4.6, testable property 9).
func InjectInput(program *graph.NExpr, data any) *graph.NExpr {
	return MapWhere(program, ByKind(CoreInputKind), func(e graph.NodeEntry) graph.NodeEntry {
		e.Out = data
		e.HasOut = true
		return e
	})
}
