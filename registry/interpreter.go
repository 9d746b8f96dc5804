package registry

import "github.com/exgraph/exgraph/fold"

// BuildInterpreter calls each plugin's DefaultInterpreter factory (fresh
// state per call, per spec §5) and merges the results, later plugin
// winning on kind collisions. Call this once per fold/run, not once per
// program — plugin state such as cells or the error stack must not be
// shared across concurrent folds.
func BuildInterpreter(plugins ...Plugin) fold.Interpreter {
	out := fold.Interpreter{}
	for _, p := range plugins {
		if p.DefaultInterpreter == nil {
			continue
		}
		out = out.Merge(p.DefaultInterpreter())
	}
	return out
}
