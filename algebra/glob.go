package algebra

import (
	"github.com/gobwas/glob"

	"github.com/exgraph/exgraph/graph"
)

// ByKindGlob matches nodes whose Kind matches pattern, compiled once via
// gobwas/glob. A bare namespace prefix like "num/" still behaves as the
// distilled spec describes (anything starting with "num/"), expressed
// here as the glob pattern "num/*"; full glob syntax ("*/eq", "num/{add,sub}")
// is accepted as a strict superset.
func ByKindGlob(pattern string) Predicate {
	if len(pattern) > 0 && pattern[len(pattern)-1] == '/' {
		pattern += "*"
	}
	g := glob.MustCompile(pattern, '/')
	return func(entry graph.NodeEntry, id string, adj map[string]graph.NodeEntry) bool {
		return g.Match(entry.Kind)
	}
}
