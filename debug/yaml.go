package debug

import (
	"github.com/goccy/go-yaml"

	"github.com/exgraph/exgraph/graph"
)

// yamlChild mirrors graph.ChildRef in a shape goccy/go-yaml can marshal
// directly, since ChildRef's fields are unexported by design (spec §3:
// callers interact with it only through its constructors and accessors).
type yamlChild struct {
	Leaf string               `yaml:"leaf,omitempty"`
	Seq  []yamlChild          `yaml:"seq,omitempty"`
	Rec  map[string]yamlChild `yaml:"rec,omitempty"`
}

type yamlNode struct {
	Kind     string    `yaml:"kind"`
	Children yamlChild `yaml:"children"`
	Out      any       `yaml:"out,omitempty"`
	HasOut   bool      `yaml:"hasOut,omitempty"`
}

// ToYAML renders expr as YAML keyed by natural-sorted node ID, for
// snapshot testing where a diff-friendly, whitespace-stable format is
// preferable to the indented debug string.
func ToYAML(expr *graph.NExpr) (string, error) {
	doc := struct {
		Root  string              `yaml:"root"`
		Nodes map[string]yamlNode `yaml:"nodes"`
	}{
		Root:  expr.RootID,
		Nodes: make(map[string]yamlNode, len(expr.Adj)),
	}
	for _, id := range SortedIDs(expr) {
		entry := expr.Adj[id]
		doc.Nodes[id] = yamlNode{
			Kind:     entry.Kind,
			Children: toYAMLChild(entry.Children),
			Out:      entry.Out,
			HasOut:   entry.HasOut,
		}
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toYAMLChild(ref graph.ChildRef) yamlChild {
	switch {
	case ref.IsLeaf():
		return yamlChild{Leaf: ref.ID()}
	case ref.IsSeq():
		items := ref.Items()
		out := make([]yamlChild, len(items))
		for i, it := range items {
			out[i] = toYAMLChild(it)
		}
		return yamlChild{Seq: out}
	case ref.IsRec():
		fields := ref.Fields()
		out := make(map[string]yamlChild, len(fields))
		for k, v := range fields {
			out[k] = toYAMLChild(v)
		}
		return yamlChild{Rec: out}
	default:
		return yamlChild{}
	}
}
