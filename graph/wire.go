package graph

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MarshalWire serializes expr to the persisted-state shape described in
// spec §6: a root ID string, an adjacency map, and a counter string. It is
// built incrementally with sjson.Set rather than encoding/json directly so
// that children-shape variants (flat sequence vs. nested record) serialize
// through the same uniform path tidwall/sjson already understands.
func MarshalWire(expr *NExpr) (string, error) {
	doc := "{}"
	var err error
	if doc, err = sjson.Set(doc, "rootId", expr.RootID); err != nil {
		return "", err
	}
	if doc, err = sjson.Set(doc, "counter", expr.Counter); err != nil {
		return "", err
	}

	ids := make([]string, 0, len(expr.Adj))
	for id := range expr.Adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		entry := expr.Adj[id]
		path := "adj." + sjsonEscape(id)
		if doc, err = sjson.Set(doc, path+".kind", entry.Kind); err != nil {
			return "", err
		}
		if doc, err = sjson.Set(doc, path+".children", childRefToWire(entry.Children)); err != nil {
			return "", err
		}
		if entry.HasOut {
			if doc, err = sjson.Set(doc, path+".out", entry.Out); err != nil {
				return "", err
			}
		}
	}
	return doc, nil
}

// sjsonEscape backslash-escapes the sjson path metacharacters ".", "*", "?"
// and "\" in an ID so that it is read as a literal map key rather than a
// path operator. Every other character, including the "@" that begins an
// alias key, passes through unchanged.
func sjsonEscape(id string) string {
	var b []byte
	for i := 0; i < len(id); i++ {
		switch id[i] {
		case '.', '*', '?', '\\':
			b = append(b, '\\')
		}
		b = append(b, id[i])
	}
	return string(b)
}

func childRefToWire(c ChildRef) any {
	switch {
	case c.IsLeaf():
		return c.ID()
	case c.IsSeq():
		items := c.Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = childRefToWire(it)
		}
		return out
	case c.IsRec():
		fields := c.Fields()
		out := make(map[string]any, len(fields))
		for k, v := range fields {
			out[k] = childRefToWire(v)
		}
		return out
	default:
		return []any{}
	}
}

// UnmarshalWire parses a document produced by MarshalWire back into an
// NExpr. Any referenced ID that is absent from the adjacency map is a
// malformed-wire error; UnmarshalWire does not otherwise re-validate the
// full invariant set (callers that need that should round-trip through
// algebra.Dirty/Commit).
func UnmarshalWire(doc string) (*NExpr, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("exgraph: invalid wire document")
	}
	root := gjson.Get(doc, "rootId")
	if !root.Exists() {
		return nil, fmt.Errorf("exgraph: wire document missing rootId")
	}
	counter := gjson.Get(doc, "counter").String()
	adj := map[string]NodeEntry{}
	gjson.Get(doc, "adj").ForEach(func(key, value gjson.Result) bool {
		entry := NodeEntry{Kind: value.Get("kind").String()}
		children := value.Get("children")
		entry.Children = childRefFromWire(children)
		if out := value.Get("out"); out.Exists() {
			entry.HasOut = true
			entry.Out = out.Value()
		}
		adj[key.String()] = entry
		return true
	})
	for id, entry := range adj {
		for _, child := range entry.Children.FlatIDs() {
			if _, ok := adj[child]; !ok {
				return nil, fmt.Errorf("exgraph: wire document node %q references missing child %q", id, child)
			}
		}
	}
	return MakeNExpr(root.String(), adj, counter), nil
}

func childRefFromWire(v gjson.Result) ChildRef {
	switch {
	case v.IsArray():
		var items []ChildRef
		v.ForEach(func(_, el gjson.Result) bool {
			items = append(items, childRefFromWire(el))
			return true
		})
		return Seq(items...)
	case v.IsObject():
		m := map[string]ChildRef{}
		v.ForEach(func(key, el gjson.Result) bool {
			m[key.String()] = childRefFromWire(el)
			return true
		})
		return Rec(m)
	case v.Exists():
		return Leaf(v.String())
	default:
		return ChildRef{}
	}
}
