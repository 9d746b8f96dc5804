// Package debug renders an elaborated NExpr as a human-readable string or
// as YAML, for inspection and snapshot testing. Adapted from cel-go's
// common/debug package: the same DebugAdorner/DebugWriter split (a writer
// that walks the tree, an adorner that optionally tacks on per-node
// metadata) generalized from cel-go's proto Expr tree to exgraph's
// adjacency-map NExpr.
package debug

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/maruel/natural"

	"github.com/exgraph/exgraph/graph"
)

// Adorner returns debug metadata tacked onto a node's string rendering,
// e.g. its elaborated type tag or fold-time value.
type Adorner interface {
	GetMetadata(id string, entry graph.NodeEntry) string
}

type emptyAdorner struct{}

func (emptyAdorner) GetMetadata(string, graph.NodeEntry) string { return "" }

// ToDebugString renders expr with no adornment.
func ToDebugString(expr *graph.NExpr) string {
	return ToAdornedDebugString(expr, emptyAdorner{})
}

// ToAdornedDebugString renders expr, calling adorner.GetMetadata after each
// node's own text.
func ToAdornedDebugString(expr *graph.NExpr, adorner Adorner) string {
	w := &writer{expr: expr, adorner: adorner, lineStart: true}
	w.buffer(expr.RootID)
	return w.buf.String()
}

// writer mirrors cel-go's debugWriter: an indent-tracking buffer plus a
// pending-newline flag so appends don't pay for indentation on a line with
// nothing written yet.
type writer struct {
	expr      *graph.NExpr
	adorner   Adorner
	buf       bytes.Buffer
	indent    int
	lineStart bool
}

func (w *writer) buffer(id string) {
	entry, ok := w.expr.Adj[id]
	if !ok {
		w.append(fmt.Sprintf("<missing:%s>", id))
		return
	}
	w.append(id)
	w.append(":")
	w.append(entry.Kind)

	switch {
	case entry.HasOut && entry.Children.IsEmpty():
		w.append(fmt.Sprintf("(%#v)", entry.Out))
	case entry.Children.IsSeq():
		w.bufferSeq(entry.Children.Items())
	case entry.Children.IsRec():
		w.bufferRec(entry.Children.Fields())
	case entry.Children.IsLeaf():
		w.append("(")
		w.buffer(entry.Children.ID())
		w.append(")")
	}
	if entry.HasOut && !entry.Children.IsEmpty() {
		w.append(fmt.Sprintf(" out=%#v", entry.Out))
	}
	w.adorn(id, entry)
}

func (w *writer) bufferSeq(items []graph.ChildRef) {
	w.append("(")
	if len(items) > 0 {
		w.addIndent()
		w.newline()
		for i, item := range items {
			if i > 0 {
				w.append(",")
				w.newline()
			}
			w.bufferRef(item)
		}
		w.removeIndent()
		w.newline()
	}
	w.append(")")
}

func (w *writer) bufferRec(fields map[string]graph.ChildRef) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	// natural.Sort orders e.g. "field2" before "field10" the way a human
	// reading a diff expects, instead of lexical "field10" < "field2".
	natural.Sort(keys)

	w.append("{")
	if len(keys) > 0 {
		w.addIndent()
		w.newline()
		for i, k := range keys {
			if i > 0 {
				w.append(",")
				w.newline()
			}
			w.append(k)
			w.append(": ")
			w.bufferRef(fields[k])
		}
		w.removeIndent()
		w.newline()
	}
	w.append("}")
}

func (w *writer) bufferRef(ref graph.ChildRef) {
	switch {
	case ref.IsLeaf():
		w.buffer(ref.ID())
	case ref.IsSeq():
		w.bufferSeq(ref.Items())
	case ref.IsRec():
		w.bufferRec(ref.Fields())
	}
}

func (w *writer) append(s string) {
	w.doIndent()
	w.buf.WriteString(s)
}

func (w *writer) adorn(id string, entry graph.NodeEntry) {
	if meta := w.adorner.GetMetadata(id, entry); meta != "" {
		w.append(" " + meta)
	}
}

func (w *writer) doIndent() {
	if w.lineStart {
		w.lineStart = false
		w.buf.WriteString(strings.Repeat("  ", w.indent))
	}
}

func (w *writer) newline() {
	w.buf.WriteString("\n")
	w.lineStart = true
}

func (w *writer) addIndent()    { w.indent++ }
func (w *writer) removeIndent() { w.indent-- }

// SortedIDs returns expr's node IDs in natural order, for deterministic
// iteration in tests and other dumps.
func SortedIDs(expr *graph.NExpr) []string {
	ids := make([]string, 0, len(expr.Adj))
	for id := range expr.Adj {
		ids = append(ids, id)
	}
	natural.Sort(ids)
	return ids
}
