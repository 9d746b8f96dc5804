// Package xhash computes a deterministic content hash over an elaborated
// NExpr (spec §4.8): identical programs hash identically (elaboration
// assigns their IDs deterministically, and the counter is not hashed), and
// semantically distinct programs hash differently. Node labels follow an
// order computed from the assigned IDs, so two graphs of the same shape
// whose IDs were assigned differently are not guaranteed to share a hash.
// The hash is used purely for identity, not as a cryptographic commitment.
//
// There is no teacher analogue for this in cel-go (CEL's debug package
// produces a human string, not a content hash), so this component is
// grounded on debug/debug.go's idea of a deterministic, field-ordered
// rendering — generalized into canonical JSON via the wired
// cyberphone/json-canonicalization library and wrapped as an
// opencontainers/go-digest value, both drawn from open-component-model's
// dependency set.
package xhash

import (
	"encoding/json"
	"fmt"
	"sort"

	jsoncanonicalizer "github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	digest "github.com/opencontainers/go-digest"

	"github.com/exgraph/exgraph/algebra"
	"github.com/exgraph/exgraph/graph"
)

// canonicalNode is the JSON shape hashed for one node: field order is
// fixed by struct field order plus encoding/json's own key ordering, and
// no counter/ID-string leaks in except as values inside Children, which
// are themselves relabeled to canonical labels before serialization.
type canonicalNode struct {
	Kind     string `json:"kind"`
	Children any    `json:"children,omitempty"`
	Out      any    `json:"out,omitempty"`
}

// Hash computes the content hash of expr. It fails if expr contains a
// cycle (spec §3 invariant 4) — such a graph could never have been
// produced by elaborate() or a well-formed algebra transformation in the
// first place, so this is a defensive check, not an expected path.
func Hash(expr *graph.NExpr) (digest.Digest, error) {
	if hasCycle, cycle, err := algebra.DetectCycle(expr); err != nil {
		return "", err
	} else if hasCycle {
		return "", fmt.Errorf("exgraph: refusing to hash a graph containing a cycle: %v", cycle)
	}

	canon, err := canonicalize(expr)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(canon)
	if err != nil {
		return "", fmt.Errorf("exgraph: marshaling canonical graph: %w", err)
	}
	transformed, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("exgraph: canonicalizing json: %w", err)
	}
	return digest.FromBytes(transformed), nil
}

// canonicalize relabels every reachable non-alias node ID to a canonical
// label, assigned in the deterministic order algebra.TopologicalOrder
// reports (itself derived from sorted vertex IDs and sorted neighbor
// exploration, so it never depends on map iteration order) — preserving
// the DAG's sharing structure in the hash rather than flattening it into a
// tree, since a shared node appears once in that order and is labeled
// once. Alias entries carry across keyed by their stable "@name", which
// never needs relabeling.
func canonicalize(expr *graph.NExpr) (map[string]any, error) {
	order, err := algebra.TopologicalOrder(expr)
	if err != nil {
		return nil, err
	}
	rank := make(map[string]int, len(order))
	for i, id := range order {
		rank[id] = i
	}

	reachable := map[string]bool{}
	var markReachable func(id string)
	markReachable = func(id string) {
		if reachable[id] {
			return
		}
		reachable[id] = true
		for _, child := range expr.Adj[id].Children.FlatIDs() {
			markReachable(child)
		}
	}
	markReachable(expr.RootID)

	aliasNames := make([]string, 0)
	for id := range expr.Adj {
		if graph.IsAlias(id) {
			aliasNames = append(aliasNames, id)
		}
	}
	sort.Strings(aliasNames)
	for _, name := range aliasNames {
		target := expr.Adj[name].Children.FlatIDs()
		if len(target) == 1 {
			markReachable(target[0])
		}
	}

	ids := make([]string, 0, len(reachable))
	for id := range reachable {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return rank[ids[i]] < rank[ids[j]] })

	labels := make(map[string]string, len(ids))
	for i, id := range ids {
		labels[id] = fmt.Sprintf("n%d", i)
	}

	nodes := make(map[string]canonicalNode, len(ids))
	for _, id := range ids {
		entry := expr.Adj[id]
		node := canonicalNode{Kind: entry.Kind}
		if entry.HasOut {
			node.Out = entry.Out
		}
		if !entry.Children.IsEmpty() {
			node.Children = canonicalizeRef(entry.Children, labels)
		}
		nodes[labels[id]] = node
	}

	aliases := map[string]string{}
	for _, name := range aliasNames {
		target := expr.Adj[name].Children.FlatIDs()
		if len(target) == 1 {
			aliases[name] = labels[target[0]]
		}
	}

	return map[string]any{
		"root":    labels[expr.RootID],
		"nodes":   nodes,
		"aliases": aliases,
	}, nil
}

func canonicalizeRef(ref graph.ChildRef, labels map[string]string) any {
	switch {
	case ref.IsLeaf():
		return labels[ref.ID()]
	case ref.IsSeq():
		items := ref.Items()
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = canonicalizeRef(it, labels)
		}
		return out
	case ref.IsRec():
		fields := ref.Fields()
		out := make(map[string]any, len(fields))
		for k, v := range fields {
			out[k] = canonicalizeRef(v, labels)
		}
		return out
	default:
		return nil
	}
}
