// Package linkanalysis derives the two kinds of edges the Grouping
// Engine partitions on: hard links (reference-graph connectivity
// between hunks) and soft links (textual similarity between hunks).
package linkanalysis

import (
	"github.com/opencommit/changegraph/internal/refgraph"
)

// unionFind is a standard disjoint-set structure with path compression
// and union by rank, used to compute hunk connected-components from a
// single pass over each reference graph's edges instead of a pairwise
// reachability query per hunk pair.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// HardLinkPair is one unordered pair of diff-hunk unique indexes found
// to be connected via reference-graph reachability in either the base
// or current graph.
type HardLinkPair struct {
	A, B string
}

// DeriveHardLinks computes every pair of distinct diffHunkIndex values
// that share a connected component in graph, restricted to nodes with
// IsInDiffHunk set. A single union-find pass over the graph's edges
// seeds connectivity; hunk indexes are then unioned together per the
// underlying nodes they tag.
//
// Called once per version (base, current); the caller is responsible
// for merging both versions' results (a pair linked in either version
// counts as hard-linked).
func DeriveHardLinks(graph *refgraph.Graph) []HardLinkPair {
	nodes := graph.Nodes()
	uf := newUnionFind(len(nodes))

	for _, e := range graph.Edges() {
		uf.union(e.FromID, e.ToID)
	}

	componentHunks := make(map[int]map[string]bool)
	for _, id := range graph.NodesInDiffHunks() {
		n, ok := graph.Node(id)
		if !ok || n.DiffHunkIndex == "" {
			continue
		}
		root := uf.find(id)
		if componentHunks[root] == nil {
			componentHunks[root] = make(map[string]bool)
		}
		componentHunks[root][n.DiffHunkIndex] = true
	}

	var pairs []HardLinkPair
	for _, hunks := range componentHunks {
		if len(hunks) < 2 {
			continue
		}
		keys := sortedKeys(hunks)
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				pairs = append(pairs, HardLinkPair{A: keys[i], B: keys[j]})
			}
		}
	}
	return pairs
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Simple insertion sort: these sets are small (hunks sharing one
	// component), and avoiding an extra import keeps this file's only
	// dependency the refgraph package it derives links from.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
