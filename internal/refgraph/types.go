// Package refgraph builds the directed, typed reference graph of program
// entities for one version (pre- or post-change) of a working set, and
// projects change-hunks onto it.
package refgraph

import "sort"

// EntityKind tags the kind of program entity a Node represents. The exact
// set is determined by the external parser/resolver; these are the kinds
// the engine itself reasons about structurally.
type EntityKind string

const (
	EntityFile      EntityKind = "file"
	EntityPackage   EntityKind = "package"
	EntityType      EntityKind = "type"
	EntityFunction  EntityKind = "function"
	EntityMethod    EntityKind = "method"
	EntityField     EntityKind = "field"
	EntityVariable  EntityKind = "variable"
	EntityInterface EntityKind = "interface"
)

// EdgeKind tags the kind of relationship an Edge represents.
type EdgeKind string

const (
	// Structural edges express containment/declaration.
	EdgeDeclares    EdgeKind = "declares"
	EdgeContains    EdgeKind = "contains"
	EdgeExtends     EdgeKind = "extends"
	EdgeImplements  EdgeKind = "implements"

	// Non-structural edges express use.
	EdgeCalls          EdgeKind = "calls"
	EdgeReads          EdgeKind = "reads"
	EdgeWrites         EdgeKind = "writes"
	EdgeReferencesType EdgeKind = "references-type"
	EdgeOverridesTarget EdgeKind = "overrides-target"
)

var structuralKinds = map[EdgeKind]bool{
	EdgeDeclares:   true,
	EdgeContains:   true,
	EdgeExtends:    true,
	EdgeImplements: true,
}

// IsStructural reports whether this edge kind expresses containment or
// declaration, as opposed to use.
func (k EdgeKind) IsStructural() bool {
	return structuralKinds[k]
}

// Node is a single program entity discovered by the external parser, plus
// the engine's own change-projection fields.
type Node struct {
	// ID is a stable, deterministic integer assigned during the build
	// (assignment order is the node discovery order: DiffFile order, then
	// the order the Parser returns entities in, see Builder).
	ID int

	Kind EntityKind

	// QualifiedName identifies the entity within the graph (e.g.
	// "pkg.Type.Method").
	QualifiedName string

	RelativeFilePath string
	StartLine        int
	EndLine          int

	// IsInDiffHunk is true iff this node's source range overlaps any
	// DiffHunk's line range in this version.
	IsInDiffHunk bool

	// DiffHunkIndex is the UniqueIndex ("fileIndex:hunkIndex") of the
	// first overlapping hunk, tie-broken by smallest (fileIndex,
	// hunkIndex). Empty iff IsInDiffHunk is false.
	DiffHunkIndex string
}

// Edge is a directed, typed relationship between two Nodes, referenced by
// id (the graph owns no pointers into Node).
type Edge struct {
	ID       int
	Kind     EdgeKind
	FromID   int
	ToID     int
}

// Graph is the directed typed reference graph for one version of a
// working set. It is built once by a Builder and then treated as
// immutable by the rest of the engine.
type Graph struct {
	nodes []Node
	edges []Edge

	// outgoing/incoming are adjacency lists keyed by node id, built once
	// at construction time (AddEdge keeps them in sync) for O(1) neighbor
	// queries.
	outgoing map[int][]int // node id -> edge indices
	incoming map[int][]int // node id -> edge indices
}

// NewGraph returns an empty graph ready to accept nodes and edges.
func NewGraph() *Graph {
	return &Graph{
		outgoing: make(map[int][]int),
		incoming: make(map[int][]int),
	}
}

// AddNode appends a node and assigns it the next deterministic id (its
// index in insertion order). Returns the assigned id.
func (g *Graph) AddNode(n Node) int {
	n.ID = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return n.ID
}

// AddEdge appends an edge and assigns it the next deterministic id.
func (g *Graph) AddEdge(kind EdgeKind, fromID, toID int) int {
	e := Edge{ID: len(g.edges), Kind: kind, FromID: fromID, ToID: toID}
	g.edges = append(g.edges, e)
	idx := len(g.edges) - 1
	g.outgoing[fromID] = append(g.outgoing[fromID], idx)
	g.incoming[toID] = append(g.incoming[toID], idx)
	return e.ID
}

// setNode overwrites the node at n.ID in place. Used only by the Builder
// while projecting diff hunks onto already-added nodes; the graph is
// otherwise append-only.
func (g *Graph) setNode(n Node) {
	g.nodes[n.ID] = n
}

// Nodes returns all nodes in deterministic id order.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns all edges in deterministic id order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Node returns the node with the given id. The second return is false if
// no such node exists.
func (g *Graph) Node(id int) (Node, bool) {
	if id < 0 || id >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// NeighborsUndirected returns the ids of all nodes reachable from id via
// exactly one edge, either direction, deduplicated and sorted for
// deterministic iteration.
func (g *Graph) NeighborsUndirected(id int) []int {
	seen := make(map[int]bool)
	for _, ei := range g.outgoing[id] {
		seen[g.edges[ei].ToID] = true
	}
	for _, ei := range g.incoming[id] {
		seen[g.edges[ei].FromID] = true
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// NodesInDiffHunks returns the ids of all nodes with IsInDiffHunk set,
// sorted ascending for deterministic iteration.
func (g *Graph) NodesInDiffHunks() []int {
	var out []int
	for _, n := range g.nodes {
		if n.IsInDiffHunk {
			out = append(out, n.ID)
		}
	}
	sort.Ints(out)
	return out
}
