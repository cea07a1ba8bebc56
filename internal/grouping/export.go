package grouping

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// GroupDocument is the stable JSON shape for one exported Group.
// RepoID/RepoName are supplied by the caller (the engine has no notion
// of "repo"; it's an external Change Model concern) —
// CommitMsg/RecommendedCommitMsgs are left for an external commit-message
// synthesizer to fill in.
type GroupDocument struct {
	RepoID                string   `json:"repoID"`
	RepoName              string   `json:"repoName"`
	GroupID               string   `json:"groupID"`
	DiffHunkIDs           []string `json:"diffHunkIDs"`
	IntentLabel           string   `json:"intentLabel,omitempty"`
	CommitMsg             string   `json:"commitMsg,omitempty"`
	RecommendedCommitMsgs []string `json:"recommendedCommitMsgs,omitempty"`
}

// ExportJSON renders groups as a JSON array of GroupDocuments, ordered
// by groupID ("group0", "group1", ...), each DiffHunkIDs array already
// sorted by (fileIndex, hunkIndex) from BuildGroups — so output is
// byte-identical across runs given identical input.
func ExportJSON(groups map[string]*Group, repoID, repoName string) ([]byte, error) {
	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return groupOrdinal(ids[i]) < groupOrdinal(ids[j]) })

	docs := make([]GroupDocument, 0, len(groups))
	for _, id := range ids {
		g := groups[id]
		docs = append(docs, GroupDocument{
			GroupID:     g.GroupID,
			DiffHunkIDs: g.DiffHunkIDs,
			IntentLabel: g.IntentLabel,
			RepoID:      repoID,
			RepoName:    repoName,
		})
	}
	return json.MarshalIndent(docs, "", "  ")
}

func groupOrdinal(groupID string) int {
	var n int
	fmt.Sscanf(groupID, "group%d", &n)
	return n
}

// ExportDOT renders the diff-hunk graph as a Graphviz DOT document for
// debugging. No graphviz dependency is wired in: the format is a
// handful of well-known literal tokens, not a rendering problem, so
// plain fmt.Fprintf-style string building covers it without needing a
// client library and a server to feed it to.
func ExportDOT(g *Graph) string {
	var b strings.Builder
	b.WriteString("graph diffhunks {\n")

	nodes := append([]DiffNode(nil), g.Nodes()...)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, n := range nodes {
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.CompositeKey, n.UniqueIndex)
	}

	edges := append([]DiffEdge(nil), g.Edges()...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	byID := make(map[int]DiffNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, e := range edges {
		style := "solid"
		if e.Kind == LinkSoft {
			style = "dashed"
		}
		fmt.Fprintf(&b, "  %q -- %q [label=%q, style=%s, weight=%.2f];\n",
			byID[e.FromID].CompositeKey, byID[e.ToID].CompositeKey, string(e.Kind), style, e.Weight)
	}

	b.WriteString("}\n")
	return b.String()
}
