package grouping

import (
	"encoding/json"
	"testing"

	"github.com/opencommit/changegraph/internal/model"
	"github.com/opencommit/changegraph/internal/refgraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkFile(fileID string, fileType model.FileType, hunks ...model.DiffHunk) model.DiffFile {
	return model.DiffFile{FileID: fileID, FileType: fileType, Hunks: hunks}
}

func mkHunk(id string, baseLines, currentLines []string) model.DiffHunk {
	return model.DiffHunk{
		DiffHunkID:  id,
		BaseHunk:    model.CodeRange{StartLine: 1, EndLine: len(baseLines), Lines: baseLines},
		CurrentHunk: model.CodeRange{StartLine: 1, EndLine: len(currentLines), Lines: currentLines},
	}
}

// Singleton change: one file, one hunk, no links at all.
func TestBuildGroupsSingleton(t *testing.T) {
	files := []model.DiffFile{
		mkFile("f1", model.FileTypeSource, mkHunk("h1", []string{"old"}, []string{"new"})),
	}
	groups, diags := BuildGroups(files, GraphPair{}, linkanalysisThreshold(), true)
	require.Empty(t, diags)
	require.Len(t, groups, 1)
	g := groups["group0"]
	require.NotNil(t, g)
	assert.Equal(t, []string{"f1:h1"}, g.DiffHunkIDs)
}

// Def/use hard link: two source hunks whose nodes are connected in the
// reference graph produce a single two-member group.
func TestBuildGroupsHardLinkedPair(t *testing.T) {
	files := []model.DiffFile{
		mkFile("f1", model.FileTypeSource, mkHunk("h1", []string{"func foo() int { return 1 }"}, []string{"func foo() int { return 2 }"})),
		mkFile("f2", model.FileTypeSource, mkHunk("h2", []string{"foo()"}, []string{"foo()"})),
	}

	base := refgraph.NewGraph()
	a := base.AddNode(refgraph.Node{Kind: refgraph.EntityFunction, QualifiedName: "pkg.foo", IsInDiffHunk: true, DiffHunkIndex: "0:0"})
	b := base.AddNode(refgraph.Node{Kind: refgraph.EntityFunction, QualifiedName: "pkg.caller", IsInDiffHunk: true, DiffHunkIndex: "1:0"})
	base.AddEdge(refgraph.EdgeCalls, b, a)

	pair := GraphPair{Base: base, Current: base}

	groups, diags := BuildGroups(files, pair, linkanalysisThreshold(), true)
	require.Empty(t, diags)
	require.Len(t, groups, 1)
	g := groups["group0"]
	require.NotNil(t, g)
	assert.ElementsMatch(t, []string{"f1:h1", "f2:h2"}, g.DiffHunkIDs)
}

// Systematic edit: three hunks with identical equal-length snippets
// form a soft-linked triangle and end up in one group.
func TestBuildGroupsSoftLinkTriangle(t *testing.T) {
	files := []model.DiffFile{
		mkFile("f1", model.FileTypeSource, mkHunk("h1", []string{"x = 1;"}, []string{"x = 2;"})),
		mkFile("f2", model.FileTypeSource, mkHunk("h2", []string{"x = 1;"}, []string{"x = 2;"})),
		mkFile("f3", model.FileTypeSource, mkHunk("h3", []string{"x = 1;"}, []string{"x = 2;"})),
	}

	groups, diags := BuildGroups(files, GraphPair{}, 0.618, true)
	require.Empty(t, diags)
	require.Len(t, groups, 1)
	g := groups["group0"]
	require.NotNil(t, g)
	assert.ElementsMatch(t, []string{"f1:h1", "f2:h2", "f3:h3"}, g.DiffHunkIDs)
}

// Mixed: one non-source hunk, two linked source hunks, one isolated
// source hunk, with processNonJavaChanges = true.
func TestBuildGroupsMixed(t *testing.T) {
	files := []model.DiffFile{
		mkFile("cfg", model.FileTypeNonSource, mkHunk("c1", []string{"key: old"}, []string{"key: new"})),
		mkFile("f1", model.FileTypeSource, mkHunk("h1", []string{"x = 1;"}, []string{"x = 2;"})),
		mkFile("f2", model.FileTypeSource, mkHunk("h2", []string{"x = 1;"}, []string{"x = 2;"})),
		mkFile("f3", model.FileTypeSource, mkHunk("h3", []string{"totally unrelated isolated content"}, []string{"totally unrelated isolated content v2"})),
	}

	groups, diags := BuildGroups(files, GraphPair{}, 0.618, true)
	require.Empty(t, diags)
	require.Len(t, groups, 3)

	require.NotNil(t, groups["group0"])
	assert.Equal(t, []string{"cfg:c1"}, groups["group0"].DiffHunkIDs)

	require.NotNil(t, groups["group1"])
	assert.ElementsMatch(t, []string{"f1:h1", "f2:h2"}, groups["group1"].DiffHunkIDs)

	require.NotNil(t, groups["group2"])
	assert.Equal(t, []string{"f3:h3"}, groups["group2"].DiffHunkIDs)
}

// processNonJavaChanges = false omits non-source hunks from output
// entirely (no group0, no orphaned reference to them anywhere).
func TestBuildGroupsNonSourceOmittedWhenDisabled(t *testing.T) {
	files := []model.DiffFile{
		mkFile("cfg", model.FileTypeNonSource, mkHunk("c1", []string{"key: old"}, []string{"key: new"})),
		mkFile("f1", model.FileTypeSource, mkHunk("h1", []string{"a"}, []string{"b"})),
	}

	groups, _ := BuildGroups(files, GraphPair{}, 0.618, false)
	require.Len(t, groups, 1)
	for _, g := range groups {
		assert.NotContains(t, g.DiffHunkIDs, "cfg:c1")
	}
}

// Partition law: every input hunk appears in exactly one output group.
func TestBuildGroupsPartitionLaw(t *testing.T) {
	files := []model.DiffFile{
		mkFile("f1", model.FileTypeSource, mkHunk("h1", []string{"a"}, []string{"b"})),
		mkFile("f2", model.FileTypeSource, mkHunk("h2", []string{"c"}, []string{"d"})),
		mkFile("f3", model.FileTypeSource, mkHunk("h3", []string{"e"}, []string{"f"})),
	}

	groups, _ := BuildGroups(files, GraphPair{}, 0.618, true)

	var allKeys []string
	for _, g := range groups {
		allKeys = append(allKeys, g.DiffHunkIDs...)
	}
	assert.ElementsMatch(t, []string{"f1:h1", "f2:h2", "f3:h3"}, allKeys)
}

func TestBuildGroupsInvalidIdentifierSkipped(t *testing.T) {
	files := []model.DiffFile{
		mkFile("", model.FileTypeSource, mkHunk("", []string{"a"}, []string{"b"})),
		mkFile("f2", model.FileTypeSource, mkHunk("h2", []string{"c"}, []string{"d"})),
	}

	groups, diags := BuildGroups(files, GraphPair{}, 0.618, true)
	require.Len(t, diags, 1)
	assert.Equal(t, model.DiagnosticInvalidIdentifier, diags[0].Kind)

	var allKeys []string
	for _, g := range groups {
		allKeys = append(allKeys, g.DiffHunkIDs...)
	}
	assert.Equal(t, []string{"f2:h2"}, allKeys)
}

func TestConnectedComponentsDeterministicUnderReversedEdgeOrder(t *testing.T) {
	build := func(reversed bool) [][]int {
		g := NewGraph()
		a := g.AddNode("0:0", "f:a")
		b := g.AddNode("0:1", "f:b")
		c := g.AddNode("0:2", "f:c")
		edges := [][2]int{{a, b}, {b, c}}
		if reversed {
			edges[0], edges[1] = edges[1], edges[0]
		}
		for _, e := range edges {
			g.AddEdge(LinkHard, e[0], e[1], 1.0)
		}
		return g.ConnectedComponents()
	}

	assert.Equal(t, build(false), build(true))
}

func TestExportJSONOrdersByGroupOrdinal(t *testing.T) {
	groups := map[string]*Group{
		"group10": {GroupID: "group10", DiffHunkIDs: []string{"f:a"}},
		"group2":  {GroupID: "group2", DiffHunkIDs: []string{"f:b"}},
		"group0":  {GroupID: "group0", DiffHunkIDs: []string{"f:c"}},
	}
	data, err := ExportJSON(groups, "repo1", "myrepo")
	require.NoError(t, err)

	var docs []GroupDocument
	require.NoError(t, json.Unmarshal(data, &docs))
	require.Len(t, docs, 3)
	assert.Equal(t, "group0", docs[0].GroupID)
	assert.Equal(t, "group2", docs[1].GroupID)
	assert.Equal(t, "group10", docs[2].GroupID)
}

func linkanalysisThreshold() float64 { return 0.618 }
