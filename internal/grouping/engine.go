package grouping

import (
	"fmt"
	"sort"

	"github.com/opencommit/changegraph/internal/linkanalysis"
	"github.com/opencommit/changegraph/internal/model"
	"github.com/opencommit/changegraph/internal/refgraph"
)

// Group is one commit-candidate: an ordered list of composite keys that
// together form a partition cell of the full DiffHunk set.
type Group struct {
	GroupID     string
	DiffHunkIDs []string

	// IntentLabel is an optional human-readable summary of what this
	// group changes. Never set by the engine itself; left for an
	// external collaborator to fill in before export.
	IntentLabel string
}

// hunkRef is the per-hunk bookkeeping the engine threads from input
// DiffFiles through to group assignment.
type hunkRef struct {
	uniqueIndex  string
	compositeKey string
	isSource     bool
}

// BuildGroups runs the full construction order: reserve group0 for
// non-source hunks (if processNonJavaChanges and any exist), insert
// source DiffNodes, invoke the Hunk-Link Analyzer, compute connected
// components, and emit one group per component of size ≥ 2 plus a final
// singletons bucket.
//
// pair is the orchestrator's (baseGraph, currentGraph) result;
// similarityThreshold and processNonJavaChanges are the engine's tuning
// parameters (root Config).
func BuildGroups(files []model.DiffFile, pair GraphPair, similarityThreshold float64, processNonJavaChanges bool) (map[string]*Group, []model.Diagnostic) {
	var diagnostics []model.Diagnostic

	refs := make([]hunkRef, 0)
	for fileIndex, f := range files {
		for hunkIndex, h := range f.Hunks {
			uidx := fmt.Sprintf("%d:%d", fileIndex, hunkIndex)
			key := model.CompositeKey(f.FileID, h.DiffHunkID)
			if key == ":" || f.FileID == "" || h.DiffHunkID == "" {
				diagnostics = append(diagnostics, model.Diagnostic{
					Kind:         model.DiagnosticInvalidIdentifier,
					CompositeKey: key,
					Message:      "hunk missing fileID or diffHunkID",
				})
				continue
			}
			refs = append(refs, hunkRef{
				uniqueIndex:  uidx,
				compositeKey: key,
				isSource:     f.FileType == model.FileTypeSource,
			})
		}
	}

	groups := make(map[string]*Group)
	groupCount := 0

	var nonSource []hunkRef
	var source []hunkRef
	for _, r := range refs {
		if r.isSource {
			source = append(source, r)
		} else {
			nonSource = append(nonSource, r)
		}
	}

	if processNonJavaChanges && len(nonSource) > 0 {
		sort.Slice(nonSource, func(i, j int) bool { return lessUniqueIndex(nonSource[i].uniqueIndex, nonSource[j].uniqueIndex) })
		ids := make([]string, 0, len(nonSource))
		for _, r := range nonSource {
			ids = append(ids, r.compositeKey)
		}
		groupID := fmt.Sprintf("group%d", groupCount)
		groups[groupID] = &Group{GroupID: groupID, DiffHunkIDs: ids}
		groupCount++
	}

	if len(source) == 0 {
		return groups, diagnostics
	}

	dg := NewGraph()
	for _, r := range source {
		dg.AddNode(r.uniqueIndex, r.compositeKey)
	}

	hardLinks := mergeHardLinks(pair.Base, pair.Current)
	for _, hl := range hardLinks {
		from, fromOK := dg.NodeByUniqueIndex(hl.A)
		to, toOK := dg.NodeByUniqueIndex(hl.B)
		if !fromOK || !toOK {
			continue
		}
		dg.AddEdge(LinkHard, from, to, 1.0)
	}

	hunkTexts := linkanalysis.HunkTextsFromDiffFiles(files)
	softLinks := linkanalysis.DeriveSoftLinks(hunkTexts, similarityThreshold)
	for _, sl := range softLinks {
		from, fromOK := dg.NodeByUniqueIndex(sl.A)
		to, toOK := dg.NodeByUniqueIndex(sl.B)
		if !fromOK || !toOK {
			continue
		}
		dg.AddEdge(LinkSoft, from, to, sl.Score)
	}

	nodeByID := make(map[int]DiffNode, len(dg.Nodes()))
	for _, n := range dg.Nodes() {
		nodeByID[n.ID] = n
	}

	components := dg.ConnectedComponents()

	var singletons []string
	for _, component := range components {
		members := make([]DiffNode, 0, len(component))
		for _, id := range component {
			members = append(members, nodeByID[id])
		}
		sort.Slice(members, func(i, j int) bool {
			return lessUniqueIndex(members[i].UniqueIndex, members[j].UniqueIndex)
		})

		if len(members) >= 2 {
			keys := make([]string, len(members))
			for i, m := range members {
				keys[i] = m.CompositeKey
			}
			groupID := fmt.Sprintf("group%d", groupCount)
			groups[groupID] = &Group{GroupID: groupID, DiffHunkIDs: keys}
			groupCount++
		} else {
			singletons = append(singletons, members[0].CompositeKey)
		}
	}

	if len(singletons) > 0 {
		groupID := fmt.Sprintf("group%d", groupCount)
		groups[groupID] = &Group{GroupID: groupID, DiffHunkIDs: singletons}
		groupCount++
	}

	return groups, diagnostics
}

// lessUniqueIndex orders "<fileIndex>:<hunkIndex>" strings numerically,
// not lexicographically (so "2:0" sorts before "10:0").
func lessUniqueIndex(a, b string) bool {
	af, ah := splitUniqueIndex(a)
	bf, bh := splitUniqueIndex(b)
	if af != bf {
		return af < bf
	}
	return ah < bh
}

func splitUniqueIndex(s string) (int, int) {
	var f, h int
	fmt.Sscanf(s, "%d:%d", &f, &h)
	return f, h
}

// GraphPair is the subset of orchestrator.GraphPair the Grouping Engine
// needs; declared locally so that this package depends on
// refgraph.Graph only and not on the orchestrator package.
type GraphPair struct {
	Base    *refgraph.Graph
	Current *refgraph.Graph
}

func mergeHardLinks(base, current *refgraph.Graph) []linkanalysis.HardLinkPair {
	seen := make(map[string]linkanalysis.HardLinkPair)
	add := func(pairs []linkanalysis.HardLinkPair) {
		for _, p := range pairs {
			a, b := p.A, p.B
			if a > b {
				a, b = b, a
			}
			seen[a+"|"+b] = linkanalysis.HardLinkPair{A: a, B: b}
		}
	}
	if base != nil {
		add(linkanalysis.DeriveHardLinks(base))
	}
	if current != nil {
		add(linkanalysis.DeriveHardLinks(current))
	}
	out := make([]linkanalysis.HardLinkPair, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	return out
}
