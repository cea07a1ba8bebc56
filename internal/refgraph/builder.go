package refgraph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/opencommit/changegraph/internal/model"
)

// Version selects which side of each DiffHunk's CodeRange a Builder
// projects against, and implicitly which content a file snapshot holds.
type Version int

const (
	// VersionBase builds the reference graph for the pre-change snapshot.
	VersionBase Version = iota

	// VersionCurrent builds the reference graph for the post-change
	// snapshot.
	VersionCurrent
)

// String implements fmt.Stringer.
func (v Version) String() string {
	if v == VersionBase {
		return "base"
	}
	return "current"
}

// Builder consumes one version's snapshot directory and the full ordered
// DiffFile list, and produces a deterministic Graph with isInDiffHunk
// projection applied.
//
// Builder is single-threaded by design: all concurrency lives one level
// up, in the orchestrator that drives the base and current builds. A
// Builder instance holds no mutable state between calls to Build and is
// safe to reuse (including concurrently, from two orchestrator
// goroutines) as long as the injected Parser is itself safe for
// concurrent use.
type Builder struct {
	parser Parser
}

// NewBuilder returns a Builder that delegates entity/relation extraction
// to parser.
func NewBuilder(parser Parser) *Builder {
	return &Builder{parser: parser}
}

// Build parses every source DiffFile's content for the given version from
// dir, links entities into a single deterministic Graph, and projects
// diffFiles' hunks onto it.
//
// A parse failure on one file is recorded as a ParseFailure diagnostic and
// does not abort the build; an empty graph is valid output if every file
// fails to parse. A Parse error that arrives after ctx is done is not
// treated as a parse failure: Build then returns ctx's error and no graph.
func (b *Builder) Build(ctx context.Context, dir string, diffFiles []model.DiffFile, version Version) (*Graph, []model.Diagnostic, error) {
	g := NewGraph()
	var diagnostics []model.Diagnostic

	byQualifiedName := make(map[string]int)
	var relations []ParsedRelation

	for fileIndex, f := range diffFiles {
		if f.FileType != model.FileTypeSource {
			continue
		}
		select {
		case <-ctx.Done():
			return nil, diagnostics, ctx.Err()
		default:
		}

		out, diag, ok := b.parseFile(ctx, dir, f)
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, diagnostics, err
			}
			diagnostics = append(diagnostics, diag)
			continue
		}

		for _, ent := range out.Entities {
			id := g.AddNode(Node{
				Kind:             ent.Kind,
				QualifiedName:    ent.QualifiedName,
				RelativeFilePath: ent.RelativeFilePath,
				StartLine:        ent.StartLine,
				EndLine:          ent.EndLine,
			})
			// First declaration wins on qualified-name collisions,
			// keeping node id assignment (and thus iteration order)
			// the sole source of non-determinism-free tie-breaking.
			if _, exists := byQualifiedName[ent.QualifiedName]; !exists {
				byQualifiedName[ent.QualifiedName] = id
			}
		}

		relations = append(relations, out.Relations...)

		_ = fileIndex // fileIndex is implied by diffFiles ordering; kept for clarity.
	}

	// Relations are resolved once every file's entities are known, so a
	// reference to an entity declared in a later file still links.
	for _, rel := range relations {
		fromID, fromOK := byQualifiedName[rel.FromQualifiedName]
		toID, toOK := byQualifiedName[rel.ToQualifiedName]
		if !fromOK || !toOK {
			// Reference to an entity outside the affected working
			// set (e.g. a stdlib call, or a file that didn't
			// change). Not an error: the graph only needs to span
			// the affected files.
			continue
		}
		g.AddEdge(rel.Kind, fromID, toID)
	}

	projectDiffHunks(g, diffFiles, version)

	return g, diagnostics, nil
}

func (b *Builder) parseFile(ctx context.Context, dir string, f model.DiffFile) (*ParseOutput, model.Diagnostic, bool) {
	content, err := os.ReadFile(filepath.Join(dir, f.RelativeFilePath))
	if err != nil {
		return nil, model.Diagnostic{
			Kind:     model.DiagnosticParseFailure,
			FilePath: f.RelativeFilePath,
			Message:  fmt.Sprintf("reading file: %v", err),
		}, false
	}

	out, err := b.parser.Parse(ctx, f.RelativeFilePath, content)
	if err != nil {
		return nil, model.Diagnostic{
			Kind:     model.DiagnosticParseFailure,
			FilePath: f.RelativeFilePath,
			Message:  fmt.Sprintf("parsing file: %v", err),
		}, false
	}

	return out, model.Diagnostic{}, true
}

// projectDiffHunks sets IsInDiffHunk/DiffHunkIndex on every node whose
// range overlaps a hunk in the given version, first-match-wins in
// (fileIndex, hunkIndex) order — which is exactly the tie-break spec
// §4.1 requires, because diffFiles/Hunks are iterated in that order.
func projectDiffHunks(g *Graph, diffFiles []model.DiffFile, version Version) {
	nodesByFile := make(map[string][]int)
	for _, n := range g.Nodes() {
		nodesByFile[n.RelativeFilePath] = append(nodesByFile[n.RelativeFilePath], n.ID)
	}
	for _, ids := range nodesByFile {
		sort.Ints(ids)
	}

	assigned := make(map[int]bool)

	for fileIndex, f := range diffFiles {
		ids := nodesByFile[f.RelativeFilePath]
		if len(ids) == 0 {
			continue
		}
		for hunkIndex, h := range f.Hunks {
			rng := h.BaseHunk
			if version == VersionCurrent {
				rng = h.CurrentHunk
			}
			if rng.IsEmpty() {
				continue
			}
			uidx := fmt.Sprintf("%d:%d", fileIndex, hunkIndex)
			for _, id := range ids {
				if assigned[id] {
					continue
				}
				n, _ := g.Node(id)
				if n.Overlaps(rng.StartLine, rng.EndLine) {
					n.IsInDiffHunk = true
					n.DiffHunkIndex = uidx
					g.setNode(n)
					assigned[id] = true
				}
			}
		}
	}
}

// Overlaps reports whether the node's own source range overlaps
// [start, end].
func (n Node) Overlaps(start, end int) bool {
	if n.StartLine == 0 && n.EndLine == 0 {
		return false
	}
	return n.StartLine <= end && start <= n.EndLine
}
