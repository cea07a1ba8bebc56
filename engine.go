package changegraph

import (
	"context"
	"time"

	"github.com/opencommit/changegraph/internal/grouping"
	"github.com/opencommit/changegraph/internal/model"
	"github.com/opencommit/changegraph/internal/obslog"
	"github.com/opencommit/changegraph/internal/orchestrator"
	"github.com/opencommit/changegraph/internal/refgraph"
)

// AnalyzeResult is the output of one Analyze run: the computed groups
// plus the diagnostics and metadata that travel alongside them.
type AnalyzeResult struct {
	APIVersion string `json:"api_version"`

	// Groups maps groupID to Group.
	Groups map[string]*grouping.Group `json:"-"`

	Diagnostics []model.Diagnostic `json:"diagnostics,omitempty"`

	// Truncated is reserved for a future result-size cap; this engine
	// never truncates output today (it has no size-based cutoff), so
	// it is always false, carried for forward JSON compatibility with
	// a result consumer that already expects the field.
	Truncated bool `json:"truncated"`

	DurationMs int64 `json:"duration_ms"`
}

// Engine wires the Reference-Graph Builder, Two-Version Orchestrator,
// Hunk-Link Analyzer, and Grouping Engine together behind a single
// Analyze entry point.
type Engine struct {
	config Config
	parser refgraph.Parser
	logger *obslog.Logger
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithLogger overrides the Engine's logger. Defaults to obslog.Default().
func WithLogger(logger *obslog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New returns an Engine that resolves source entities via parser and
// applies config's tuning parameters. config is validated eagerly;
// callers that want a zero-config Engine should pass DefaultConfig().
func New(config Config, parser refgraph.Parser, opts ...Option) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{config: config, parser: parser, logger: obslog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Analyze runs the full pipeline: builds the base and current reference
// graphs concurrently (Two-Version Orchestrator), derives hard and soft
// inter-hunk links (Hunk-Link Analyzer), and partitions hunks into
// groups (Grouping Engine).
//
// If diffFiles is empty, Analyze returns immediately with an empty
// group map and an InputEmpty diagnostic — no builder runs, no deadline
// is started.
func (e *Engine) Analyze(ctx context.Context, diffFiles []model.DiffFile, baseDir, currentDir string) (*AnalyzeResult, error) {
	start := time.Now()

	totalHunks := 0
	for _, f := range diffFiles {
		totalHunks += len(f.Hunks)
	}
	if len(diffFiles) == 0 || totalHunks == 0 {
		e.logger.Info("analyze: empty input", "files", len(diffFiles))
		return &AnalyzeResult{
			APIVersion: APIVersion,
			Groups:     map[string]*grouping.Group{},
			Diagnostics: []model.Diagnostic{{
				Kind:    model.DiagnosticInputEmpty,
				Message: "no DiffFiles or no DiffHunks",
			}},
			DurationMs: time.Since(start).Milliseconds(),
		}, nil
	}

	diffFiles = cloneDiffFiles(diffFiles)
	model.EnsureIDs(diffFiles)

	builder := refgraph.NewBuilder(e.parser)
	orch := orchestrator.New(builder, baseDir, currentDir, e.config.deadline())

	pair, err := orch.Run(ctx, diffFiles)
	if err != nil {
		e.logger.Error("analyze: reference graph build failed", "error", err)
		return nil, err
	}

	groups, diagnostics := grouping.BuildGroups(
		diffFiles,
		grouping.GraphPair{Base: pair.Base, Current: pair.Current},
		e.config.SimilarityThreshold,
		e.config.ProcessNonJavaChanges,
	)
	diagnostics = append(pair.Diagnostics, diagnostics...)

	e.logger.Info("analyze: complete", "groups", len(groups), "diagnostics", len(diagnostics))

	return &AnalyzeResult{
		APIVersion:  APIVersion,
		Groups:      groups,
		Diagnostics: diagnostics,
		DurationMs:  time.Since(start).Milliseconds(),
	}, nil
}

// cloneDiffFiles makes a defensive copy of files and their Hunks
// slices, so EnsureIDs filling in missing opaque identifiers never
// mutates the caller's own DiffFile values.
func cloneDiffFiles(files []model.DiffFile) []model.DiffFile {
	out := make([]model.DiffFile, len(files))
	for i, f := range files {
		out[i] = f
		out[i].Hunks = append([]model.DiffHunk(nil), f.Hunks...)
	}
	return out
}
