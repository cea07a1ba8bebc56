// Package orchestrator runs the Reference-Graph Builder for the base and
// current snapshots concurrently, under one shared deadline, and returns
// both graphs together.
//
// A builder failure on either side is always fatal to the run: this is
// the only concurrency boundary the engine has, and a build timeout or
// builder error aborts the whole run rather than degrading gracefully.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/opencommit/changegraph/internal/model"
	"github.com/opencommit/changegraph/internal/refgraph"
	"golang.org/x/sync/errgroup"
)

// ErrBuildTimeout is returned when the shared deadline elapses before
// both builders finish.
var ErrBuildTimeout = errors.New("orchestrator: reference graph build deadline exceeded")

// ErrBuilderFailure wraps a non-timeout error returned by either
// builder. The original error is available via errors.Unwrap.
type ErrBuilderFailure struct {
	Version refgraph.Version
	Err     error
}

func (e *ErrBuilderFailure) Error() string {
	return "orchestrator: " + e.Version.String() + " builder failed: " + e.Err.Error()
}

func (e *ErrBuilderFailure) Unwrap() error { return e.Err }

// GraphPair holds the two reference graphs produced by one orchestrator
// run. Once returned, both graphs are immutable: the Orchestrator never
// hands out a graph that a cancelled goroutine might still be writing
// to — each builder owns its own Graph value for the whole of its
// goroutine and only publishes it on successful return.
type GraphPair struct {
	Base       *refgraph.Graph
	Current    *refgraph.Graph
	Diagnostics []model.Diagnostic
}

// Orchestrator runs the base and current Reference-Graph Builds as
// exactly two parallel workers.
type Orchestrator struct {
	baseDir    string
	currentDir string
	builder    *refgraph.Builder
	deadline   time.Duration
}

// New returns an Orchestrator that builds both versions' graphs from the
// given directories using one shared Builder (and therefore one shared
// Parser — the Parser itself must be safe for concurrent use, per
// refgraph.Builder's own doc comment).
func New(builder *refgraph.Builder, baseDir, currentDir string, deadline time.Duration) *Orchestrator {
	return &Orchestrator{
		baseDir:    baseDir,
		currentDir: currentDir,
		builder:    builder,
		deadline:   deadline,
	}
}

// Run builds the base and current reference graphs concurrently and
// returns them together. If the shared deadline elapses before both
// finish, or either builder returns a non-context error, Run returns a
// nil GraphPair and a fatal error (ErrBuildTimeout or *ErrBuilderFailure)
// — there is no partial/degraded result for this stage.
func (o *Orchestrator) Run(ctx context.Context, diffFiles []model.DiffFile) (*GraphPair, error) {
	ctx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	var baseGraph, currentGraph *refgraph.Graph
	var baseDiag, currentDiag []model.Diagnostic

	g.Go(func() error {
		graph, diag, err := o.builder.Build(gCtx, o.baseDir, diffFiles, refgraph.VersionBase)
		if err != nil {
			return wrapBuildErr(refgraph.VersionBase, err)
		}
		baseGraph, baseDiag = graph, diag
		return nil
	})

	g.Go(func() error {
		graph, diag, err := o.builder.Build(gCtx, o.currentDir, diffFiles, refgraph.VersionCurrent)
		if err != nil {
			return wrapBuildErr(refgraph.VersionCurrent, err)
		}
		currentGraph, currentDiag = graph, diag
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	diagnostics := append(append([]model.Diagnostic{}, baseDiag...), currentDiag...)

	return &GraphPair{
		Base:        baseGraph,
		Current:     currentGraph,
		Diagnostics: diagnostics,
	}, nil
}

func wrapBuildErr(version refgraph.Version, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrBuildTimeout
	}
	return &ErrBuilderFailure{Version: version, Err: err}
}
