package linkanalysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/opencommit/changegraph/internal/model"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultSimilarityThreshold is the default minimum sim() score at
// which two hunks are considered soft-linked.
const DefaultSimilarityThreshold = 0.618

var dmp = diffmatchpatch.New()

// SoftLinkPair is one unordered pair of diff-hunk unique indexes whose
// textual similarity meets or exceeds the configured threshold.
type SoftLinkPair struct {
	A, B  string
	Score float64
}

// HunkText pairs a diff-hunk's unique index with both versions' code
// snippets, the two inputs the soft-link pass compares.
type HunkText struct {
	Index        string
	BaseLines    []string
	CurrentLines []string
}

// DeriveSoftLinks computes a similarity score for every pair of hunks
// whose base snippets are equal length AND whose current snippets are
// equal length (both sides must match; a mismatch on either side skips
// the pair entirely), and keeps the pairs at or above threshold.
//
// The score is round((simBase + simCurrent) / 2, 2), averaging the
// base-version and current-version similarity rather than comparing a
// single snapshot — a pure rename that only touches the base text and a
// pure addition that only touches the current text both still
// contribute their half to the average instead of silently comparing
// empty strings.
func DeriveSoftLinks(hunks []HunkText, threshold float64) []SoftLinkPair {
	var pairs []SoftLinkPair
	for i := 0; i < len(hunks); i++ {
		for j := i + 1; j < len(hunks); j++ {
			a, b := hunks[i], hunks[j]
			if len(a.BaseLines) != len(b.BaseLines) || len(a.CurrentLines) != len(b.CurrentLines) {
				continue
			}
			if len(a.BaseLines) == 0 && len(a.CurrentLines) == 0 {
				continue
			}

			simBase := similarity(a.BaseLines, b.BaseLines)
			simCurrent := similarity(a.CurrentLines, b.CurrentLines)
			score := round2((simBase + simCurrent) / 2)

			if score >= threshold {
				pairs = append(pairs, SoftLinkPair{A: a.Index, B: b.Index, Score: score})
			}
		}
	}
	return pairs
}

// similarity returns sim(x, y) in [0, 1] for two equal-length line
// snippets via a normalized Levenshtein-ratio over the joined text,
// computed with diffmatchpatch.DiffMain + DiffLevenshtein (grounded on
// JensRoland-blamebot's internal/format/diff.go use of the same
// package). Reflexive (similarity(x, x) == 1) and symmetric; both
// empty inputs are treated as identical.
func similarity(xLines, yLines []string) float64 {
	x := strings.Join(xLines, "\n")
	y := strings.Join(yLines, "\n")
	if x == y {
		return 1
	}

	diffs := dmp.DiffMain(x, y, false)
	distance := dmp.DiffLevenshtein(diffs)

	maxLen := len([]rune(x))
	if yLen := len([]rune(y)); yLen > maxLen {
		maxLen = yLen
	}
	if maxLen == 0 {
		return 1
	}

	score := 1 - float64(distance)/float64(maxLen)
	if score < 0 {
		score = 0
	}
	return score
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// HunkTextsFromDiffFiles flattens every source file's hunks into
// HunkText snippets keyed by their "fileIndex:hunkIndex" unique index.
func HunkTextsFromDiffFiles(files []model.DiffFile) []HunkText {
	var out []HunkText
	for fileIndex, f := range files {
		if f.FileType != model.FileTypeSource {
			continue
		}
		for hunkIndex, h := range f.Hunks {
			// Derived from loop position, not h.FileIndex/h.HunkIndex,
			// matching refgraph.Builder's projection tie-break so the
			// same hunk always gets the same index across packages.
			out = append(out, HunkText{
				Index:        fmt.Sprintf("%d:%d", fileIndex, hunkIndex),
				BaseLines:    h.BaseHunk.Lines,
				CurrentLines: h.CurrentHunk.Lines,
			})
		}
	}
	return out
}
