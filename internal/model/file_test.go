package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffHunkUniqueIndex(t *testing.T) {
	h := DiffHunk{FileIndex: 2, HunkIndex: 5}
	assert.Equal(t, "2:5", h.UniqueIndex())
}

func TestDiffHunkValidate(t *testing.T) {
	t.Run("rejects empty base and current", func(t *testing.T) {
		h := DiffHunk{FileIndex: 0, HunkIndex: 0}
		require.ErrorIs(t, h.Validate(), ErrEmptyHunk)
	})

	t.Run("accepts base-only (pure deletion)", func(t *testing.T) {
		h := DiffHunk{
			BaseHunk: CodeRange{StartLine: 1, EndLine: 2, Lines: []string{"a", "b"}},
		}
		require.NoError(t, h.Validate())
	})

	t.Run("accepts current-only (pure addition)", func(t *testing.T) {
		h := DiffHunk{
			CurrentHunk: CodeRange{StartLine: 1, EndLine: 2, Lines: []string{"a", "b"}},
		}
		require.NoError(t, h.Validate())
	})
}

func TestDiffFileValidate(t *testing.T) {
	mkHunk := func(start, end int) DiffHunk {
		return DiffHunk{
			CurrentHunk: CodeRange{StartLine: start, EndLine: end, Lines: []string{"x"}},
		}
	}

	t.Run("sorted non-overlapping hunks are valid", func(t *testing.T) {
		f := DiffFile{Hunks: []DiffHunk{mkHunk(1, 3), mkHunk(5, 7)}}
		require.NoError(t, f.Validate())
	})

	t.Run("overlapping hunks are rejected", func(t *testing.T) {
		f := DiffFile{Hunks: []DiffHunk{mkHunk(1, 5), mkHunk(4, 7)}}
		require.ErrorIs(t, f.Validate(), ErrUnsortedHunks)
	})

	t.Run("out of order hunks are rejected", func(t *testing.T) {
		f := DiffFile{Hunks: []DiffHunk{mkHunk(5, 7), mkHunk(1, 3)}}
		require.ErrorIs(t, f.Validate(), ErrUnsortedHunks)
	})
}

func TestCodeRangeOverlaps(t *testing.T) {
	r := CodeRange{StartLine: 10, EndLine: 20, Lines: []string{"a"}}
	assert.True(t, r.Overlaps(15, 16))
	assert.True(t, r.Overlaps(5, 10))
	assert.True(t, r.Overlaps(20, 30))
	assert.False(t, r.Overlaps(21, 30))
	assert.False(t, r.Overlaps(1, 9))

	empty := CodeRange{}
	assert.False(t, empty.Overlaps(1, 100))
}

func TestCompositeKey(t *testing.T) {
	assert.Equal(t, "file1:hunk2", CompositeKey("file1", "hunk2"))
}
