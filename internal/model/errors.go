package model

import "errors"

// Sentinel validation errors for the Change Model.
var (
	ErrEmptyHunk     = errors.New("diff hunk has neither base nor current content")
	ErrUnsortedHunks = errors.New("diff hunks are not sorted or overlap")
)
