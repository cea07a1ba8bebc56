package model

import "github.com/google/uuid"

// NewOpaqueID generates a fresh opaque identifier suitable for FileID or
// DiffHunkID when the external change source doesn't already provide a
// stable one (e.g. a synthetic DiffFile built in a test, or a change
// source backed by a VCS that doesn't expose stable per-hunk ids).
// Analysis-run scoped only; callers that need identifiers stable across
// runs must supply their own.
func NewOpaqueID() string {
	return uuid.NewString()
}

// EnsureIDs fills in FileID and every hunk's DiffHunkID with a fresh
// NewOpaqueID wherever the caller left them empty, in place.
func EnsureIDs(files []DiffFile) {
	for i := range files {
		if files[i].FileID == "" {
			files[i].FileID = NewOpaqueID()
		}
		for j := range files[i].Hunks {
			if files[i].Hunks[j].DiffHunkID == "" {
				files[i].Hunks[j].DiffHunkID = NewOpaqueID()
			}
		}
	}
}
