package service

import "github.com/nebari-dev/specprune/internal/openapi"

// FilterRequest holds parameters for one filter run.
type FilterRequest struct {
	Input            string
	Output           string
	Paths            []string
	Profile          string
	PruneTags        bool
	FlexibleQueryKey string
	LockPath         string // Empty disables the lock file
}

// FilterResult is returned after a successful filter run.
type FilterResult struct {
	Result       *openapi.Result
	InputDigest  string
	OutputDigest string
	LockPath     string // Empty when no lock file was written
}

// Generated is the in-memory outcome of a filter run before anything is
// written to disk.
type Generated struct {
	Document *openapi.Document
	Result   *openapi.Result
	Input    []byte
	Output   []byte
}
