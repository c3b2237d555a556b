// Package drift detects whether a filtered document is out of date.
//
// Drift detection compares the files named in a lock file against the
// digests recorded when the output was generated. This allows detecting,
// without re-running the filter, that the input has changed since (stale)
// or that someone edited the generated output by hand (modified).
package drift

import (
	"os"

	"github.com/nebari-dev/specprune/internal/lockfile"
)

// Status represents the drift status of a file or of the whole output.
type Status string

const (
	// StatusClean means the file matches the recorded digest.
	StatusClean Status = "clean"

	// StatusModified means the generated output was edited after generation.
	StatusModified Status = "modified"

	// StatusStale means the input changed, so the output must be regenerated.
	StatusStale Status = "stale"

	// StatusMissing means a tracked file no longer exists.
	StatusMissing Status = "missing"

	// StatusUnknown means drift cannot be determined (e.g., unreadable file).
	StatusUnknown Status = "unknown"
)

// Role says which side of the transform a file is on.
type Role string

const (
	RoleInput  Role = "input"
	RoleOutput Role = "output"
)

// FileStatus represents the drift status of a single file.
type FileStatus struct {
	Path          string `json:"path"`
	Role          Role   `json:"role"`
	Status        Status `json:"status"`
	OriginDigest  string `json:"origin_digest,omitempty"`
	CurrentDigest string `json:"current_digest,omitempty"`
}

// Report is the overall drift status of one filtered output.
type Report struct {
	Overall Status       `json:"overall"`
	Files   []FileStatus `json:"files"`
}

// severity orders statuses for the overall result; higher wins.
var severity = map[Status]int{
	StatusClean:    0,
	StatusModified: 1,
	StatusStale:    2,
	StatusUnknown:  3,
	StatusMissing:  4,
}

// Check compares the files named in lf with their recorded digests.
func Check(lf *lockfile.LockFile) *Report {
	r := &Report{Overall: StatusClean}
	r.add(checkFile(lf.Input.Path, RoleInput, lf.Input.Digest))
	r.add(checkFile(lf.Output.Path, RoleOutput, lf.Output.Digest))
	return r
}

// CompareContent checks the file at path against freshly generated content.
// A difference means the output is stale.
func CompareContent(path string, expected []byte) *Report {
	r := &Report{Overall: StatusClean}
	fs := checkFile(path, RoleOutput, lockfile.ComputeDigest(expected))
	if fs.Status == StatusModified {
		fs.Status = StatusStale
	}
	r.add(fs)
	return r
}

// MarkStale forces the overall status to stale unless something worse was
// already found. Used when the filter settings changed since generation.
func (r *Report) MarkStale() {
	if severity[r.Overall] < severity[StatusStale] {
		r.Overall = StatusStale
	}
}

// IsDrifted returns true unless everything is clean.
func (r *Report) IsDrifted() bool {
	return r.Overall != StatusClean
}

// GetFileStatus returns the status of a tracked file, or nil if not tracked.
func (r *Report) GetFileStatus(role Role) *FileStatus {
	for i := range r.Files {
		if r.Files[i].Role == role {
			return &r.Files[i]
		}
	}
	return nil
}

func (r *Report) add(fs FileStatus) {
	r.Files = append(r.Files, fs)
	if severity[fs.Status] > severity[r.Overall] {
		r.Overall = fs.Status
	}
}

// checkFile checks the drift status of a single file.
func checkFile(path string, role Role, originDigest string) FileStatus {
	content, err := os.ReadFile(path)
	if err != nil {
		status := StatusUnknown
		if os.IsNotExist(err) {
			status = StatusMissing
		}
		return FileStatus{
			Path:         path,
			Role:         role,
			Status:       status,
			OriginDigest: originDigest,
		}
	}

	currentDigest := lockfile.ComputeDigest(content)
	status := StatusClean
	if currentDigest != originDigest {
		status = StatusModified
		if role == RoleInput {
			status = StatusStale
		}
	}

	return FileStatus{
		Path:          path,
		Role:          role,
		Status:        status,
		OriginDigest:  originDigest,
		CurrentDigest: currentDigest,
	}
}
