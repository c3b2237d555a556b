package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/nebari-dev/specprune/internal/drift"
	"github.com/nebari-dev/specprune/internal/lockfile"
	"github.com/nebari-dev/specprune/internal/openapi"
	"github.com/nebari-dev/specprune/internal/postprocess"
)

func (r FilterRequest) validate(needOutput bool) error {
	if r.Input == "" {
		return &ValidationError{Message: "input path is required"}
	}
	if needOutput && r.Output == "" {
		return &ValidationError{Message: "output path is required"}
	}
	if len(r.Paths) == 0 {
		slog.Warn("Path allow-list is empty; output will have no paths or definitions")
	}
	return nil
}

// settings returns the lock file settings of r with defaults resolved.
func (r FilterRequest) settings() lockfile.Settings {
	key := r.FlexibleQueryKey
	if key == "" {
		key = postprocess.DefaultFlexibleQueryKey
	}
	return lockfile.Settings{
		Profile:          r.Profile,
		Paths:            r.Paths,
		PruneTags:        r.PruneTags,
		FlexibleQueryKey: key,
	}
}

// Generate loads the input, filters it, runs the post-processors of the
// requested profile and encodes the result. Nothing is written to disk.
func Generate(req FilterRequest) (*Generated, error) {
	if err := req.validate(false); err != nil {
		return nil, err
	}

	processors, err := postprocess.Profile(req.Profile, postprocess.Options{
		FlexibleQueryKey: req.FlexibleQueryKey,
	})
	if err != nil {
		return nil, err
	}

	input, err := os.ReadFile(req.Input)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", req.Input, err)
	}

	doc, err := openapi.Parse(input, openapi.FormatFromPath(req.Input))
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", req.Input, err)
	}

	result, err := openapi.Filter(doc, openapi.FilterOptions{
		Paths:     req.Paths,
		PruneTags: req.PruneTags,
	})
	if err != nil {
		return nil, fmt.Errorf("filtering %s: %w", req.Input, err)
	}

	if err := postprocess.Run(doc, processors); err != nil {
		return nil, err
	}

	output, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	return &Generated{Document: doc, Result: result, Input: input, Output: output}, nil
}

// Filter runs the full transform and writes the output, plus a lock file when
// req.LockPath is set. The output is only written once everything else
// succeeded.
func Filter(ctx context.Context, req FilterRequest) (*FilterResult, error) {
	if err := req.validate(true); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gen, err := Generate(req)
	if err != nil {
		return nil, err
	}

	if err := openapi.WriteFileAtomic(req.Output, gen.Output); err != nil {
		return nil, err
	}

	res := &FilterResult{
		Result:       gen.Result,
		InputDigest:  lockfile.ComputeDigest(gen.Input),
		OutputDigest: lockfile.ComputeDigest(gen.Output),
	}

	if req.LockPath != "" {
		lf := lockfile.New(req.settings(),
			lockfile.FileRef{Path: req.Input, Digest: res.InputDigest},
			lockfile.FileRef{Path: req.Output, Digest: res.OutputDigest},
		)
		if err := lockfile.WriteFile(req.LockPath, lf); err != nil {
			return nil, err
		}
		res.LockPath = req.LockPath
	}

	slog.Info("Wrote filtered document",
		"input", req.Input,
		"output", req.Output,
		"digest", res.OutputDigest)

	return res, nil
}

// Check reports whether the output of req is up to date. With a lock file
// the recorded digests and settings are compared; without one the output is
// regenerated in memory and compared with the file on disk.
func Check(req FilterRequest) (*drift.Report, error) {
	if err := req.validate(true); err != nil {
		return nil, err
	}

	if req.LockPath != "" {
		lf, err := lockfile.ReadFile(req.LockPath)
		switch {
		case err == nil:
			report := drift.Check(lf)
			if !lf.SameFiles(req.Input, req.Output) {
				slog.Info("Lock file pins different files",
					"lock", req.LockPath, "input", lf.Input.Path, "output", lf.Output.Path)
				report.MarkStale()
			}
			if !lf.SameSettings(req.settings()) {
				slog.Info("Filter settings changed since generation", "lock", req.LockPath)
				report.MarkStale()
			}
			return report, nil
		case errors.Is(err, lockfile.ErrNotFound):
			slog.Debug("No lock file, regenerating to compare", "lock", req.LockPath)
		default:
			return nil, err
		}
	}

	gen, err := Generate(req)
	if err != nil {
		return nil, err
	}
	return drift.CompareContent(req.Output, gen.Output), nil
}
