// Package postprocess stamps vendor-specific metadata onto a filtered
// document. Each vendor family is a named profile made of processors that run
// in order.
package postprocess

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nebari-dev/specprune/internal/openapi"
)

// DefaultFlexibleQueryKey is the vendor extension marking GET operations that
// accept flexible query parameters.
const DefaultFlexibleQueryKey = "x-flexible-query"

const (
	ProfilePowerStore = "powerstore"
	ProfileNone       = "none"
)

// ErrUnknownProfile is returned for a profile name that is not registered.
var ErrUnknownProfile = errors.New("unknown post-processing profile")

// Processor mutates a document after filtering.
type Processor interface {
	Name() string
	Process(doc *openapi.Document) error
}

// Options tunes the processors built for a profile.
type Options struct {
	FlexibleQueryKey string
}

// Profile returns the processors registered under name.
func Profile(name string, opts Options) ([]Processor, error) {
	key := opts.FlexibleQueryKey
	if key == "" {
		key = DefaultFlexibleQueryKey
	}

	switch strings.ToLower(name) {
	case ProfilePowerStore:
		return []Processor{OperationIDs{}, FlexibleQuery{Key: key}}, nil
	case ProfileNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(Profiles(), ", "))
	}
}

// Profiles lists the registered profile names.
func Profiles() []string {
	names := []string{ProfilePowerStore, ProfileNone}
	sort.Strings(names)
	return names
}

// Run applies processors to doc in order.
func Run(doc *openapi.Document, processors []Processor) error {
	for _, p := range processors {
		slog.Debug("Running post-processor", "processor", p.Name())
		if err := p.Process(doc); err != nil {
			return fmt.Errorf("post-processor %s: %w", p.Name(), err)
		}
	}
	return nil
}
