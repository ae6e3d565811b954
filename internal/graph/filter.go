package graph

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// RefFilter selects references by glob patterns over their short names
// (e.g. "main", "origin/main", "v1.0").
type RefFilter struct {
	Include []string
	Exclude []string
}

// Validate checks that every pattern is well formed.
func (f RefFilter) Validate() error {
	for _, p := range append(append([]string{}, f.Include...), f.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid ref pattern %q", p)
		}
	}
	return nil
}

// Match reports whether a reference with the given short name is kept.
// Exclude patterns win over include patterns; no include patterns keeps everything.
func (f RefFilter) Match(shortName string) bool {
	for _, pattern := range f.Exclude {
		if matched, _ := doublestar.Match(pattern, shortName); matched {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if matched, _ := doublestar.Match(pattern, shortName); matched {
			return true
		}
	}
	return false
}
