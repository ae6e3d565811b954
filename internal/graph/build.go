package graph

import (
	"fmt"

	"github.com/masmgr/gitgraph-go/internal/git"
)

// Options configures Build.
type Options struct {
	Filter           RefFilter
	MinShortIDLength int
	ShowIndex        bool
}

// Result is a built graph plus the warnings recovered along the way.
type Result struct {
	Graph    *Graph
	Warnings []Warning
	// DetachedExtra is the commit included only because HEAD is detached on it.
	DetachedExtra string
}

// Build runs classification, collection and assembly against repo.
// Only failures to read the reference store or HEAD are returned as errors;
// everything else is reported in Result.Warnings.
func Build(repo git.RepositoryReader, opts Options) (*Result, error) {
	if err := opts.Filter.Validate(); err != nil {
		return nil, err
	}

	cls, err := Classify(repo, opts.Filter)
	if err != nil {
		return nil, err
	}

	col := Collect(repo, cls.References)

	g, warnings, err := Assemble(col, cls, AssembleOptions{MinShortIDLength: opts.MinShortIDLength})
	if err != nil {
		return nil, err
	}

	if opts.ShowIndex {
		entries, err := repo.IndexStatus()
		if err != nil {
			return nil, fmt.Errorf("read index: %w", err)
		}
		g.Index = entries
	}

	all := make([]Warning, 0, len(cls.Warnings)+len(col.Warnings)+len(warnings))
	all = append(all, cls.Warnings...)
	all = append(all, col.Warnings...)
	all = append(all, warnings...)

	return &Result{Graph: g, Warnings: all, DetachedExtra: col.DetachedExtra}, nil
}
