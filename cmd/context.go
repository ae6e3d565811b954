package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitgraph-go/config"
	"github.com/masmgr/gitgraph-go/internal/git"
	"github.com/masmgr/gitgraph-go/internal/graph"
	"github.com/masmgr/gitgraph-go/internal/output"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across all commands.
type CommandContext struct {
	Config   *config.Config
	RepoPath string
	Reader   git.RepositoryReader
	Result   *graph.Result
	Stderr   io.Writer
}

// NewCommandContext creates a context from CLI flags.
// It performs configuration loading, repository opening, and graph building.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	// Load configuration
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	backend, err := git.ParseBackend(cfg.Graph.Backend)
	if err != nil {
		return nil, err
	}

	// Set up Git reader
	repoPath := c.String("repo")
	reader, err := git.Open(git.OpenOptions{RepoPath: repoPath, Backend: backend})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	stderr := c.App.ErrWriter
	if stderr == nil {
		stderr = os.Stderr
	}

	ctx := &CommandContext{
		Config:   cfg,
		RepoPath: repoPath,
		Reader:   reader,
		Stderr:   stderr,
	}
	if err := ctx.Rebuild(); err != nil {
		return nil, err
	}
	return ctx, nil
}

// GraphOptions converts the configuration into graph build options.
func GraphOptions(cfg *config.Config) graph.Options {
	return graph.Options{
		Filter: graph.RefFilter{
			Include: cfg.Filters.Include,
			Exclude: cfg.Filters.Exclude,
		},
		MinShortIDLength: cfg.Graph.MinShortIDLength,
		ShowIndex:        cfg.Graph.ShowIndex,
	}
}

// Rebuild reads the repository again and replaces Result.
func (ctx *CommandContext) Rebuild() error {
	res, err := graph.Build(ctx.Reader, GraphOptions(ctx.Config))
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	ctx.Result = res
	return nil
}

// GitDir returns the repository's git directory when the backend exposes it.
func (ctx *CommandContext) GitDir() (string, error) {
	type gitDirer interface {
		GitDir() (string, error)
	}
	if r, ok := ctx.Reader.(gitDirer); ok {
		return r.GitDir()
	}
	return "", fmt.Errorf("backend does not expose a git directory")
}

// PrintWarnings prints the recovered problems of the last build.
func (ctx *CommandContext) PrintWarnings() {
	warn := color.New(color.FgYellow)
	for _, w := range ctx.Result.Warnings {
		warn.Fprintf(ctx.Stderr, "warning: %v\n", w)
	}
}

// PrintEmptyMessage prints a message when the repository has nothing to draw.
func (ctx *CommandContext) PrintEmptyMessage() {
	fmt.Fprintln(ctx.Stderr, "No commits or references found.")
}

// Style returns the graphviz style with the configured overrides applied.
func (ctx *CommandContext) Style() output.Style {
	return styleFromConfig(ctx.Config.Style)
}

func styleFromConfig(sc config.StyleConfig) output.Style {
	override := output.Style{
		RankDir: sc.RankDir,
		Node:    output.Attrs(sc.Node),
		Edge:    output.Attrs(sc.Edge),
		Nodes:   map[graph.NodeStyle]output.Attrs{},
		Edges:   map[graph.EdgeStyle]output.Attrs{},
	}
	for k, v := range sc.Nodes {
		override.Nodes[graph.NodeStyle(k)] = output.Attrs(v)
	}
	for k, v := range sc.Edges {
		override.Edges[graph.EdgeStyle(k)] = output.Attrs(v)
	}
	return output.DefaultStyle().Merge(override)
}

// executeWithContext builds a CommandContext, runs fn and reports warnings
// and elapsed time on stderr.
func executeWithContext(c *cli.Context, fn func(ctx *CommandContext, c *cli.Context) error) error {
	start := time.Now()

	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	ctx.PrintWarnings()

	if err := fn(ctx, c); err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(ctx.Stderr, "Completed in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
