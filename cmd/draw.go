package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitgraph-go/internal/graph"
	"github.com/masmgr/gitgraph-go/internal/output"
	"github.com/masmgr/gitgraph-go/internal/viewer"
	"github.com/masmgr/gitgraph-go/internal/watch"
)

// defaultDOTName is the file written when an image is requested without --output.
const defaultDOTName = "gitgraph.dot"

func drawFlags() []cli.Flag {
	return append(commonFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (dot, json, mermaid, console)",
		},
		&cli.StringFlag{
			Name:  "image",
			Usage: "Render the DOT output with graphviz into this type (pdf, svg, png)",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open the rendered image (or the output file) in a viewer",
		},
		&cli.StringFlag{
			Name:  "viewer",
			Usage: "Command used to open the output instead of the platform default",
		},
		&cli.BoolFlag{
			Name:  "show-index",
			Usage: "Draw a node listing staged changes",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Redraw whenever references, HEAD or the index change",
		},
	)
}

// DrawCmd returns the draw command.
func DrawCmd() *cli.Command {
	return &cli.Command{
		Name:    "draw",
		Aliases: []string{"d"},
		Usage:   "Draw the commit graph",
		Flags:   drawFlags(),
		Action:  drawAction,
	}
}

func drawAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		d, err := newDrawer(ctx)
		if err != nil {
			return err
		}

		if err := d.draw(c.Context, ctx.Config.Output.Open); err != nil {
			return err
		}

		if !c.Bool("watch") {
			return nil
		}
		return d.watch(c.Context)
	})
}

type drawer struct {
	ctx    *CommandContext
	format output.OutputFormat
	path   string
	style  output.Style

	mu       sync.Mutex // serializes redraws
	snapshot []string
}

func newDrawer(ctx *CommandContext) (*drawer, error) {
	format, err := getOutputFormat(ctx.Config.Output.Format)
	if err != nil {
		return nil, err
	}
	cfg := ctx.Config.Output
	if cfg.Image != "" && format != output.FormatDOT {
		return nil, fmt.Errorf("--image requires the dot format, got %s", format)
	}
	return &drawer{
		ctx:    ctx,
		format: format,
		path:   resolveOutputPath(format, cfg.Path, cfg.Image != "" || cfg.Open),
		style:  ctx.Style(),
	}, nil
}

// resolveOutputPath returns where the diagram is written. Rendering or opening
// needs a file, so stdout is replaced by a file in the temp directory.
func resolveOutputPath(format output.OutputFormat, path string, needsFile bool) string {
	if path != "" || !needsFile {
		return path
	}
	name := defaultDOTName
	if format != output.FormatDOT {
		name = "gitgraph." + string(format)
	}
	return filepath.Join(os.TempDir(), name)
}

func (d *drawer) draw(ctx context.Context, open bool) error {
	res := d.ctx.Result
	if res.Graph.IsEmpty() {
		d.ctx.PrintEmptyMessage()
	}

	report := &output.DiagramReport{
		RepoPath:    d.ctx.RepoPath,
		GeneratedAt: time.Now(),
		Diagram:     graph.Describe(res.Graph),
		Warnings:    res.Warnings,
	}
	opts := output.OutputOptions{Format: d.format, OutputPath: d.path, Style: d.style}
	if err := output.NewDiagramWriter(d.format).Write(report, opts); err != nil {
		return fmt.Errorf("failed to write diagram: %w", err)
	}

	status := color.New(color.FgGreen)
	artifact := d.path
	if d.path != "" {
		status.Fprintf(d.ctx.Stderr, "Wrote %s\n", d.path)
	}
	if image := d.ctx.Config.Output.Image; image != "" {
		rendered, err := viewer.Render(ctx, d.path, image)
		if err != nil {
			return err
		}
		status.Fprintf(d.ctx.Stderr, "Rendered %s\n", rendered)
		artifact = rendered
	}
	if open && artifact != "" {
		if err := viewer.Open(d.ctx.Config.Output.Viewer, artifact); err != nil {
			return err
		}
	}

	d.snapshot = watch.Snapshot(res.Graph)
	return nil
}

func (d *drawer) watch(parent context.Context) error {
	gitDir, err := d.ctx.GitDir()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	color.New(color.FgGreen).Fprintf(d.ctx.Stderr, "Watching %s for changes (Ctrl-C to stop)\n", gitDir)

	return watch.Run(ctx, watch.Options{
		GitDir:   gitDir,
		Delay:    d.ctx.Config.Watch.Debounce(),
		OnChange: func() { d.redraw(ctx) },
		OnError: func(err error) {
			color.New(color.FgRed).Fprintf(d.ctx.Stderr, "watch: %v\n", err)
		},
	})
}

// redraw rebuilds the graph and prints what changed since the last draw.
func (d *drawer) redraw(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	before := d.snapshot

	warn := color.New(color.FgRed)
	if err := d.ctx.Rebuild(); err != nil {
		warn.Fprintf(d.ctx.Stderr, "redraw: %v\n", err)
		return
	}
	after := watch.Snapshot(d.ctx.Result.Graph)
	diff, err := watch.Summarize(before, after)
	if err != nil {
		warn.Fprintf(d.ctx.Stderr, "redraw: %v\n", err)
		return
	}
	if diff == "" {
		return
	}

	fmt.Fprint(d.ctx.Stderr, diff)
	d.ctx.PrintWarnings()
	if err := d.draw(ctx, false); err != nil {
		warn.Fprintf(d.ctx.Stderr, "redraw: %v\n", err)
	}
}
