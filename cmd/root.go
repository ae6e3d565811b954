package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/gitgraph-go/config"
	"github.com/masmgr/gitgraph-go/internal/git"
	"github.com/masmgr/gitgraph-go/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gitgraph",
		Usage:   "Draw a teaching-style diagram of a Git repository's commits, branches and tags",
		Version: "1.0.0",
		Commands: []*cli.Command{
			DrawCmd(),
			RefsCmd(),
			CommitsCmd(),
		},
		Flags:  drawFlags(),
		Action: drawAction,
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Repository backend (go-git, git)",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns of references to include, e.g. main or origin/* (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of references to exclude (can be specified multiple times)",
		},
		&cli.IntFlag{
			Name:  "min-short-id",
			Usage: "Minimum length of abbreviated commit ids",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) (output.OutputFormat, error) {
	return output.ParseFormat(s)
}

// loadConfig loads configuration from file or defaults and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}

	if c.IsSet("backend") {
		cfg.Graph.Backend = c.String("backend")
	}
	if c.IsSet("min-short-id") {
		cfg.Graph.MinShortIDLength = c.Int("min-short-id")
	}
	if c.IsSet("show-index") {
		cfg.Graph.ShowIndex = c.Bool("show-index")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.IsSet("image") {
		cfg.Output.Image = c.String("image")
	}
	if c.IsSet("open") {
		cfg.Output.Open = c.Bool("open")
	}
	if c.IsSet("viewer") {
		cfg.Output.Viewer = c.String("viewer")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := git.ParseBackend(cfg.Graph.Backend); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
