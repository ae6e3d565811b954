package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitgraph-go/internal/output"
)

// listingFormatFlag is the format flag of the listing commands.
func listingFormatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format (console, json, csv)",
		Value:   "console",
	}
}

// RefsCmd returns the refs command.
func RefsCmd() *cli.Command {
	return &cli.Command{
		Name:    "refs",
		Aliases: []string{"r"},
		Usage:   "List the branches, tags and HEAD that would be drawn",
		Flags:   append(commonFlags(), listingFormatFlag()),
		Action:  refsAction,
	}
}

func refsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		format, err := getOutputFormat(c.String("format"))
		if err != nil {
			return err
		}

		g := ctx.Result.Graph
		if g.IsEmpty() {
			ctx.PrintEmptyMessage()
		}

		short := make(map[string]string, len(g.Commits))
		for id, commit := range g.Commits {
			short[id] = commit.ShortID
		}

		report := &output.ReferenceReport{
			RepoPath:    ctx.RepoPath,
			GeneratedAt: time.Now(),
			References:  g.References,
			ShortIDs:    short,
		}

		writer := output.NewReferenceReportWriter(format)
		return writer.Write(report, output.OutputOptions{
			Format:     format,
			OutputPath: ctx.Config.Output.Path,
		})
	})
}
