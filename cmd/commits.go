package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitgraph-go/internal/output"
)

// CommitsCmd returns the commits command.
func CommitsCmd() *cli.Command {
	return &cli.Command{
		Name:    "commits",
		Aliases: []string{"c"},
		Usage:   "List the commits reachable from the selected references",
		Flags:   append(commonFlags(), listingFormatFlag()),
		Action:  commitsAction,
	}
}

func commitsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		format, err := getOutputFormat(c.String("format"))
		if err != nil {
			return err
		}

		if ctx.Result.Graph.IsEmpty() {
			ctx.PrintEmptyMessage()
		}

		report := &output.CommitReport{
			RepoPath:     ctx.RepoPath,
			GeneratedAt:  time.Now(),
			Graph:        ctx.Result.Graph,
			DetachedOnly: ctx.Result.DetachedExtra,
		}

		writer := output.NewCommitReportWriter(format)
		return writer.Write(report, output.OutputOptions{
			Format:     format,
			OutputPath: ctx.Config.Output.Path,
		})
	})
}
