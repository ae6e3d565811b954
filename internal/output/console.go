package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/masmgr/gitgraph-go/internal/graph"
)

// ConsoleDiagramWriter writes diagrams as a coloured text listing.
type ConsoleDiagramWriter struct{}

// Write outputs the diagram to the console.
func (w *ConsoleDiagramWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	WriteListing(out, report.RepoPath, report.Diagram)
	return nil
}

// WriteListing writes d as a plain listing: references, commits with their
// parents, and the staged index entries.
func WriteListing(w io.Writer, repoPath string, d *graph.Diagram) {
	nodes := make(map[string]graph.Node, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes[n.ID] = n
	}
	outgoing := map[string][]graph.Edge{}
	for _, e := range d.Edges {
		outgoing[e.From] = append(outgoing[e.From], e)
	}
	display := func(id string) string {
		n, ok := nodes[id]
		switch {
		case !ok:
			return id
		case n.Style == graph.StyleCommit:
			return n.ShortID
		default:
			return n.Label
		}
	}

	header := color.New(color.FgGreen)
	header.Fprintln(w, "Commit Graph")
	if repoPath != "" {
		fmt.Fprintf(w, "Repository: %s\n", repoPath)
	}

	var refs, commits []graph.Node
	var index *graph.Node
	for i, n := range d.Nodes {
		switch n.Style {
		case graph.StyleCommit:
			commits = append(commits, n)
		case graph.StyleIndex:
			index = &d.Nodes[i]
		default:
			refs = append(refs, n)
		}
	}
	fmt.Fprintf(w, "References: %d, Commits: %d\n\n", len(refs), len(commits))

	if len(refs) > 0 {
		header.Fprintln(w, "References")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, n := range refs {
			var target, tracks string
			for _, e := range outgoing[n.ID] {
				switch e.Style {
				case graph.EdgeReference:
					target = display(e.To)
				case graph.EdgeTracking:
					tracks = "tracks " + display(e.To)
				}
			}
			fmt.Fprintf(tw, "  %s\t%s\t-> %s\t%s\n", referenceColor(n.Style)("%s", n.Label), n.Kind, target, tracks)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(commits) > 0 {
		header.Fprintln(w, "Commits")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, n := range commits {
			var parents []string
			for _, e := range outgoing[n.ID] {
				parents = append(parents, display(e.To))
			}
			summary := strings.TrimPrefix(n.Label, n.ShortID+" ")
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", color.BlueString(n.ShortID), truncateMessage(summary, 60), strings.Join(parents, " "))
		}
		tw.Flush()
	}

	if index != nil {
		fmt.Fprintln(w)
		header.Fprintln(w, "Index")
		for _, line := range index.Lines {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
}

// ConsoleReferenceWriter writes reference listings to the console.
type ConsoleReferenceWriter struct{}

// Write outputs the reference listing to the console.
func (w *ConsoleReferenceWriter) Write(report *ReferenceReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "References")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Total references: %d\n\n", len(report.References))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Name\tKind\tTarget\tTracks")
	for _, ref := range report.References {
		name := ref.Name
		if ref.Kind == graph.CurrentPosition {
			name = "HEAD"
			if !ref.Detached {
				name += " -> " + ref.Name
			} else {
				name += " (detached)"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, ref.Kind, shortTarget(report.ShortIDs, ref.Target), ref.TracksRemote)
	}
	return tw.Flush()
}

// ConsoleCommitWriter writes commit listings to the console.
type ConsoleCommitWriter struct{}

// Write outputs the commit listing to the console.
func (w *ConsoleCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	g := report.Graph
	color.New(color.FgGreen).Fprintln(out, "Commits")
	fmt.Fprintf(out, "Repository: %s\n", report.RepoPath)
	fmt.Fprintf(out, "Total commits: %d\n\n", len(g.Order))

	short := shortIDsOf(g)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tSummary\tParents")
	for i, id := range g.Order {
		c := g.Commits[id]
		parents := make([]string, len(c.Parents))
		for j, p := range c.Parents {
			parents[j] = shortTarget(short, p)
		}
		shortID := c.ShortID
		if id == report.DetachedOnly {
			shortID += "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, shortID, truncateMessage(c.Summary, 60), strings.Join(parents, " "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if report.DetachedOnly != "" {
		fmt.Fprintln(out)
		color.New(color.FgMagenta).Fprintln(out, "* reachable only from the detached HEAD")
	}
	return nil
}

func shortIDsOf(g *graph.Graph) map[string]string {
	out := make(map[string]string, len(g.Commits))
	for id, c := range g.Commits {
		out[id] = c.ShortID
	}
	return out
}

func referenceColor(style graph.NodeStyle) func(string, ...interface{}) string {
	switch style {
	case graph.StyleLocalBranch:
		return color.YellowString
	case graph.StyleRemoteBranch:
		return color.RedString
	case graph.StyleTag:
		return color.CyanString
	case graph.StyleHeadAttached, graph.StyleHeadDetached:
		return color.MagentaString
	default:
		return fmt.Sprintf
	}
}
