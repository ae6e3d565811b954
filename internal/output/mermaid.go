package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/masmgr/gitgraph-go/internal/graph"
)

// MermaidDiagramWriter writes diagrams as a Mermaid flowchart, which renders
// inline in Markdown on most forges.
type MermaidDiagramWriter struct{}

// Write outputs the diagram as a Mermaid flowchart.
func (w *MermaidDiagramWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	bw := bufio.NewWriter(out)
	if err := WriteMermaid(bw, report.Diagram, options.Style.RankDir); err != nil {
		return err
	}
	return bw.Flush()
}

var mermaidClasses = []struct {
	style graph.NodeStyle
	class string
	def   string
}{
	{graph.StyleLocalBranch, "localBranch", "fill:gold,stroke:gray"},
	{graph.StyleRemoteBranch, "remoteBranch", "fill:khaki,stroke:gray"},
	{graph.StyleTag, "tag", "fill:turquoise,stroke:gray"},
	{graph.StyleHeadAttached, "headAttached", "fill:goldenrod,stroke:gray"},
	{graph.StyleHeadDetached, "headDetached", "fill:violet,stroke:gray"},
	{graph.StyleIndex, "index", "fill:white,stroke:gray,font-size:10px"},
}

// WriteMermaid writes d as a Mermaid flowchart laid out in direction.
func WriteMermaid(w io.Writer, d *graph.Diagram, direction string) error {
	switch direction = strings.ToUpper(direction); direction {
	case "TB", "TD", "BT", "RL", "LR":
	default:
		direction = "RL"
	}

	ids := make(map[string]string, len(d.Nodes))
	for i, n := range d.Nodes {
		ids[n.ID] = fmt.Sprintf("n%d", i)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", direction)

	byClass := map[graph.NodeStyle][]string{}
	for _, n := range d.Nodes {
		id := ids[n.ID]
		fmt.Fprintf(&b, "    %s%s\n", id, mermaidShape(n))
		byClass[n.Style] = append(byClass[n.Style], id)
	}

	for _, e := range d.Edges {
		from, okFrom := ids[e.From]
		to, okTo := ids[e.To]
		if !okFrom || !okTo {
			continue
		}
		arrow := "-->"
		if e.Style == graph.EdgeReference || e.Style == graph.EdgeTracking {
			arrow = "-.->"
		}
		if e.Label != "" {
			arrow += "|" + escapeMermaid(e.Label) + "|"
		}
		fmt.Fprintf(&b, "    %s %s %s\n", from, arrow, to)
	}

	for _, c := range mermaidClasses {
		members := byClass[c.style]
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    classDef %s %s\n", c.class, c.def)
		fmt.Fprintf(&b, "    class %s %s\n", strings.Join(members, ","), c.class)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func mermaidShape(n graph.Node) string {
	switch n.Style {
	case graph.StyleCommit:
		label := "<b>" + escapeMermaid(n.Name) + "</b>"
		if n.Note != "" {
			label += "<br/><i>" + escapeMermaid(n.Note) + "</i>"
		}
		label += "<br/>" + escapeMermaid(n.ShortID)
		return `["` + label + `"]`
	case graph.StyleLocalBranch, graph.StyleRemoteBranch:
		return `{{"` + escapeMermaid(n.Label) + `"}}`
	case graph.StyleTag:
		return `>"` + escapeMermaid(n.Label) + `"]`
	case graph.StyleHeadAttached, graph.StyleHeadDetached:
		return `(("` + escapeMermaid(n.Label) + `"))`
	case graph.StyleIndex:
		lines := make([]string, len(n.Lines))
		for i, l := range n.Lines {
			lines[i] = escapeMermaid(l)
		}
		return `["<b>` + escapeMermaid(n.Label) + `</b><br/>` + strings.Join(lines, "<br/>") + `"]`
	default:
		return `["` + escapeMermaid(n.Label) + `"]`
	}
}

var mermaidEscaper = strings.NewReplacer(
	`"`, "#quot;",
	"<", "#lt;",
	">", "#gt;",
	"|", "#124;",
)

func escapeMermaid(s string) string {
	return mermaidEscaper.Replace(s)
}
