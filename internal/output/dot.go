package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/masmgr/gitgraph-go/internal/graph"
)

// DOTDiagramWriter writes diagrams in the graphviz DOT language.
type DOTDiagramWriter struct{}

// Write outputs the diagram as a DOT digraph.
func (w *DOTDiagramWriter) Write(report *DiagramReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	bw := bufio.NewWriter(out)
	if err := WriteDOT(bw, report.Diagram, options.Style); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteDOT writes d as a DOT digraph using style. A zero Style means DefaultStyle.
func WriteDOT(w io.Writer, d *graph.Diagram, style Style) error {
	if style.RankDir == "" && style.Nodes == nil {
		style = DefaultStyle()
	}

	var b strings.Builder
	b.WriteString("digraph gitgraph {\n")
	if style.RankDir != "" {
		fmt.Fprintf(&b, "\tgraph [rankdir=%s];\n", quoteDOT(style.RankDir))
	}
	if len(style.Edge) > 0 {
		fmt.Fprintf(&b, "\tedge%s;\n", attrList("", style.Edge))
	}
	if len(style.Node) > 0 {
		fmt.Fprintf(&b, "\tnode%s;\n", attrList("", style.Node))
	}

	for _, n := range d.Nodes {
		fmt.Fprintf(&b, "\t%s%s;\n", quoteDOT(n.ID), attrList(nodeLabel(n), style.Nodes[n.Style]))
	}

	for _, e := range d.Edges {
		label := ""
		if e.Label != "" {
			label = "label=" + quoteDOT(e.Label)
		}
		fmt.Fprintf(&b, "\t%s -> %s%s;\n", quoteDOT(e.From), quoteDOT(e.To), attrList(label, style.Edges[e.Style]))
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// nodeLabel returns the complete label attribute for n.
func nodeLabel(n graph.Node) string {
	switch n.Style {
	case graph.StyleCommit:
		var sb strings.Builder
		sb.WriteString("<<b>")
		sb.WriteString(escapeHTML(n.Name))
		sb.WriteString("</b><br/>")
		if n.Note != "" {
			fmt.Fprintf(&sb, `<font point-size="10" color="gray25"><i>%s</i></font><br/>`, escapeHTML(n.Note))
		}
		fmt.Fprintf(&sb, `<font point-size="10" color="blue">%s</font>>`, escapeHTML(n.ShortID))
		return "label=" + sb.String()
	case graph.StyleIndex:
		var sb strings.Builder
		sb.WriteString(escapeRecord(n.Label))
		sb.WriteString("|")
		for _, line := range n.Lines {
			sb.WriteString(escapeRecord(line))
			sb.WriteString(`\l`)
		}
		return `label="` + sb.String() + `"`
	default:
		return "label=" + quoteDOT(n.Label)
	}
}

func attrList(label string, attrs Attrs) string {
	parts := make([]string, 0, len(attrs)+1)
	if label != "" {
		parts = append(parts, label)
	}
	for _, k := range sortedKeys(attrs) {
		parts = append(parts, k+"="+quoteDOT(attrs[k]))
	}
	if len(parts) == 0 {
		return ""
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

var dotQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quoteDOT returns s as a double-quoted DOT ID.
func quoteDOT(s string) string {
	return `"` + dotQuoter.Replace(s) + `"`
}

var recordEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"{", `\{`,
	"}", `\}`,
	"|", `\|`,
	"<", `\<`,
	">", `\>`,
)

// escapeRecord escapes the field separators of graphviz record labels.
func escapeRecord(s string) string {
	return recordEscaper.Replace(s)
}
