package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/masmgr/gitgraph-go/internal/graph"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// DiagramWriter implementations
	_ DiagramWriter = (*DOTDiagramWriter)(nil)
	_ DiagramWriter = (*JSONDiagramWriter)(nil)
	_ DiagramWriter = (*MermaidDiagramWriter)(nil)
	_ DiagramWriter = (*ConsoleDiagramWriter)(nil)

	// ReferenceReportWriter implementations
	_ ReferenceReportWriter = (*ConsoleReferenceWriter)(nil)
	_ ReferenceReportWriter = (*JSONReferenceWriter)(nil)
	_ ReferenceReportWriter = (*CSVReferenceWriter)(nil)

	// CommitReportWriter implementations
	_ CommitReportWriter = (*ConsoleCommitWriter)(nil)
	_ CommitReportWriter = (*JSONCommitWriter)(nil)
	_ CommitReportWriter = (*CSVCommitWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatDOT     OutputFormat = "dot"
	FormatJSON    OutputFormat = "json"
	FormatMermaid OutputFormat = "mermaid"
	FormatConsole OutputFormat = "console"
	FormatCSV     OutputFormat = "csv"
)

// ParseFormat converts a flag or config value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDOT, FormatJSON, FormatMermaid, FormatConsole, FormatCSV:
		return f, nil
	case "graphviz", "gv":
		return FormatDOT, nil
	case "md", "markdown":
		return FormatMermaid, nil
	case "":
		return FormatDOT, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	Style      Style
}

// DiagramReport is a described commit graph ready to be written.
type DiagramReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Diagram     *graph.Diagram
	Warnings    []graph.Warning
}

// ReferenceReport lists the classified references of a repository.
type ReferenceReport struct {
	RepoPath    string
	GeneratedAt time.Time
	References  []graph.Reference
	// ShortIDs maps a commit id to its display form.
	ShortIDs map[string]string
}

// CommitReport lists the collected commits in collection order.
type CommitReport struct {
	RepoPath    string
	GeneratedAt time.Time
	Graph       *graph.Graph
	// DetachedOnly is the commit drawn only because HEAD is detached on it.
	DetachedOnly string
}

// DiagramWriter writes diagrams.
type DiagramWriter interface {
	Write(report *DiagramReport, options OutputOptions) error
}

// ReferenceReportWriter writes reference listings.
type ReferenceReportWriter interface {
	Write(report *ReferenceReport, options OutputOptions) error
}

// CommitReportWriter writes commit listings.
type CommitReportWriter interface {
	Write(report *CommitReport, options OutputOptions) error
}

// NewDiagramWriter creates a diagram writer for the specified format.
func NewDiagramWriter(format OutputFormat) DiagramWriter {
	switch format {
	case FormatJSON:
		return &JSONDiagramWriter{}
	case FormatMermaid:
		return &MermaidDiagramWriter{}
	case FormatConsole:
		return &ConsoleDiagramWriter{}
	default:
		return &DOTDiagramWriter{}
	}
}

// NewReferenceReportWriter creates a reference report writer for the specified format.
func NewReferenceReportWriter(format OutputFormat) ReferenceReportWriter {
	switch format {
	case FormatJSON:
		return &JSONReferenceWriter{}
	case FormatCSV:
		return &CSVReferenceWriter{}
	default:
		return &ConsoleReferenceWriter{}
	}
}

// NewCommitReportWriter creates a commit report writer for the specified format.
func NewCommitReportWriter(format OutputFormat) CommitReportWriter {
	switch format {
	case FormatJSON:
		return &JSONCommitWriter{}
	case FormatCSV:
		return &CSVCommitWriter{}
	default:
		return &ConsoleCommitWriter{}
	}
}
