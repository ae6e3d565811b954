package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/masmgr/gitgraph-go/internal/graph"
)

// JSONDiagramWriter writes diagrams as JSON.
type JSONDiagramWriter struct{}

// JSONDiagramReport is the JSON output structure for a diagram.
type JSONDiagramReport struct {
	RepoPath    string        `json:"repo"`
	GeneratedAt string        `json:"generatedAt"`
	Nodes       []graph.Node  `json:"nodes"`
	Edges       []graph.Edge  `json:"edges"`
	Warnings    []JSONWarning `json:"warnings"`
}

// JSONWarning is the JSON output structure for a recovered problem.
type JSONWarning struct {
	Kind    string `json:"kind"`
	Ref     string `json:"ref,omitempty"`
	Commit  string `json:"commit,omitempty"`
	Message string `json:"message"`
}

// Write outputs the diagram as JSON.
func (w *JSONDiagramWriter) Write(report *DiagramReport, options OutputOptions) error {
	warnings := make([]JSONWarning, len(report.Warnings))
	for i, wr := range report.Warnings {
		msg := ""
		if wr.Err != nil {
			msg = wr.Err.Error()
		}
		warnings[i] = JSONWarning{Kind: wr.Kind.String(), Ref: wr.Ref, Commit: wr.Commit, Message: msg}
	}

	d := report.Diagram
	if d == nil {
		d = &graph.Diagram{}
	}
	nodes, edges := d.Nodes, d.Edges
	if nodes == nil {
		nodes = []graph.Node{}
	}
	if edges == nil {
		edges = []graph.Edge{}
	}

	return writeJSON(JSONDiagramReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: formatGeneratedAt(report.GeneratedAt),
		Nodes:       nodes,
		Edges:       edges,
		Warnings:    warnings,
	}, options.OutputPath)
}

// JSONReferenceWriter writes reference listings as JSON.
type JSONReferenceWriter struct{}

// JSONReferenceReport is the JSON output structure for a reference listing.
type JSONReferenceReport struct {
	RepoPath    string              `json:"repo"`
	GeneratedAt string              `json:"generatedAt"`
	References  []JSONReferenceItem `json:"references"`
}

// JSONReferenceItem is the JSON output structure for a single reference.
type JSONReferenceItem struct {
	Name         string `json:"name"`
	FullName     string `json:"fullName"`
	Kind         string `json:"kind"`
	Target       string `json:"target"`
	ShortTarget  string `json:"shortTarget"`
	TracksRemote string `json:"tracks,omitempty"`
	Detached     bool   `json:"detached,omitempty"`
}

// Write outputs the reference listing as JSON.
func (w *JSONReferenceWriter) Write(report *ReferenceReport, options OutputOptions) error {
	items := make([]JSONReferenceItem, len(report.References))
	for i, ref := range report.References {
		items[i] = JSONReferenceItem{
			Name:         ref.Name,
			FullName:     ref.FullName,
			Kind:         ref.Kind.String(),
			Target:       ref.Target,
			ShortTarget:  shortTarget(report.ShortIDs, ref.Target),
			TracksRemote: ref.TracksRemote,
			Detached:     ref.Detached,
		}
	}

	return writeJSON(JSONReferenceReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: formatGeneratedAt(report.GeneratedAt),
		References:  items,
	}, options.OutputPath)
}

// JSONCommitWriter writes commit listings as JSON.
type JSONCommitWriter struct{}

// JSONCommitReport is the JSON output structure for a commit listing.
type JSONCommitReport struct {
	RepoPath     string           `json:"repo"`
	GeneratedAt  string           `json:"generatedAt"`
	TotalCommits int              `json:"totalCommits"`
	Items        []JSONCommitItem `json:"items"`
}

// JSONCommitItem is the JSON output structure for a single commit.
type JSONCommitItem struct {
	SHA          string   `json:"sha"`
	ShortID      string   `json:"shortId"`
	Summary      string   `json:"summary"`
	Parents      []string `json:"parents"`
	DetachedOnly bool     `json:"detachedOnly,omitempty"`
}

// Write outputs the commit listing as JSON.
func (w *JSONCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	g := report.Graph
	items := make([]JSONCommitItem, 0, len(g.Order))
	for _, id := range g.Order {
		c := g.Commits[id]
		parents := c.Parents
		if parents == nil {
			parents = []string{}
		}
		items = append(items, JSONCommitItem{
			SHA:          c.ID,
			ShortID:      c.ShortID,
			Summary:      c.Summary,
			Parents:      parents,
			DetachedOnly: id == report.DetachedOnly,
		})
	}

	return writeJSON(JSONCommitReport{
		RepoPath:     report.RepoPath,
		GeneratedAt:  formatGeneratedAt(report.GeneratedAt),
		TotalCommits: len(items),
		Items:        items,
	}, options.OutputPath)
}

func shortTarget(short map[string]string, id string) string {
	if s, ok := short[id]; ok {
		return s
	}
	return id
}

func writeJSON(data interface{}, outputPath string) error {
	encoder := json.NewEncoder(os.Stdout)
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		encoder = json.NewEncoder(file)
	}

	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
