package watch

import (
	"fmt"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/masmgr/gitgraph-go/internal/graph"
)

const snapshotIDLength = 7

// Snapshot renders g as sorted text lines suitable for diffing between redraws.
// Ids use a fixed length so a growing short-id length does not show as change.
func Snapshot(g *graph.Graph) []string {
	var lines []string
	for _, ref := range g.References {
		name := ref.FullName
		if ref.Kind == graph.CurrentPosition && !ref.Detached {
			name += " -> " + ref.Name
		}
		line := fmt.Sprintf("%s %s %s", ref.Kind, name, abbrev(ref.Target))
		if ref.TracksRemote != "" {
			line += " tracks " + ref.TracksRemote
		}
		lines = append(lines, line)
	}
	for _, id := range g.Order {
		lines = append(lines, fmt.Sprintf("commit %s %s", abbrev(id), g.Commits[id].Summary))
	}
	for _, e := range g.Index {
		lines = append(lines, fmt.Sprintf("index %s (%s)", e.Path, e.Status))
	}
	sort.Strings(lines)
	return lines
}

func abbrev(id string) string {
	if len(id) > snapshotIDLength {
		return id[:snapshotIDLength]
	}
	return id
}

// Summarize returns a unified diff between two snapshots, or "" when equal.
func Summarize(before, after []string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        withNewlines(before),
		B:        withNewlines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  0,
	}
	return difflib.GetUnifiedDiffString(ud)
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
