// Package graph builds the commit-graph model drawn by gitgraph: it classifies
// references, collects the commits reachable from them and assembles nodes and
// edges ready for rendering.
package graph

import (
	"strings"

	"github.com/masmgr/gitgraph-go/internal/git"
)

// RefKind is the closed set of reference kinds.
type RefKind int

const (
	LocalBranch RefKind = iota
	RemoteTrackingBranch
	Tag
	CurrentPosition
)

// String returns a string representation of the reference kind.
func (k RefKind) String() string {
	switch k {
	case LocalBranch:
		return "branch"
	case RemoteTrackingBranch:
		return "remote"
	case Tag:
		return "tag"
	case CurrentPosition:
		return "head"
	default:
		return "unknown"
	}
}

// Commit is a node of the history DAG.
type Commit struct {
	ID      string
	ShortID string
	Summary string
	Parents []string
}

// Label splits a summary of the form "name: note" into a friendly name and a
// note. Summaries without ": " are returned whole as the name.
func (c Commit) Label() (name, note string) {
	if before, after, ok := strings.Cut(c.Summary, ": "); ok {
		return before, after
	}
	return c.Summary, ""
}

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// Reference is a classified, decorated named pointer into the commit graph.
type Reference struct {
	// Name is the display label: the short branch or tag name. For an attached
	// CurrentPosition it is the branch HEAD points to; empty when detached.
	Name string
	// FullName is the fully-qualified ref name, or "HEAD".
	FullName string
	Kind     RefKind
	Target   string
	// TracksRemote is the FullName of the RemoteTrackingBranch a LocalBranch follows.
	TracksRemote string
	// Detached is only meaningful for CurrentPosition.
	Detached bool
}

// NodeID returns the identifier of the reference's diagram node.
func (r Reference) NodeID() string {
	if r.Kind == CurrentPosition {
		return git.HeadName
	}
	return r.FullName
}

// CommitEdge links a child commit to one of its parents.
type CommitEdge struct {
	Child  string
	Parent string
	// Index is the 1-based position of Parent in the child's parent list.
	Index int
}

// ReferenceEdge links a reference node to the commit it targets.
type ReferenceEdge struct {
	From   string // Reference.NodeID()
	Target string
}

// TrackingEdge links a local branch node to the remote-tracking branch node it follows.
type TrackingEdge struct {
	Local  string
	Remote string
}

// Graph is the assembled model. It is built fresh on every run and never mutated
// after Assemble returns.
type Graph struct {
	Commits map[string]*Commit
	// Order lists commit ids in deterministic collection order.
	Order          []string
	References     []Reference
	CommitEdges    []CommitEdge
	ReferenceEdges []ReferenceEdge
	TrackingEdges  []TrackingEdge
	Index          []git.IndexEntry
}

// Head returns the CurrentPosition reference, if any.
func (g *Graph) Head() (Reference, bool) {
	for _, r := range g.References {
		if r.Kind == CurrentPosition {
			return r, true
		}
	}
	return Reference{}, false
}

// IsEmpty reports whether the graph has no commits and no references.
func (g *Graph) IsEmpty() bool {
	return len(g.Commits) == 0 && len(g.References) == 0
}
