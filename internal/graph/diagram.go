package graph

import (
	"fmt"
	"strconv"

	"github.com/masmgr/gitgraph-go/internal/git"
)

// NodeStyle tags a diagram node with how it should be drawn.
type NodeStyle string

const (
	StyleCommit       NodeStyle = "commit"
	StyleLocalBranch  NodeStyle = "local-branch"
	StyleRemoteBranch NodeStyle = "remote-branch"
	StyleTag          NodeStyle = "tag"
	StyleHeadAttached NodeStyle = "head-attached"
	StyleHeadDetached NodeStyle = "head-detached"
	StyleIndex        NodeStyle = "index"
)

// EdgeStyle tags a diagram edge with how it should be drawn.
type EdgeStyle string

const (
	EdgeParent      EdgeStyle = "parent"
	EdgeMergeParent EdgeStyle = "merge-parent"
	EdgeReference   EdgeStyle = "reference"
	EdgeTracking    EdgeStyle = "tracking"
)

// IndexNodeID is the node id of the staged-changes node.
const IndexNodeID = "index"

// Node is a render-ready node description.
type Node struct {
	ID    string    `json:"id"`
	Label string    `json:"label"`
	Style NodeStyle `json:"style"`

	// Commit nodes only.
	ShortID string `json:"shortId,omitempty"`
	Name    string `json:"name,omitempty"`
	Note    string `json:"note,omitempty"`

	// Reference nodes only.
	Kind string `json:"kind,omitempty"`

	// Index node only.
	Lines []string `json:"lines,omitempty"`
}

// Edge is a render-ready edge description.
type Edge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Style EdgeStyle `json:"style"`
	Label string    `json:"label,omitempty"`
}

// Diagram is what renderers consume.
type Diagram struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Describe turns the graph into node and edge descriptions with style tags.
// An attached CurrentPosition points at its branch node when that node is drawn,
// otherwise straight at the commit.
func Describe(g *Graph) *Diagram {
	d := &Diagram{Nodes: []Node{}, Edges: []Edge{}}

	drawn := map[string]bool{}
	for _, ref := range g.References {
		drawn[ref.NodeID()] = true
		d.Nodes = append(d.Nodes, Node{
			ID:    ref.NodeID(),
			Label: referenceLabel(ref),
			Style: referenceStyle(ref),
			Kind:  ref.Kind.String(),
		})
	}

	for _, id := range g.Order {
		c := g.Commits[id]
		name, note := c.Label()
		d.Nodes = append(d.Nodes, Node{
			ID:      c.ID,
			Label:   c.ShortID + " " + c.Summary,
			Style:   StyleCommit,
			ShortID: c.ShortID,
			Name:    name,
			Note:    note,
		})
	}

	if len(g.Index) > 0 {
		lines := make([]string, len(g.Index))
		for i, e := range g.Index {
			lines[i] = fmt.Sprintf("%s (%s)", e.Path, e.Status)
		}
		d.Nodes = append(d.Nodes, Node{ID: IndexNodeID, Label: IndexNodeID, Style: StyleIndex, Lines: lines})
	}

	for _, ref := range g.References {
		to := ref.Target
		if ref.Kind == CurrentPosition && !ref.Detached {
			if branch := git.BranchPrefix + ref.Name; drawn[branch] {
				to = branch
			}
		}
		d.Edges = append(d.Edges, Edge{From: ref.NodeID(), To: to, Style: EdgeReference})
	}

	for _, t := range g.TrackingEdges {
		d.Edges = append(d.Edges, Edge{From: t.Local, To: t.Remote, Style: EdgeTracking})
	}

	for _, e := range g.CommitEdges {
		edge := Edge{From: e.Child, To: e.Parent, Style: EdgeParent}
		// Only merge parents are numbered.
		if g.Commits[e.Child].IsMerge() {
			edge.Style = EdgeMergeParent
			edge.Label = strconv.Itoa(e.Index)
		}
		d.Edges = append(d.Edges, edge)
	}

	return d
}

func referenceLabel(ref Reference) string {
	if ref.Kind == CurrentPosition {
		return git.HeadName
	}
	return ref.Name
}

func referenceStyle(ref Reference) NodeStyle {
	switch ref.Kind {
	case LocalBranch:
		return StyleLocalBranch
	case RemoteTrackingBranch:
		return StyleRemoteBranch
	case Tag:
		return StyleTag
	default:
		if ref.Detached {
			return StyleHeadDetached
		}
		return StyleHeadAttached
	}
}
