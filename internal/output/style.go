package output

import "github.com/masmgr/gitgraph-go/internal/graph"

// Attrs is a set of graphviz attributes.
type Attrs map[string]string

// Style holds the graphviz attributes applied to the whole graph, to all nodes
// and edges, and per node and edge style.
type Style struct {
	RankDir string
	Node    Attrs
	Edge    Attrs
	Nodes   map[graph.NodeStyle]Attrs
	Edges   map[graph.EdgeStyle]Attrs
}

func headStyle(color string) Attrs {
	return Attrs{"style": "filled", "shape": "doubleoctagon", "fontsize": "12", "color": color}
}

func branchStyle(color string) Attrs {
	return Attrs{"style": "filled", "shape": "octagon", "fontsize": "12", "color": color}
}

// DefaultStyle returns the teaching-diagram look: time flows to the right,
// branches are gold octagons and HEAD is a double octagon.
func DefaultStyle() Style {
	return Style{
		RankDir: "RL",
		Node:    Attrs{"color": "gray50", "margin": "0.05,0.02"},
		Edge:    Attrs{"arrowsize": "0.7", "color": "gray50"},
		Nodes: map[graph.NodeStyle]Attrs{
			graph.StyleCommit:       {},
			graph.StyleLocalBranch:  branchStyle("gold"),
			graph.StyleRemoteBranch: branchStyle("khaki"),
			graph.StyleTag:          {"style": "filled", "shape": "house", "fontsize": "12", "color": "turquoise"},
			graph.StyleHeadAttached: headStyle("goldenrod"),
			graph.StyleHeadDetached: headStyle("violet"),
			graph.StyleIndex:        {"shape": "record", "fontsize": "10"},
		},
		Edges: map[graph.EdgeStyle]Attrs{
			graph.EdgeParent:      {},
			graph.EdgeMergeParent: {"fontsize": "8", "fontcolor": "gray50"},
			graph.EdgeReference:   {"style": "dashed"},
			graph.EdgeTracking:    {"style": "dotted", "arrowhead": "empty"},
		},
	}
}

// Merge returns a copy of s with the values set in override applied on top.
// An empty attribute value removes the attribute.
func (s Style) Merge(override Style) Style {
	out := Style{
		RankDir: s.RankDir,
		Node:    mergeAttrs(s.Node, override.Node),
		Edge:    mergeAttrs(s.Edge, override.Edge),
		Nodes:   map[graph.NodeStyle]Attrs{},
		Edges:   map[graph.EdgeStyle]Attrs{},
	}
	if override.RankDir != "" {
		out.RankDir = override.RankDir
	}
	for k, v := range s.Nodes {
		out.Nodes[k] = mergeAttrs(v, override.Nodes[k])
	}
	for k, v := range override.Nodes {
		if _, ok := out.Nodes[k]; !ok {
			out.Nodes[k] = mergeAttrs(nil, v)
		}
	}
	for k, v := range s.Edges {
		out.Edges[k] = mergeAttrs(v, override.Edges[k])
	}
	for k, v := range override.Edges {
		if _, ok := out.Edges[k]; !ok {
			out.Edges[k] = mergeAttrs(nil, v)
		}
	}
	return out
}

func mergeAttrs(base, override Attrs) Attrs {
	out := Attrs{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
