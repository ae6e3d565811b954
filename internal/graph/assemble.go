package graph

import (
	"fmt"
)

// DefaultShortIDLength is the prefix length ShortIDs starts from.
const DefaultShortIDLength = 4

// ShortIDs returns, for every id, its prefix at the smallest uniform length
// (starting from minLen) at which all prefixes are pairwise distinct. If no length
// up to the longest id works, every id maps to itself and ok is false.
func ShortIDs(ids []string, minLen int) (short map[string]string, ok bool) {
	if minLen <= 0 {
		minLen = DefaultShortIDLength
	}
	maxLen := 0
	for _, id := range ids {
		maxLen = max(maxLen, len(id))
	}

	short = make(map[string]string, len(ids))
	for n := min(minLen, maxLen); n <= maxLen; n++ {
		seen := make(map[string]struct{}, len(ids))
		unique := true
		for _, id := range ids {
			p := prefix(id, n)
			if _, dup := seen[p]; dup {
				unique = false
				break
			}
			seen[p] = struct{}{}
		}
		if unique {
			for _, id := range ids {
				short[id] = prefix(id, n)
			}
			return short, true
		}
	}

	for _, id := range ids {
		short[id] = id
	}
	return short, len(ids) == 0
}

func prefix(id string, n int) string {
	if n >= len(id) {
		return id
	}
	return id[:n]
}

// AssembleOptions configures Assemble.
type AssembleOptions struct {
	MinShortIDLength int
}

// Assemble builds the Graph from a collection and the classified references.
// References whose target is not collected (their walk was skipped) are left out,
// as are tracking links to such references. A parent missing from the collection
// means the collector broke its own invariant and is returned as ErrDanglingParent.
func Assemble(col *Collection, cls *Classification, opts AssembleOptions) (*Graph, []Warning, error) {
	var warnings []Warning

	short, ok := ShortIDs(col.Order, opts.MinShortIDLength)
	if !ok {
		warnings = append(warnings, Warning{
			Kind: ShortIDExhausted,
			Err:  fmt.Errorf("no unique prefix among %d commits, using full ids", len(col.Order)),
		})
	}

	g := &Graph{
		Commits: make(map[string]*Commit, len(col.Order)),
		Order:   append([]string{}, col.Order...),
	}

	for _, id := range col.Order {
		info := col.Commits[id]
		g.Commits[id] = &Commit{
			ID:      id,
			ShortID: short[id],
			Summary: info.Summary(),
			Parents: append([]string{}, info.Parents...),
		}
		for i, p := range info.Parents {
			if !col.Contains(p) {
				return nil, warnings, fmt.Errorf("%w: %s -> %s", ErrDanglingParent, id, p)
			}
			g.CommitEdges = append(g.CommitEdges, CommitEdge{Child: id, Parent: p, Index: i + 1})
		}
	}

	kept := map[string]bool{}
	for _, ref := range cls.References {
		if !col.Contains(ref.Target) {
			continue
		}
		kept[ref.FullName] = true
		g.References = append(g.References, ref)
	}

	for i := range g.References {
		ref := &g.References[i]
		if ref.Kind == LocalBranch && ref.TracksRemote != "" {
			if !kept[ref.TracksRemote] {
				ref.TracksRemote = ""
			} else {
				g.TrackingEdges = append(g.TrackingEdges, TrackingEdge{Local: ref.NodeID(), Remote: ref.TracksRemote})
			}
		}
		g.ReferenceEdges = append(g.ReferenceEdges, ReferenceEdge{From: ref.NodeID(), Target: ref.Target})
	}

	return g, warnings, nil
}
