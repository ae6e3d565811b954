package graph

import (
	"sort"

	"github.com/masmgr/gitgraph-go/internal/git"
)

// Collection is the set of commits to render.
type Collection struct {
	Commits map[string]*git.CommitInfo
	// Order lists commit ids in deterministic visit order.
	Order []string
	// DetachedExtra is the detached HEAD target when no other reference reaches it.
	DetachedExtra string
	Warnings      []Warning
}

// Contains reports whether id is in the collection.
func (c *Collection) Contains(id string) bool {
	_, ok := c.Commits[id]
	return ok
}

// startOrder returns refs sorted lexically by FullName with CurrentPosition last.
func startOrder(refs []Reference) []Reference {
	sorted := append([]Reference{}, refs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		hi, hj := sorted[i].Kind == CurrentPosition, sorted[j].Kind == CurrentPosition
		if hi != hj {
			return hj
		}
		return sorted[i].FullName < sorted[j].FullName
	})
	return sorted
}

// Collect walks backward from every reference's target and returns the union.
// A detached CurrentPosition whose target no named reference reaches contributes
// exactly that commit plus whichever of its ancestors were not already collected.
// When a walk hits an unreadable commit the reference's contribution is skipped
// with an UnreadableObject warning and collection continues.
func Collect(src CommitSource, refs []Reference) *Collection {
	w := NewWalker(src)
	out := &Collection{}

	for _, ref := range startOrder(refs) {
		detachedExtra := ref.Kind == CurrentPosition && ref.Detached && !w.Contains(ref.Target)

		failed, err := w.Walk(ref.Target)
		if err != nil {
			out.Warnings = append(out.Warnings, Warning{Kind: UnreadableObject, Ref: ref.FullName, Commit: failed, Err: err})
			continue
		}
		if detachedExtra {
			out.DetachedExtra = ref.Target
		}
	}

	out.Commits = w.Commits()
	out.Order = w.Order()
	return out
}
