package graph

import "github.com/masmgr/gitgraph-go/internal/git"

// CommitSource reads commit objects by id.
type CommitSource interface {
	Commit(id string) (*git.CommitInfo, error)
}

// Walker accumulates the union of backward walks over the commit DAG.
// Every commit is read at most once across all walks, so the total cost is
// O(commits + edges) however many starting points share history.
type Walker struct {
	src   CommitSource
	seen  map[string]*git.CommitInfo
	order []string
}

// NewWalker creates an empty Walker reading from src.
func NewWalker(src CommitSource) *Walker {
	return &Walker{src: src, seen: map[string]*git.CommitInfo{}}
}

// Contains reports whether id has already been collected.
func (w *Walker) Contains(id string) bool {
	_, ok := w.seen[id]
	return ok
}

// Len returns the number of collected commits.
func (w *Walker) Len() int {
	return len(w.seen)
}

// Order returns collected ids in visit order.
func (w *Walker) Order() []string {
	return append([]string{}, w.order...)
}

// Commits returns the collected commits keyed by id.
func (w *Walker) Commits() map[string]*git.CommitInfo {
	out := make(map[string]*git.CommitInfo, len(w.seen))
	for id, c := range w.seen {
		out[id] = c
	}
	return out
}

// Walk collects start and every ancestor not yet collected, depth first with
// parents taken in their stored order. The walk is all-or-nothing: if any commit
// on it cannot be read, nothing from this walk is kept and the failing id is
// returned with the error, so the collected set stays closed under parents.
func (w *Walker) Walk(start string) (failed string, err error) {
	if w.Contains(start) {
		return "", nil
	}

	pending := map[string]*git.CommitInfo{}
	var pendingOrder []string
	stack := []string{start}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := w.seen[id]; ok {
			continue
		}
		if _, ok := pending[id]; ok {
			continue
		}

		c, err := w.src.Commit(id)
		if err != nil {
			return id, err
		}
		pending[id] = c
		pendingOrder = append(pendingOrder, id)

		// Push in reverse so the first parent is visited first.
		for i := len(c.Parents) - 1; i >= 0; i-- {
			p := c.Parents[i]
			if _, ok := w.seen[p]; ok {
				continue
			}
			if _, ok := pending[p]; ok {
				continue
			}
			stack = append(stack, p)
		}
	}

	for _, id := range pendingOrder {
		w.seen[id] = pending[id]
	}
	w.order = append(w.order, pendingOrder...)
	return "", nil
}
