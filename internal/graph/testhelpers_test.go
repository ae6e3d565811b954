package graph

import (
	"crypto/sha1"
	"encoding/hex"
	"testing"

	"github.com/masmgr/gitgraph-go/internal/git"
)

// id returns a deterministic 40-character hex id for a readable commit name.
func id(name string) string {
	sum := sha1.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// linearRepo builds c1 <- c2 <- c3 with main at c3.
func linearRepo() *git.MockRepository {
	return git.NewMockRepository().
		AddCommit(id("c1"), "c1: root").
		AddCommit(id("c2"), "c2: second", id("c1")).
		AddCommit(id("c3"), "c3: third", id("c2")).
		SetRef("refs/heads/main", id("c3"))
}

func mustBuild(t *testing.T, repo git.RepositoryReader, opts Options) *Result {
	t.Helper()
	res, err := Build(repo, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func assertNoDanglingEdges(t *testing.T, g *Graph) {
	t.Helper()
	for _, e := range g.CommitEdges {
		if _, ok := g.Commits[e.Child]; !ok {
			t.Errorf("edge child %s not in commits", e.Child)
		}
		if _, ok := g.Commits[e.Parent]; !ok {
			t.Errorf("edge parent %s not in commits", e.Parent)
		}
	}
	for _, e := range g.ReferenceEdges {
		if _, ok := g.Commits[e.Target]; !ok {
			t.Errorf("reference edge %s targets missing commit %s", e.From, e.Target)
		}
	}
}

func hasCommitEdge(g *Graph, child, parent string) bool {
	for _, e := range g.CommitEdges {
		if e.Child == child && e.Parent == parent {
			return true
		}
	}
	return false
}

func findRef(refs []Reference, fullName string) (Reference, bool) {
	for _, r := range refs {
		if r.FullName == fullName {
			return r, true
		}
	}
	return Reference{}, false
}

func warningKinds(ws []Warning) []WarningKind {
	kinds := make([]WarningKind, len(ws))
	for i, w := range ws {
		kinds[i] = w.Kind
	}
	return kinds
}
