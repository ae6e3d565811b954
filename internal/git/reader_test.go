package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type fixtureRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	wt   *gogit.Worktree
	n    int
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	return &fixtureRepo{t: t, dir: dir, repo: repo, wt: wt}
}

func (f *fixtureRepo) write(rel, content string) {
	f.t.Helper()
	full := filepath.Join(f.dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		f.t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		f.t.Fatalf("WriteFile: %v", err)
	}
	if _, err := f.wt.Add(rel); err != nil {
		f.t.Fatalf("Add: %v", err)
	}
}

func (f *fixtureRepo) commit(msg string) plumbing.Hash {
	f.t.Helper()
	f.n++
	f.write("file.txt", strings.Repeat("x", f.n)+"\n")
	sig := &object.Signature{
		Name:  "Test",
		Email: "test@example.com",
		When:  time.Date(2024, 1, 1, 0, f.n, 0, 0, time.UTC),
	}
	h, err := f.wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		f.t.Fatalf("Commit: %v", err)
	}
	return h
}

func (f *fixtureRepo) setRef(name plumbing.ReferenceName, h plumbing.Hash) {
	f.t.Helper()
	if err := f.repo.Storer.SetReference(plumbing.NewHashReference(name, h)); err != nil {
		f.t.Fatalf("SetReference(%s): %v", name, err)
	}
}

func (f *fixtureRepo) reader() *GoGitReader {
	f.t.Helper()
	r, err := NewGoGitReader(f.dir)
	if err != nil {
		f.t.Fatalf("NewGoGitReader: %v", err)
	}
	return r
}

func TestNewGoGitReader_NotARepository(t *testing.T) {
	_, err := NewGoGitReader(t.TempDir())
	if !errors.Is(err, ErrRepositoryUnavailable) {
		t.Fatalf("expected ErrRepositoryUnavailable, got %v", err)
	}
}

func TestGoGitReader_EmptyRepository(t *testing.T) {
	f := newFixtureRepo(t)
	r := f.reader()

	refs, err := r.References()
	if err != nil {
		t.Fatalf("References: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no refs, got %+v", refs)
	}

	head, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if !head.Unborn || head.Detached || head.Target != "" {
		t.Fatalf("unexpected head state %+v", head)
	}
}

func TestGoGitReader_ReferencesAndHead(t *testing.T) {
	f := newFixtureRepo(t)
	c1 := f.commit("c1: root")
	c2 := f.commit("c2: second\n\nbody text")

	head, err := f.repo.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	f.setRef(plumbing.NewRemoteReferenceName("origin", head.Name().Short()), c1)
	f.setRef(plumbing.NewTagReferenceName("light"), c1)
	if _, err := f.repo.CreateTag("annotated", c2, &gogit.CreateTagOptions{
		Message: "release",
		Tagger:  &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	}); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	r := f.reader()
	refs, err := r.References()
	if err != nil {
		t.Fatalf("References: %v", err)
	}

	byName := map[string]RawRef{}
	for _, ref := range refs {
		byName[ref.Name] = ref
	}
	if got := byName[head.Name().String()].Target; got != c2.String() {
		t.Errorf("branch target = %s, want %s", got, c2)
	}
	if got := byName["refs/remotes/origin/"+head.Name().Short()].Target; got != c1.String() {
		t.Errorf("remote target = %s, want %s", got, c1)
	}

	annotated := byName["refs/tags/annotated"].Target
	if annotated == c2.String() {
		t.Fatalf("annotated tag should store a tag object id")
	}
	peeled, err := r.ResolveCommit(annotated)
	if err != nil {
		t.Fatalf("ResolveCommit(annotated): %v", err)
	}
	if peeled != c2.String() {
		t.Errorf("peeled = %s, want %s", peeled, c2)
	}

	hs, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if hs.Detached || hs.Branch != head.Name().String() || hs.Target != c2.String() {
		t.Errorf("unexpected head %+v", hs)
	}

	c, err := r.Commit(c2.String())
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if c.Summary() != "c2: second" {
		t.Errorf("Summary = %q", c.Summary())
	}
	if len(c.Parents) != 1 || c.Parents[0] != c1.String() {
		t.Errorf("Parents = %v, want [%s]", c.Parents, c1)
	}
}

func TestGoGitReader_DetachedHead(t *testing.T) {
	f := newFixtureRepo(t)
	c1 := f.commit("c1")
	f.commit("c2")
	f.setRef(plumbing.HEAD, c1)

	hs, err := f.reader().Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if !hs.Detached || hs.Branch != "" || hs.Target != c1.String() {
		t.Fatalf("unexpected head %+v", hs)
	}
}

func TestGoGitReader_MissingObjects(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("c1")
	r := f.reader()

	missing := strings.Repeat("ab", 20)
	if _, err := r.Commit(missing); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Commit(missing) error = %v, want ErrObjectNotFound", err)
	}
	if _, err := r.ResolveCommit(missing); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("ResolveCommit(missing) error = %v, want ErrObjectNotFound", err)
	}
	if _, err := r.ResolveCommit("not-a-hash"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("ResolveCommit(invalid) error = %v, want ErrObjectNotFound", err)
	}
}

func TestGoGitReader_ResolveCommit_Tree(t *testing.T) {
	f := newFixtureRepo(t)
	h := f.commit("c1")
	c, err := f.repo.CommitObject(h)
	if err != nil {
		t.Fatalf("CommitObject: %v", err)
	}
	if _, err := f.reader().ResolveCommit(c.TreeHash.String()); !errors.Is(err, ErrNotCommit) {
		t.Fatalf("expected ErrNotCommit, got %v", err)
	}
}

func TestGoGitReader_Upstream(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("c1")

	cfg, err := f.repo.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	cfg.Branches["main"] = &gitconfig.Branch{
		Name:   "main",
		Remote: "origin",
		Merge:  plumbing.NewBranchReferenceName("main"),
	}
	cfg.Branches["local"] = &gitconfig.Branch{
		Name:   "local",
		Remote: ".",
		Merge:  plumbing.NewBranchReferenceName("main"),
	}
	if err := f.repo.SetConfig(cfg); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	r := f.reader()
	tests := []struct {
		branch string
		want   string
		wantOK bool
	}{
		{branch: "main", want: "refs/remotes/origin/main", wantOK: true},
		{branch: "local", want: "refs/heads/main", wantOK: true},
		{branch: "feature", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			got, ok, err := r.Upstream(tt.branch)
			if err != nil {
				t.Fatalf("Upstream: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("Upstream(%q) = %q, %v; want %q, %v", tt.branch, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGoGitReader_IndexStatus(t *testing.T) {
	f := newFixtureRepo(t)
	f.commit("c1")
	f.write("added.txt", "new\n")

	entries, err := f.reader().IndexStatus()
	if err != nil {
		t.Fatalf("IndexStatus: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %+v, expected 1", entries)
	}
	if entries[0].Path != "added.txt" || entries[0].Status != IndexAdded {
		t.Fatalf("entry = %+v", entries[0])
	}
}

func TestGoGitReader_GitDir(t *testing.T) {
	f := newFixtureRepo(t)
	dir, err := f.reader().GitDir()
	if err != nil {
		t.Fatalf("GitDir: %v", err)
	}
	if filepath.Base(dir) != ".git" {
		t.Fatalf("GitDir = %q, expected a .git directory", dir)
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		input   string
		want    Backend
		wantErr bool
	}{
		{input: "", want: BackendGoGit},
		{input: "go-git", want: BackendGoGit},
		{input: "native", want: BackendGoGit},
		{input: "git", want: BackendCLI},
		{input: "cli", want: BackendCLI},
		{input: "svn", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBackend(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseBackend(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestShortRefName(t *testing.T) {
	tests := map[string]string{
		"refs/heads/feature/x":     "feature/x",
		"refs/remotes/origin/main": "origin/main",
		"refs/tags/v1.0":           "v1.0",
		"refs/stash":               "refs/stash",
	}
	for in, want := range tests {
		if got := ShortRefName(in); got != want {
			t.Errorf("ShortRefName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCommitInfo_Summary(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{message: "one line", want: "one line"},
		{message: "first\nsecond", want: "first"},
		{message: "crlf\r\nbody", want: "crlf"},
		{message: "", want: ""},
	}
	for _, tt := range tests {
		c := CommitInfo{Message: tt.message}
		if got := c.Summary(); got != tt.want {
			t.Errorf("Summary(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
