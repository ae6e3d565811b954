package git

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
)

func TestParseForEachRef(t *testing.T) {
	const (
		commit1 = "1111111111111111111111111111111111111111"
		tagObj  = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	)

	in := strings.Join([]string{
		commit1 + "\x00refs/remotes/origin/main\x00",
		commit1 + "\x00refs/heads/main\x00",
		"\x00refs/remotes/origin/HEAD\x00refs/remotes/origin/main",
		tagObj + "\x00refs/tags/v1.0\x00",
		"",
	}, "\n")

	refs, err := parseForEachRef(in)
	if err != nil {
		t.Fatalf("parseForEachRef: %v", err)
	}
	if len(refs) != 4 {
		t.Fatalf("refs = %d, expected 4", len(refs))
	}
	if refs[0].Name != "refs/heads/main" || refs[0].Target != commit1 {
		t.Fatalf("refs[0] = %+v", refs[0])
	}
	if refs[1].Name != "refs/remotes/origin/HEAD" || refs[1].Symbolic != "refs/remotes/origin/main" || refs[1].Target != "" {
		t.Fatalf("refs[1] = %+v", refs[1])
	}
	if refs[3].Name != "refs/tags/v1.0" || refs[3].Target != tagObj {
		t.Fatalf("refs[3] = %+v", refs[3])
	}
}

func TestParseForEachRef_InvalidLine(t *testing.T) {
	if _, err := parseForEachRef("refs/heads/main\n"); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseRawCommit(t *testing.T) {
	raw := strings.Join([]string{
		"tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904",
		"parent 1111111111111111111111111111111111111111",
		"parent 2222222222222222222222222222222222222222",
		"author Jane Doe <jane@example.com> 1700000000 +0100",
		"committer John Roe <john@example.com> 1700000100 +0000",
		"",
		"merge: topic into main",
		"",
		"details",
		"",
	}, "\n")

	c, err := parseRawCommit("3333333333333333333333333333333333333333", []byte(raw))
	if err != nil {
		t.Fatalf("parseRawCommit: %v", err)
	}
	if len(c.Parents) != 2 || c.Parents[1] != "2222222222222222222222222222222222222222" {
		t.Fatalf("Parents = %v", c.Parents)
	}
	if c.Author.Name != "Jane Doe" || c.Author.Email != "jane@example.com" {
		t.Fatalf("Author = %+v", c.Author)
	}
	if c.When.Unix() != 1700000100 {
		t.Fatalf("When = %v", c.When)
	}
	if c.Summary() != "merge: topic into main" {
		t.Fatalf("Summary = %q", c.Summary())
	}
}

func TestParseRawCommit_Root(t *testing.T) {
	raw := "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\nauthor A <a@b> 1 +0000\ncommitter A <a@b> 1 +0000\n\nroot\n"
	c, err := parseRawCommit("x", []byte(raw))
	if err != nil {
		t.Fatalf("parseRawCommit: %v", err)
	}
	if len(c.Parents) != 0 {
		t.Fatalf("expected no parents, got %v", c.Parents)
	}
}

func TestParseRawCommit_MissingTree(t *testing.T) {
	if _, err := parseRawCommit("x", []byte("garbage")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParsePorcelainStatus(t *testing.T) {
	out := []byte("A  new.txt\x00M  mod.txt\x00 M unstaged.txt\x00R  to.txt\x00from.txt\x00D  gone.txt\x00")

	entries, err := parsePorcelainStatus(out)
	if err != nil {
		t.Fatalf("parsePorcelainStatus: %v", err)
	}

	want := []IndexEntry{
		{Path: "gone.txt", Status: IndexDeleted},
		{Path: "mod.txt", Status: IndexModified},
		{Path: "new.txt", Status: IndexAdded},
		{Path: "to.txt", Status: IndexRenamed},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entries[%d] = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestUpstreamRefName(t *testing.T) {
	tests := []struct {
		remote, merge, want string
	}{
		{remote: "origin", merge: "refs/heads/main", want: "refs/remotes/origin/main"},
		{remote: "upstream", merge: "refs/heads/feature/x", want: "refs/remotes/upstream/feature/x"},
		{remote: ".", merge: "refs/heads/main", want: "refs/heads/main"},
		{remote: "", merge: "refs/heads/main", want: "refs/heads/main"},
	}
	for _, tt := range tests {
		if got := upstreamRefName(tt.remote, tt.merge); got != tt.want {
			t.Errorf("upstreamRefName(%q, %q) = %q, want %q", tt.remote, tt.merge, got, tt.want)
		}
	}
}

func TestCLIReader_MatchesGoGitReader(t *testing.T) {
	requireGit(t)

	f := newFixtureRepo(t)
	c1 := f.commit("c1: root")
	c2 := f.commit("c2: next")
	f.setRef(plumbing.NewTagReferenceName("v1"), c1)

	cli, err := NewCLIReader(f.dir)
	if err != nil {
		t.Fatalf("NewCLIReader: %v", err)
	}
	native := f.reader()

	cliRefs, err := cli.References()
	if err != nil {
		t.Fatalf("cli References: %v", err)
	}
	nativeRefs, err := native.References()
	if err != nil {
		t.Fatalf("native References: %v", err)
	}
	if len(cliRefs) != len(nativeRefs) {
		t.Fatalf("cli refs %+v, native refs %+v", cliRefs, nativeRefs)
	}
	for i := range cliRefs {
		if cliRefs[i] != nativeRefs[i] {
			t.Errorf("ref %d: cli %+v, native %+v", i, cliRefs[i], nativeRefs[i])
		}
	}

	cliHead, err := cli.Head()
	if err != nil {
		t.Fatalf("cli Head: %v", err)
	}
	nativeHead, err := native.Head()
	if err != nil {
		t.Fatalf("native Head: %v", err)
	}
	if cliHead != nativeHead {
		t.Errorf("cli head %+v, native head %+v", cliHead, nativeHead)
	}

	c, err := cli.Commit(c2.String())
	if err != nil {
		t.Fatalf("cli Commit: %v", err)
	}
	if len(c.Parents) != 1 || c.Parents[0] != c1.String() || c.Summary() != "c2: next" {
		t.Errorf("cli commit = %+v", c)
	}
}

func TestObjectError(t *testing.T) {
	const id = "abababababababababababababababababababab"
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{
			name:   "MissingObject",
			err:    &cliError{command: "cat-file", err: errors.New("exit status 128"), stderr: "fatal: git cat-file: could not get object info"},
			wantIs: ErrObjectNotFound,
		},
		{
			name:   "InvalidName",
			err:    &cliError{command: "cat-file", err: errors.New("exit status 128"), stderr: "fatal: Not a valid object name " + id},
			wantIs: ErrObjectNotFound,
		},
		{
			name:   "CorruptLooseObject",
			err:    &cliError{command: "cat-file", err: errors.New("exit status 128"), stderr: "error: inflate: data stream error (incorrect header check)\nfatal: loose object " + id + " is corrupt"},
			wantIs: ErrStoreCorrupt,
		},
		{
			name:   "NotACLIError",
			err:    errors.New("signal: killed"),
			wantIs: ErrStoreCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := objectError(id, tt.err)
			if !errors.Is(got, tt.wantIs) {
				t.Fatalf("objectError = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestCLIReader_UnbornHead(t *testing.T) {
	requireGit(t)
	f := newFixtureRepo(t)

	cli, err := NewCLIReader(f.dir)
	if err != nil {
		t.Fatalf("NewCLIReader: %v", err)
	}
	hs, err := cli.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if !hs.Unborn || hs.Detached || hs.Target != "" || hs.Branch == "" {
		t.Fatalf("unexpected head %+v", hs)
	}
}

func TestCLIReader_HeadAtMissingCommit(t *testing.T) {
	requireGit(t)
	missing := plumbing.NewHash(strings.Repeat("de", 20))

	tests := []struct {
		name  string
		setup func(f *fixtureRepo)
	}{
		{
			name: "Detached",
			setup: func(f *fixtureRepo) {
				f.setRef(plumbing.HEAD, missing)
			},
		},
		{
			name: "Attached",
			setup: func(f *fixtureRepo) {
				head, err := f.repo.Head()
				if err != nil {
					f.t.Fatalf("Head: %v", err)
				}
				f.setRef(head.Name(), missing)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtureRepo(t)
			f.commit("c1")
			tt.setup(f)

			cli, err := NewCLIReader(f.dir)
			if err != nil {
				t.Fatalf("NewCLIReader: %v", err)
			}
			native := f.reader()

			cliHead, err := cli.Head()
			if err != nil {
				t.Fatalf("cli Head: %v", err)
			}
			nativeHead, err := native.Head()
			if err != nil {
				t.Fatalf("native Head: %v", err)
			}
			if cliHead != nativeHead {
				t.Fatalf("cli head %+v, native head %+v", cliHead, nativeHead)
			}
			if cliHead.Unborn || cliHead.Target != missing.String() {
				t.Fatalf("HEAD on a missing commit must keep its target, got %+v", cliHead)
			}

			if _, err := cli.ResolveCommit(cliHead.Target); !errors.Is(err, ErrObjectNotFound) {
				t.Errorf("cli ResolveCommit: expected ErrObjectNotFound, got %v", err)
			}
			if _, err := native.ResolveCommit(nativeHead.Target); !errors.Is(err, ErrObjectNotFound) {
				t.Errorf("native ResolveCommit: expected ErrObjectNotFound, got %v", err)
			}
		})
	}
}
