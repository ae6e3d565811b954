package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// CLIReader reads a repository by invoking the git binary.
type CLIReader struct {
	repoPath string
	gitDir   string
}

// NewCLIReader verifies repoPath is inside a work tree or git dir and returns a reader.
func NewCLIReader(repoPath string) (*CLIReader, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	r := &CLIReader{repoPath: abs}
	out, err := r.run("rev-parse", "--absolute-git-dir")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	r.gitDir = strings.TrimSpace(out)
	return r, nil
}

// GitDir returns the repository's .git directory.
func (r *CLIReader) GitDir() (string, error) {
	return r.gitDir, nil
}

// References lists every ref via for-each-ref.
func (r *CLIReader) References() ([]RawRef, error) {
	out, err := r.run("for-each-ref", "--format=%(objectname)%00%(refname)%00%(symref)")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	return parseForEachRef(out)
}

// Head reads HEAD with symbolic-ref and rev-parse. The target is reported
// unresolved so a HEAD pointing at a missing commit surfaces in ResolveCommit.
func (r *CLIReader) Head() (HeadState, error) {
	branch, symErr := r.run("symbolic-ref", "-q", "HEAD")
	branch = strings.TrimSpace(branch)

	if symErr == nil && branch != "" {
		target, err := r.run("rev-parse", "-q", "--verify", branch)
		target = strings.TrimSpace(target)
		if err != nil || target == "" {
			// the branch HEAD names has no ref yet
			return HeadState{Branch: branch, Unborn: true}, nil
		}
		return HeadState{Branch: branch, Target: target}, nil
	}

	target, err := r.run("rev-parse", "-q", "--verify", "HEAD")
	target = strings.TrimSpace(target)
	if err != nil || target == "" {
		return HeadState{}, fmt.Errorf("%w: read HEAD: %v", ErrStoreCorrupt, err)
	}
	return HeadState{Target: target, Detached: true}, nil
}

// ResolveCommit peels id to a commit with rev-parse.
func (r *CLIReader) ResolveCommit(id string) (string, error) {
	kind, err := r.objectType(id)
	if err != nil {
		return "", err
	}
	if kind != "commit" && kind != "tag" {
		return "", fmt.Errorf("%s is a %s: %w", id, kind, ErrNotCommit)
	}
	out, err := r.run("rev-parse", "-q", "--verify", id+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("peel %s: %w", id, ErrNotCommit)
	}
	return strings.TrimSpace(out), nil
}

// Commit reads a raw commit object with cat-file.
func (r *CLIReader) Commit(id string) (*CommitInfo, error) {
	kind, err := r.objectType(id)
	if err != nil {
		return nil, err
	}
	if kind != "commit" {
		return nil, fmt.Errorf("%s is a %s: %w", id, kind, ErrNotCommit)
	}
	out, err := r.run("cat-file", "commit", id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, id, err)
	}
	c, err := parseRawCommit(id, []byte(out))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	return c, nil
}

// Upstream reads the configured upstream of a local branch.
func (r *CLIReader) Upstream(branch string) (string, bool, error) {
	remote, _ := r.run("config", "--get", "branch."+branch+".remote")
	merge, err := r.run("config", "--get", "branch."+branch+".merge")
	merge = strings.TrimSpace(merge)
	if err != nil || merge == "" {
		// git config exits 1 when the key is unset
		return "", false, nil
	}
	return upstreamRefName(strings.TrimSpace(remote), merge), true, nil
}

// IndexStatus parses git status --porcelain -z.
func (r *CLIReader) IndexStatus() ([]IndexEntry, error) {
	bare, err := r.run("rev-parse", "--is-bare-repository")
	if err == nil && strings.TrimSpace(bare) == "true" {
		return nil, nil
	}
	out, err := r.run("status", "--porcelain", "-z", "--untracked-files=no")
	if err != nil {
		return nil, fmt.Errorf("git status failed: %w", err)
	}
	return parsePorcelainStatus([]byte(out))
}

func (r *CLIReader) objectType(id string) (string, error) {
	out, err := r.run("cat-file", "-t", id)
	if err != nil {
		return "", objectError(id, err)
	}
	return strings.TrimSpace(out), nil
}

// objectError tells a missing object apart from one git could not read.
func objectError(id string, err error) error {
	var ce *cliError
	if errors.As(err, &ce) {
		msg := strings.ToLower(ce.stderr)
		if strings.Contains(msg, "could not get object info") || strings.Contains(msg, "not a valid object name") {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, id, err)
}

// cliError is a failed git invocation with its captured stderr.
type cliError struct {
	command string
	err     error
	stderr  string
}

func (e *cliError) Error() string {
	return fmt.Sprintf("git %s failed: %v: %s", e.command, e.err, e.stderr)
}

func (e *cliError) Unwrap() error {
	return e.err
}

func (r *CLIReader) run(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	full := append([]string{"-C", r.repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), &cliError{command: args[0], err: err, stderr: strings.TrimSpace(stderr.String())}
	}
	return stdout.String(), nil
}

func parseForEachRef(out string) ([]RawRef, error) {
	var refs []RawRef
	for _, rawLine := range strings.Split(out, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\x00")
		if len(fields) != 3 {
			return nil, fmt.Errorf("unexpected for-each-ref output line: %q", rawLine)
		}
		ref := RawRef{Name: fields[1]}
		if fields[2] != "" {
			ref.Symbolic = fields[2]
		} else {
			ref.Target = fields[0]
		}
		if ref.Name == "" {
			return nil, fmt.Errorf("unexpected for-each-ref output line: %q", rawLine)
		}
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// parseRawCommit decodes the output of git cat-file commit.
func parseRawCommit(id string, raw []byte) (*CommitInfo, error) {
	header, message, found := bytes.Cut(raw, []byte("\n\n"))
	if !found {
		header = raw
		message = nil
	}

	c := &CommitInfo{SHA: id, Parents: []string{}, Message: string(message)}
	for _, line := range strings.Split(string(header), "\n") {
		key, value, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		switch key {
		case "parent":
			c.Parents = append(c.Parents, value)
		case "author":
			c.Author = parseSignature(value)
		case "committer":
			c.When = parseSignatureTime(value)
		}
	}
	if len(header) == 0 || !bytes.HasPrefix(header, []byte("tree ")) {
		return nil, fmt.Errorf("commit %s: missing tree header", id)
	}
	return c, nil
}

func parseSignature(value string) AuthorInfo {
	name, rest, ok := strings.Cut(value, " <")
	if !ok {
		return AuthorInfo{Name: value}
	}
	email, _, _ := strings.Cut(rest, ">")
	return AuthorInfo{Name: name, Email: email}
}

func parseSignatureTime(value string) time.Time {
	idx := strings.LastIndex(value, "> ")
	if idx == -1 {
		return time.Time{}
	}
	fields := strings.Fields(value[idx+2:])
	if len(fields) == 0 {
		return time.Time{}
	}
	var unix int64
	if _, err := fmt.Sscanf(fields[0], "%d", &unix); err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}

// parsePorcelainStatus reads NUL-separated porcelain v1 records.
func parsePorcelainStatus(out []byte) ([]IndexEntry, error) {
	var entries []IndexEntry
	records := bytes.Split(out, []byte{0})
	for i := 0; i < len(records); i++ {
		rec := records[i]
		if len(rec) == 0 {
			continue
		}
		if len(rec) < 4 || rec[2] != ' ' {
			return nil, fmt.Errorf("unexpected porcelain record: %q", string(rec))
		}
		code := rec[0]
		path := string(rec[3:])
		if code == 'R' || code == 'C' {
			// the source path follows as its own record
			i++
		}
		st, ok := indexStatusFromCode(code)
		if !ok {
			continue
		}
		entries = append(entries, IndexEntry{Path: path, Status: st})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

