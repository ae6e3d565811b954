package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// ErrNotCommit is returned when an id peels to an object that is not a commit.
var ErrNotCommit = errors.New("object is not a commit")

// maxTagDepth bounds tag-of-tag chains while peeling.
const maxTagDepth = 8

// GoGitReader reads a repository through go-git.
type GoGitReader struct {
	repo *git.Repository
	path string
}

// NewGoGitReader opens the repository containing repoPath.
func NewGoGitReader(repoPath string) (*GoGitReader, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrRepositoryUnavailable, abs, err)
	}
	return &GoGitReader{repo: repo, path: abs}, nil
}

// NewGoGitReaderFromRepository wraps an already opened repository.
func NewGoGitReaderFromRepository(repo *git.Repository) *GoGitReader {
	return &GoGitReader{repo: repo}
}

// GitDir returns the repository's .git directory.
func (r *GoGitReader) GitDir() (string, error) {
	fs, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository at %q is not stored on disk", r.path)
	}
	return fs.Filesystem().Root(), nil
}

// References lists branches, remote-tracking branches, tags and any other refs.
func (r *GoGitReader) References() ([]RawRef, error) {
	iter, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("%w: list references: %v", ErrStoreCorrupt, err)
	}
	defer iter.Close()

	var refs []RawRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name() == plumbing.HEAD {
			return nil
		}
		raw := RawRef{Name: ref.Name().String()}
		switch ref.Type() {
		case plumbing.SymbolicReference:
			raw.Symbolic = ref.Target().String()
		case plumbing.HashReference:
			raw.Target = ref.Hash().String()
		default:
			return nil
		}
		refs = append(refs, raw)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: iterate references: %v", ErrStoreCorrupt, err)
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Head resolves HEAD without failing on unborn branches.
func (r *GoGitReader) Head() (HeadState, error) {
	head, err := r.repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return HeadState{Unborn: true}, nil
		}
		return HeadState{}, fmt.Errorf("%w: read HEAD: %v", ErrStoreCorrupt, err)
	}

	if head.Type() == plumbing.HashReference {
		return HeadState{Target: head.Hash().String(), Detached: true}, nil
	}

	state := HeadState{Branch: head.Target().String()}
	ref, err := r.repo.Storer.Reference(head.Target())
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			state.Unborn = true
			return state, nil
		}
		return HeadState{}, fmt.Errorf("%w: read %s: %v", ErrStoreCorrupt, head.Target(), err)
	}
	if ref.Type() != plumbing.HashReference {
		// Chains of symbolic refs are resolved by go-git itself.
		resolved, err := r.repo.Reference(head.Target(), true)
		if err != nil {
			return HeadState{}, fmt.Errorf("%w: resolve %s: %v", ErrStoreCorrupt, head.Target(), err)
		}
		ref = resolved
	}
	state.Target = ref.Hash().String()
	return state, nil
}

// ResolveCommit peels annotated tags until a commit is reached.
func (r *GoGitReader) ResolveCommit(id string) (string, error) {
	if !plumbing.IsHash(id) {
		return "", fmt.Errorf("%w: invalid object id %q", ErrObjectNotFound, id)
	}
	h := plumbing.NewHash(id)
	for i := 0; i < maxTagDepth; i++ {
		obj, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, h)
		if err != nil {
			return "", wrapObjectError(h.String(), err)
		}
		switch obj.Type() {
		case plumbing.CommitObject:
			return h.String(), nil
		case plumbing.TagObject:
			tag, err := object.DecodeTag(r.repo.Storer, obj)
			if err != nil {
				return "", fmt.Errorf("%w: decode tag %s: %v", ErrStoreCorrupt, h, err)
			}
			h = tag.Target
		default:
			return "", fmt.Errorf("%s is a %s: %w", h, obj.Type(), ErrNotCommit)
		}
	}
	return "", fmt.Errorf("%w: tag chain from %s is too deep", ErrStoreCorrupt, id)
}

// Commit reads a commit object.
func (r *GoGitReader) Commit(id string) (*CommitInfo, error) {
	if !plumbing.IsHash(id) {
		return nil, fmt.Errorf("%w: invalid object id %q", ErrObjectNotFound, id)
	}
	c, err := r.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, wrapObjectError(id, err)
	}

	parents := make([]string, len(c.ParentHashes))
	for i, p := range c.ParentHashes {
		parents[i] = p.String()
	}

	return &CommitInfo{
		SHA:     c.Hash.String(),
		Parents: parents,
		When:    c.Committer.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message: c.Message,
	}, nil
}

// Upstream reads branch.<name>.remote and branch.<name>.merge from the config.
func (r *GoGitReader) Upstream(branch string) (string, bool, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", false, fmt.Errorf("%w: read config: %v", ErrStoreCorrupt, err)
	}
	b, ok := cfg.Branches[branch]
	if !ok || b == nil || b.Merge == "" {
		return "", false, nil
	}
	return upstreamRefName(b.Remote, b.Merge.String()), true, nil
}

// upstreamRefName maps a remote plus merge ref onto the tracking ref name.
func upstreamRefName(remote, merge string) string {
	if remote == "" || remote == "." {
		return merge
	}
	return RemotePrefix + remote + "/" + ShortRefName(merge)
}

// IndexStatus lists staged changes of the worktree.
func (r *GoGitReader) IndexStatus() ([]IndexEntry, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return nil, nil
		}
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}

	var entries []IndexEntry
	for path, fs := range status {
		st, ok := indexStatusFromCode(byte(fs.Staging))
		if !ok {
			continue
		}
		entries = append(entries, IndexEntry{Path: path, Status: st})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// indexStatusFromCode maps a porcelain status letter onto an IndexStatus.
func indexStatusFromCode(code byte) (IndexStatus, bool) {
	switch code {
	case 'A':
		return IndexAdded, true
	case 'M':
		return IndexModified, true
	case 'D':
		return IndexDeleted, true
	case 'R':
		return IndexRenamed, true
	default:
		return 0, false
	}
}

func wrapObjectError(id string, err error) error {
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	return fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, id, err)
}
