package git

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryUnavailable is returned when the object or reference store cannot be opened.
	ErrRepositoryUnavailable = errors.New("repository unavailable")
	// ErrObjectNotFound is returned when an object id does not exist in the store.
	ErrObjectNotFound = errors.New("object not found")
	// ErrStoreCorrupt is returned when an object exists but cannot be read or decoded.
	ErrStoreCorrupt = errors.New("object store unreadable")
)

// RepositoryReader is the read-only view of a repository the graph is built from.
// Implementations must report missing objects with ErrObjectNotFound and
// unreadable ones with ErrStoreCorrupt so callers can tell them apart.
type RepositoryReader interface {
	// References lists every entry of the reference store except HEAD.
	References() ([]RawRef, error)

	// Head resolves the current-position pointer.
	Head() (HeadState, error)

	// ResolveCommit peels id (following annotated tags) to the commit it names.
	ResolveCommit(id string) (string, error)

	// Commit reads the commit object with the given id.
	Commit(id string) (*CommitInfo, error)

	// Upstream returns the fully-qualified ref the branch is configured to track.
	// ok is false when no upstream is configured.
	Upstream(branch string) (upstream string, ok bool, err error)

	// IndexStatus lists staged changes. Bare repositories return no entries.
	IndexStatus() ([]IndexEntry, error)
}

// Open opens a repository with the requested backend.
func Open(opts OpenOptions) (RepositoryReader, error) {
	switch opts.Backend {
	case BackendCLI:
		return NewCLIReader(opts.RepoPath)
	case BackendGoGit, "":
		return NewGoGitReader(opts.RepoPath)
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}

// ParseBackend converts a flag value into a Backend.
func ParseBackend(s string) (Backend, error) {
	switch s {
	case "", "go-git", "gogit", "native":
		return BackendGoGit, nil
	case "git", "cli", "gitcli":
		return BackendCLI, nil
	default:
		return "", fmt.Errorf("invalid backend %q (expected go-git or git)", s)
	}
}

// Compile-time interface conformance checks.
var (
	_ RepositoryReader = (*GoGitReader)(nil)
	_ RepositoryReader = (*CLIReader)(nil)
	_ RepositoryReader = (*MockRepository)(nil)
)
