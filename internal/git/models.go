package git

import (
	"strings"
	"time"
)

// Fully-qualified reference namespaces.
const (
	BranchPrefix = "refs/heads/"
	RemotePrefix = "refs/remotes/"
	TagPrefix    = "refs/tags/"
	HeadName     = "HEAD"
)

// CommitInfo represents the parts of a commit object the graph needs.
type CommitInfo struct {
	SHA     string
	Parents []string
	When    time.Time
	Author  AuthorInfo
	Message string
}

// Summary returns the first line of the commit message.
func (c CommitInfo) Summary() string {
	message := c.Message
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimRight(message, "\r")
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// RawRef is an entry of the reference store as read, before classification.
type RawRef struct {
	Name   string // fully-qualified, e.g. refs/heads/main
	Target string // object id the ref stores; may be a tag object
	// Symbolic holds the target ref name for symbolic refs such as
	// refs/remotes/origin/HEAD. Target is empty in that case.
	Symbolic string
}

// ShortName strips the namespace prefix from the reference name.
func (r RawRef) ShortName() string {
	return ShortRefName(r.Name)
}

// ShortRefName strips the refs/heads/, refs/remotes/ or refs/tags/ prefix.
func ShortRefName(name string) string {
	for _, prefix := range []string{BranchPrefix, RemotePrefix, TagPrefix} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// HeadState describes the current-position pointer.
type HeadState struct {
	// Branch is the fully-qualified branch HEAD names symbolically; empty when detached.
	Branch string
	// Target is the commit id HEAD resolves to; empty when unborn.
	Target   string
	Detached bool
	// Unborn is set when HEAD names a branch that has no commits yet.
	Unborn bool
}

// IndexEntry is a staged change in the index.
type IndexEntry struct {
	Path   string
	Status IndexStatus
}

// IndexStatus is the staged state of a path.
type IndexStatus int

const (
	IndexAdded IndexStatus = iota
	IndexModified
	IndexDeleted
	IndexRenamed
)

// String returns the short label used in diagrams.
func (s IndexStatus) String() string {
	switch s {
	case IndexAdded:
		return "new"
	case IndexModified:
		return "mod"
	case IndexDeleted:
		return "del"
	case IndexRenamed:
		return "mv"
	default:
		return "unknown"
	}
}

// Backend selects the RepositoryReader implementation.
type Backend string

const (
	BackendGoGit Backend = "go-git"
	BackendCLI   Backend = "git"
)

// OpenOptions configures how a repository is opened.
type OpenOptions struct {
	RepoPath string
	Backend  Backend
}
