package git

import (
	"fmt"
	"sort"
)

// MockRepository is an in-memory RepositoryReader.
// It allows tests to describe commit graphs without needing a real Git repository.
type MockRepository struct {
	Commits   map[string]*CommitInfo
	Tags      map[string]string // annotated tag object id -> target id
	Refs      []RawRef
	HeadRef   HeadState
	Upstreams map[string]string // short branch name -> fully-qualified upstream
	Index     []IndexEntry

	// Unreadable lists object ids that exist but fail to decode.
	Unreadable map[string]bool
	// RefsError and HeadError simulate an unreadable reference store.
	RefsError error
	HeadError error
}

// NewMockRepository creates an empty MockRepository with an unborn HEAD.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		Commits:    map[string]*CommitInfo{},
		Tags:       map[string]string{},
		Upstreams:  map[string]string{},
		Unreadable: map[string]bool{},
		HeadRef:    HeadState{Branch: BranchPrefix + "main", Unborn: true},
	}
}

// AddCommit stores a commit with the given parents and message.
func (m *MockRepository) AddCommit(id, message string, parents ...string) *MockRepository {
	m.Commits[id] = &CommitInfo{SHA: id, Parents: append([]string{}, parents...), Message: message}
	return m
}

// SetRef adds or replaces a direct reference.
func (m *MockRepository) SetRef(name, target string) *MockRepository {
	for i := range m.Refs {
		if m.Refs[i].Name == name {
			m.Refs[i] = RawRef{Name: name, Target: target}
			return m
		}
	}
	m.Refs = append(m.Refs, RawRef{Name: name, Target: target})
	return m
}

// AttachHead points HEAD symbolically at a local branch.
func (m *MockRepository) AttachHead(branch string) *MockRepository {
	name := BranchPrefix + branch
	m.HeadRef = HeadState{Branch: name, Unborn: true}
	for _, ref := range m.Refs {
		if ref.Name == name {
			m.HeadRef = HeadState{Branch: name, Target: ref.Target}
		}
	}
	return m
}

// DetachHead points HEAD directly at a commit id.
func (m *MockRepository) DetachHead(id string) *MockRepository {
	m.HeadRef = HeadState{Target: id, Detached: true}
	return m
}

// References returns the configured refs sorted by name.
func (m *MockRepository) References() ([]RawRef, error) {
	if m.RefsError != nil {
		return nil, m.RefsError
	}
	refs := append([]RawRef{}, m.Refs...)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Head returns the configured HEAD state.
func (m *MockRepository) Head() (HeadState, error) {
	if m.HeadError != nil {
		return HeadState{}, m.HeadError
	}
	return m.HeadRef, nil
}

// ResolveCommit follows Tags until a commit id is reached. It only checks that
// the commit exists, so ids listed in Unreadable still resolve.
func (m *MockRepository) ResolveCommit(id string) (string, error) {
	for i := 0; i < maxTagDepth; i++ {
		if _, ok := m.Commits[id]; ok {
			return id, nil
		}
		target, ok := m.Tags[id]
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrObjectNotFound, id)
		}
		id = target
	}
	return "", fmt.Errorf("%w: tag chain too deep", ErrStoreCorrupt)
}

// Commit returns a copy of the stored commit.
func (m *MockRepository) Commit(id string) (*CommitInfo, error) {
	if m.Unreadable[id] {
		return nil, fmt.Errorf("%w: %s", ErrStoreCorrupt, id)
	}
	c, ok := m.Commits[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	cp := *c
	cp.Parents = append([]string{}, c.Parents...)
	return &cp, nil
}

// Upstream returns the configured upstream for branch.
func (m *MockRepository) Upstream(branch string) (string, bool, error) {
	up, ok := m.Upstreams[branch]
	return up, ok, nil
}

// IndexStatus returns the configured staged entries.
func (m *MockRepository) IndexStatus() ([]IndexEntry, error) {
	return m.Index, nil
}
