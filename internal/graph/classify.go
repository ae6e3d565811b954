package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/masmgr/gitgraph-go/internal/git"
)

// Classification is the output of Classify.
type Classification struct {
	// References is sorted by FullName with the CurrentPosition record, if any, last.
	References []Reference
	Warnings   []Warning
}

// Head returns the CurrentPosition record, if any.
func (c *Classification) Head() (Reference, bool) {
	if n := len(c.References); n > 0 && c.References[n-1].Kind == CurrentPosition {
		return c.References[n-1], true
	}
	return Reference{}, false
}

// kindOf classifies a fully-qualified ref name by namespace.
func kindOf(name string) (RefKind, bool) {
	switch {
	case strings.HasPrefix(name, git.BranchPrefix):
		return LocalBranch, true
	case strings.HasPrefix(name, git.RemotePrefix):
		return RemoteTrackingBranch, true
	case strings.HasPrefix(name, git.TagPrefix):
		return Tag, true
	default:
		return 0, false
	}
}

// Classify produces one Reference per branch, remote-tracking branch and tag kept
// by filter, plus the CurrentPosition record when HEAD is born. References whose
// target does not resolve to a commit are dropped with a CorruptReference warning.
// Failing to list references or read HEAD at all is returned as an error.
func Classify(repo git.RepositoryReader, filter RefFilter) (*Classification, error) {
	raws, err := repo.References()
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}

	out := &Classification{}
	known := make(map[string]bool, len(raws))

	for _, raw := range raws {
		known[raw.Name] = true

		kind, ok := kindOf(raw.Name)
		if !ok {
			continue
		}
		// Symbolic refs such as refs/remotes/origin/HEAD alias another ref.
		if raw.Symbolic != "" {
			continue
		}
		short := raw.ShortName()
		if !filter.Match(short) {
			continue
		}

		target, err := repo.ResolveCommit(raw.Target)
		if err != nil {
			out.Warnings = append(out.Warnings, Warning{Kind: CorruptReference, Ref: raw.Name, Commit: raw.Target, Err: err})
			continue
		}

		out.References = append(out.References, Reference{
			Name:     short,
			FullName: raw.Name,
			Kind:     kind,
			Target:   target,
		})
	}

	sort.SliceStable(out.References, func(i, j int) bool {
		return out.References[i].FullName < out.References[j].FullName
	})

	out.Warnings = append(out.Warnings, linkUpstreams(repo, out.References, known)...)

	head, ok, warn, err := classifyHead(repo)
	if err != nil {
		return nil, err
	}
	if warn != nil {
		out.Warnings = append(out.Warnings, *warn)
	}
	if ok {
		out.References = append(out.References, head)
	}

	return out, nil
}

// linkUpstreams sets TracksRemote on local branches whose configured upstream is
// a classified remote-tracking branch.
func linkUpstreams(repo git.RepositoryReader, refs []Reference, known map[string]bool) []Warning {
	remotes := map[string]bool{}
	for _, r := range refs {
		if r.Kind == RemoteTrackingBranch {
			remotes[r.FullName] = true
		}
	}

	var warnings []Warning
	for i := range refs {
		if refs[i].Kind != LocalBranch {
			continue
		}
		upstream, ok, err := repo.Upstream(refs[i].Name)
		if err != nil {
			warnings = append(warnings, Warning{Kind: StaleTracking, Ref: refs[i].FullName, Err: err})
			continue
		}
		if !ok || !strings.HasPrefix(upstream, git.RemotePrefix) {
			continue
		}
		switch {
		case remotes[upstream]:
			refs[i].TracksRemote = upstream
		case !known[upstream]:
			warnings = append(warnings, Warning{
				Kind: StaleTracking,
				Ref:  refs[i].FullName,
				Err:  fmt.Errorf("upstream %s does not exist", upstream),
			})
		}
	}
	return warnings
}

// classifyHead builds the CurrentPosition record. ok is false for an unborn HEAD
// or when HEAD's target does not resolve.
func classifyHead(repo git.RepositoryReader) (Reference, bool, *Warning, error) {
	hs, err := repo.Head()
	if err != nil {
		return Reference{}, false, nil, fmt.Errorf("read current position: %w", err)
	}
	if hs.Unborn {
		return Reference{}, false, nil, nil
	}

	target, err := repo.ResolveCommit(hs.Target)
	if err != nil {
		return Reference{}, false, &Warning{Kind: CorruptReference, Ref: git.HeadName, Commit: hs.Target, Err: err}, nil
	}

	ref := Reference{
		FullName: git.HeadName,
		Kind:     CurrentPosition,
		Target:   target,
		Detached: hs.Detached,
	}
	if !hs.Detached {
		ref.Name = git.ShortRefName(hs.Branch)
	}
	return ref, true, nil, nil
}
