package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/revlens/revlens/pkg/review"
)

// ChangedFile is one entry of the changed-file set, tagged with the file's
// relationship to the snapshot, index and working tree. Produced once per
// run and immutable afterward.
type ChangedFile struct {
	Path   string
	Status review.CommitStatus
}

// ChangedFiles collects every path that differs between the two revisions or
// carries uncommitted changes. The committed tree diff is listed first, in
// diff order, followed by uncommitted-only paths in scan order; the only
// dedup is the set-membership check between the two groups. Each path is
// classified against the cached status scan.
func (r *Repository) ChangedFiles(sourceRef, targetRef string) ([]ChangedFile, error) {
	var paths []string

	seen := make(map[string]bool)

	if sourceRef != targetRef {
		diffPaths, err := r.diffPaths(sourceRef, targetRef)
		if err != nil {
			return nil, err
		}

		for _, path := range diffPaths {
			seen[path] = true

			paths = append(paths, path)
		}
	}

	uncommitted, err := r.uncommittedPaths()
	if err != nil {
		return nil, err
	}

	for _, path := range uncommitted {
		if seen[path] {
			continue
		}

		seen[path] = true

		paths = append(paths, path)
	}

	files := make([]ChangedFile, 0, len(paths))

	for _, path := range paths {
		status, classifyErr := r.Classify(path)
		if classifyErr != nil {
			return nil, classifyErr
		}

		files = append(files, ChangedFile{Path: path, Status: status})
	}

	return files, nil
}

// diffPaths returns the new-side path of every delta between the two
// resolved commit trees, in diff order.
func (r *Repository) diffPaths(sourceRef, targetRef string) ([]string, error) {
	diff, err := r.treeDiff(sourceRef, targetRef)
	if err != nil {
		return nil, err
	}
	defer diff.Free()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	paths := make([]string, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		path := delta.NewFile.Path
		if path == "" {
			path = delta.OldFile.Path
		}

		if path != "" {
			paths = append(paths, path)
		}
	}

	return paths, nil
}

// treeDiff computes the tree-to-tree diff between two resolved revisions.
// The caller owns the returned diff.
func (r *Repository) treeDiff(sourceRef, targetRef string) (*git2go.Diff, error) {
	sourceCommit, err := r.resolveCommit(sourceRef)
	if err != nil {
		return nil, err
	}
	defer sourceCommit.Free()

	targetCommit, err := r.resolveCommit(targetRef)
	if err != nil {
		return nil, err
	}
	defer targetCommit.Free()

	sourceTree, err := sourceCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get source tree: %w", err)
	}
	defer sourceTree.Free()

	targetTree, err := targetCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get target tree: %w", err)
	}
	defer targetTree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(sourceTree, targetTree, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}

	return diff, nil
}
