package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/revlens/revlens/pkg/review"
)

// StatusRecord is one entry of the index/working-tree status scan.
type StatusRecord struct {
	Path   string
	Status git2go.Status
}

// statusRecords runs the status scan once and caches the result for the
// lifetime of the handle. Classification must be stable within a run, so the
// scan is never refreshed.
func (r *Repository) statusRecords() ([]StatusRecord, error) {
	if r.statusReady {
		return r.statuses, nil
	}

	opts := &git2go.StatusOptions{
		Show:  git2go.StatusShowIndexAndWorkdir,
		Flags: git2go.StatusOptIncludeUntracked | git2go.StatusOptRecurseUntrackedDirs,
	}

	list, err := r.repo.StatusList(opts)
	if err != nil {
		return nil, fmt.Errorf("status scan: %w", err)
	}
	defer list.Free()

	count, err := list.EntryCount()
	if err != nil {
		return nil, fmt.Errorf("status entry count: %w", err)
	}

	records := make([]StatusRecord, 0, count)

	for i := range count {
		entry, entryErr := list.ByIndex(i)
		if entryErr != nil {
			continue
		}

		path := statusEntryPath(entry)
		if path == "" {
			continue
		}

		records = append(records, StatusRecord{Path: path, Status: entry.Status})
	}

	r.statuses = records
	r.statusReady = true

	return r.statuses, nil
}

// statusEntryPath extracts the path from whichever delta side the entry
// populated. Deleted files only carry the old-file path.
func statusEntryPath(entry git2go.StatusEntry) string {
	for _, candidate := range []string{
		entry.IndexToWorkdir.NewFile.Path,
		entry.IndexToWorkdir.OldFile.Path,
		entry.HeadToIndex.NewFile.Path,
		entry.HeadToIndex.OldFile.Path,
	} {
		if candidate != "" {
			return candidate
		}
	}

	return ""
}

// Classify returns the commit status for a path. Precedence, first match
// wins: index flags make it Staged, a new working-tree file is Untracked, a
// modified or deleted working-tree file is Modified, and anything the status
// scan did not flag is assumed Committed.
func (r *Repository) Classify(path string) (review.CommitStatus, error) {
	records, err := r.statusRecords()
	if err != nil {
		return review.StatusCommitted, err
	}

	for _, record := range records {
		if record.Path != path {
			continue
		}

		return classifyStatus(record.Status), nil
	}

	return review.StatusCommitted, nil
}

func classifyStatus(status git2go.Status) review.CommitStatus {
	const indexFlags = git2go.StatusIndexNew | git2go.StatusIndexModified | git2go.StatusIndexDeleted

	if status&indexFlags != 0 {
		return review.StatusStaged
	}

	if status&git2go.StatusWtNew != 0 {
		return review.StatusUntracked
	}

	if status&(git2go.StatusWtModified|git2go.StatusWtDeleted) != 0 {
		return review.StatusModified
	}

	return review.StatusCommitted
}

// uncommittedPaths lists every path the status scan flagged, in scan order.
func (r *Repository) uncommittedPaths() ([]string, error) {
	records, err := r.statusRecords()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(records))
	for _, record := range records {
		paths = append(paths, record.Path)
	}

	return paths, nil
}
