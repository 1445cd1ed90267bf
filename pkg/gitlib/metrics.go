package gitlib

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/revlens/revlens/pkg/review"
)

// ChangeMetrics aggregates line churn for a change set. Committed churn
// comes from the tree-to-tree diff stats; tree diffs cannot see the working
// tree, so staged/modified/untracked files are diffed against the target
// revision's blob with a line-level text diff.
func (r *Repository) ChangeMetrics(sourceRef, targetRef string, files []ChangedFile) (*review.ChangeMetrics, error) {
	metrics := &review.ChangeMetrics{FilesChanged: len(files)}

	if sourceRef != targetRef {
		added, removed, err := r.committedChurn(sourceRef, targetRef)
		if err != nil {
			return nil, err
		}

		metrics.LinesAdded += added
		metrics.LinesRemoved += removed
	}

	for _, file := range files {
		if file.Status == review.StatusCommitted {
			continue
		}

		old, err := r.contentFromCommit(file.Path, targetRef)
		if err != nil {
			old = "" // New or unreadable at the target revision: count all lines as added.
		}

		current, err := r.Content(file.Path, file.Status, targetRef)
		if err != nil {
			continue // Deleted or unreadable working-tree files contribute nothing.
		}

		added, removed := countLineChurn(old, current)
		metrics.LinesAdded += added
		metrics.LinesRemoved += removed
	}

	return metrics, nil
}

func (r *Repository) committedChurn(sourceRef, targetRef string) (added, removed int, err error) {
	diff, err := r.treeDiff(sourceRef, targetRef)
	if err != nil {
		return 0, 0, err
	}
	defer diff.Free()

	stats, err := diff.Stats()
	if err != nil {
		return 0, 0, fmt.Errorf("get diff stats: %w", err)
	}
	defer func() { _ = stats.Free() }()

	return stats.Insertions(), stats.Deletions(), nil
}

// countLineChurn computes added/removed line counts between two texts using
// a line-granular diff.
func countLineChurn(old, current string) (added, removed int) {
	if old == current {
		return 0, 0
	}

	dmp := diffmatchpatch.New()

	oldChars, currentChars, lines := dmp.DiffLinesToChars(old, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, currentChars, false), lines)

	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += countLines(d.Text)
		case diffmatchpatch.DiffDelete:
			removed += countLines(d.Text)
		case diffmatchpatch.DiffEqual:
		}
	}

	return added, removed
}

func countLines(text string) int {
	if text == "" {
		return 0
	}

	count := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		count++
	}

	return count
}
