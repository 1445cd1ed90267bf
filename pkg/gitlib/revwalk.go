package gitlib

import (
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"
)

// CommitInfo describes one commit on the path between two revisions.
type CommitInfo struct {
	Hash         string    `json:"hash"`
	Author       string    `json:"author"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	FilesChanged []string  `json:"files_changed,omitempty"`
}

// CommitsBetween walks the commits reachable from sourceRef but not from
// targetRef, newest first, and returns one record per commit including the
// files it touched relative to its first parent.
func (r *Repository) CommitsBetween(sourceRef, targetRef string) ([]CommitInfo, error) {
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

	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	if pushErr := walk.Push(sourceCommit.Id()); pushErr != nil {
		return nil, fmt.Errorf("push to revwalk: %w", pushErr)
	}

	if hideErr := walk.Hide(targetCommit.Id()); hideErr != nil {
		return nil, fmt.Errorf("hide from revwalk: %w", hideErr)
	}

	var commits []CommitInfo

	var iterErr error

	err = walk.Iterate(func(commit *git2go.Commit) bool {
		info, infoErr := r.commitInfo(commit)
		commit.Free()

		if infoErr != nil {
			iterErr = infoErr

			return false
		}

		commits = append(commits, info)

		return true
	})
	if err != nil {
		return nil, fmt.Errorf("revwalk iterate: %w", err)
	}

	if iterErr != nil {
		return nil, iterErr
	}

	return commits, nil
}

func (r *Repository) commitInfo(commit *git2go.Commit) (CommitInfo, error) {
	author := commit.Author()

	info := CommitInfo{
		Hash:      commit.Id().String(),
		Message:   commit.Message(),
		Timestamp: author.When,
	}

	if author.Name != "" {
		info.Author = author.Name
	} else {
		info.Author = "Unknown"
	}

	// Root commits have no parent to diff against; they report no files.
	if commit.ParentCount() == 0 {
		return info, nil
	}

	files, err := r.commitTouchedFiles(commit)
	if err != nil {
		return CommitInfo{}, err
	}

	info.FilesChanged = files

	return info, nil
}

func (r *Repository) commitTouchedFiles(commit *git2go.Commit) ([]string, error) {
	parent := commit.Parent(0)
	if parent == nil {
		return nil, nil
	}
	defer parent.Free()

	parentTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("get parent tree: %w", err)
	}
	defer parentTree.Free()

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get commit tree: %w", err)
	}
	defer tree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(parentTree, tree, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff trees: %w", err)
	}
	defer func() { _ = diff.Free() }()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	files := make([]string, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		if delta.NewFile.Path != "" {
			files = append(files, delta.NewFile.Path)
		}
	}

	return files, nil
}
