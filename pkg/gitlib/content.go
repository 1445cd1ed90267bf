package gitlib

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/revlens/revlens/pkg/review"
)

// Content returns the bytes to analyze for a path, routed by the path's
// commit status:
//
//   - Untracked, Modified: the live working-directory file.
//   - Staged: the blob referenced by the index entry, falling back to the
//     working-directory file if the index lookup fails.
//   - Committed: the blob at the path in the resolved ref's tree.
//
// Reading from the wrong source silently produces misleading findings, so
// this routing table is the contract. Content that is not valid UTF-8 is
// rejected with ErrContentRead, never sanitized.
func (r *Repository) Content(path string, status review.CommitStatus, ref string) (string, error) {
	switch status {
	case review.StatusUntracked, review.StatusModified:
		return r.contentFromWorkdir(path)
	case review.StatusStaged:
		content, err := r.contentFromIndex(path)
		if err != nil {
			return r.contentFromWorkdir(path)
		}

		return content, nil
	case review.StatusCommitted:
		return r.contentFromCommit(path, ref)
	}

	return "", fmt.Errorf("%w: %s: unknown status %q", ErrContentRead, path, status)
}

func (r *Repository) contentFromWorkdir(path string) (string, error) {
	workdir := r.repo.Workdir()
	if workdir == "" {
		return "", fmt.Errorf("%w: %s: %v", ErrContentRead, path, ErrNoWorkdir)
	}

	data, err := os.ReadFile(filepath.Join(workdir, path))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentRead, path, err)
	}

	return decodeText(path, data)
}

func (r *Repository) contentFromIndex(path string) (string, error) {
	index, err := r.repo.Index()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentRead, path, err)
	}
	defer index.Free()

	pos, err := index.Find(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: not in index", ErrContentRead, path)
	}

	entry, err := index.EntryByIndex(pos)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentRead, path, err)
	}

	return r.blobContent(path, entry.Id)
}

func (r *Repository) contentFromCommit(path, ref string) (string, error) {
	commit, err := r.resolveCommit(ref)
	if err != nil {
		return "", err
	}
	defer commit.Free()

	tree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentRead, path, err)
	}
	defer tree.Free()

	entry, err := tree.EntryByPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: not in tree of %s", ErrContentRead, path, ref)
	}

	return r.blobContent(path, entry.Id)
}

func (r *Repository) blobContent(path string, oid *git2go.Oid) (string, error) {
	blob, err := r.repo.LookupBlob(oid)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrContentRead, path, err)
	}
	defer blob.Free()

	return decodeText(path, blob.Contents())
}

// decodeText validates that the bytes are UTF-8 text.
func decodeText(path string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s: invalid UTF-8", ErrContentRead, path)
	}

	return string(data), nil
}
