// Package gitlib resolves the version state of a repository: which files
// changed between two revisions, how each file relates to the index and the
// working tree, and which source holds the bytes to analyze for that state.
package gitlib

import (
	"errors"
	"fmt"
	"strings"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrRepoOpen indicates the path is not a valid git repository.
var ErrRepoOpen = errors.New("failed to open repository")

// ErrRefResolution indicates a named revision could not be resolved to a commit.
var ErrRefResolution = errors.New("failed to resolve revision")

// ErrContentRead indicates a file's bytes could not be obtained for its
// classified status.
var ErrContentRead = errors.New("failed to read file content")

// ErrNoWorkdir indicates the repository has no working directory (bare repo).
var ErrNoWorkdir = errors.New("repository has no working directory")

// ErrRemoteNotSupported is returned when a remote repository URI is provided.
var ErrRemoteNotSupported = errors.New("remote repositories not supported")

// headRef is the symbolic name resolved to the current head commit.
const headRef = "HEAD"

// Repository wraps a libgit2 repository handle. It is read-only for the
// whole pipeline: no operation writes to the version-control state.
type Repository struct {
	repo *git2go.Repository
	path string

	// Status records are scanned once per run and reused by Classify and
	// ChangedFiles so repeated classifications are deterministic.
	statuses    []StatusRecord
	statusReady bool
}

// Open opens a local git repository at the given path. Remote URIs are
// rejected; opening anything that is not a repository fails with ErrRepoOpen.
func Open(path string) (*Repository, error) {
	if strings.Contains(path, "://") {
		return nil, fmt.Errorf("%w: %s", ErrRemoteNotSupported, path)
	}

	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRepoOpen, path, err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// resolveCommit resolves a revision name to a commit. "HEAD" resolves the
// current head; otherwise local branches win over remote branches, and
// anything else (tags, abbreviated or full SHAs) goes through revparse.
func (r *Repository) resolveCommit(ref string) (*git2go.Commit, error) {
	if ref == headRef {
		head, err := r.repo.Head()
		if err != nil {
			return nil, fmt.Errorf("%w: HEAD: %v", ErrRefResolution, err)
		}
		defer head.Free()

		return r.lookupCommit(head.Target(), ref)
	}

	for _, branchType := range []git2go.BranchType{git2go.BranchLocal, git2go.BranchRemote} {
		branch, err := r.repo.LookupBranch(ref, branchType)
		if err != nil {
			continue
		}

		target := branch.Target()
		branch.Free()

		if target == nil {
			continue
		}

		return r.lookupCommit(target, ref)
	}

	obj, err := r.repo.RevparseSingle(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRefResolution, ref, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a commit: %v", ErrRefResolution, ref, err)
	}

	commit, err := peeled.AsCommit()
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a commit: %v", ErrRefResolution, ref, err)
	}

	return commit, nil
}

func (r *Repository) lookupCommit(oid *git2go.Oid, ref string) (*git2go.Commit, error) {
	commit, err := r.repo.LookupCommit(oid)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRefResolution, ref, err)
	}

	return commit, nil
}
