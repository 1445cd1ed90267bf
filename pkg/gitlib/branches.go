package gitlib

import (
	"fmt"
	"sort"
	"strings"

	git2go "github.com/libgit2/git2go/v34"
)

// commonBranches are listed before everything else, in this order.
var commonBranches = []string{"main", "master", "develop", "dev"}

// Branches lists local branch names plus deduplicated remote branch short
// names. Common branches sort first, the rest alphabetically.
func (r *Repository) Branches() ([]string, error) {
	var branches []string

	seen := make(map[string]bool)

	appendBranch := func(name string) {
		if name == "" || seen[name] {
			return
		}

		seen[name] = true

		branches = append(branches, name)
	}

	err := r.forEachBranch(git2go.BranchLocal, appendBranch)
	if err != nil {
		return nil, err
	}

	err = r.forEachBranch(git2go.BranchRemote, func(name string) {
		// Strip the remote prefix: "origin/main" -> "main".
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}

		appendBranch(name)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(branches, func(i, j int) bool {
		return branchRank(branches[i]) < branchRank(branches[j]) ||
			(branchRank(branches[i]) == branchRank(branches[j]) && branches[i] < branches[j])
	})

	return branches, nil
}

func (r *Repository) forEachBranch(branchType git2go.BranchType, fn func(name string)) error {
	iter, err := r.repo.NewBranchIterator(branchType)
	if err != nil {
		return fmt.Errorf("list branches: %w", err)
	}
	defer iter.Free()

	err = iter.ForEach(func(branch *git2go.Branch, _ git2go.BranchType) error {
		name, nameErr := branch.Name()
		if nameErr != nil {
			return nil
		}

		fn(name)

		return nil
	})
	if err != nil {
		return fmt.Errorf("iterate branches: %w", err)
	}

	return nil
}

func branchRank(name string) int {
	for i, common := range commonBranches {
		if name == common {
			return i
		}
	}

	return len(commonBranches)
}
