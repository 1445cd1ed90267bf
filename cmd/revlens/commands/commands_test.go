package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens/revlens/cmd/revlens/commands"
	"github.com/revlens/revlens/pkg/review"
)

// seedRepo creates a fixture repository with one committed credential issue.
func seedRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	commit := func(message string) *git2go.Oid {
		index, idxErr := repo.Index()
		require.NoError(t, idxErr)

		defer index.Free()

		require.NoError(t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
		require.NoError(t, index.Write())

		treeID, treeErr := index.WriteTree()
		require.NoError(t, treeErr)

		tree, lookupErr := repo.LookupTree(treeID)
		require.NoError(t, lookupErr)

		defer tree.Free()

		sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

		var parents []*git2go.Commit

		head, headErr := repo.Head()
		if headErr == nil {
			parent, parentErr := repo.LookupCommit(head.Target())
			require.NoError(t, parentErr)

			parents = append(parents, parent)

			head.Free()
		}

		oid, commitErr := repo.CreateCommit("HEAD", sig, sig, message, tree, parents...)
		require.NoError(t, commitErr)

		for _, parent := range parents {
			parent.Free()
		}

		return oid
	}

	writeFile("clean.txt", "nothing to see\n")
	base := commit("initial")

	baseCommit, err := repo.LookupCommit(base)
	require.NoError(t, err)

	defer baseCommit.Free()

	branch, err := repo.CreateBranch("base", baseCommit, false)
	require.NoError(t, err)
	branch.Free()

	writeFile("settings.py", `password = "hunter2"`+"\n")
	commit("add settings")

	return dir
}

func TestAnalyzeCommandJSONOutput(t *testing.T) {
	dir := seedRepo(t)

	cmd := commands.NewAnalyzeCommand()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{dir, "--source", "base", "--target", "HEAD", "--format", "json", "--silent"})

	require.NoError(t, cmd.Execute())

	var result review.Review

	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1, result.FilesCount)
	assert.Equal(t, 1, result.CriticalIssues)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "settings.py", result.Issues[0].File)
}

func TestAnalyzeCommandProgressOutput(t *testing.T) {
	dir := seedRepo(t)

	cmd := commands.NewAnalyzeCommand()

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{dir, "--source", "base", "--format", "summary", "--no-color"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, errOut.String(), "settings.py - analysis started")
	assert.Contains(t, errOut.String(), "settings.py - analysis complete")
	assert.Contains(t, out.String(), "Files analyzed")
}

func TestAnalyzeCommandRejectsBadFormat(t *testing.T) {
	dir := seedRepo(t)

	cmd := commands.NewAnalyzeCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{dir, "--format", "xml", "--silent"})

	require.Error(t, cmd.Execute())
}

func TestBranchesCommandCommonFirst(t *testing.T) {
	dir := seedRepo(t)

	cmd := commands.NewBranchesCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	lines := out.String()
	assert.Contains(t, lines, "base")
}

func TestCommitsCommandListsRange(t *testing.T) {
	dir := seedRepo(t)

	cmd := commands.NewCommitsCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetArgs([]string{dir, "--source", "HEAD", "--target", "base"})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "add settings")
	assert.Contains(t, out.String(), "Test User")
}
