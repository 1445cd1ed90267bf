package analysis_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens/revlens/pkg/analysis"
	"github.com/revlens/revlens/pkg/review"
)

// fixtureRepo builds a git repository for end-to-end runs.
type fixtureRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
}

func newFixtureRepo(t *testing.T) *fixtureRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &fixtureRepo{t: t, path: dir, native: repo}
}

func (fr *fixtureRepo) createFile(name, content string) {
	fr.t.Helper()

	path := filepath.Join(fr.path, name)
	dir := filepath.Dir(path)

	if dir != fr.path {
		require.NoError(fr.t, os.MkdirAll(dir, 0o755))
	}

	require.NoError(fr.t, os.WriteFile(path, []byte(content), 0o644))
}

func (fr *fixtureRepo) commit(message string) *git2go.Oid {
	fr.t.Helper()

	index, err := fr.native.Index()
	require.NoError(fr.t, err)

	defer index.Free()

	require.NoError(fr.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(fr.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(fr.t, err)

	tree, err := fr.native.LookupTree(treeID)
	require.NoError(fr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()}

	var parents []*git2go.Commit

	head, err := fr.native.Head()
	if err == nil {
		parent, lookupErr := fr.native.LookupCommit(head.Target())
		require.NoError(fr.t, lookupErr)

		parents = append(parents, parent)

		head.Free()
	}

	oid, err := fr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(fr.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return oid
}

func (fr *fixtureRepo) branch(name string, oid *git2go.Oid) {
	fr.t.Helper()

	commit, err := fr.native.LookupCommit(oid)
	require.NoError(fr.t, err)

	defer commit.Free()

	branch, err := fr.native.CreateBranch(name, commit, false)
	require.NoError(fr.t, err)

	branch.Free()
}

// seedReviewFixture commits a clean base, then a branch tip with a credential
// issue plus an untracked python file with an unsafe yaml load.
func seedReviewFixture(t *testing.T) *fixtureRepo {
	t.Helper()

	fr := newFixtureRepo(t)
	fr.createFile("src/config.rs", "pub fn load() {}\n")
	base := fr.commit("initial")
	fr.branch("base", base)

	fr.createFile("src/config.rs", `pub const PASSWORD: &str = "hunter2";`+"\n")
	fr.commit("add credential")

	fr.createFile("scripts/load.py", "data = yaml.load(stream)\n")

	return fr
}

func TestRunEndToEnd(t *testing.T) {
	fr := seedReviewFixture(t)

	result, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath:  fr.path,
		SourceRef: "base",
		TargetRef: "HEAD",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.FilesCount)
	assert.Equal(t, 2, result.IssuesCount)
	assert.Equal(t, 1, result.CriticalIssues)
	assert.Equal(t, 1, result.HighIssues)
	assert.Equal(t, result.TalliedIssues(), result.IssuesCount)

	require.Len(t, result.Issues, 2)

	// Committed diff files come before uncommitted-only files.
	assert.Equal(t, "src/config.rs", result.Issues[0].File)
	assert.Equal(t, review.StatusCommitted, result.Issues[0].CommitStatus)
	assert.Equal(t, "scripts/load.py", result.Issues[1].File)
	assert.Equal(t, review.StatusUntracked, result.Issues[1].CommitStatus)
}

func TestRunFilesCountIgnoresFilters(t *testing.T) {
	fr := seedReviewFixture(t)

	result, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath:        fr.path,
		SourceRef:       "base",
		TargetRef:       "HEAD",
		IncludePatterns: []string{"*.py"},
	})
	require.NoError(t, err)

	// The raw changed set stays at 2 even though only the python file was
	// analyzed.
	assert.Equal(t, 2, result.FilesCount)
	assert.Equal(t, 1, result.IssuesCount)
	assert.Equal(t, "scripts/load.py", result.Issues[0].File)
}

func TestRunProgressEvents(t *testing.T) {
	fr := seedReviewFixture(t)

	var events []string

	_, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath:  fr.path,
		SourceRef: "base",
		TargetRef: "HEAD",
		Progress: func(percent float64, message string) {
			if percent == 0 {
				events = append(events, "start "+message)
			} else {
				events = append(events, "done "+message)
			}
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"start src/config.rs - analysis started",
		"done src/config.rs - analysis complete",
		"start scripts/load.py - analysis started",
		"done scripts/load.py - analysis complete",
	}, events)
}

func TestRunCancellationReturnsPartialReview(t *testing.T) {
	fr := seedReviewFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := analysis.Run(ctx, analysis.Options{
		RepoPath:  fr.path,
		SourceRef: "base",
		TargetRef: "HEAD",
	})
	require.ErrorIs(t, err, context.Canceled)

	// The partial review still carries the resolved file count.
	require.NotNil(t, result)
	assert.Equal(t, 2, result.FilesCount)
	assert.Zero(t, result.IssuesCount)
}

func TestRunParallelMatchesSequential(t *testing.T) {
	fr := newFixtureRepo(t)
	fr.createFile("keep.txt", "seed\n")
	base := fr.commit("initial")
	fr.branch("base", base)

	// Several files with issues so the merge order is observable.
	fr.createFile("a.py", "data = pickle.loads(blob)\n")
	fr.createFile("b.rs", "let v = res.unwrap();\n")
	fr.createFile("c.go", "_ = err\n")
	fr.createFile("d.c", "gets(buf);\n")
	fr.commit("add files")

	sequential, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath: fr.path, SourceRef: "base", TargetRef: "HEAD",
	})
	require.NoError(t, err)

	parallel, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath: fr.path, SourceRef: "base", TargetRef: "HEAD", Workers: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, sequential, parallel)
}

func TestRunSkipsUnreadableFiles(t *testing.T) {
	fr := newFixtureRepo(t)
	fr.createFile("a.txt", "seed\n")
	base := fr.commit("initial")
	fr.branch("base", base)

	fr.createFile("blob.bin", "\xff\xfe\x00binary")
	fr.createFile("ok.py", "x = eval(user_input)\n")
	fr.commit("mixed")

	result, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath: fr.path, SourceRef: "base", TargetRef: "HEAD",
	})
	require.NoError(t, err)

	// The binary file is counted but skipped; the readable file still
	// produces its finding.
	assert.Equal(t, 2, result.FilesCount)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "ok.py", result.Issues[0].File)
}

func TestRunCollectsMetricsAndStack(t *testing.T) {
	fr := seedReviewFixture(t)

	result, err := analysis.Run(context.Background(), analysis.Options{
		RepoPath:       fr.path,
		SourceRef:      "base",
		TargetRef:      "HEAD",
		CollectMetrics: true,
		CollectStack:   true,
	})
	require.NoError(t, err)

	require.NotNil(t, result.Metrics)
	assert.Equal(t, 2, result.Metrics.FilesChanged)
	assert.Positive(t, result.Metrics.LinesAdded)

	require.NotNil(t, result.Stack)
	assert.True(t, containsString(result.Stack.Languages, "Rust") ||
		containsString(result.Stack.Languages, "Python"))
}

func containsString(values []string, want string) bool {
	for _, value := range values {
		if strings.EqualFold(value, want) {
			return true
		}
	}

	return false
}
