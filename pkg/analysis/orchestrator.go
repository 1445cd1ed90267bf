// Package analysis drives a review run end to end: it resolves the changed
// file set, filters it, routes file content through the detector catalog and
// aggregates the findings into a single review record.
package analysis

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/revlens/revlens/pkg/detect"
	"github.com/revlens/revlens/pkg/gitlib"
	"github.com/revlens/revlens/pkg/review"
)

// Recorder receives run-level measurements. Implementations must be safe for
// concurrent use. A nil Recorder disables instrumentation.
type Recorder interface {
	ObserveFile(language string, issues int)
	ObserveRun(files, issues int, elapsed time.Duration)
}

// Options configure one analysis run. Zero values mean: analyze HEAD against
// itself, no pattern filters, sequential execution, no progress reporting.
type Options struct {
	RepoPath  string
	SourceRef string
	TargetRef string

	IncludePatterns []string
	ExcludePatterns []string

	CustomRules []detect.CustomRule

	// Workers bounds concurrent detection. Values below 2 run sequentially.
	// Parallel runs produce byte-identical reviews to sequential ones.
	Workers int

	Progress ProgressFunc

	CollectMetrics bool
	CollectStack   bool

	Metrics Recorder
	Logger  *log.Logger
}

// stageStarted and stageComplete label the two progress events emitted per
// analyzed file.
const (
	stageStarted  = "analysis started"
	stageComplete = "analysis complete"
)

// fileJob is one unit of detection work: a changed file whose content was
// already read by the dispatcher.
type fileJob struct {
	index   int
	file    gitlib.ChangedFile
	content string
}

// fileResult holds the detector output for one file, merged back in file
// order.
type fileResult struct {
	done   bool
	issues []review.Issue
}

// Run executes one analysis pass and returns the aggregated review.
// Repository open and revision resolution errors are fatal; per-file content
// errors are logged and skipped. On context cancellation the review built so
// far is returned together with the context's error.
func Run(ctx context.Context, opts Options) (*review.Review, error) {
	started := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	sourceRef := opts.SourceRef
	if sourceRef == "" {
		sourceRef = "HEAD"
	}

	targetRef := opts.TargetRef
	if targetRef == "" {
		targetRef = "HEAD"
	}

	repo, err := gitlib.Open(opts.RepoPath)
	if err != nil {
		return nil, err
	}
	defer repo.Free()

	changed, err := repo.ChangedFiles(sourceRef, targetRef)
	if err != nil {
		return nil, err
	}

	// FilesCount reflects the raw changed set, before filtering.
	result := &review.Review{FilesCount: len(changed)}

	analyzable := make([]gitlib.ChangedFile, 0, len(changed))

	for _, file := range changed {
		if shouldAnalyze(file.Path, opts.IncludePatterns, opts.ExcludePatterns) {
			analyzable = append(analyzable, file)
		}
	}

	catalog := detect.NewCatalog()
	catalog.AddRules(opts.CustomRules)

	queue := newProgressQueue()

	var forwarder sync.WaitGroup

	if opts.Progress != nil {
		forwarder.Add(1)

		go func() {
			defer forwarder.Done()
			queue.forward(opts.Progress)
		}()
	}

	runErr := analyzeFiles(ctx, repo, catalog, analyzable, targetRef, result, queue, logger, opts)

	queue.close()
	forwarder.Wait()

	if runErr != nil {
		return result, runErr
	}

	if opts.CollectMetrics {
		metrics, metricsErr := repo.ChangeMetrics(sourceRef, targetRef, changed)
		if metricsErr != nil {
			logger.Printf("change metrics unavailable: %v", metricsErr)
		} else {
			result.Metrics = metrics
		}
	}

	if opts.CollectStack {
		result.Stack = detectTechStack(repo, targetRef, changed)
	}

	if opts.Metrics != nil {
		opts.Metrics.ObserveRun(result.FilesCount, result.IssuesCount, time.Since(started))
	}

	return result, nil
}

// analyzeFiles routes each file through the catalog, sequentially or on a
// bounded worker pool. Both paths fold issues into the review in file order.
func analyzeFiles(ctx context.Context, repo *gitlib.Repository, catalog *detect.Catalog,
	files []gitlib.ChangedFile, targetRef string, result *review.Review,
	queue *progressQueue, logger *log.Logger, opts Options,
) error {
	if opts.Workers > 1 {
		return analyzeParallel(ctx, repo, catalog, files, targetRef, result, queue, logger, opts)
	}

	for _, file := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		content, err := repo.Content(file.Path, file.Status, targetRef)
		if err != nil {
			logger.Printf("skipping %s: %v", file.Path, err)

			continue
		}

		queue.push(0, file.Path, stageStarted)

		issues := detectFile(catalog, file, content)
		for _, issue := range issues {
			result.AddIssue(issue)
		}

		if opts.Metrics != nil {
			opts.Metrics.ObserveFile(detect.LanguageTag(file.Path), len(issues))
		}

		queue.push(100, file.Path, stageComplete)
	}

	return nil
}

// analyzeParallel reads content in the dispatcher (libgit2 handles are not
// safe for concurrent use) and fans detection out to workers. Results merge
// back in dispatch order, so the review is identical to a sequential run.
func analyzeParallel(ctx context.Context, repo *gitlib.Repository, catalog *detect.Catalog,
	files []gitlib.ChangedFile, targetRef string, result *review.Review,
	queue *progressQueue, logger *log.Logger, opts Options,
) error {
	jobs := make(chan fileJob)
	results := make([]fileResult, len(files))

	var mu sync.Mutex

	var workers sync.WaitGroup

	for range opts.Workers {
		workers.Add(1)

		go func() {
			defer workers.Done()

			for job := range jobs {
				issues := detectFile(catalog, job.file, job.content)

				mu.Lock()
				results[job.index] = fileResult{done: true, issues: issues}
				mu.Unlock()

				queue.push(100, job.file.Path, stageComplete)
			}
		}()
	}

	var runErr error

	for idx, file := range files {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}

		if runErr != nil {
			break
		}

		content, err := repo.Content(file.Path, file.Status, targetRef)
		if err != nil {
			logger.Printf("skipping %s: %v", file.Path, err)

			continue
		}

		queue.push(0, file.Path, stageStarted)

		jobs <- fileJob{index: idx, file: file, content: content}
	}

	close(jobs)
	workers.Wait()

	for idx, res := range results {
		if !res.done {
			continue
		}

		for _, issue := range res.issues {
			result.AddIssue(issue)
		}

		if opts.Metrics != nil {
			opts.Metrics.ObserveFile(detect.LanguageTag(files[idx].Path), len(res.issues))
		}
	}

	return runErr
}

// detectFile runs the catalog over one file and stamps each issue with the
// file's path and commit status.
func detectFile(catalog *detect.Catalog, file gitlib.ChangedFile, content string) []review.Issue {
	issues := catalog.Detect(content, detect.LanguageTag(file.Path))

	for i := range issues {
		issues[i].File = file.Path
		issues[i].CommitStatus = file.Status
	}

	return issues
}
