package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal  = "revlens.review.files.total"
	metricIssuesTotal = "revlens.review.issues.total"
	metricRunDuration = "revlens.review.run.duration.seconds"
	metricRunsTotal   = "revlens.review.runs.total"

	attrLanguage = "language"
)

// durationBucketBoundaries cover sub-second single-file runs up to multi-minute
// monorepo diffs.
var durationBucketBoundaries = []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// ReviewMetrics holds OTel instruments for review-run metrics. It implements
// the orchestrator's Recorder interface; all methods are nil-safe no-ops.
type ReviewMetrics struct {
	filesTotal  metric.Int64Counter
	issuesTotal metric.Int64Counter
	runsTotal   metric.Int64Counter
	runDuration metric.Float64Histogram
}

// NewReviewMetrics creates review metric instruments from the given meter.
func NewReviewMetrics(mt metric.Meter) (*ReviewMetrics, error) {
	b := newMetricBuilder(mt)

	rm := &ReviewMetrics{
		filesTotal:  b.counter(metricFilesTotal, "Total files routed through the detector catalog", "{file}"),
		issuesTotal: b.counter(metricIssuesTotal, "Total issues found, by language", "{issue}"),
		runsTotal:   b.counter(metricRunsTotal, "Total completed review runs", "{run}"),
		runDuration: b.histogram(metricRunDuration, "Review run duration in seconds", "s", durationBucketBoundaries...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return rm, nil
}

// ObserveFile records one analyzed file and its finding count.
func (rm *ReviewMetrics) ObserveFile(language string, issues int) {
	if rm == nil {
		return
	}

	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String(attrLanguage, language))

	rm.filesTotal.Add(ctx, 1, attrs)
	rm.issuesTotal.Add(ctx, int64(issues), attrs)
}

// ObserveRun records a completed run. Per-file counts are already covered by
// ObserveFile, so only the run counter and duration move here.
func (rm *ReviewMetrics) ObserveRun(_, _ int, elapsed time.Duration) {
	if rm == nil {
		return
	}

	ctx := context.Background()

	rm.runsTotal.Add(ctx, 1)
	rm.runDuration.Record(ctx, elapsed.Seconds())
}
