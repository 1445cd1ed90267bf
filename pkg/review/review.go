// Package review defines the aggregate output records of an analysis run.
package review

// CommitStatus classifies a file's relationship to the last snapshot, the
// staging area, and the live filesystem at analysis time. Exactly one status
// applies to a file per run.
type CommitStatus string

const (
	// StatusCommitted means the file only differs between the two compared revisions.
	StatusCommitted CommitStatus = "Committed"
	// StatusStaged means the file has changes recorded in the index.
	StatusStaged CommitStatus = "Staged"
	// StatusModified means the file has working-tree changes not yet staged.
	StatusModified CommitStatus = "Modified"
	// StatusUntracked means the file exists only in the working tree.
	StatusUntracked CommitStatus = "Untracked"
)

// Severity levels recognized by the per-severity counters. Any other value
// (including Info) is recorded in the issue list but not tallied.
const (
	SeverityCritical = "Critical"
	SeverityHigh     = "High"
	SeverityMedium   = "Medium"
	SeverityLow      = "Low"
	SeverityInfo     = "Info"
)

// Issue is a single finding produced by a detector match. It is never
// mutated after creation.
type Issue struct {
	File         string       `json:"file"`
	Line         int          `json:"line"`
	Severity     string       `json:"severity"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	CommitStatus CommitStatus `json:"commit_status"`
	Snippet      string       `json:"snippet,omitempty"`
}

// ChangeMetrics summarizes line-level churn for the analyzed change set.
type ChangeMetrics struct {
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`
	FilesChanged int `json:"files_changed"`
}

// TechStack lists technologies detected from the changed file set.
type TechStack struct {
	Languages []string `json:"languages,omitempty"`
	Tools     []string `json:"tools,omitempty"`
}

// Review is the aggregate output of one analysis run: per-severity counts
// plus the full ordered issue list. It has exactly one writer (the
// orchestrator) for the duration of a run.
type Review struct {
	FilesCount     int     `json:"files_count"`
	IssuesCount    int     `json:"issues_count"`
	CriticalIssues int     `json:"critical_issues"`
	HighIssues     int     `json:"high_issues"`
	MediumIssues   int     `json:"medium_issues"`
	LowIssues      int     `json:"low_issues"`
	Issues         []Issue `json:"issues"`

	// Optional run metadata. Not part of the counting invariant.
	Metrics *ChangeMetrics `json:"metrics,omitempty"`
	Stack   *TechStack     `json:"stack,omitempty"`
}

// AddIssue appends an issue and updates the severity counters. The named
// counters only move on an exact severity match; anything else still counts
// toward IssuesCount and stays in the list.
func (r *Review) AddIssue(issue Issue) {
	switch issue.Severity {
	case SeverityCritical:
		r.CriticalIssues++
	case SeverityHigh:
		r.HighIssues++
	case SeverityMedium:
		r.MediumIssues++
	case SeverityLow:
		r.LowIssues++
	}

	r.Issues = append(r.Issues, issue)
	r.IssuesCount++
}

// TalliedIssues returns the sum of the four named severity counters. For any
// Review built through AddIssue this equals IssuesCount minus the number of
// untallied (Info or unknown severity) issues in the list.
func (r *Review) TalliedIssues() int {
	return r.CriticalIssues + r.HighIssues + r.MediumIssues + r.LowIssues
}
