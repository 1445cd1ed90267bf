package review_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens/revlens/pkg/review"
)

func TestAddIssueTalliesNamedSeverities(t *testing.T) {
	r := &review.Review{}

	for _, severity := range []string{
		review.SeverityCritical,
		review.SeverityHigh,
		review.SeverityHigh,
		review.SeverityMedium,
		review.SeverityLow,
	} {
		r.AddIssue(review.Issue{File: "a.rs", Severity: severity, Category: "Security"})
	}

	assert.Equal(t, 5, r.IssuesCount)
	assert.Equal(t, 1, r.CriticalIssues)
	assert.Equal(t, 2, r.HighIssues)
	assert.Equal(t, 1, r.MediumIssues)
	assert.Equal(t, 1, r.LowIssues)
	assert.Equal(t, r.IssuesCount, r.TalliedIssues())
}

func TestAddIssueInfoIsListedButNotTallied(t *testing.T) {
	r := &review.Review{}

	r.AddIssue(review.Issue{File: "a.go", Severity: review.SeverityInfo})
	r.AddIssue(review.Issue{File: "a.go", Severity: "Unranked"})
	r.AddIssue(review.Issue{File: "a.go", Severity: review.SeverityLow})

	assert.Equal(t, 3, r.IssuesCount)
	assert.Equal(t, 1, r.TalliedIssues())
	assert.Len(t, r.Issues, 3)
}

func TestReviewJSONRoundTrip(t *testing.T) {
	r := &review.Review{FilesCount: 2}
	r.AddIssue(review.Issue{
		File:         "src/main.rs",
		Line:         7,
		Severity:     review.SeverityCritical,
		Category:     "Security",
		Description:  "Hardcoded credentials detected",
		CommitStatus: review.StatusModified,
		Snippet:      `let password = "x";`,
	})

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded review.Review

	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.IssuesCount, decoded.IssuesCount)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, review.StatusModified, decoded.Issues[0].CommitStatus)
}
