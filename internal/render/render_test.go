package render_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revlens/revlens/internal/render"
	"github.com/revlens/revlens/pkg/review"
)

func sampleReview() *review.Review {
	rev := &review.Review{FilesCount: 3}
	rev.AddIssue(review.Issue{
		File:         "src/auth.py",
		Line:         12,
		Severity:     review.SeverityCritical,
		Category:     "Security",
		Description:  "Hardcoded credential",
		CommitStatus: review.StatusModified,
		Snippet:      `password = "hunter2"`,
	})
	rev.AddIssue(review.Issue{
		File:         "src/db.rs",
		Line:         40,
		Severity:     review.SeverityMedium,
		Category:     "Error Handling",
		Description:  "unwrap() panics on error",
		CommitStatus: review.StatusCommitted,
	})

	return rev
}

func TestRenderSummary(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer

	err := render.New(&buf).Render(render.FormatSummary, sampleReview(), "cpu")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "cpu backend")
	assert.Contains(t, out, "Files analyzed")
	assert.Contains(t, out, "Critical")
}

func TestRenderDetailedListsIssues(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer

	err := render.New(&buf).Render(render.FormatDetailed, sampleReview(), "cpu")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "src/auth.py:12")
	assert.Contains(t, out, "[Critical]")
	assert.Contains(t, out, `password = "hunter2"`)
	assert.Contains(t, out, "src/db.rs:40")
}

func TestRenderJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer

	err := render.New(&buf).Render(render.FormatJSON, sampleReview(), "cpu")
	require.NoError(t, err)

	var decoded review.Review

	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.FilesCount)
	assert.Equal(t, 2, decoded.IssuesCount)
	require.Len(t, decoded.Issues, 2)
}

func TestRenderMarkdownTable(t *testing.T) {
	var buf bytes.Buffer

	err := render.New(&buf).Render(render.FormatMarkdown, sampleReview(), "gpu")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "# Review Summary")
	assert.Contains(t, out, "Backend: gpu")
	assert.Contains(t, out, "| src/auth.py | 12 | Critical |")
}

func TestRenderUnknownFormat(t *testing.T) {
	var buf bytes.Buffer

	err := render.New(&buf).Render("xml", sampleReview(), "cpu")
	require.ErrorIs(t, err, render.ErrUnknownFormat)
}
