// Package render turns a review record into terminal, JSON or Markdown
// output.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/revlens/revlens/pkg/review"
)

// Supported output formats.
const (
	FormatSummary  = "summary"
	FormatDetailed = "detailed"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat indicates an unrecognized output format name.
var ErrUnknownFormat = errors.New("unknown output format")

// Renderer writes review output to a single destination.
type Renderer struct {
	out io.Writer
}

// New creates a renderer writing to out.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes the review in the requested format. The backend label is
// informational only and appears in the human-readable formats.
func (r *Renderer) Render(format string, rev *review.Review, backend string) error {
	switch format {
	case FormatSummary:
		return r.renderSummary(rev, backend)
	case FormatDetailed:
		if err := r.renderSummary(rev, backend); err != nil {
			return err
		}

		return r.renderIssues(rev)
	case FormatJSON:
		return r.renderJSON(rev)
	case FormatMarkdown:
		return r.renderMarkdown(rev, backend)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func (r *Renderer) renderSummary(rev *review.Review, backend string) error {
	fmt.Fprintf(r.out, "Review summary (%s backend)\n\n", backend)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(r.out)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendRow(table.Row{"Files analyzed", humanize.Comma(int64(rev.FilesCount))})
	tbl.AppendRow(table.Row{"Issues found", humanize.Comma(int64(rev.IssuesCount))})
	tbl.AppendRow(table.Row{severityLabel(review.SeverityCritical), rev.CriticalIssues})
	tbl.AppendRow(table.Row{severityLabel(review.SeverityHigh), rev.HighIssues})
	tbl.AppendRow(table.Row{severityLabel(review.SeverityMedium), rev.MediumIssues})
	tbl.AppendRow(table.Row{severityLabel(review.SeverityLow), rev.LowIssues})
	tbl.Render()

	if rev.Metrics != nil {
		fmt.Fprintf(r.out, "\nChurn: +%d -%d across %d files\n",
			rev.Metrics.LinesAdded, rev.Metrics.LinesRemoved, rev.Metrics.FilesChanged)
	}

	if rev.Stack != nil {
		if len(rev.Stack.Languages) > 0 {
			fmt.Fprintf(r.out, "Languages: %s\n", strings.Join(rev.Stack.Languages, ", "))
		}

		if len(rev.Stack.Tools) > 0 {
			fmt.Fprintf(r.out, "Tools: %s\n", strings.Join(rev.Stack.Tools, ", "))
		}
	}

	return nil
}

func (r *Renderer) renderIssues(rev *review.Review) error {
	if len(rev.Issues) == 0 {
		fmt.Fprintf(r.out, "\nNo issues found.\n")

		return nil
	}

	fmt.Fprintf(r.out, "\nIssues:\n")

	for _, issue := range rev.Issues {
		severity := severityColor(issue.Severity).Sprintf("[%s]", issue.Severity)

		fmt.Fprintf(r.out, "  %s:%d %s %s (%s, %s)\n",
			issue.File, issue.Line, severity, issue.Description, issue.Category, issue.CommitStatus)

		if issue.Snippet != "" {
			fmt.Fprintf(r.out, "      %s\n", issue.Snippet)
		}
	}

	return nil
}

func (r *Renderer) renderJSON(rev *review.Review) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")

	if err := enc.Encode(rev); err != nil {
		return fmt.Errorf("encode review: %w", err)
	}

	return nil
}

func (r *Renderer) renderMarkdown(rev *review.Review, backend string) error {
	fmt.Fprintf(r.out, "# Review Summary\n\n")
	fmt.Fprintf(r.out, "Backend: %s\n\n", backend)
	fmt.Fprintf(r.out, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(r.out, "| Files analyzed | %d |\n", rev.FilesCount)
	fmt.Fprintf(r.out, "| Issues found | %d |\n", rev.IssuesCount)
	fmt.Fprintf(r.out, "| Critical | %d |\n", rev.CriticalIssues)
	fmt.Fprintf(r.out, "| High | %d |\n", rev.HighIssues)
	fmt.Fprintf(r.out, "| Medium | %d |\n", rev.MediumIssues)
	fmt.Fprintf(r.out, "| Low | %d |\n", rev.LowIssues)

	if len(rev.Issues) > 0 {
		fmt.Fprintf(r.out, "\n## Issues\n\n")
		fmt.Fprintf(r.out, "| File | Line | Severity | Category | Description | Status |\n")
		fmt.Fprintf(r.out, "|---|---|---|---|---|---|\n")

		for _, issue := range rev.Issues {
			fmt.Fprintf(r.out, "| %s | %d | %s | %s | %s | %s |\n",
				issue.File, issue.Line, issue.Severity, issue.Category, issue.Description, issue.CommitStatus)
		}
	}

	return nil
}

func severityLabel(severity string) string {
	return severityColor(severity).Sprint(severity)
}

func severityColor(severity string) *color.Color {
	switch severity {
	case review.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case review.SeverityHigh:
		return color.New(color.FgRed)
	case review.SeverityMedium:
		return color.New(color.FgYellow)
	case review.SeverityLow:
		return color.New(color.FgCyan)
	default:
		return color.New(color.FgWhite)
	}
}
