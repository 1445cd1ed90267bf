// Package detect implements the heuristic rule catalog: line-oriented
// pattern checks that map matched text to categorized, severity-ranked
// issues. Detection is a pure function of text; it performs no I/O and
// never fails.
package detect

import (
	"strings"

	"github.com/revlens/revlens/pkg/review"
)

// Issue categories used by the built-in rules.
const (
	CategorySecurity      = "Security"
	CategoryPerformance   = "Performance"
	CategoryQuality       = "Code Quality"
	CategoryErrorHandling = "Error Handling"
)

// nestedLoopWindow is how many lines past a loop header are searched for an
// inner loop header (and for a DOM lookup in javascript/typescript).
const nestedLoopWindow = 10

// maxLineLength is the generic long-line threshold.
const maxLineLength = 120

// lineRule is a single heuristic applied to one line of text.
type lineRule struct {
	match       func(line, lower string) bool
	category    string
	severity    string
	description string
}

// Catalog holds the built-in rules plus any loaded custom rules.
type Catalog struct {
	custom []CustomRule
}

// NewCatalog returns a catalog with the built-in generic and per-language
// rules.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// AddRules appends validated custom rules to the catalog. Custom rules are
// evaluated after the built-ins on each line, in the order given.
func (c *Catalog) AddRules(rules []CustomRule) {
	c.custom = append(c.custom, rules...)
}

// Detect scans content with the generic rules and the rule set for the
// given language tag. Rules run top-to-bottom over lines in file order;
// for a fixed (content, language) pair the output sequence is stable.
// Returned issues carry line, severity, category, description and snippet;
// the caller owns file attribution.
func (c *Catalog) Detect(content, language string) []review.Issue {
	var issues []review.Issue

	lines := strings.Split(content, "\n")
	lastLoopLine := -nestedLoopWindow - 1

	for idx, line := range lines {
		number := idx + 1
		lower := strings.ToLower(line)

		emit := func(rule lineRule) {
			issues = append(issues, review.Issue{
				Line:        number,
				Severity:    rule.severity,
				Category:    rule.category,
				Description: rule.description,
				Snippet:     strings.TrimSpace(line),
			})
		}

		for _, rule := range genericInjectionRules {
			if rule.match(line, lower) {
				emit(rule)
			}
		}

		if isLoopHeader(lower) {
			if innerLoopWithin(lines, idx) {
				emit(nestedLoopRule)
			}

			lastLoopLine = idx
		}

		for _, rule := range genericQualityRules {
			if rule.match(line, lower) {
				emit(rule)
			}
		}

		for _, rule := range languageRules[language] {
			if rule.match(line, lower) {
				emit(rule)
			}
		}

		if isDOMLanguage(language) && hasDOMLookup(lower) &&
			idx > lastLoopLine && idx-lastLoopLine <= nestedLoopWindow {
			emit(domLookupInLoopRule)
		}

		for _, rule := range c.custom {
			if rule.matches(line, lower, language) {
				emit(lineRule{
					category:    rule.Category,
					severity:    rule.Severity,
					description: rule.Description,
				})
			}
		}
	}

	return issues
}

// innerLoopWithin reports whether another loop header appears within the
// lookahead window after the loop header at idx.
func innerLoopWithin(lines []string, idx int) bool {
	end := idx + nestedLoopWindow
	if end >= len(lines) {
		end = len(lines) - 1
	}

	for j := idx + 1; j <= end; j++ {
		if isLoopHeader(strings.ToLower(lines[j])) {
			return true
		}
	}

	return false
}

func containsAny(s string, markers ...string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}

	return false
}

func isDOMLanguage(language string) bool {
	return language == "javascript" || language == "typescript"
}
