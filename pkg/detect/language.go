package detect

import (
	"strings"

	"github.com/revlens/revlens/pkg/review"
)

// languageRules maps a language tag to its rule set. Languages without an
// entry only receive the generic rules.
var languageRules = map[string][]lineRule{
	"rust": {
		{
			match: func(_, lower string) bool {
				return strings.Contains(lower, "unsafe")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "unsafe block: verify memory-safety invariants are upheld",
		},
		{
			match: func(_, lower string) bool {
				return strings.Contains(lower, "ptr::null")
			},
			category:    CategorySecurity,
			severity:    review.SeverityCritical,
			description: "Raw null pointer: dereferencing it is undefined behavior",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, ".unwrap()") && !strings.Contains(line, ".expect(")
			},
			category:    CategoryErrorHandling,
			severity:    review.SeverityMedium,
			description: "unwrap() panics on error: prefer expect() or proper error propagation",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, ".clone()") && strings.Contains(line, "&")
			},
			category:    CategoryPerformance,
			severity:    review.SeverityLow,
			description: "clone() of a borrowed value: borrowing may avoid the copy",
		},
	},
	"python": {
		{
			match: func(_, lower string) bool {
				return strings.Contains(lower, "pickle.loads") && !strings.Contains(lower, "trusted")
			},
			category:    CategorySecurity,
			severity:    review.SeverityCritical,
			description: "pickle.loads on untrusted data executes arbitrary code",
		},
		{
			match: func(_, lower string) bool {
				return strings.Contains(lower, "yaml.load") && !strings.Contains(lower, "safe_load")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "yaml.load without a safe loader can instantiate arbitrary objects",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "+=") && containsAny(line, `"`, "'")
			},
			category:    CategoryPerformance,
			severity:    review.SeverityMedium,
			description: "String concatenation in place: join() is linear, += is quadratic",
		},
		{
			match: func(line, _ string) bool {
				return strings.TrimSpace(line) == "except:"
			},
			category:    CategoryErrorHandling,
			severity:    review.SeverityLow,
			description: "Bare except: catch specific exception types",
		},
	},
	"javascript": {
		{
			match: func(line, lower string) bool {
				return strings.Contains(lower, "innerhtml") && strings.Contains(line, "+")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "innerHTML assembled from strings: possible XSS, use textContent or sanitize",
		},
	},
	"typescript": {
		{
			match: func(line, lower string) bool {
				return strings.Contains(lower, "innerhtml") && strings.Contains(line, "+")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "innerHTML assembled from strings: possible XSS, use textContent or sanitize",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, ": any")
			},
			category:    CategoryQuality,
			severity:    review.SeverityLow,
			description: "any type defeats the type checker: narrow the type",
		},
	},
	"go": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "unsafe.")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "unsafe package use: verify pointer arithmetic and lifetimes",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "panic(")
			},
			category:    CategoryErrorHandling,
			severity:    review.SeverityMedium,
			description: "panic in library code: return an error instead",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "_ =") && strings.Contains(line, "err")
			},
			category:    CategoryErrorHandling,
			severity:    review.SeverityMedium,
			description: "Error discarded with blank identifier",
		},
	},
	"java": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "printStackTrace()")
			},
			category:    CategoryErrorHandling,
			severity:    review.SeverityLow,
			description: "printStackTrace swallows the error: log or rethrow it",
		},
	},
	"c": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "gets(")
			},
			category:    CategorySecurity,
			severity:    review.SeverityCritical,
			description: "gets() has no bounds check: use fgets()",
		},
		{
			match: func(line, _ string) bool {
				return containsAny(line, "strcpy(", "strcat(", "sprintf(")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "Unbounded string copy: use the length-checked variant",
		},
	},
	"cpp": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "gets(")
			},
			category:    CategorySecurity,
			severity:    review.SeverityCritical,
			description: "gets() has no bounds check: use fgets()",
		},
		{
			match: func(line, _ string) bool {
				return containsAny(line, "strcpy(", "strcat(", "sprintf(")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "Unbounded string copy: use the length-checked variant",
		},
	},
	"php": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "mysql_query(")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "Legacy mysql_query: use prepared statements via mysqli or PDO",
		},
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "echo") && strings.Contains(line, "$_")
			},
			category:    CategorySecurity,
			severity:    review.SeverityHigh,
			description: "Echoing a superglobal: possible XSS, escape the output",
		},
	},
	"ruby": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, "Marshal.load")
			},
			category:    CategorySecurity,
			severity:    review.SeverityCritical,
			description: "Marshal.load on untrusted data executes arbitrary code",
		},
	},
	"csharp": {
		{
			match: func(line, _ string) bool {
				return strings.Contains(line, ".Result")
			},
			category:    CategoryPerformance,
			severity:    review.SeverityMedium,
			description: "Blocking on .Result can deadlock: await the task",
		},
	},
}
