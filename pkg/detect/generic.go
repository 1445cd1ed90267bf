package detect

import (
	"strings"

	"github.com/revlens/revlens/pkg/review"
)

// credentialWords flag a line as credential-bearing when combined with an
// assignment and a quoted literal.
var credentialWords = []string{"password", "api_key", "secret"}

// formatCallMarkers identify string-formatting calls across the supported
// languages.
var formatCallMarkers = []string{"format!(", "format(", "sprintf", `f"`, "f'"}

// processMarkers identify external-process constructors.
var processMarkers = []string{
	"command::new", "exec.command", "subprocess.", "os.system",
	"runtime.getruntime().exec", "process.start", "proc_open",
	"shell_exec", "popen", "system(", "spawn(",
}

// untrustedInputMarkers flag values that plausibly originate outside the
// program.
var untrustedInputMarkers = []string{"input", "argv", "request", "params", "user"}

// fileAccessMarkers identify file-read or open calls for the path-traversal
// rule.
var fileAccessMarkers = []string{"open(", "read", "file", "fopen"}

// genericInjectionRules are the language-independent security rules, in
// evaluation order.
var genericInjectionRules = []lineRule{
	{
		match: func(line, lower string) bool {
			return containsAny(lower, credentialWords...) &&
				strings.Contains(line, "=") &&
				containsAny(line, `"`, "'")
		},
		category:    CategorySecurity,
		severity:    review.SeverityCritical,
		description: "Hardcoded credential: load secrets from the environment or a secret store instead",
	},
	{
		match: func(_, lower string) bool {
			return containsAny(lower, "eval(", "exec(")
		},
		category:    CategorySecurity,
		severity:    review.SeverityCritical,
		description: "Dynamic code execution: eval/exec on runtime data enables code injection",
	},
	{
		match: func(line, lower string) bool {
			return strings.Contains(lower, "query") &&
				containsAny(lower, formatCallMarkers...) &&
				containsAny(line, "SELECT", "INSERT", "UPDATE")
		},
		category:    CategorySecurity,
		severity:    review.SeverityCritical,
		description: "SQL built by string formatting: use parameterized queries",
	},
	{
		match: func(_, lower string) bool {
			return containsAny(lower, processMarkers...) &&
				(containsAny(lower, formatCallMarkers...) || containsAny(lower, untrustedInputMarkers...))
		},
		category:    CategorySecurity,
		severity:    review.SeverityCritical,
		description: "External command built from dynamic input: possible command injection",
	},
	{
		match: func(line, lower string) bool {
			return strings.Contains(line, "../") && containsAny(lower, fileAccessMarkers...)
		},
		category:    CategorySecurity,
		severity:    review.SeverityHigh,
		description: "Relative parent path in a file access: possible path traversal",
	},
}

// nestedLoopRule is reported once, at the outer loop's line, when another
// loop header appears within the lookahead window.
var nestedLoopRule = lineRule{
	category:    CategoryPerformance,
	severity:    review.SeverityMedium,
	description: "Nested loops: consider restructuring to avoid quadratic iteration",
}

// domLookupInLoopRule fires for javascript/typescript DOM lookups inside a
// loop body.
var domLookupInLoopRule = lineRule{
	category:    CategoryPerformance,
	severity:    review.SeverityMedium,
	description: "DOM lookup inside a loop: cache the element reference outside the loop",
}

// genericQualityRules run after the loop check, in evaluation order.
var genericQualityRules = []lineRule{
	{
		match: func(line, _ string) bool {
			return containsAny(line, "TODO", "FIXME", "HACK")
		},
		category:    CategoryQuality,
		severity:    review.SeverityLow,
		description: "Marker comment: unresolved TODO/FIXME/HACK",
	},
	{
		match: func(line, _ string) bool {
			return len(line) > maxLineLength
		},
		category:    CategoryQuality,
		severity:    review.SeverityLow,
		description: "Line exceeds 120 characters",
	},
}

// isLoopHeader recognizes loop headers across the supported languages.
func isLoopHeader(lower string) bool {
	trimmed := strings.TrimSpace(lower)

	if strings.HasPrefix(trimmed, "for ") || strings.HasPrefix(trimmed, "for(") ||
		strings.HasPrefix(trimmed, "while ") || strings.HasPrefix(trimmed, "while(") {
		return true
	}

	if strings.HasPrefix(trimmed, "loop") && strings.Contains(trimmed, "{") {
		return true
	}

	return strings.Contains(trimmed, ".foreach(")
}

// hasDOMLookup recognizes DOM element lookups.
func hasDOMLookup(lower string) bool {
	return containsAny(lower,
		"document.getelementbyid(",
		"document.queryselector(",
		"document.getelementsbyclassname(",
		"document.getelementsbytagname(",
	)
}
