package analysis

import "strings"

// defaultIgnores are always-skipped paths: build output, vendored module
// trees and noise files.
func defaultIgnored(path string) bool {
	if strings.HasPrefix(path, "target/") {
		return true
	}

	if strings.Contains(path, "node_modules/") {
		return true
	}

	return strings.HasSuffix(path, ".lock") || strings.HasSuffix(path, ".log")
}

// matchPattern applies one filter pattern to a path. "*.ext" matches by
// suffix, "dir/**" matches by prefix, anything else matches as a substring.
func matchPattern(path, pattern string) bool {
	switch {
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(path, pattern[1:])
	case strings.HasSuffix(pattern, "/**"):
		return strings.HasPrefix(path, strings.TrimSuffix(pattern, "**"))
	default:
		return strings.Contains(path, pattern)
	}
}

// shouldAnalyze applies include patterns, then exclude patterns, then the
// built-in ignore list. An empty include list admits every path.
func shouldAnalyze(path string, include, exclude []string) bool {
	if len(include) > 0 {
		matched := false

		for _, pattern := range include {
			if matchPattern(path, pattern) {
				matched = true

				break
			}
		}

		if !matched {
			return false
		}
	}

	for _, pattern := range exclude {
		if matchPattern(path, pattern) {
			return false
		}
	}

	return !defaultIgnored(path)
}
