package detect

import (
	"path/filepath"
	"strings"
)

// LangUnknown is the tag for files whose extension is not in the table.
const LangUnknown = "unknown"

// extensionTags maps file extensions to language tags. The table is closed:
// anything else is tagged unknown and only receives the generic rules.
var extensionTags = map[string]string{
	".rs":   "rust",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".java": "java",
	".cpp":  "cpp",
	".cc":   "cpp",
	".cxx":  "cpp",
	".c":    "c",
	".go":   "go",
	".php":  "php",
	".rb":   "ruby",
	".cs":   "csharp",
}

// LanguageTag derives the detector language tag from a file path.
func LanguageTag(path string) string {
	ext := strings.ToLower(filepath.Ext(path))

	if tag, ok := extensionTags[ext]; ok {
		return tag
	}

	return LangUnknown
}
