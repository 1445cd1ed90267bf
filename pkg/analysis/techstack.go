package analysis

import (
	"path"
	"sort"

	"github.com/src-d/enry/v2"

	"github.com/revlens/revlens/pkg/gitlib"
	"github.com/revlens/revlens/pkg/review"
)

// toolMarkers maps well-known manifest and config file names to the tooling
// they indicate.
var toolMarkers = map[string]string{
	"Cargo.toml":         "Cargo",
	"package.json":       "npm",
	"go.mod":             "Go modules",
	"requirements.txt":   "pip",
	"pyproject.toml":     "Python packaging",
	"pom.xml":            "Maven",
	"build.gradle":       "Gradle",
	"Dockerfile":         "Docker",
	"docker-compose.yml": "Docker Compose",
	"Makefile":           "Make",
	".gitlab-ci.yml":     "GitLab CI",
	"Gemfile":            "Bundler",
}

// detectTechStack classifies the changed files by language and scans their
// names for tooling markers. Languages come from enry's filename heuristics;
// content is only consulted when the name alone is ambiguous.
func detectTechStack(repo *gitlib.Repository, targetRef string, files []gitlib.ChangedFile) *review.TechStack {
	languages := make(map[string]struct{})
	tools := make(map[string]struct{})

	for _, file := range files {
		base := path.Base(file.Path)

		if tool, ok := toolMarkers[base]; ok {
			tools[tool] = struct{}{}
		}

		lang := enry.GetLanguage(base, nil)
		if lang == enry.OtherLanguage {
			content, err := repo.Content(file.Path, file.Status, targetRef)
			if err != nil {
				continue
			}

			lang = enry.GetLanguage(base, []byte(content))
		}

		if lang != enry.OtherLanguage && lang != "" {
			languages[lang] = struct{}{}
		}
	}

	if len(languages) == 0 && len(tools) == 0 {
		return nil
	}

	return &review.TechStack{
		Languages: sortedKeys(languages),
		Tools:     sortedKeys(tools),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}

	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
