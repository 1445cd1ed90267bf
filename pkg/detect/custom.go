package detect

import (
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// customRuleSchema validates a custom rule file before it is decoded into
// typed rules.
const customRuleSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["rules"],
  "properties": {
    "rules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "contains", "category", "severity", "description"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "language": {"type": "string"},
          "contains": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "not_contains": {
            "type": "array",
            "items": {"type": "string", "minLength": 1}
          },
          "category": {"type": "string", "minLength": 1},
          "severity": {
            "type": "string",
            "enum": ["Critical", "High", "Medium", "Low", "Info"]
          },
          "description": {"type": "string", "minLength": 1}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

// CustomRule is a user-supplied substring rule. Matching is case-insensitive;
// an empty Language applies the rule to every file.
type CustomRule struct {
	Name        string   `yaml:"name" json:"name"`
	Language    string   `yaml:"language,omitempty" json:"language,omitempty"`
	Contains    []string `yaml:"contains" json:"contains"`
	NotContains []string `yaml:"not_contains,omitempty" json:"not_contains,omitempty"`
	Category    string   `yaml:"category" json:"category"`
	Severity    string   `yaml:"severity" json:"severity"`
	Description string   `yaml:"description" json:"description"`
}

type customRuleFile struct {
	Rules []CustomRule `yaml:"rules"`
}

// matches reports whether the rule fires for the line. Every contains marker
// must be present and no not_contains marker may be.
func (r CustomRule) matches(_, lower, language string) bool {
	if r.Language != "" && r.Language != language {
		return false
	}

	for _, marker := range r.Contains {
		if !strings.Contains(lower, strings.ToLower(marker)) {
			return false
		}
	}

	for _, marker := range r.NotContains {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return false
		}
	}

	return true
}

// LoadCustomRules reads a YAML rule file, validates it against the rule
// schema and returns the typed rules.
func LoadCustomRules(path string) ([]CustomRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read custom rules %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse custom rules %s: %w", path, err)
	}

	schemaLoader := gojsonschema.NewStringLoader(customRuleSchema)
	docLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("validate custom rules %s: %w", path, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}

		return nil, fmt.Errorf("invalid custom rules %s: %s", path, strings.Join(details, "; "))
	}

	var file customRuleFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode custom rules %s: %w", path, err)
	}

	return file.Rules, nil
}
