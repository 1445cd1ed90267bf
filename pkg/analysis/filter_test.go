package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"src/main.rs", "*.rs", true},
		{"src/main.rs", "*.py", false},
		{"src/main.rs", "src/**", true},
		{"lib/src/main.rs", "src/**", false},
		{"src/handlers/auth.py", "handlers", true},
		{"src/handlers/auth.py", "models", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, matchPattern(tc.path, tc.pattern), "%s vs %s", tc.path, tc.pattern)
	}
}

func TestShouldAnalyzeOrder(t *testing.T) {
	// Include admits, exclude rejects, built-in ignores reject last.
	assert.True(t, shouldAnalyze("src/main.rs", nil, nil))
	assert.True(t, shouldAnalyze("src/main.rs", []string{"*.rs"}, nil))
	assert.False(t, shouldAnalyze("src/main.rs", []string{"*.py"}, nil))
	assert.False(t, shouldAnalyze("src/main.rs", []string{"*.rs"}, []string{"src/**"}))

	assert.False(t, shouldAnalyze("target/debug/main.rs", nil, nil))
	assert.False(t, shouldAnalyze("web/node_modules/left-pad/index.js", nil, nil))
	assert.False(t, shouldAnalyze("Cargo.lock", nil, nil))
	assert.False(t, shouldAnalyze("debug.log", nil, nil))

	// Includes do not override the built-in ignore list.
	assert.False(t, shouldAnalyze("target/gen.rs", []string{"*.rs"}, nil))
}
