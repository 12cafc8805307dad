package assembly

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Filter excludes documents whose path matches any of its glob patterns.
// Paths are matched with forward slashes and case-insensitively, since the
// host runs on Windows file systems.
type Filter struct {
	patterns []compiledPattern
}

// NewFilter compiles exclusion patterns such as "**/Content Center Files/**".
func NewFilter(patterns []string) (*Filter, error) {
	f := &Filter{}
	for _, pattern := range patterns {
		g, err := glob.Compile(normalizePath(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	return f, nil
}

// Excluded reports the first pattern matching path, if any.
func (f *Filter) Excluded(path string) (string, bool) {
	if f == nil || len(f.patterns) == 0 {
		return "", false
	}
	p := normalizePath(path)
	for _, cp := range f.patterns {
		if cp.glob.Match(p) {
			return cp.pattern, true
		}
	}
	return "", false
}

func normalizePath(p string) string {
	return strings.ToLower(filepath.ToSlash(strings.ReplaceAll(p, `\`, "/")))
}
