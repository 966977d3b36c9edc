package resolver

import (
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/logger"
)

// ExpandPattern returns the files matched by a doublestar pattern such as
// `commands/**/*.yaml`. A pattern without glob syntax, or one naming an
// existing file, is returned as is, so a missing plain path surfaces later as
// a read error.
func ExpandPattern(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		return []string{pattern}, nil
	}
	if info, err := os.Stat(pattern); err == nil && info.Mode().IsRegular() {
		return []string{pattern}, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, errs.ConfigWrap(err, pattern, "invalid pattern")
	}
	if len(matches) == 0 {
		return nil, errs.Configf(pattern, "pattern matched no files")
	}
	sort.Strings(matches)
	return matches, nil
}

// ResolveFiles resolves every file matched by patterns, in order, into one
// Document.
func ResolveFiles(patterns []string, opts ...Option) (*Document, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := ExpandPattern(pattern)
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	return ResolvePaths(paths, opts...)
}

// ResolvePaths resolves the given files, in order, into one Document. Paths
// are taken literally, so names containing glob syntax are read as is.
func ResolvePaths(paths []string, opts ...Option) (*Document, error) {
	doc := NewDocument()
	for _, path := range paths {
		logger.Debug("[DEBUG] Loading commands from %s\n", path)
		part, err := Resolve(Source{Path: path}, opts...)
		if err != nil {
			return nil, err
		}
		if err := doc.Merge(part); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
