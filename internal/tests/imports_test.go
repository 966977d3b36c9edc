package tests

import (
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "github.com/LiboWorks/yamlcmd"

// importRule forbids packages under dir from importing anything with prefix.
type importRule struct {
	dir    string
	prefix string
}

var importRules = []importRule{
	// Internal packages never depend on the public API or the CLI.
	{"internal", modulePath + "/pkg/"},
	{"internal", modulePath + "/cmd"},
	// Parsing and parameter modelling stay independent of the CLI framework.
	{"internal/resolver", "github.com/spf13/"},
	{"internal/param", "github.com/spf13/"},
	{"internal/types", "github.com/spf13/"},
	{"internal/errs", modulePath + "/"},
}

func repoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("pwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find repository root (go.mod)")
		}
		dir = parent
	}
}

// Detect imports that break the package layering.
func TestImportLayering(t *testing.T) {
	root := repoRoot(t)
	fset := token.NewFileSet()
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "vendor", ".git", "testdata", "_examples":
				return fs.SkipDir
			}
			return nil
		}
		// Tests may reach across layers to build fixtures.
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, imp := range f.Imports {
			ipath, _ := strconv.Unquote(imp.Path.Value)
			for _, rule := range importRules {
				if strings.HasPrefix(rel, rule.dir+"/") && strings.HasPrefix(ipath, rule.prefix) {
					found = append(found, rel+" imports "+ipath)
				}
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(found) > 0 {
		t.Fatalf("found imports that break the package layering:\n%s", strings.Join(found, "\n"))
	}
}
