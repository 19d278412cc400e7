package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// layerRules lists, per directory prefix under internal/, the internal
// packages that prefix must not import.
var layerRules = []struct {
	prefix     string
	disallowed []string
}{
	{"internal/platform/", []string{"internal/domain/", "internal/data/", "internal/learning/", "internal/services", "internal/http", "internal/app"}},
	{"internal/domain/", []string{"internal/data/", "internal/services", "internal/http", "internal/app"}},
	{"internal/learning/", []string{"internal/data/", "internal/services", "internal/http", "internal/app"}},
	{"internal/data/", []string{"internal/services", "internal/http", "internal/app"}},
	{"internal/services/", []string{"internal/http", "internal/app"}},
	{"internal/observability/", []string{"internal/data/", "internal/services", "internal/http", "internal/app"}},
}

type importRef struct {
	file string
	imp  string
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)

	var violations []string
	for _, ref := range internalImports(t, root, modulePath) {
		for _, rule := range layerRules {
			if !strings.HasPrefix(ref.file, rule.prefix) {
				continue
			}
			for _, bad := range rule.disallowed {
				if strings.HasPrefix(ref.imp, bad) {
					violations = append(violations, fmt.Sprintf("- %s imports %q (disallowed: %q)", ref.file, ref.imp, bad))
				}
			}
		}
	}
	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n%s", strings.Join(violations, "\n"))
	}
}

func TestClientsOnlyWiredFromApp(t *testing.T) {
	root, modulePath := moduleRoot(t)

	var violations []string
	for _, ref := range internalImports(t, root, modulePath) {
		if !strings.HasPrefix(ref.imp, "internal/clients/") {
			continue
		}
		if strings.HasPrefix(ref.file, "internal/app/") || strings.HasPrefix(ref.file, "internal/clients/") {
			continue
		}
		violations = append(violations, fmt.Sprintf("- %s imports %q", ref.file, ref.imp))
	}
	if len(violations) > 0 {
		t.Fatalf("internal/clients imported outside internal/app:\n%s", strings.Join(violations, "\n"))
	}
}

// internalImports returns every module-internal import under internal/, with
// both the file and the import expressed relative to the module root.
func internalImports(t *testing.T, root, modulePath string) []importRef {
	t.Helper()
	fset := token.NewFileSet()
	var refs []importRef
	err := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, modulePath+"/") {
				continue
			}
			refs = append(refs, importRef{
				file: filepath.ToSlash(rel),
				imp:  strings.TrimPrefix(imp, modulePath+"/"),
			})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk internal/: %v", err)
	}
	return refs
}

func moduleRoot(t *testing.T) (string, string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		t.Fatalf("open go.mod: %v", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return dir, strings.TrimSpace(strings.TrimPrefix(line, "module "))
		}
	}
	t.Fatalf("module directive not found in go.mod")
	return "", ""
}
