package deps_test

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// allowed lists the non-stdlib imports of the core package.
var allowed = map[string]bool{
	"golang.org/x/sync/errgroup": true,
	"github.com/google/uuid":     true,
}

const module = "github.com/comalice/presenterx/"

func TestCoreImports(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "*.go"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no core sources found")
	}

	fset := token.NewFileSet()
	for _, fn := range files {
		if strings.HasSuffix(fn, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, fn, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", fn, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			first, _, _ := strings.Cut(path, "/")
			switch {
			case !strings.Contains(first, "."):
				// stdlib
			case strings.HasPrefix(path, module+"internal/"):
			case allowed[path]:
			default:
				t.Errorf("%s: core imports %s", filepath.Base(fn), path)
			}
		}
	}
}
