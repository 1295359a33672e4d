// Package loader implements the module/import linker (SPEC_FULL.md §3): it
// resolves `import "path"` relative to the importing file and a search-path
// list, memoizes per-path results within one program load (diamond imports
// are only parsed once). Resolve does not follow a parsed program's own
// imports, so its import-chain stack never sees a cross-module cycle;
// circular imports are rejected by the import guards in internal/eval and
// internal/infer, which report the repeated path.
// Modeled on the teacher's internal/module Loader/Resolver split
// (loader.go's cache/loadStack, resolver.go's resolveRelativeImport/
// resolveStdlibImport/resolveProjectImport chain).
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jethrolarson/noolang-sub003/internal/ast"
	"github.com/jethrolarson/noolang-sub003/internal/manifest"
	"github.com/jethrolarson/noolang-sub003/internal/parser"
)

// Loader resolves and parses import paths, implementing the Resolver
// interface both internal/eval and internal/infer depend on.
type Loader struct {
	mu          sync.Mutex
	cache       map[string]*ast.Program
	stack       []string
	stdlibPath  string
	searchPaths []string
}

// New builds a Loader from a manifest's stdlib path and search paths.
func New(m *manifest.Manifest) *Loader {
	return &Loader{
		cache:       map[string]*ast.Program{},
		stdlibPath:  m.StdlibPath,
		searchPaths: m.SearchPaths,
	}
}

// CycleError reports a full import chain ending in a repeat (spec §4.4:
// "Circular imports are not supported").
type CycleError struct{ Chain []string }

func (e *CycleError) Error() string {
	return "circular import: " + strings.Join(e.Chain, " -> ")
}

// Resolve parses and returns the program at path, relative to fromFile,
// memoized per path for the lifetime of this Loader (one evaluator run).
func (l *Loader) Resolve(fromFile, path string) (*ast.Program, error) {
	key := l.normalize(fromFile, path)

	l.mu.Lock()
	if prog, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return prog, nil
	}
	for _, inChain := range l.stack {
		if inChain == key {
			chain := append(append([]string{}, l.stack...), key)
			l.mu.Unlock()
			return nil, &CycleError{Chain: chain}
		}
	}
	l.stack = append(l.stack, key)
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.stack = l.stack[:len(l.stack)-1]
		l.mu.Unlock()
	}()

	filePath, err := l.resolveFilePath(fromFile, path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read module %q: %w", path, err)
	}
	prog, err := parser.Parse(src, filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot parse module %q: %w", path, err)
	}

	l.mu.Lock()
	l.cache[key] = prog
	l.mu.Unlock()
	return prog, nil
}

// normalize builds the memoization key: an absolute file path when it can
// be resolved, the raw import string otherwise (pre-resolution cycle
// detection still works on the raw string).
func (l *Loader) normalize(fromFile, path string) string {
	if resolved, err := l.resolveFilePath(fromFile, path); err == nil {
		return resolved
	}
	return path
}

// resolveFilePath mirrors the teacher's Resolver.ResolveImport dispatch:
// relative imports (./ ../) resolve against the importing file's
// directory; std/-prefixed imports resolve against the manifest's stdlib
// path; everything else is tried against the search-path list in order.
func (l *Loader) resolveFilePath(fromFile, path string) (string, error) {
	switch {
	case strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../"):
		if fromFile == "" {
			return "", fmt.Errorf("relative import %q requires a current file context", path)
		}
		return withExt(filepath.Join(filepath.Dir(fromFile), path)), nil
	case strings.HasPrefix(path, "std/"):
		rel := strings.TrimPrefix(path, "std/")
		candidate := withExt(filepath.Join(l.stdlibPath, rel))
		if _, err := os.Stat(candidate); err != nil {
			return "", fmt.Errorf("stdlib module not found: %s", path)
		}
		return candidate, nil
	default:
		for _, base := range l.searchPaths {
			candidate := withExt(filepath.Join(base, path))
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		return "", fmt.Errorf("module not found: %s", path)
	}
}

func withExt(path string) string {
	if strings.HasSuffix(path, ".noo") {
		return path
	}
	return path + ".noo"
}
