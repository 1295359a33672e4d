// Package manifest loads a small project/host configuration file that
// carries the stdlib search-path list (spec §6.2: "searching a prioritized
// list of paths supplied by the host"). Modeled on the teacher's
// internal/module/resolver.go path-resolution helpers (findProjectRoot,
// findStdlibPath, getSearchPaths), but expressed as declarative YAML
// config rather than environment-variable probing, since a host-supplied
// manifest is easier to test deterministically than $NOOLANG_PATH.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest is the noolang.yaml project/host configuration (spec §6.2).
type Manifest struct {
	StdlibPath  string   `yaml:"stdlib_path"`
	SearchPaths []string `yaml:"search_paths"`
}

// FileName is the marker file searched for when locating a project root,
// alongside .git and go.mod (spec §6.2, mirroring the teacher's
// "ailang.yaml"/".ailang" marker list).
const FileName = "noolang.yaml"

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Default builds a manifest from the teacher's fallback-chain idiom when no
// noolang.yaml is found: the project root's stdlib/ directory, plus the
// root itself as a search path.
func Default() *Manifest {
	root := FindProjectRoot()
	return &Manifest{
		StdlibPath:  filepath.Join(root, "stdlib"),
		SearchPaths: []string{root},
	}
}

// FindProjectRoot walks upward from the working directory looking for a
// marker file (go.mod, .git, noolang.yaml), mirroring the teacher's
// findProjectRoot.
func FindProjectRoot() string {
	markers := []string{"go.mod", ".git", FileName}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	pwd, _ := os.Getwd()
	return pwd
}

// LoadOrDefault loads noolang.yaml from the project root if present,
// falling back to Default() otherwise — stdlib loading must still be
// deterministic either way (spec §5: "Stdlib loading happens exactly once
// per evaluator and must be deterministic").
func LoadOrDefault() *Manifest {
	root := FindProjectRoot()
	path := filepath.Join(root, FileName)
	if m, err := Load(path); err == nil {
		return m
	}
	return Default()
}
