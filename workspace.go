package buildgraph

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// buildFileNames are the recognized manifest filenames, checked in order.
var buildFileNames = []string{"BUILD", "BUILD.bazel"}

// Loader supplies packages to the resolver. Implementations must be
// safe for concurrent use.
type Loader interface {
	// Package returns the package at the given workspace-relative path.
	// The error wraps ErrPackageNotFound or ErrNoBuildFile when the
	// package does not exist.
	Package(path string) (*Package, error)

	// HasExternal reports whether the named external repository is
	// declared and may terminate graph traversal.
	HasExternal(repo string) bool
}

// Workspace loads BUILD packages from a directory tree, caching parse
// results. It is safe for concurrent use.
type Workspace struct {
	root string

	mu        sync.Mutex
	packages  map[string]*Package
	loadErrs  map[string]error
	externals map[string]bool
}

// NewWorkspace creates a workspace rooted at dir.
func NewWorkspace(dir string) *Workspace {
	return &Workspace{
		root:      dir,
		packages:  make(map[string]*Package),
		loadErrs:  make(map[string]error),
		externals: make(map[string]bool),
	}
}

// Root returns the workspace root directory.
func (w *Workspace) Root() string { return w.root }

// DeclareExternal registers external repository names that dependency
// labels may reference. Deps into undeclared repositories fail
// resolution.
func (w *Workspace) DeclareExternal(repos ...string) *Workspace {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, r := range repos {
		w.externals[r] = true
	}
	return w
}

// HasExternal reports whether the repository was declared via
// DeclareExternal.
func (w *Workspace) HasExternal(repo string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.externals[repo]
}

// AddPackage registers an in-memory package, bypassing disk loading.
// Useful for programmatically built workspaces and tests.
func (w *Workspace) AddPackage(pkg *Package) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.packages[pkg.Path] = pkg
}

// Package returns the package at the given workspace-relative path,
// parsing its BUILD file on first access.
func (w *Workspace) Package(path string) (*Package, error) {
	w.mu.Lock()
	if pkg, ok := w.packages[path]; ok {
		w.mu.Unlock()
		return pkg, nil
	}
	if err, ok := w.loadErrs[path]; ok {
		w.mu.Unlock()
		return nil, err
	}
	w.mu.Unlock()

	pkg, err := w.load(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.loadErrs[path] = err
		return nil, err
	}
	// A concurrent load of the same path may have won; keep the first.
	if existing, ok := w.packages[path]; ok {
		return existing, nil
	}
	w.packages[path] = pkg
	return pkg, nil
}

// load parses the BUILD file for a package directory.
func (w *Workspace) load(path string) (*Package, error) {
	dir := filepath.Join(w.root, filepath.FromSlash(path))
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("package //%s: %w", path, ErrPackageNotFound)
	}

	for _, name := range buildFileNames {
		buildPath := filepath.Join(dir, name)
		data, err := os.ReadFile(buildPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("package //%s: %w", path, err)
		}
		return ParseBuildContent(path, string(data))
	}
	return nil, fmt.Errorf("package //%s: %w", path, ErrNoBuildFile)
}
