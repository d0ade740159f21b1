package cargo

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// pathManifest mirrors the handful of [package] fields a path dependency's
// own Cargo.toml needs for the rename cross-check below.
type pathManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

// ErrPathDependencyRenamed indicates that a path dependency's own manifest
// declares a package name different from what the dependent's Cargo.toml
// names it, with no `package = "..."` rename recorded to explain the gap —
// a likely sign the path points at the wrong directory after a refactor.
var ErrPathDependencyRenamed = fmt.Errorf("path dependency name mismatch")

// CheckPathDependencyIdentity reads a path dependency's own Cargo.toml and
// confirms its declared package name matches dep.Name, unless dep.Rename
// explains the difference. Path dependencies are the one place cargo
// metadata's resolved id can silently paper over a stale checkout: the
// resolve graph matches on-disk directories, not declared names, so a
// directory that was copied or swapped during a refactor still "resolves"
// even though it no longer holds the crate its Cargo.toml claims to.
func CheckPathDependencyIdentity(dep Dependency) error {
	if dep.Path == "" {
		return nil
	}
	manifestPath := filepath.Join(dep.Path, "Cargo.toml")
	var m pathManifest
	if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
		return fmt.Errorf("%s: %w", manifestPath, err)
	}
	declared := strings.TrimSpace(m.Package.Name)
	if declared == "" {
		return nil
	}
	if dep.Rename != "" {
		return nil // an explicit rename fully explains any name difference
	}
	if declared != dep.Name {
		return fmt.Errorf("%s: declares package %q, dependent expects %q: %w", manifestPath, declared, dep.Name, ErrPathDependencyRenamed)
	}
	return nil
}
