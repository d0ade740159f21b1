// Package lint implements the rule engine (§4.5): one file per rule, each
// consuming the same read-only metadata and feature DAG and emitting
// diagnostics through a shared diag.Reporter. Rules that can repair what
// they find (propagate-feature, no-std default-features) reach into the
// Manifest Editor through the Editors cache when fixing is enabled; the
// rest are pure diagnostics.
package lint

import (
	"sort"

	"weave/internal/cargo"
	"weave/internal/dag"
	"weave/internal/diag"
	"weave/internal/featdag"
	"weave/internal/manifest"
)

// Editors loads and caches *manifest.Document instances by manifest path.
// A single instance is shared across every lint rule and the Fix Driver so
// edits made by one rule are visible to the next and persisted exactly
// once, per §4's "Manifest documents are loaded lazily per file, mutated in
// memory" lifecycle. Implemented by internal/fixdriver.
type Editors interface {
	Document(path string) (*manifest.Document, error)
}

// Policy governs whether a lint considers a given situation at all.
type Policy int

const (
	PolicyCheck Policy = iota
	PolicyIgnore
)

// Context bundles the read-only inputs shared by every rule: the metadata
// object, the feature DAG built over it, and the (possibly fix-enabled)
// manifest editor cache.
type Context struct {
	Meta     *cargo.Metadata
	Graph    *dag.Graph[featdag.Node]
	Editors  Editors
	Fix      bool
	Reporter diag.Reporter
}

func (c *Context) report(d diag.Diagnostic) {
	if c.Reporter == nil {
		return
	}
	c.Reporter.Report(d)
}

// sortedFeatureNames returns p's declared feature names (the literal
// [features] table entries, not the implicit "default") in lexicographic
// order, for the reproducible-output guarantee in §5.
func sortedFeatureNames(p *cargo.Package) []string {
	names := make([]string, 0, len(p.Features))
	for f := range p.Features {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// sortedPackages returns every package in meta in (name, id) lexicographic
// order.
func sortedPackages(meta *cargo.Metadata) []*cargo.Package {
	pkgs := make([]*cargo.Package, len(meta.Packages))
	copy(pkgs, meta.Packages)
	sort.Slice(pkgs, func(i, j int) bool {
		if pkgs[i].Name != pkgs[j].Name {
			return pkgs[i].Name < pkgs[j].Name
		}
		return pkgs[i].ID < pkgs[j].ID
	})
	return pkgs
}
