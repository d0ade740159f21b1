package cargo

import "strings"

// RenamedPackage pairs a resolved package with the alias (if any) and
// optional-flag it was depended on through. Identity-by-name: ordering is
// (name, id) lexicographic, per §3.
type RenamedPackage struct {
	Package  *Package
	Rename   string
	Optional bool
}

// Less implements the (name, id) lexicographic ordering §3 specifies for
// RenamedPackage.
func (r RenamedPackage) Less(other RenamedPackage) bool {
	if r.Package.Name != other.Package.Name {
		return r.Package.Name < other.Package.Name
	}
	return r.Package.ID < other.Package.ID
}

// sanitize replaces hyphens with underscores, because the resolver graph
// uses crate-root names (§4.3).
func sanitize(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Resolve finds the concrete package a dependency record of pkg refers to.
// It unifies on id matching through the resolve graph (§9's open question),
// falling back to name matching among workspace members only when no
// resolve graph is present. Returns (_, false) when the dependency cannot be
// resolved — an expected outcome for optional/target-gated/dev dependencies
// not selected for the active profile, never an error (§4.3).
func Resolve(meta *Metadata, pkg *Package, dep *Dependency) (RenamedPackage, bool) {
	if meta == nil || pkg == nil || dep == nil {
		return RenamedPackage{}, false
	}

	if meta.Resolve != nil {
		for _, node := range meta.Resolve.Nodes {
			if node.ID != pkg.ID {
				continue
			}
			wantEdge := sanitize(dep.EdgeName())
			for _, edge := range node.Deps {
				if edge.Name != wantEdge {
					continue
				}
				target := meta.PackageByID(edge.PKG)
				if target == nil {
					return RenamedPackage{}, false
				}
				return RenamedPackage{Package: target, Rename: dep.Rename, Optional: dep.Optional}, true
			}
			return RenamedPackage{}, false
		}
		return RenamedPackage{}, false
	}

	for _, id := range meta.WorkspaceMembers {
		candidate := meta.PackageByID(id)
		if candidate != nil && candidate.Name == dep.Name {
			return RenamedPackage{Package: candidate, Rename: dep.Rename, Optional: dep.Optional}, true
		}
	}
	return RenamedPackage{}, false
}
