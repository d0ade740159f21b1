// Package cargo holds the data model consumed by the core (§3): packages,
// dependency records, and the already-produced metadata object the package
// manager would emit. Loading that object from an actual `cargo metadata`
// invocation lives in loader.go, kept deliberately separate so every other
// package in this module only ever depends on the struct below.
package cargo

// CrateID is an opaque stable string identifying a package within a
// Metadata value (name + version + source, exactly as cargo emits it).
type CrateID string

// DependencyKind classifies a dependency record.
type DependencyKind uint8

const (
	KindNormal DependencyKind = iota
	KindDev
	KindBuild
)

func (k DependencyKind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindDev:
		return "dev"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// Dependency is a single dependency record declared by a Package.
type Dependency struct {
	Name                string
	Rename              string // empty unless declared via `package = "..."`
	Kind                DependencyKind
	Optional            bool
	UsesDefaultFeatures bool
	Features            []string
	Req                 string // semver requirement as written in the manifest
	Path                string // non-empty for path dependencies
	Source              string // registry source id, empty for path deps
}

// EdgeName is the identifier the resolver uses to look up this dependency's
// outgoing edge: the rename if present, otherwise the name, per §4.3.
func (d Dependency) EdgeName() string {
	if d.Rename != "" {
		return d.Rename
	}
	return d.Name
}

// Package is a single crate as exposed by cargo metadata.
type Package struct {
	ID           CrateID
	Name         string
	Version      string
	ManifestPath string
	// Features maps a declared feature name to its ordered activation
	// tokens, exactly as written in [features] (§3).
	Features     map[string][]string
	Dependencies []Dependency
}

// HasFeature reports whether the package declares the given feature, and
// also recognizes the implicit "default" feature (always present, even if
// the manifest's [features] table omits it — default is an empty array).
// Features implied by optional dependencies count only when they appear as
// keys of Features.
func (p *Package) HasFeature(name string) bool {
	if name == "default" {
		return true
	}
	_, ok := p.Features[name]
	return ok
}

// ResolveNode is one node of the resolver graph: the concrete set of edges
// cargo chose for a package's dependencies (after version resolution,
// feature unification, and optional-dep activation).
type ResolveNode struct {
	ID   CrateID
	Deps []ResolveDep
}

// ResolveDep is one outgoing edge of a ResolveNode.
type ResolveDep struct {
	// Name is the sanitized edge name (hyphens replaced with underscores,
	// §4.3) the resolver uses, which is the rename if the dependent
	// declared one.
	Name string
	PKG  CrateID
}

// Resolve is the optional resolver graph. When absent, the Metadata
// Resolver (§4.3) falls back to name-matching among workspace members.
type Resolve struct {
	Nodes []ResolveNode
}

// Metadata is the full input consumed by the core: every package in the
// dependency graph (workspace members and all transitive non-workspace
// dependencies), which of those are workspace members, and an optional
// resolver graph.
type Metadata struct {
	Packages         []*Package
	WorkspaceMembers []CrateID
	Resolve          *Resolve // nil if the package manager did not emit one
}

// PackageByID returns the package with the given id, or nil.
func (m *Metadata) PackageByID(id CrateID) *Package {
	for _, p := range m.Packages {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// IsWorkspaceMember reports whether id names a workspace member.
func (m *Metadata) IsWorkspaceMember(id CrateID) bool {
	for _, w := range m.WorkspaceMembers {
		if w == id {
			return true
		}
	}
	return false
}
