// Package featdag builds the feature-propagation graph (§4.4): one node per
// (crate, feature) pair, with edges derived from implicit default-feature
// propagation and the explicit activation tokens a package's [features]
// table lists. The lint engine runs all of its reachability queries over the
// *dag.Graph[Node] this package returns; it never inspects cargo.Metadata
// directly.
package featdag

import (
	"sort"
	"strings"

	"weave/internal/cargo"
	"weave/internal/dag"
)

// FeatureDefault is the implicit feature every package has, representing its
// default feature set (§3).
const FeatureDefault = "default"

// FeatureEntrypoint is the synthetic node used to model "what the build
// would turn on if the crate is depended upon with default features" (§3).
const FeatureEntrypoint = "#entrypoint"

// Node addresses one vertex of the feature graph: a feature name on a crate.
type Node struct {
	Crate   cargo.CrateID
	Feature string
}

func less(a, b Node) bool {
	if a.Crate != b.Crate {
		return a.Crate < b.Crate
	}
	return a.Feature < b.Feature
}

func keyOf(n Node) string {
	return string(n.Crate) + "\x00" + n.Feature
}

// Build translates every package's dependency edges and feature-expansion
// rules in meta into the feature DAG (§4.4). The result is deterministic:
// the same metadata always yields the same node and edge set (§8 invariant
// 6), since dag.Graph keeps edge lists sorted regardless of insertion order.
func Build(meta *cargo.Metadata) *dag.Graph[Node] {
	g := dag.New[Node](less, keyOf)
	for _, pkg := range meta.Packages {
		addImplicitEdges(g, meta, pkg)
		addExplicitEdges(g, meta, pkg)
	}
	return g
}

// addImplicitEdges wires the default-feature propagation every dependency
// record contributes regardless of what the crate's own [features] table
// says (§4.4 step 1).
func addImplicitEdges(g *dag.Graph[Node], meta *cargo.Metadata, pkg *cargo.Package) {
	for i := range pkg.Dependencies {
		dep := &pkg.Dependencies[i]
		leaf := cargo.CrateID(dep.Name)

		if dep.UsesDefaultFeatures {
			g.AddEdge(Node{pkg.ID, FeatureDefault}, Node{leaf, FeatureDefault})
			if resolved, ok := cargo.Resolve(meta, pkg, dep); ok {
				g.AddEdge(Node{pkg.ID, FeatureEntrypoint}, Node{resolved.Package.ID, FeatureDefault})
			}
		}
		for _, f := range dep.Features {
			g.AddEdge(Node{pkg.ID, FeatureDefault}, Node{leaf, f})
		}
	}
}

// addExplicitEdges expands every activation token in pkg.Features into an
// edge (§4.4 step 2). Feature names are walked in sorted order purely for
// readability of any trace output built on top of this graph; it has no
// effect on the resulting edge set.
func addExplicitEdges(g *dag.Graph[Node], meta *cargo.Metadata, pkg *cargo.Package) {
	for _, f := range sortedFeatureNames(pkg) {
		for _, token := range pkg.Features[f] {
			kind, depName, feat, _ := ClassifyToken(token)
			switch kind {
			case TokenDepColon:
				target := resolveOrLeaf(meta, pkg, depName)
				g.AddEdge(Node{pkg.ID, f}, Node{target, FeatureDefault})
			case TokenDepSlash:
				target := resolveOrLeaf(meta, pkg, depName)
				g.AddEdge(Node{pkg.ID, f}, Node{target, feat})
			case TokenBare:
				if !pkg.HasFeature(feat) {
					// Malformed self-reference (§3 invariant): rejected, no edge.
					continue
				}
				g.AddEdge(Node{pkg.ID, f}, Node{pkg.ID, feat})
			}
		}
	}
}

// TokenKind classifies the shape of a feature activation token (§3).
type TokenKind int

const (
	TokenDepColon TokenKind = iota
	TokenDepSlash
	TokenBare
)

// ClassifyToken splits an activation token into its shape and parts (§3):
// "dep:x" activates an optional dependency outright (the feature after the
// colon is not itself a graph target; the edge always lands on the
// dependency's default feature), "dep/x"/"dep?/x" activates x on dep (weak
// reports whether the "?" marker was present), and anything else is a bare
// self-reference. Exported so the lint rules can recognize the same token
// shapes without re-deriving the parsing.
func ClassifyToken(token string) (kind TokenKind, dep string, feat string, weak bool) {
	if idx := strings.IndexByte(token, ':'); idx >= 0 {
		return TokenDepColon, token[:idx], "", false
	}
	if idx := strings.IndexByte(token, '/'); idx >= 0 {
		raw := token[:idx]
		weak := strings.HasSuffix(raw, "?")
		dep := strings.TrimSuffix(raw, "?")
		return TokenDepSlash, dep, token[idx+1:], weak
	}
	return TokenBare, "", token, false
}

// resolveOrLeaf resolves depName against pkg's dependency records and the
// metadata resolver; an unresolvable name (not declared, or the resolver
// can't place it — optional/target-gated/not-selected) is returned as-is, so
// the caller ends up adding an edge to a leaf node with no outgoing edges
// (§4.4 step 3, §3 invariant 2).
func resolveOrLeaf(meta *cargo.Metadata, pkg *cargo.Package, depName string) cargo.CrateID {
	dep := findDependency(pkg, depName)
	if dep == nil {
		return cargo.CrateID(depName)
	}
	if resolved, ok := cargo.Resolve(meta, pkg, dep); ok {
		return resolved.Package.ID
	}
	return cargo.CrateID(dep.Name)
}

// findDependency looks up the dependency record pkg declares under the
// given manifest-level name: its rename if one was declared, else its bare
// name (§4.4 step 2's "find the dep record by rename ?? name == dep").
func findDependency(pkg *cargo.Package, name string) *cargo.Dependency {
	for i := range pkg.Dependencies {
		d := &pkg.Dependencies[i]
		edge := d.Name
		if d.Rename != "" {
			edge = d.Rename
		}
		if edge == name {
			return d
		}
	}
	return nil
}

func sortedFeatureNames(pkg *cargo.Package) []string {
	names := make([]string, 0, len(pkg.Features))
	for f := range pkg.Features {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}
