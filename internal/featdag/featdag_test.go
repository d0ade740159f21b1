package featdag

import (
	"testing"

	"weave/internal/cargo"
)

func metaWithResolve() *cargo.Metadata {
	a := &cargo.Package{
		ID:   "a 0.1.0 (path+file:///ws/a)",
		Name: "a",
		Features: map[string][]string{
			"runtime-benchmarks": {"b/runtime-benchmarks"},
			"weak-prop":          {"b?/runtime-benchmarks"},
			"turn-on-optional":   {"opt:x"},
			"full":               {"runtime-benchmarks"},
			"malformed":          {"does-not-exist"},
		},
		Dependencies: []cargo.Dependency{
			{Name: "b", UsesDefaultFeatures: true, Features: []string{"extra"}},
			{Name: "opt", Optional: true},
			{Name: "ghost", UsesDefaultFeatures: true},
		},
	}
	b := &cargo.Package{
		ID:       "b 0.1.0 (path+file:///ws/b)",
		Name:     "b",
		Features: map[string][]string{"runtime-benchmarks": nil, "extra": nil},
	}
	meta := &cargo.Metadata{
		Packages:         []*cargo.Package{a, b},
		WorkspaceMembers: []cargo.CrateID{a.ID, b.ID},
		Resolve: &cargo.Resolve{
			Nodes: []cargo.ResolveNode{
				{ID: a.ID, Deps: []cargo.ResolveDep{{Name: "b", PKG: b.ID}}},
				{ID: b.ID},
			},
		},
	}
	return meta
}

func TestImplicitDefaultEdges(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", FeatureDefault}, Node{cargo.CrateID("b"), FeatureDefault}) {
		t.Fatalf("expected a/default -> b/default via the dependency name")
	}
	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", FeatureDefault}, Node{cargo.CrateID("b"), "extra"}) {
		t.Fatalf("expected a/default -> b/extra from the dependency's declared features")
	}
	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", FeatureEntrypoint}, Node{"b 0.1.0 (path+file:///ws/b)", FeatureDefault}) {
		t.Fatalf("expected a/#entrypoint -> b/default since b resolves")
	}
}

func TestExplicitDepSlashForm(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", "runtime-benchmarks"}, Node{"b 0.1.0 (path+file:///ws/b)", "runtime-benchmarks"}) {
		t.Fatalf("expected a/runtime-benchmarks -> b/runtime-benchmarks")
	}
}

func TestExplicitWeakDepFormStripsMarker(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", "weak-prop"}, Node{"b 0.1.0 (path+file:///ws/b)", "runtime-benchmarks"}) {
		t.Fatalf("expected weak-prop -> b/runtime-benchmarks with the ? marker stripped")
	}
}

func TestExplicitDepColonFormTargetsDefault(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", "turn-on-optional"}, Node{cargo.CrateID("opt"), FeatureDefault}) {
		t.Fatalf("expected turn-on-optional -> opt/default, unresolved opt kept as a leaf by name")
	}
	if g.Degree(Node{cargo.CrateID("opt"), FeatureDefault}) != 0 {
		t.Fatalf("unresolved dependency node should have no outgoing edges")
	}
}

func TestExplicitBareFormSelfReference(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", "full"}, Node{"a 0.1.0 (path+file:///ws/a)", "runtime-benchmarks"}) {
		t.Fatalf("expected full -> runtime-benchmarks self-edge")
	}
}

func TestMalformedBareTokenIsRejected(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	a := Node{"a 0.1.0 (path+file:///ws/a)", "malformed"}
	if g.Degree(a) != 0 {
		t.Fatalf("expected no edge from a malformed self-reference token")
	}
}

func TestUnresolvedDependencyNameIsLeaf(t *testing.T) {
	meta := metaWithResolve()
	g := Build(meta)

	ghostDefault := Node{cargo.CrateID("ghost"), FeatureDefault}
	if !g.Adjacent(Node{"a 0.1.0 (path+file:///ws/a)", FeatureDefault}, ghostDefault) {
		t.Fatalf("expected default -> ghost/default edge even though ghost never resolves")
	}
	if g.Degree(ghostDefault) != 0 {
		t.Fatalf("ghost should be a leaf node")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	meta := metaWithResolve()
	g1 := Build(meta)
	g2 := Build(meta)

	if g1.NumNodes() != g2.NumNodes() || g1.NumEdges() != g2.NumEdges() {
		t.Fatalf("Build produced different graphs across runs: (%d,%d) vs (%d,%d)",
			g1.NumNodes(), g1.NumEdges(), g2.NumNodes(), g2.NumEdges())
	}
}
