package cargo

import "testing"

func TestResolveViaResolveGraph(t *testing.T) {
	meta, err := DecodeMetadata([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	a := meta.PackageByID("a 0.1.0 (path+file:///ws/a)")
	dep := &a.Dependencies[0]

	resolved, ok := Resolve(meta, a, dep)
	if !ok {
		t.Fatalf("expected b to resolve")
	}
	if resolved.Package.Name != "b" {
		t.Fatalf("resolved.Package.Name = %q, want b", resolved.Package.Name)
	}
}

func TestResolveFallsBackToNameMatchingWithoutResolveGraph(t *testing.T) {
	meta, err := DecodeMetadata([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	meta.Resolve = nil
	a := meta.PackageByID("a 0.1.0 (path+file:///ws/a)")
	dep := &a.Dependencies[0]

	resolved, ok := Resolve(meta, a, dep)
	if !ok {
		t.Fatalf("expected name-matching fallback to resolve b")
	}
	if resolved.Package.Name != "b" {
		t.Fatalf("resolved.Package.Name = %q, want b", resolved.Package.Name)
	}
}

func TestResolveUnresolvedDependencyReturnsFalse(t *testing.T) {
	meta, err := DecodeMetadata([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	a := meta.PackageByID("a 0.1.0 (path+file:///ws/a)")
	ghost := &Dependency{Name: "ghost", Optional: true}

	if _, ok := Resolve(meta, a, ghost); ok {
		t.Fatalf("expected unresolved dependency to report false, not panic")
	}
}

func TestSanitizeReplacesHyphens(t *testing.T) {
	if got := sanitize("my-crate"); got != "my_crate" {
		t.Fatalf("sanitize(my-crate) = %q", got)
	}
}
