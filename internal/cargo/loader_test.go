package cargo

import "testing"

const fixtureJSON = `{
  "packages": [
    {
      "name": "a",
      "version": "0.1.0",
      "id": "a 0.1.0 (path+file:///ws/a)",
      "manifest_path": "/ws/a/Cargo.toml",
      "features": {"runtime-benchmarks": []},
      "dependencies": [
        {"name": "b", "rename": "", "req": "^0.1", "kind": "", "optional": false, "uses_default_features": true, "features": [], "path": "/ws/b", "source": ""}
      ]
    },
    {
      "name": "b",
      "version": "0.1.0",
      "id": "b 0.1.0 (path+file:///ws/b)",
      "manifest_path": "/ws/b/Cargo.toml",
      "features": {"runtime-benchmarks": []},
      "dependencies": []
    }
  ],
  "workspace_members": ["a 0.1.0 (path+file:///ws/a)", "b 0.1.0 (path+file:///ws/b)"],
  "resolve": {
    "nodes": [
      {"id": "a 0.1.0 (path+file:///ws/a)", "deps": [{"name": "b", "pkg": "b 0.1.0 (path+file:///ws/b)"}]},
      {"id": "b 0.1.0 (path+file:///ws/b)", "deps": []}
    ]
  }
}`

func TestDecodeMetadataFixture(t *testing.T) {
	meta, err := DecodeMetadata([]byte(fixtureJSON))
	if err != nil {
		t.Fatalf("DecodeMetadata: %v", err)
	}
	if len(meta.Packages) != 2 {
		t.Fatalf("len(Packages) = %d, want 2", len(meta.Packages))
	}
	a := meta.PackageByID("a 0.1.0 (path+file:///ws/a)")
	if a == nil {
		t.Fatalf("package a not found")
	}
	if !a.HasFeature("runtime-benchmarks") {
		t.Fatalf("expected a to declare runtime-benchmarks")
	}
	if len(a.Dependencies) != 1 || a.Dependencies[0].Name != "b" {
		t.Fatalf("unexpected dependencies: %+v", a.Dependencies)
	}
	if meta.Resolve == nil || len(meta.Resolve.Nodes) != 2 {
		t.Fatalf("expected resolve graph with 2 nodes")
	}
}

func TestDecodeMetadataRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeMetadata([]byte("not json")); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}
