package fixdriver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"weave/internal/diag"
	"weave/internal/manifest"
)

func writeManifest(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCacheReusesLoadedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Cargo.toml")
	writeManifest(t, path, "[package]\nname = \"a\"\n")

	c := NewCache()
	d1, err := c.Document(path)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if err := manifest.AddFeature(d1, "extra"); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}

	d2, err := c.Document(path)
	if err != nil {
		t.Fatalf("Document (second call): %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected the same cached *Document instance")
	}
}

func TestWriteScopeContainsRootAndSubdirs(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "crates", "a")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	scope, err := NewWriteScope(root)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}
	if !scope.Contains(filepath.Join(nested, "Cargo.toml")) {
		t.Fatalf("expected nested path to be in scope")
	}
}

func TestWriteScopeRejectsOutsidePath(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	scope, err := NewWriteScope(root)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}
	if scope.Contains(filepath.Join(outside, "Cargo.toml")) {
		t.Fatalf("expected a sibling temp dir to be outside scope")
	}
}

func TestWriteScopeAllowListEntry(t *testing.T) {
	root := t.TempDir()
	allowed := t.TempDir()

	scope, err := NewWriteScope(root, allowed)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}
	if !scope.Contains(filepath.Join(allowed, "Cargo.toml")) {
		t.Fatalf("expected allow-listed path to be in scope")
	}
}

func TestCommitWritesModifiedDocumentsInScope(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Cargo.toml")
	writeManifest(t, path, "[package]\nname = \"a\"\n")

	c := NewCache()
	doc, err := c.Document(path)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if err := manifest.AddFeature(doc, "extra"); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}

	scope, err := NewWriteScope(root)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}

	res, err := Commit(c, scope, true)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(res.Changed) != 1 || res.Changed[0].Path != path {
		t.Fatalf("unexpected changed set: %+v", res.Changed)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(onDisk), "[features]\nextra = []") {
		t.Fatalf("expected the fix to be persisted: %s", onDisk)
	}
}

func TestCommitDryRunDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Cargo.toml")
	original := "[package]\nname = \"a\"\n"
	writeManifest(t, path, original)

	c := NewCache()
	doc, err := c.Document(path)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if err := manifest.AddFeature(doc, "extra"); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}

	scope, err := NewWriteScope(root)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}

	res, err := Commit(c, scope, false)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(res.Changed) != 1 {
		t.Fatalf("expected the dry run to still report one would-be change: %+v", res.Changed)
	}

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(onDisk) != original {
		t.Fatalf("expected the file to be untouched by a dry run, got: %s", onDisk)
	}
}

func TestCommitSkipsOutOfScopeManifest(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	path := filepath.Join(outside, "Cargo.toml")
	writeManifest(t, path, "[package]\nname = \"a\"\n")

	c := NewCache()
	doc, err := c.Document(path)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if err := manifest.AddFeature(doc, "extra"); err != nil {
		t.Fatalf("AddFeature: %v", err)
	}

	scope, err := NewWriteScope(root)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}

	res, err := Commit(c, scope, true)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(res.Changed) != 0 || len(res.Skipped) != 1 {
		t.Fatalf("expected the manifest to be skipped: %+v", res)
	}
	if res.Skipped[0].Reason != "outside write scope" {
		t.Fatalf("unexpected skip reason: %q", res.Skipped[0].Reason)
	}
}

func TestCommitIgnoresUnmodifiedDocuments(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Cargo.toml")
	writeManifest(t, path, "[package]\nname = \"a\"\n")

	c := NewCache()
	if _, err := c.Document(path); err != nil {
		t.Fatalf("Document: %v", err)
	}

	scope, err := NewWriteScope(root)
	if err != nil {
		t.Fatalf("NewWriteScope: %v", err)
	}

	if _, err := Commit(c, scope, true); err != ErrNoFixes {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestSummaryWording(t *testing.T) {
	res := &Result{Changed: []FileChange{{Path: "a"}, {Path: "b"}}}
	if got := Summary(res, true); got != "modified 2 files" {
		t.Fatalf("Summary(fix=true) = %q", got)
	}
	if got := Summary(res, false); got != "would modify 2 files" {
		t.Fatalf("Summary(fix=false) = %q", got)
	}
}

func TestExitCodeReflectsBagErrors(t *testing.T) {
	cfg := DefaultExitCodeConfig()

	clean := diag.NewBag(10)
	if got := cfg.ExitCode(clean); got != 0 {
		t.Fatalf("ExitCode(clean) = %d, want 0", got)
	}

	dirty := diag.NewBag(10)
	dirty.Add(diag.New(diag.SevError, diag.PropagateMissing, diag.Span{}, "boom"))
	if got := cfg.ExitCode(dirty); got != 1 {
		t.Fatalf("ExitCode(dirty) = %d, want 1", got)
	}
}

