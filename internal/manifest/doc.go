// Package manifest implements a format-preserving editor over Cargo.toml
// documents: the structural edits the lint engine and fix driver need
// (feature-array canonicalization, dependency lifts) without disturbing any
// byte the edit does not touch. No example repo in the reference corpus
// ships a trivia-preserving TOML library, so this package layers a thin
// byte-span editor over the raw document text (§9), validating semver
// requirement strings against golang.org/x/mod/semver before splicing them
// in (dependencies.go's validSemverRequirement).
package manifest

import (
	"os"
)

// Document is a single loaded Cargo.toml, held in memory as raw bytes plus
// the handful of byte-span operations the editor needs to locate tables,
// assignments, and feature arrays on demand. There is no persistent parse
// tree: every operation re-scans the current bytes, which keeps later edits
// correct without needing to track offset shifts from earlier ones.
type Document struct {
	Path     string
	original []byte
	buf      []byte
}

// Load reads path and wraps it in a Document. Round-tripping an unmodified
// Document through Bytes returns exactly these bytes (§8 invariant 1).
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(path, KindManifestIO, err.Error())
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return &Document{Path: path, original: data, buf: cp}, nil
}

// Bytes returns the document's current serialization.
func (d *Document) Bytes() []byte {
	return d.buf
}

// Modified reports whether the document differs from what Load read.
func (d *Document) Modified() bool {
	return !bytesEqual(d.original, d.buf)
}

// Save writes the current serialization back to disk exactly once, then
// resets the modified baseline (§4.2.15).
func (d *Document) Save() error {
	if err := os.WriteFile(d.Path, d.buf, 0o644); err != nil {
		return newError(d.Path, KindManifestIO, err.Error())
	}
	d.original = append([]byte(nil), d.buf...)
	return nil
}

// replace splices new text into [start,end) of the current buffer.
func (d *Document) replace(start, end int, newText string) {
	out := make([]byte, 0, len(d.buf)-(end-start)+len(newText))
	out = append(out, d.buf[:start]...)
	out = append(out, newText...)
	out = append(out, d.buf[end:]...)
	d.buf = out
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
