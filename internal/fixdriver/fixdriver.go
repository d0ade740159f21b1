// Package fixdriver implements the Fix Driver (§4.6): it owns the shared
// cache of per-manifest editors every lint rule writes through, enforces the
// write-scope policy before anything touches disk, and decides whether a
// run's modified documents are actually persisted or only summarized.
package fixdriver

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"weave/internal/diag"
	"weave/internal/grammar"
	"weave/internal/manifest"
)

// ErrNoFixes is returned when a fix-enabled run modified nothing.
var ErrNoFixes = errors.New("fixdriver: no fixes were applied")

// Cache loads and caches *manifest.Document instances by path. A single
// instance is shared across every lint rule in one pass, so an edit one rule
// makes is visible to the next and is written back at most once (§5's "the
// only mutable shared state is the map of pending editors, owned by the Fix
// Driver"). It implements lint.Editors.
type Cache struct {
	docs map[string]*manifest.Document
}

// NewCache returns an empty editor cache.
func NewCache() *Cache {
	return &Cache{docs: map[string]*manifest.Document{}}
}

// Document returns the cached document for path, loading it on first use.
func (c *Cache) Document(path string) (*manifest.Document, error) {
	if d, ok := c.docs[path]; ok {
		return d, nil
	}
	d, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	c.docs[path] = d
	return d, nil
}

// Paths returns every manifest path loaded so far, in lexicographic order,
// for the reproducible-output guarantee in §5.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, len(c.docs))
	for p := range c.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteScope decides whether a manifest path may be written back: it must
// resolve under Root or one of AllowList's entries (§4.6, §7's
// OutsideWriteScope). Paths are canonicalized (made absolute, symlinks
// resolved) before comparison, per §9.
type WriteScope struct {
	root      string
	allowList []string
}

// NewWriteScope canonicalizes root and allowList and returns the scope that
// checks paths against them.
func NewWriteScope(root string, allowList ...string) (WriteScope, error) {
	canon, err := canonicalize(root)
	if err != nil {
		return WriteScope{}, fmt.Errorf("fixdriver: write scope root: %w", err)
	}
	allowed := make([]string, 0, len(allowList))
	for _, a := range allowList {
		ca, err := canonicalize(a)
		if err != nil {
			continue
		}
		allowed = append(allowed, ca)
	}
	return WriteScope{root: canon, allowList: allowed}, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

// Contains reports whether path lies under the scope's root or allow-list.
func (s WriteScope) Contains(path string) bool {
	canon, err := canonicalize(path)
	if err != nil {
		return false
	}
	if isSubpath(s.root, canon) {
		return true
	}
	for _, a := range s.allowList {
		if isSubpath(a, canon) {
			return true
		}
	}
	return false
}

func isSubpath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// FileChange records a manifest that was (or, without --fix, would be)
// written back.
type FileChange struct {
	Path string
}

// SkippedManifest records a modified manifest that was not written, and why.
type SkippedManifest struct {
	Path   string
	Reason string
}

// Result aggregates the outcome of a Commit call.
type Result struct {
	Changed []FileChange
	Skipped []SkippedManifest
}

// Commit walks every document the cache has touched, in path order, and for
// each one that was actually modified: skips it (recording why) if it falls
// outside scope, otherwise either writes it back (fix == true) or simply
// records that it would be written (fix == false), per §4.6's "if --fix was
// requested, persists each modified editor; otherwise prints a would-modify
// summary".
func Commit(cache *Cache, scope WriteScope, fix bool) (*Result, error) {
	res := &Result{}
	for _, path := range cache.Paths() {
		doc, err := cache.Document(path)
		if err != nil {
			return res, err
		}
		if !doc.Modified() {
			continue
		}
		if !scope.Contains(path) {
			res.Skipped = append(res.Skipped, SkippedManifest{Path: path, Reason: "outside write scope"})
			continue
		}
		if fix {
			if err := doc.Save(); err != nil {
				return res, fmt.Errorf("fixdriver: commit %s: %w", path, err)
			}
		}
		res.Changed = append(res.Changed, FileChange{Path: path})
	}
	if fix && len(res.Changed) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}

// Summary renders the human-readable line describing a Commit result, either
// "modified N file(s)" or, when fix is false, "would modify N file(s)".
func Summary(res *Result, fix bool) string {
	verb := "would modify"
	if fix {
		verb = "modified"
	}
	return fmt.Sprintf("%s %s", verb, grammar.Count(len(res.Changed), "file"))
}

// ExitCodeConfig configures the process exit code for a finished run (§4.6:
// "configurable error code, default 1, overridable to 0").
type ExitCodeConfig struct {
	OnUnresolved int
}

// DefaultExitCodeConfig returns the default policy: exit 1 when unresolved
// diagnostics remain.
func DefaultExitCodeConfig() ExitCodeConfig {
	return ExitCodeConfig{OnUnresolved: 1}
}

// ExitCode returns cfg.OnUnresolved if bag holds at least one error-severity
// diagnostic, else 0.
func (cfg ExitCodeConfig) ExitCode(bag *diag.Bag) int {
	if bag != nil && bag.HasErrors() {
		return cfg.OnUnresolved
	}
	return 0
}
