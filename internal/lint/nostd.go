package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"weave/internal/cargo"
	"weave/internal/diag"
	"weave/internal/manifest"
)

// noStdEntry is one crate's cached no-std detection result.
type noStdEntry struct {
	SupportsNoStd bool `msgpack:"supports_no_std"`
	CfgWarning    bool `msgpack:"cfg_warning"`
}

// NoStdCache persists per-crate no-std detection results across runs, keyed
// by manifest path, so a repeated lint pass over an unchanged workspace
// doesn't re-read every crate's src/lib.rs (§4.5.7).
type NoStdCache struct {
	path    string
	entries map[string]noStdEntry
	dirty   bool
}

// LoadNoStdCache reads path, a msgpack-encoded cache file (conventionally
// .weave-cache at the workspace root). A missing file starts an empty,
// valid cache.
func LoadNoStdCache(path string) (*NoStdCache, error) {
	c := &NoStdCache{path: path, entries: map[string]noStdEntry{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("no-std cache: %w", err)
	}
	if len(data) == 0 {
		return c, nil
	}
	if err := msgpack.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("no-std cache: malformed: %w", err)
	}
	return c, nil
}

// Save writes the cache back to disk if anything changed since it was
// loaded.
func (c *NoStdCache) Save() error {
	if c == nil || !c.dirty {
		return nil
	}
	data, err := msgpack.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("no-std cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("no-std cache: %w", err)
	}
	c.dirty = false
	return nil
}

// detectNoStd reads manifestPath's sibling src/lib.rs (cached by
// manifestPath) and reports whether the crate supports no-std, per the
// literal markers §4.5.7 names. A missing lib.rs (e.g. a virtual manifest,
// or a crate laid out unconventionally) is not an error: it simply doesn't
// support no-std.
func detectNoStd(manifestPath string, cache *NoStdCache) noStdEntry {
	if cache != nil {
		if e, ok := cache.entries[manifestPath]; ok {
			return e
		}
	}
	libPath := filepath.Join(filepath.Dir(manifestPath), "src", "lib.rs")
	data, err := os.ReadFile(libPath)
	var e noStdEntry
	if err == nil {
		text := string(data)
		e.SupportsNoStd = strings.Contains(text, "#![no_std]") ||
			strings.Contains(text, `#![cfg_attr(not(feature = "std"), no_std)]`)
		e.CfgWarning = strings.Contains(text, "\n#![cfg(")
	}
	if cache != nil {
		cache.entries[manifestPath] = e
		cache.dirty = true
	}
	return e
}

// NoStdConfig parameterizes the no-std default-features rule.
type NoStdConfig struct {
	Cache *NoStdCache
}

// NoStdDefaultFeatures checks every workspace package against each resolved
// dependency that also supports no-std: the dependency must be declared
// with default-features = false (§4.5.7).
func NoStdDefaultFeatures(ctx *Context, cfg NoStdConfig) {
	for _, p := range sortedPackages(ctx.Meta) {
		if !ctx.Meta.IsWorkspaceMember(p.ID) {
			continue
		}
		if !detectNoStd(p.ManifestPath, cfg.Cache).SupportsNoStd {
			continue
		}
		for i := range p.Dependencies {
			dep := &p.Dependencies[i]
			resolved, ok := cargo.Resolve(ctx.Meta, p, dep)
			if !ok {
				continue
			}
			depEntry := detectNoStd(resolved.Package.ManifestPath, cfg.Cache)
			if !depEntry.SupportsNoStd {
				continue
			}
			if dep.UsesDefaultFeatures {
				reportNoStdDefaultFeaturesEnabled(ctx, p, dep)
			}
			if depEntry.CfgWarning {
				reportNoStdCfgWarning(ctx, p, dep)
			}
		}
	}
}

func reportNoStdDefaultFeaturesEnabled(ctx *Context, p *cargo.Package, dep *cargo.Dependency) {
	d := diag.New(diag.SevError, diag.NoStdDefaultFeaturesEnabled, diag.Span{Path: p.ManifestPath},
		fmt.Sprintf("%s depends on no-std crate %s without default-features = false", p.Name, dep.Name))
	d.CrateName = p.Name

	if ctx.Fix {
		if err := applyDisableDefaultFeatures(ctx, p, dep); err == nil {
			d = d.WithFix(diag.Fix{
				ID:            fmt.Sprintf("no-std:%s:%s", p.Name, dep.Name),
				Title:         fmt.Sprintf("disable default-features on %s", dep.Name),
				Applicability: diag.FixApplicabilityAlwaysSafe,
				ManifestPath:  p.ManifestPath,
			})
		}
	}
	ctx.report(d)
}

func reportNoStdCfgWarning(ctx *Context, p *cargo.Package, dep *cargo.Dependency) {
	d := diag.New(diag.SevWarning, diag.NoStdCfgWarning, diag.Span{Path: p.ManifestPath},
		fmt.Sprintf("%s's no-std dependency %s contains a #![cfg(...)] that may pull in libstd unexpectedly", p.Name, dep.Name))
	d.CrateName = p.Name
	ctx.report(d)
}

func applyDisableDefaultFeatures(ctx *Context, p *cargo.Package, dep *cargo.Dependency) error {
	doc, err := ctx.Editors.Document(p.ManifestPath)
	if err != nil {
		return err
	}
	table := manifest.Dependencies
	switch dep.Kind {
	case cargo.KindDev:
		table = manifest.DevDependencies
	case cargo.KindBuild:
		table = manifest.BuildDependencies
	}
	key := dep.Name
	if dep.Rename != "" {
		key = dep.Rename
	}
	return manifest.DisableDefaultFeatures(doc, table, key)
}
