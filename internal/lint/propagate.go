package lint

import (
	"fmt"
	"slices"
	"sort"

	"weave/internal/cargo"
	"weave/internal/diag"
	"weave/internal/featdag"
	"weave/internal/manifest"
)

// FeatureRef names a (package, feature) pair, used as a map key for
// per-feature ignore exceptions.
type FeatureRef struct {
	Package string
	Feature string
}

// PropagateConfig parameterizes the propagate-feature rule (§4.5.1).
type PropagateConfig struct {
	// Feature restricts the check to a single feature name; empty checks
	// every feature declared on every package, plus every feature one of its
	// resolved dependencies declares that the package itself lacks.
	Feature string
	// KindPolicy maps a dependency kind to whether it is checked at all.
	// A nil map checks every kind.
	KindPolicy map[cargo.DependencyKind]Policy
	// OutOfWorkspace governs whether non-member packages are checked.
	OutOfWorkspace Policy
	// MissingFeature governs whether a feature-missing diagnostic is
	// recorded when P lacks a feature D declares.
	MissingFeature Policy
	// Exceptions suppresses specific (P,f) -> {D names} edges.
	Exceptions map[FeatureRef]map[string]bool
	// ForceStrong maps a feature name to the set of dependency names that
	// must receive a strong ("dep/f") edge even when optional, overriding
	// the default of weakening optional deps to "dep?/f" (§4.5.1 fix
	// behavior, S2).
	ForceStrong map[string]map[string]bool
}

func (c PropagateConfig) kindAllowed(k cargo.DependencyKind) bool {
	if c.KindPolicy == nil {
		return true
	}
	return c.KindPolicy[k] != PolicyIgnore
}

func (c PropagateConfig) excepted(pkgName, feature, depName string) bool {
	set, ok := c.Exceptions[FeatureRef{Package: pkgName, Feature: feature}]
	return ok && set[depName]
}

func (c PropagateConfig) forcedStrong(feature, depName string) bool {
	set, ok := c.ForceStrong[feature]
	return ok && set[depName]
}

// Propagate runs the propagate-feature rule: whenever a package P has a
// feature f and a resolved dependency D that also declares f, enabling P.f
// must also enable D.f (§4.5.1).
func Propagate(ctx *Context, cfg PropagateConfig) {
	for _, p := range sortedPackages(ctx.Meta) {
		if cfg.OutOfWorkspace == PolicyIgnore && !ctx.Meta.IsWorkspaceMember(p.ID) {
			continue
		}
		features := sortedFeatureNames(p)
		for i := range p.Dependencies {
			if r, ok := cargo.Resolve(ctx.Meta, p, &p.Dependencies[i]); ok {
				for f := range r.Package.Features {
					if !p.HasFeature(f) && !slices.Contains(features, f) {
						features = append(features, f)
					}
				}
			}
		}
		sort.Strings(features)
		for _, f := range features {
			if cfg.Feature != "" && f != cfg.Feature {
				continue
			}
			checkPropagateFeature(ctx, cfg, p, f)
		}
	}
}

func checkPropagateFeature(ctx *Context, cfg PropagateConfig, p *cargo.Package, f string) {
	reportedMissing := false
	for i := range p.Dependencies {
		dep := &p.Dependencies[i]
		if !cfg.kindAllowed(dep.Kind) {
			continue
		}
		resolved, ok := cargo.Resolve(ctx.Meta, p, dep)
		if !ok {
			continue
		}
		if !resolved.Package.HasFeature(f) {
			continue
		}
		if cfg.excepted(p.Name, f, dep.Name) {
			continue
		}

		if !p.HasFeature(f) {
			if cfg.MissingFeature != PolicyIgnore && !reportedMissing {
				reportFeatureMissing(ctx, p, f)
				reportedMissing = true
			}
			continue
		}

		if propagationHolds(ctx, p, f, dep, resolved) {
			continue
		}
		reportPropagateMissing(ctx, cfg, p, f, dep, resolved)
	}
}

// propagationHolds checks the three ways §4.5.1 accepts P.f as correctly
// propagating to D.f: a direct edge (weak or strong; featdag already
// strips the "?" marker when building edges, so one check covers both), or
// reachability from P's synthetic entrypoint node through a subgraph
// restricted to P's and D's own nodes (a practical reading of "P's
// self-edges plus D's outgoing edges" against the Sub(pred) node-predicate
// contract in §4.1).
func propagationHolds(ctx *Context, p *cargo.Package, f string, dep *cargo.Dependency, resolved cargo.RenamedPackage) bool {
	lhs := featdag.Node{Crate: p.ID, Feature: f}
	rhs := featdag.Node{Crate: resolved.Package.ID, Feature: f}
	if ctx.Graph.Adjacent(lhs, rhs) {
		return true
	}

	restricted := ctx.Graph.Sub(func(n featdag.Node) bool {
		return n.Crate == p.ID || n.Crate == resolved.Package.ID
	})
	entry := featdag.Node{Crate: p.ID, Feature: featdag.FeatureEntrypoint}
	_, ok := restricted.AnyPath(entry, rhs)
	return ok
}

func reportFeatureMissing(ctx *Context, p *cargo.Package, f string) {
	d := diag.New(diag.SevError, diag.PropagateFeatureMissing,
		diag.Span{Path: p.ManifestPath},
		fmt.Sprintf("%s must declare feature %q to propagate it to a dependency that has it", p.Name, f))
	d.CrateName = p.Name
	d.Feature = f

	if ctx.Fix {
		if err := applyAddFeature(ctx, p, f); err == nil {
			d = d.WithFix(diag.Fix{
				ID:            fmt.Sprintf("add-feature:%s:%s", p.Name, f),
				Title:         fmt.Sprintf("add %s = []", f),
				Applicability: diag.FixApplicabilityAlwaysSafe,
				ManifestPath:  p.ManifestPath,
			})
		}
	}
	ctx.report(d)
}

func reportPropagateMissing(ctx *Context, cfg PropagateConfig, p *cargo.Package, f string, dep *cargo.Dependency, resolved cargo.RenamedPackage) {
	d := diag.New(diag.SevError, diag.PropagateMissing,
		diag.Span{Path: p.ManifestPath},
		fmt.Sprintf("%s must propagate feature %q to: %s", p.Name, f, dep.Name))
	d.CrateName = p.Name
	d.Feature = f

	if ctx.Fix {
		weak := dep.Optional && !cfg.forcedStrong(f, dep.Name)
		token := dep.Name + "/" + f
		if weak {
			token = dep.Name + "?/" + f
		}
		if err := applyAddToFeature(ctx, p, f, token); err == nil {
			d = d.WithFix(diag.Fix{
				ID:            fmt.Sprintf("propagate:%s:%s:%s", p.Name, f, dep.Name),
				Title:         fmt.Sprintf("add %q to %s", token, f),
				Applicability: diag.FixApplicabilityAlwaysSafe,
				ManifestPath:  p.ManifestPath,
			})
		}
	}
	ctx.report(d)
}

func applyAddFeature(ctx *Context, p *cargo.Package, feature string) error {
	doc, err := ctx.Editors.Document(p.ManifestPath)
	if err != nil {
		return err
	}
	return manifest.AddFeature(doc, feature)
}

func applyAddToFeature(ctx *Context, p *cargo.Package, feature, token string) error {
	doc, err := ctx.Editors.Document(p.ManifestPath)
	if err != nil {
		return err
	}
	return manifest.AddToFeature(doc, feature, token)
}
