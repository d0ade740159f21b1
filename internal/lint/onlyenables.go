package lint

import (
	"fmt"

	"weave/internal/cargo"
	"weave/internal/diag"
	"weave/internal/featdag"
)

// OnlyEnables checks that only the named feature pre is allowed to turn on
// onlyPost on a dependency: for every package and every feature f != pre,
// if f's activation list enables dep/onlyPost (weak or strong) on a
// dependency that declares onlyPost, that's a violation (§4.5.4).
func OnlyEnables(ctx *Context, pre, onlyPost string) {
	for _, p := range sortedPackages(ctx.Meta) {
		for _, f := range sortedFeatureNames(p) {
			if f == pre {
				continue
			}
			for _, token := range p.Features[f] {
				kind, depName, feat, _ := featdag.ClassifyToken(token)
				if kind != featdag.TokenDepSlash || feat != onlyPost {
					continue
				}
				dep := dependencyByEdgeName(p, depName)
				if dep == nil {
					continue
				}
				resolved, ok := cargo.Resolve(ctx.Meta, p, dep)
				if !ok || !resolved.Package.HasFeature(onlyPost) {
					continue
				}
				reportOnlyEnablesViolation(ctx, p.Name, f, depName, onlyPost)
			}
		}
	}
}

func dependencyByEdgeName(p *cargo.Package, name string) *cargo.Dependency {
	for i := range p.Dependencies {
		d := &p.Dependencies[i]
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

func reportOnlyEnablesViolation(ctx *Context, pkgName, feature, depName, onlyPost string) {
	d := diag.New(diag.SevError, diag.OnlyEnablesViolation, diag.Span{},
		fmt.Sprintf("%s/%s -> %s/%s: only a designated feature may enable this", pkgName, feature, depName, onlyPost))
	d.CrateName = pkgName
	d.Feature = feature
	ctx.report(d)
}
