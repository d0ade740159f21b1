package lint

import (
	"fmt"
	"sort"

	"weave/internal/cargo"
	"weave/internal/diag"
)

// DuplicateDeps reports every crate that appears in both a workspace
// package's [dependencies] and [dev-dependencies] tables (§4.5.6).
func DuplicateDeps(ctx *Context) {
	for _, p := range sortedPackages(ctx.Meta) {
		if !ctx.Meta.IsWorkspaceMember(p.ID) {
			continue
		}
		normal := map[string]bool{}
		dev := map[string]bool{}
		for i := range p.Dependencies {
			d := &p.Dependencies[i]
			key := d.Name
			if d.Rename != "" {
				key = d.Rename
			}
			switch d.Kind {
			case cargo.KindNormal:
				normal[key] = true
			case cargo.KindDev:
				dev[key] = true
			}
		}
		var dup []string
		for name := range normal {
			if dev[name] {
				dup = append(dup, name)
			}
		}
		sort.Strings(dup)
		for _, name := range dup {
			reportDuplicateDependency(ctx, p, name)
		}
	}
}

func reportDuplicateDependency(ctx *Context, p *cargo.Package, depName string) {
	d := diag.New(diag.SevWarning, diag.DuplicateDependency, diag.Span{Path: p.ManifestPath},
		fmt.Sprintf("%s declares %q in both [dependencies] and [dev-dependencies]", p.Name, depName))
	d.CrateName = p.Name
	ctx.report(d)
}
