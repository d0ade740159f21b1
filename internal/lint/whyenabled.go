package lint

import (
	"fmt"

	"weave/internal/cargo"
	"weave/internal/diag"
	"weave/internal/featdag"
)

// WhyEnabled collects every (src_pkg, src_feat) node whose edge targets
// (targetCrate, targetFeature), answering "why is this feature on" (§4.5.5).
// Reports a not-found diagnostic and returns nil if the package or feature
// doesn't exist.
func WhyEnabled(ctx *Context, targetCrate cargo.CrateID, targetFeature string) []featdag.Node {
	pkg := ctx.Meta.PackageByID(targetCrate)
	if pkg == nil || (!pkg.HasFeature(targetFeature) && targetFeature != featdag.FeatureEntrypoint) {
		d := diag.New(diag.SevError, diag.WhyEnabledNotFound, diag.Span{},
			fmt.Sprintf("%s/%s not found", targetCrate, targetFeature))
		ctx.report(d)
		return nil
	}
	return ctx.Graph.InverseLookup(featdag.Node{Crate: targetCrate, Feature: targetFeature})
}
