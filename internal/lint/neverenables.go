package lint

import (
	"fmt"

	"weave/internal/diag"
	"weave/internal/featdag"
)

// NeverEnables asserts that feature pre of any package never directly
// activates feature post on that same package or on any of its direct
// dependencies (§4.5.2). Pure diagnostic; there is no fix for a feature
// relationship the author declared on purpose.
func NeverEnables(ctx *Context, pre, post string) {
	for _, p := range sortedPackages(ctx.Meta) {
		tokens, ok := p.Features[pre]
		if !ok {
			continue
		}
		for _, token := range tokens {
			kind, dep, feat, _ := featdag.ClassifyToken(token)
			switch kind {
			case featdag.TokenBare:
				if feat == post {
					reportNeverEnablesViolation(ctx, p.Name, pre, post, token)
				}
			case featdag.TokenDepSlash:
				if feat == post {
					reportNeverEnablesViolation(ctx, p.Name, pre, post, token)
				}
			case featdag.TokenDepColon:
				if post == featdag.FeatureDefault {
					reportNeverEnablesViolation(ctx, p.Name, pre, post, token)
				}
				_ = dep
			}
		}
	}
}

func reportNeverEnablesViolation(ctx *Context, pkgName, pre, post, token string) {
	d := diag.New(diag.SevError, diag.NeverEnablesViolation, diag.Span{},
		fmt.Sprintf("%s/%s must never enable %q, but its activation list contains %q", pkgName, pre, post, token))
	d.CrateName = pkgName
	d.Feature = pre
	ctx.report(d)
}
