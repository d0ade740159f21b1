package lint

import (
	"strings"

	"weave/internal/cargo"
	"weave/internal/diag"
	"weave/internal/featdag"
)

// NeverImpliesResult is the outcome of a never-implies query.
type NeverImpliesResult struct {
	Path  []featdag.Node
	Found bool
}

// NeverImplies searches for a transitive counterexample to "pre never
// implies post": for every package P, it asks whether any node with feature
// post, on any crate, is reachable from (P, pre) in the feature DAG, trying
// packages in
// lexicographic order and returning the first path found (§4.5.3). Finding
// one is the command's purpose, not a failure: the query is answered
// successfully either way.
func NeverImplies(ctx *Context, pre, post string) NeverImpliesResult {
	for _, p := range sortedPackages(ctx.Meta) {
		start := featdag.Node{Crate: p.ID, Feature: pre}
		path, ok := ctx.Graph.ReachablePredicate(start, func(n featdag.Node) bool { return n.Feature == post })
		if !ok {
			continue
		}
		d := diag.New(diag.SevWarning, diag.NeverImpliesCounterexample, diag.Span{},
			FormatPath(ctx.Meta, path, "\\n"))
		d.CrateName = p.Name
		d.Feature = pre
		ctx.report(d)
		return NeverImpliesResult{Path: path, Found: true}
	}
	return NeverImpliesResult{}
}

// FormatPath renders a DAG path as "pkg/feature <delim> pkg/feature ...",
// resolving crate ids to package names where metadata has one. delim may
// contain literal "\n"/"\t" escapes, unescaped here at print time (§4.5.3).
func FormatPath(meta *cargo.Metadata, path []featdag.Node, delim string) string {
	delim = unescapeDelimiter(delim)
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = nodeLabel(meta, n)
	}
	return strings.Join(parts, delim)
}

func nodeLabel(meta *cargo.Metadata, n featdag.Node) string {
	if pkg := meta.PackageByID(n.Crate); pkg != nil {
		return pkg.Name + "/" + n.Feature
	}
	return string(n.Crate) + "/" + n.Feature
}

func unescapeDelimiter(d string) string {
	d = strings.ReplaceAll(d, `\n`, "\n")
	d = strings.ReplaceAll(d, `\t`, "\t")
	return d
}
