package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"weave/internal/cargo"
	"weave/internal/dag"
	"weave/internal/diag"
	"weave/internal/featdag"
	"weave/internal/fixdriver"
	"weave/internal/lint"
)

const defaultCachePath = ".weave-cache"

// workspace bundles the metadata and feature graph every lint/trace/debug
// command needs, loaded once per invocation.
type workspace struct {
	dir   string
	meta  *cargo.Metadata
	graph *dag.Graph[featdag.Node]
}

func loadWorkspace(cmd *cobra.Command) (*workspace, error) {
	dir, err := cmd.Flags().GetString("manifest-dir")
	if err != nil {
		return nil, err
	}
	locked, err := cmd.Flags().GetBool("locked")
	if err != nil {
		return nil, err
	}

	meta, err := cargo.LoadMetadata(cmd.Context(), dir, locked)
	if err != nil {
		return nil, fmt.Errorf("weave: %w", err)
	}
	warnPathDependencyIdentity(cmd, meta)
	return &workspace{dir: dir, meta: meta, graph: featdag.Build(meta)}, nil
}

// warnPathDependencyIdentity cross-checks every path dependency's own
// Cargo.toml against what its dependent's manifest expects, surfacing a
// mismatch as a warning rather than failing the load: cargo already
// resolved these directories to a dependency graph, so a stale checkout is
// worth flagging but never fatal on its own.
func warnPathDependencyIdentity(cmd *cobra.Command, meta *cargo.Metadata) {
	for _, pkg := range meta.Packages {
		for _, dep := range pkg.Dependencies {
			if err := cargo.CheckPathDependencyIdentity(dep); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", pkg.Name, err)
			}
		}
	}
}

func addWorkspaceFlags(cmd *cobra.Command) {
	cmd.Flags().String("manifest-dir", ".", "directory containing the workspace's root Cargo.toml")
	cmd.Flags().Bool("locked", false, "require the lockfile to be up to date (cargo metadata --locked)")
}

// packageByName looks up the single package named name, erroring out on an
// ambiguous or missing match so CLI users can address crates by name rather
// than cargo's full package id string.
func packageByName(meta *cargo.Metadata, name string) (*cargo.Package, error) {
	var found []*cargo.Package
	for _, p := range meta.Packages {
		if p.Name == name {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no crate named %q in this workspace", name)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%d crates named %q in this workspace; disambiguate by version", len(found), name)
	}
}

// parseCrateFeature splits a "crate/feature" reference as accepted by
// --from/--to/--crate flags.
func parseCrateFeature(ref string) (crate, feature string, err error) {
	crate, feature, ok := strings.Cut(ref, "/")
	if !ok || crate == "" || feature == "" {
		return "", "", fmt.Errorf("expected a crate/feature reference, got %q", ref)
	}
	return crate, feature, nil
}

func newRuleContext(ws *workspace, cache *fixdriver.Cache, fix bool, bag *diag.Bag) *lint.Context {
	return &lint.Context{
		Meta:     ws.meta,
		Graph:    ws.graph,
		Editors:  cache,
		Fix:      fix,
		Reporter: diag.BagReporter{Bag: bag},
	}
}

// colorMode resolves the --color flag (auto|on|off) against whether stdout
// is a terminal.
func colorMode(cmd *cobra.Command) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	crateColor   = color.New(color.FgCyan)
)

// printDiagnostics renders bag in (crate, feature, code) order, the
// reproducible ordering Bag.Sort already applies, colorizing severities and
// crate names when enabled.
func printDiagnostics(bag *diag.Bag, colored bool) {
	bag.Sort()
	for _, d := range bag.Items() {
		sev := d.Severity.String()
		crate := d.CrateName
		if colored {
			switch {
			case d.Severity == diag.SevError:
				sev = errorColor.Sprint(sev)
			case d.Severity == diag.SevWarning:
				sev = warningColor.Sprint(sev)
			}
			if crate != "" {
				crate = crateColor.Sprint(crate)
			}
		}
		if crate != "" {
			fmt.Fprintf(os.Stdout, "%s: [%s] %s: %s\n", sev, d.Code, crate, d.Message)
		} else {
			fmt.Fprintf(os.Stdout, "%s: [%s] %s\n", sev, d.Code, d.Message)
		}
		for _, n := range d.Notes {
			fmt.Fprintf(os.Stdout, "    note: %s\n", n.Msg)
		}
		if d.Fix != nil {
			fmt.Fprintf(os.Stdout, "    fix available: %s (%s)\n", d.Fix.Title, d.Fix.Applicability)
		}
	}
}

func sortedCrateNames(meta *cargo.Metadata) []string {
	seen := map[string]bool{}
	var names []string
	for _, p := range meta.Packages {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	sort.Strings(names)
	return names
}
