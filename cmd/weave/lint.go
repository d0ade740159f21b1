package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weave/internal/diag"
	"weave/internal/featdag"
	"weave/internal/fixdriver"
	"weave/internal/grammar"
	"weave/internal/lint"
)

var allLintRules = []string{
	"propagate-feature",
	"never-enables",
	"never-implies",
	"only-enables",
	"why-enabled",
	"duplicate-deps",
	"no-std",
}

// defaultLintRules is the set run when --rule is left unset: every rule
// that needs no extra (--pre/--post/--crate) targeting.
var defaultLintRules = []string{"propagate-feature", "duplicate-deps", "no-std"}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check feature propagation across the workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, false)
	},
}

func init() {
	addWorkspaceFlags(lintCmd)
	lintCmd.Flags().Bool("fix", false, "apply available fixes instead of only reporting them")
	lintCmd.Flags().StringSlice("rule", nil, "rules to run (default: propagate-feature,duplicate-deps,no-std); one or more of "+strings.Join(allLintRules, ","))
	lintCmd.Flags().String("feature", "", "restrict propagate-feature to a single feature, or name the feature for why-enabled (default: every declared feature)")
	lintCmd.Flags().String("pre", "", "the triggering feature for never-enables/never-implies/only-enables")
	lintCmd.Flags().String("post", "", "the feature that --pre must never enable (never-enables) or imply (never-implies), or that only --pre may enable (only-enables)")
	lintCmd.Flags().String("crate", "", "crate name for why-enabled")
	lintCmd.Flags().String("cache", defaultCachePath, "path to the no-std detection cache")
	lintCmd.Flags().Int("max-diagnostics", 1000, "maximum diagnostics to collect before truncating")
}

// runLint runs the selected rules and, if fix is true (either because
// --fix was passed or the caller is the fix command), persists the
// resulting edits. forceFix overrides the --fix flag's value when true.
func runLint(cmd *cobra.Command, forceFix bool) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	rules, err := cmd.Flags().GetStringSlice("rule")
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		rules = defaultLintRules
	}
	fix, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return err
	}
	fix = fix || forceFix
	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	cache := fixdriver.NewCache()
	bag := diag.NewBag(maxDiagnostics)
	lctx := newRuleContext(ws, cache, fix, bag)

	var noStdCache *lint.NoStdCache
	for _, r := range rules {
		nc, err := runOneRule(cmd, lctx, r)
		if err != nil {
			return err
		}
		if nc != nil {
			noStdCache = nc
		}
	}
	if noStdCache != nil {
		if err := noStdCache.Save(); err != nil {
			return fmt.Errorf("weave: saving no-std cache: %w", err)
		}
	}

	colored := colorMode(cmd)
	printDiagnostics(bag, colored)

	scope, err := fixdriver.NewWriteScope(ws.dir)
	if err != nil {
		return err
	}
	res, err := fixdriver.Commit(cache, scope, fix)
	if err != nil && err != fixdriver.ErrNoFixes {
		return err
	}
	for _, skipped := range res.Skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", skipped.Path, skipped.Reason)
	}
	if len(res.Changed) > 0 || fix {
		fmt.Fprintln(cmd.OutOrStdout(), fixdriver.Summary(res, fix))
	}

	if fixdriver.DefaultExitCodeConfig().ExitCode(bag) != 0 {
		return fmt.Errorf("weave: lint found %s", grammar.Count(bag.Len(), "diagnostic"))
	}
	return nil
}

// runOneRule runs a single named rule against lctx, returning the no-std
// cache to persist when the rule is "no-std".
func runOneRule(cmd *cobra.Command, lctx *lint.Context, rule string) (*lint.NoStdCache, error) {
	switch rule {
	case "propagate-feature":
		feature, err := cmd.Flags().GetString("feature")
		if err != nil {
			return nil, err
		}
		lint.Propagate(lctx, lint.PropagateConfig{Feature: feature})
	case "never-enables":
		pre, post, err := requirePrePost(cmd)
		if err != nil {
			return nil, err
		}
		lint.NeverEnables(lctx, pre, post)
	case "never-implies":
		pre, post, err := requirePrePost(cmd)
		if err != nil {
			return nil, err
		}
		lint.NeverImplies(lctx, pre, post)
	case "only-enables":
		pre, post, err := requirePrePost(cmd)
		if err != nil {
			return nil, err
		}
		lint.OnlyEnables(lctx, pre, post)
	case "why-enabled":
		crateName, err := cmd.Flags().GetString("crate")
		if err != nil {
			return nil, err
		}
		feature, err := cmd.Flags().GetString("feature")
		if err != nil {
			return nil, err
		}
		if crateName == "" || feature == "" {
			return nil, fmt.Errorf("why-enabled requires --crate and --feature")
		}
		pkg, err := packageByName(lctx.Meta, crateName)
		if err != nil {
			return nil, err
		}
		printWhyEnabled(lctx, pkg.Name, feature, lint.WhyEnabled(lctx, pkg.ID, feature))
	case "duplicate-deps":
		lint.DuplicateDeps(lctx)
	case "no-std":
		cachePath, err := cmd.Flags().GetString("cache")
		if err != nil {
			return nil, err
		}
		nc, err := lint.LoadNoStdCache(cachePath)
		if err != nil {
			return nil, err
		}
		lint.NoStdDefaultFeatures(lctx, lint.NoStdConfig{Cache: nc})
		return nc, nil
	default:
		return nil, fmt.Errorf("unknown rule %q (valid: %s)", rule, strings.Join(allLintRules, ", "))
	}
	return nil, nil
}

func printWhyEnabled(lctx *lint.Context, crate, feature string, sources []featdag.Node) {
	fmt.Printf("%s/%s is enabled by:\n", crate, feature)
	for _, n := range sources {
		fmt.Printf("  %s\n", lint.FormatPath(lctx.Meta, []featdag.Node{n}, ""))
	}
}

func requirePrePost(cmd *cobra.Command) (pre, post string, err error) {
	pre, err = cmd.Flags().GetString("pre")
	if err != nil {
		return "", "", err
	}
	post, err = cmd.Flags().GetString("post")
	if err != nil {
		return "", "", err
	}
	if pre == "" || post == "" {
		return "", "", fmt.Errorf("this rule requires both --pre and --post")
	}
	return pre, post, nil
}
