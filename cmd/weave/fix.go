package main

import (
	"github.com/spf13/cobra"
)

// fixCmd is a shorthand for `lint --fix`, kept as its own command the way
// the teacher keeps fix.go separate from diagnose.go: applying fixes is a
// distinct verb from reporting them even though they share a run loop.
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Apply every available fix (shorthand for \"lint --fix\")",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLint(cmd, true)
	},
}

func init() {
	addWorkspaceFlags(fixCmd)
	fixCmd.Flags().Bool("fix", true, "apply available fixes (always true for this command)")
	fixCmd.Flags().StringSlice("rule", nil, "rules to run (default: propagate-feature,duplicate-deps,no-std)")
	fixCmd.Flags().String("feature", "", "restrict propagate-feature to a single feature")
	fixCmd.Flags().String("pre", "", "the triggering feature for never-enables/never-implies/only-enables")
	fixCmd.Flags().String("post", "", "the feature that --pre must never enable (never-enables) or imply (never-implies), or that only --pre may enable (only-enables)")
	fixCmd.Flags().String("crate", "", "crate name for why-enabled")
	fixCmd.Flags().String("cache", defaultCachePath, "path to the no-std detection cache")
	fixCmd.Flags().Int("max-diagnostics", 1000, "maximum diagnostics to collect before truncating")
}
