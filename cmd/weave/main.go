package main

import (
	"os"

	"github.com/spf13/cobra"

	"weave/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Cargo feature-graph linter and fixer",
	Long:  `weave checks and repairs feature propagation across a Cargo workspace's manifests.`,
}

var profileCleanup func()

func main() {
	rootCmd.Version = version.VersionString()
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = cleanup
		return nil
	}
	rootCmd.PersistentPostRun = func(*cobra.Command, []string) {
		if profileCleanup != nil {
			profileCleanup()
			profileCleanup = nil
		}
	}

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "accepted for compatibility; no command changes its output when it is set")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a runtime execution trace to file")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
