package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"weave/internal/manifest"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] <Cargo.toml> [path...]",
	Short: "Sort, dedup, and line-wrap [features] arrays",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("check", false, "report files that would change, without writing them")
	fmtCmd.Flags().Int("width", 0, "line-wrap width (0: detect terminal width, falling back to 100)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return err
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return err
	}
	if width <= 0 {
		width = detectWidth()
	}

	var changed, failed []string
	for _, path := range args {
		doc, err := manifest.Load(path)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		if errs := manifest.CanonicalizeFeatures(doc, nil, width); len(errs) > 0 {
			for _, e := range errs {
				failed = append(failed, fmt.Sprintf("%s: %v", path, e))
			}
			continue
		}
		if !doc.Modified() {
			continue
		}
		changed = append(changed, path)
		if !check {
			if err := doc.Save(); err != nil {
				failed = append(failed, fmt.Sprintf("%s: %v", path, err))
			}
		}
	}

	for _, path := range changed {
		verb := "reformatted"
		if check {
			verb = "would reformat"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, path)
	}
	for _, f := range failed {
		fmt.Fprintln(cmd.ErrOrStderr(), f)
	}

	if len(failed) > 0 {
		return fmt.Errorf("fmt: failed to format some files")
	}
	if check && len(changed) > 0 {
		return fmt.Errorf("fmt: formatting changes required")
	}
	return nil
}

// detectWidth reports the terminal width of stdout, falling back to a
// fixed default when stdout isn't a terminal (e.g. piped output, CI logs).
func detectWidth() int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
			return w
		}
	}
	return 100
}
