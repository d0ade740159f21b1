package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weave/internal/featdag"
	"weave/internal/lint"
)

// traceCmd is the thin generic path printer: it does no linting of its own,
// just prints one path (not necessarily the shortest) the feature DAG
// already contains between two nodes.
var traceCmd = &cobra.Command{
	Use:   "trace --from <crate/feature> --to <crate/feature>",
	Short: "Print a path between two feature-graph nodes, if one exists",
	RunE:  runTrace,
}

func init() {
	addWorkspaceFlags(traceCmd)
	traceCmd.Flags().String("from", "", "starting crate/feature node")
	traceCmd.Flags().String("to", "", "target crate/feature node")
	traceCmd.Flags().String("delim", " -> ", "path separator")
}

func runTrace(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}
	fromRef, err := cmd.Flags().GetString("from")
	if err != nil {
		return err
	}
	toRef, err := cmd.Flags().GetString("to")
	if err != nil {
		return err
	}
	delim, err := cmd.Flags().GetString("delim")
	if err != nil {
		return err
	}
	if fromRef == "" || toRef == "" {
		return fmt.Errorf("trace requires both --from and --to")
	}

	from, err := resolveNode(ws, fromRef)
	if err != nil {
		return err
	}
	to, err := resolveNode(ws, toRef)
	if err != nil {
		return err
	}

	path, ok := ws.graph.AnyPath(from, to)
	if !ok {
		return fmt.Errorf("no path from %s to %s", fromRef, toRef)
	}
	fmt.Fprintln(cmd.OutOrStdout(), lint.FormatPath(ws.meta, path, delim))
	return nil
}

func resolveNode(ws *workspace, ref string) (featdag.Node, error) {
	crateName, feature, err := parseCrateFeature(ref)
	if err != nil {
		return featdag.Node{}, err
	}
	pkg, err := packageByName(ws.meta, crateName)
	if err != nil {
		return featdag.Node{}, err
	}
	return featdag.Node{Crate: pkg.ID, Feature: feature}, nil
}
