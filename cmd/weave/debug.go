package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weave/internal/dag"
	"weave/internal/featdag"
)

// debugCmd groups diagnostic introspection subcommands that exist to help
// a human understand the feature graph, not to lint anything.
var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Introspection commands for the feature graph",
}

var debugDagCmd = &cobra.Command{
	Use:   "dag",
	Short: "Print feature-graph node/edge counts, optionally as Graphviz",
	RunE:  runDebugDag,
}

func init() {
	addWorkspaceFlags(debugDagCmd)
	debugDagCmd.Flags().Bool("dot", false, "render the graph (or --crate subgraph) as Graphviz DOT")
	debugDagCmd.Flags().String("crate", "", "restrict the counts and the --dot rendering to a single crate's nodes")
	debugCmd.AddCommand(debugDagCmd)
}

func runDebugDag(cmd *cobra.Command, args []string) error {
	ws, err := loadWorkspace(cmd)
	if err != nil {
		return err
	}

	graph := ws.graph
	crateFilter, err := cmd.Flags().GetString("crate")
	if err != nil {
		return err
	}
	if crateFilter != "" {
		pkg, err := packageByName(ws.meta, crateFilter)
		if err != nil {
			return err
		}
		graph = graph.Sub(func(n featdag.Node) bool { return n.Crate == pkg.ID })
	}

	asDot, err := cmd.Flags().GetBool("dot")
	if err != nil {
		return err
	}
	if asDot {
		return renderDot(cmd, ws, graph)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d nodes, %d edges\n", graph.NumNodes(), graph.NumEdges())
	return nil
}

func renderDot(cmd *cobra.Command, ws *workspace, graph *dag.Graph[featdag.Node]) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "digraph features {")
	for _, n := range graph.Nodes() {
		label := featdagLabel(ws, n)
		for _, succ := range graph.Out(n) {
			fmt.Fprintf(out, "  %q -> %q;\n", label, featdagLabel(ws, succ))
		}
	}
	fmt.Fprintln(out, "}")
	return nil
}

func featdagLabel(ws *workspace, n featdag.Node) string {
	if pkg := ws.meta.PackageByID(n.Crate); pkg != nil {
		return pkg.Name + "/" + n.Feature
	}
	return string(n.Crate) + "/" + n.Feature
}
