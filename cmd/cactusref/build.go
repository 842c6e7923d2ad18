package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildOpts struct {
	dropRoots bool
}

// CmdBuild runs a graph script and reports the counts it produced,
// without attempting to dump or stress anything.
var CmdBuild = &cobra.Command{
	Use:     "build script",
	Short:   "Run a graph script and report what it built",
	Args:    cobra.ExactArgs(1),
	Example: "  cactusref build examples/ring.cref",
	RunE:    runBuild,
}

func init() {
	CmdBuild.Flags().BoolVar(&buildOpts.dropRoots, "drop-roots", false,
		"drop every node the script left live once it finishes")
}

func runBuild(cmd *cobra.Command, args []string) error {
	in, err := loadAndRun(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "nodes created: %d\nedges created: %d\ndrops issued: %d\nfreed so far: %d\n",
		in.NodesCreated, in.EdgesCreated, in.DropsIssued, len(in.Freed))

	live := in.LiveNodes()
	fmt.Fprintf(cmd.OutOrStdout(), "live nodes: %v\n", live)

	if buildOpts.dropRoots {
		for _, name := range live {
			s := in.strong[name]
			delete(in.strong, name)
			s.Drop()
			in.DropsIssued++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "after dropping roots, freed: %d\n", len(in.Freed))
	}
	return nil
}
