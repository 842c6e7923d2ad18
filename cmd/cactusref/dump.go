package main

import (
	"os"

	"github.com/spf13/cobra"

	"cactusref/pkg/graphdump"
)

var dumpOpts struct {
	root string
	out  string
}

// CmdDump runs a graph script and writes a Graphviz dot rendering of one
// node's component, the same component the Drop Coordinator would
// inspect if that node's Strong handle were dropped right now.
var CmdDump = &cobra.Command{
	Use:     "dump script",
	Short:   "Render a node's component as a Graphviz dot graph",
	Args:    cobra.ExactArgs(1),
	Example: "  cactusref dump examples/ring.cref --root a --out ring.dot",
	RunE:    runDump,
}

func init() {
	CmdDump.Flags().StringVar(&dumpOpts.root, "root", "",
		"name of the node whose component to render (default: the script's first live node)")
	CmdDump.Flags().StringVar(&dumpOpts.out, "out", "",
		"file to write the dot graph to (default: stdout)")
}

func runDump(cmd *cobra.Command, args []string) error {
	in, err := loadAndRun(args[0])
	if err != nil {
		return err
	}

	root, err := in.Root(dumpOpts.root)
	if err != nil {
		return err
	}

	edges, owned, orphaned := root.ComponentEdges()

	w := cmd.OutOrStdout()
	if dumpOpts.out != "" {
		f, err := os.Create(dumpOpts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return graphdump.WriteDot(w, edges, owned, orphaned)
}
