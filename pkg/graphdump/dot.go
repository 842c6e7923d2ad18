// Package graphdump renders a cycle candidate discovered by
// pkg/rc.(Strong[T]).ComponentEdges as a Graphviz dot graph, for
// debugging which object graphs the Drop Coordinator is and isn't
// collecting. Dot node names are a short hash of each control-block
// address, while each node's label shows the address itself. The same
// address always hashes to the same name, but addresses differ from run
// to run, so names and labels do too.
//
// This has no counterpart in the distilled spec; it mirrors
// original_source/src/graph.rs's Source/Destination formatting, lifted
// out of the destructor and into a standalone tool the way
// cmd/cactusref's `dump` subcommand uses it.
package graphdump

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"cactusref/pkg/rc"
)

// nodeID returns a short, stable identifier for a control-block address,
// suitable as a dot node name.
func nodeID(addr uintptr) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(addr))
	return fmt.Sprintf("n%x", xxhash.Sum64(buf[:])&0xffffffff)
}

// WriteDot renders edges and each node's owned_within count as a
// Graphviz dot graph. orphaned controls whether the graph is drawn in
// the color cmd/cactusref uses to mean "the collector will reclaim
// this" versus "still externally reachable."
func WriteDot(w io.Writer, edges []rc.Edge, owned map[uintptr]int, orphaned bool) error {
	color := "black"
	if orphaned {
		color = "red"
	}

	if _, err := fmt.Fprintln(w, "digraph cycle_candidate {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\tgraph [label=%q, fontsize=10];\n", graphLabel(orphaned)); err != nil {
		return err
	}

	for addr, ownedWithin := range owned {
		if _, err := fmt.Fprintf(w, "\t%s [label=%q, color=%s];\n",
			nodeID(addr), fmt.Sprintf("%#x\\nowned_within=%d", addr, ownedWithin), color); err != nil {
			return err
		}
	}

	for _, e := range edges {
		label := ""
		if e.Multiplicity > 1 {
			label = fmt.Sprintf(" [label=%q]", fmt.Sprintf("x%d", e.Multiplicity))
		}
		if _, err := fmt.Fprintf(w, "\t%s -> %s%s;\n", nodeID(e.From), nodeID(e.To), label); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "}")
	return err
}

func graphLabel(orphaned bool) string {
	if orphaned {
		return "orphaned component, collector will reclaim"
	}
	return "externally reachable, not collected"
}
