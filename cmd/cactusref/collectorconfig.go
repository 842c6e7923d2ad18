package main

import (
	"fmt"
	"os"
	"path/filepath"

	"cactusref/pkg/graphdump"
	"cactusref/pkg/rc"
	"cactusref/pkg/rcconfig"
)

// applyCollectorConfig wires a loaded rcconfig.Config into pkg/rc's
// package-level switches: whether the S2 defensive fallback aborts
// instead of logging, and whether every component the Reachability
// Oracle classifies gets rendered to a dot file under GraphDumpDir. It
// returns a cleanup func that restores pkg/rc's defaults; callers defer
// it before the next run installs a different config.
func applyCollectorConfig(cfg rcconfig.Config) (func(), error) {
	rc.SetAbortOnDefensiveFallback(cfg.Fallback == rcconfig.FallbackAbort)
	cleanup := func() {
		rc.SetAbortOnDefensiveFallback(false)
		rc.SetComponentHook(nil)
	}

	if !cfg.GraphDumpOnFree {
		return cleanup, nil
	}
	if cfg.GraphDumpDir == "" {
		return cleanup, fmt.Errorf("cactusref: graph_dump_on_free is set but graph_dump_dir is empty")
	}
	if err := os.MkdirAll(cfg.GraphDumpDir, 0o755); err != nil {
		return cleanup, err
	}

	n := 0
	rc.SetComponentHook(func(edges []rc.Edge, owned map[uintptr]int, orphaned bool) {
		n++
		path := filepath.Join(cfg.GraphDumpDir, fmt.Sprintf("component-%04d.dot", n))
		f, err := os.Create(path)
		if err != nil {
			return
		}
		defer f.Close()
		graphdump.WriteDot(f, edges, owned, orphaned)
	})
	return cleanup, nil
}
