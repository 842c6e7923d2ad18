package rc

import (
	"fmt"

	"cactusref/pkg/rclog"
)

var dropLogger = rclog.Nop()

// SetLogger installs the logger the Drop Coordinator uses to report the
// S2 defensive fallback and, at Debug level, every component it
// classifies. Passing nil restores the no-op default. The logger is
// package-global because the coordinator runs deep inside Strong.Drop,
// with no channel for a caller to thread one through per call.
func SetLogger(l *rclog.Logger) {
	if l == nil {
		l = rclog.Nop()
	}
	dropLogger = l
}

var abortOnDefensiveFallback bool

// SetAbortOnDefensiveFallback controls what happens when the S2 defensive
// fallback triggers: log a Warn and continue (the default), or panic.
// Callers who would rather crash than risk a latent bookkeeping bug
// masking a real leak should set this true.
func SetAbortOnDefensiveFallback(abort bool) {
	abortOnDefensiveFallback = abort
}

var componentHook func(edges []Edge, owned map[uintptr]int, orphaned bool)

// SetComponentHook installs a callback invoked with every component the
// Reachability Oracle classifies, orphaned or not. Passing nil disables
// it. cmd/cactusref's graph-dump-on-free option uses this to render a dot
// file for each collection it observes.
func SetComponentHook(fn func(edges []Edge, owned map[uintptr]int, orphaned bool)) {
	componentHook = fn
}

// release is the Drop Coordinator. Strong.Drop calls it on every
// decrement of a block that has ever participated in an adoption; for a
// block with an empty ledger it only has work to do once strong reaches
// zero, the classical path.
//
// A component can turn orphaned on a decrement that leaves cb's own
// strong above zero, since every other member may already be fully
// accounted for internally. So the oracle runs on cb's current strong
// value after this call's decrement, whatever it is, not only when that
// value happens to be zero.
func release[T any](cb *controlBlock[T]) {
	r := node(cb)

	if cb.lk.empty() {
		// S1: acyclic leaf. Nothing else can be holding this block through
		// adoption, so only a strong count of zero means anything.
		if cb.strong != 0 {
			return
		}
		cb.dropPayload()
		cb.decWeakShare()
		cb.maybeFree()
		return
	}

	component, orphaned := runOracle(r)
	if componentHook != nil {
		edges, owned := componentEdges(component)
		componentHook(edges, owned, orphaned)
	}

	if !orphaned {
		dropLogger.Debug("rc: component externally reachable, not collecting",
			"addr", fmt.Sprintf("%#x", r.addr()), "component_size", len(component))
		if cb.strong != 0 {
			// Still externally held somewhere in the component.
			return
		}
		// S2: the oracle found an external strong reference somewhere in
		// the component even though strong just reached zero on the start
		// node. Treated as a defensive, best-effort fallback: purge R's
		// own entries from its neighbors and fall through to the acyclic
		// path for R alone.
		if abortOnDefensiveFallback {
			panic(fmt.Sprintf("rc: defensive fallback triggered for block %#x, component size %d", r.addr(), len(component)))
		}
		dropLogger.Warn("rc: component reachable externally despite zero strong count on start node, falling back to acyclic drop",
			"addr", fmt.Sprintf("%#x", r.addr()), "component_size", len(component))
		unlinkFromNeighbors(r)
		cb.lk = newLinks()
		cb.dropPayload()
		cb.decWeakShare()
		cb.maybeFree()
		return
	}

	dropLogger.Debug("rc: orphaned cycle detected, collecting component",
		"addr", fmt.Sprintf("%#x", r.addr()), "component_size", len(component))

	// Phase 1: unlink. Must precede Mark so the component this invocation
	// computed is not revisited by anything else.
	unlinkFromNeighbors(r)
	cb.lk = newLinks()

	// Phase 2: mark. Must precede Payload-drop, because payload drops
	// cause re-entries that need the tombstone in place already.
	for n := range component {
		n.markTombstone()
	}

	// Phase 2b: zero every member's strong count. The member whose
	// decrement tipped the component into orphaned may still have its own
	// strong above zero; force it to match the rest before Payload-drop.
	for n := range component {
		n.zeroStrong()
	}

	// Phase 3: payload-drop, every other member first, R last.
	for n := range component {
		if n == r {
			continue
		}
		n.dropPayload()
	}
	cb.dropPayload()

	// Phase 4: weak-release. Must follow Payload-drop, because dropping a
	// payload can itself create and destroy transient weak handles that
	// read strong.
	for n := range component {
		n.decWeakShare()
	}

	// Phase 6: free. Persisting past this point with payload dropped and
	// tombstone set is legitimate for a node some outside Weak handle
	// still references; its upgrades will keep failing via the tombstone
	// check in Weak.Upgrade.
	for n := range component {
		n.maybeFree()
	}
}

// unlinkFromNeighbors erases every edge between r and each of its
// neighbors from both sides of the ledger. It does not touch r's own
// registry; callers clear that separately once this returns, which also
// takes care of any self-loop r recorded on itself.
func unlinkFromNeighbors(r node) {
	lk := r.neighbors()
	for n := range lk.forward {
		if n == r {
			continue
		}
		nb := n.neighbors()
		if nb == nil {
			errDanglingControlBlock("forward neighbor has no adoption ledger")
		}
		delete(nb.backward, r)
	}
	for n := range lk.backward {
		if n == r {
			continue
		}
		nb := n.neighbors()
		if nb == nil {
			errDanglingControlBlock("backward neighbor has no adoption ledger")
		}
		delete(nb.forward, r)
	}
}
