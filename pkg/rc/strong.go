package rc

import (
	"fmt"
	"unsafe"
)

// Strong is an owning handle to a shared value of type T. Cloning it
// increments the control block's strong count; dropping it decrements the
// count and hands off to the Drop Coordinator (see Drop).
//
// The zero value of Strong[T] is not usable for anything beyond comparison
// against another zero value; it does not refer to a control block.
type Strong[T any] struct {
	cb *controlBlock[T]
}

// New allocates a control block holding value and returns the first
// Strong handle to it, with strong == 1 and weak == 1 (the implicit
// strong-weak share), and an empty adoption ledger.
func New[T any](value T) Strong[T] {
	return Strong[T]{cb: newControlBlock(value)}
}

// FromRaw reconstructs a Strong[T] from a pointer previously produced by
// IntoRaw, without touching any count. The caller must ensure the pointer
// really was produced by IntoRaw on a Strong[T] with this same T, and must
// not call FromRaw more than once per IntoRaw call: doing so produces two
// handles sharing one unit of strong count, a contract violation that can
// lead to a premature free.
func FromRaw[T any](p unsafe.Pointer) Strong[T] {
	return Strong[T]{cb: (*controlBlock[T])(p)}
}

// IntoRaw returns the handle's control block as an opaque pointer without
// changing any count, consuming this handle's share in the sense that the
// caller now owns the responsibility IntoRaw's documentation places on
// FromRaw. The handle itself remains usable, since Go has no move
// semantics to enforce consumption, but the caller must treat the strong
// share as transferred to whoever eventually calls FromRaw and Drop.
func (s Strong[T]) IntoRaw() unsafe.Pointer {
	return unsafe.Pointer(s.cb)
}

// Clone increments the strong count and returns a new handle to the same
// control block. If the count is already saturated, Clone panics rather
// than wrap, per the "leak forever over use-after-free" rule.
func (s Strong[T]) Clone() Strong[T] {
	if s.cb.strong == maxCount {
		panicOverflow("strong")
	}
	s.cb.strong++
	return Strong[T]{cb: s.cb}
}

// Deref returns a pointer to the shared payload. The precondition,
// strong > 0, holds trivially for as long as this handle has not been
// dropped, since the handle itself contributes to strong.
func (s Strong[T]) Deref() *T {
	return &s.cb.value
}

// StrongCount returns the number of live Strong handles sharing this
// control block.
func (s Strong[T]) StrongCount() uint64 { return s.cb.strongCount() }

// WeakCount returns the number of live Weak handles, excluding the
// implicit strong-weak share.
func (s Strong[T]) WeakCount() uint64 { return s.cb.weakCount() }

// Downgrade returns a new Weak handle to the same control block,
// incrementing the weak count.
func (s Strong[T]) Downgrade() Weak[T] {
	if s.cb.weak == maxCount {
		panicOverflow("weak")
	}
	s.cb.weak++
	return Weak[T]{cb: s.cb}
}

// Adopt records that s holds one additional owning handle to child. See
// the package-level Adopt for the full contract; this method exists so
// same-T adoption reads as a verb on the parent handle, mirroring the
// source library's Adopt trait.
func (s Strong[T]) Adopt(child Strong[T]) { Adopt(s, child) }

// Unadopt removes one unit of multiplicity recorded by a prior Adopt call
// between s and child. See the package-level Unadopt for the full
// contract.
func (s Strong[T]) Unadopt(child Strong[T]) { Unadopt(s, child) }

// OrphanedComponent runs the Reachability Oracle from this handle's
// control block without mutating anything: a read-only diagnostic, useful
// for tests and tooling that want to inspect the classification a real
// Drop would compute. The returned map is keyed by control-block address
// and valued by each member's owned-within-component count.
func (s Strong[T]) OrphanedComponent() (map[uintptr]int, bool) {
	component, orphaned := runOracle(node(s.cb))
	out := make(map[uintptr]int, len(component))
	for n, owned := range component {
		out[n.addr()] = owned
	}
	return out, orphaned
}

// Edge is one forward adoption edge exposed by ComponentEdges: From holds
// one owning handle to To, at the given multiplicity.
type Edge struct {
	From, To     uintptr
	Multiplicity int
}

// ComponentEdges runs the Reachability Oracle the same way
// OrphanedComponent does, but also returns every forward edge between
// members of the discovered component, the shape pkg/graphdump needs to
// render a cycle candidate as a graph rather than just a classification.
func (s Strong[T]) ComponentEdges() ([]Edge, map[uintptr]int, bool) {
	component, orphaned := runOracle(node(s.cb))
	edges, owned := componentEdges(component)
	return edges, owned, orphaned
}

// componentEdges converts an oracle result into the address-keyed shape
// ComponentEdges and the Drop Coordinator's dump hook both report.
func componentEdges(component map[node]int) ([]Edge, map[uintptr]int) {
	owned := make(map[uintptr]int, len(component))
	for n, o := range component {
		owned[n.addr()] = o
	}
	var edges []Edge
	for n := range component {
		lk := n.neighbors()
		for target, mult := range lk.forward {
			edges = append(edges, Edge{From: n.addr(), To: target.addr(), Multiplicity: mult})
		}
	}
	return edges, owned
}

// PtrEqual reports whether s and other refer to the same control block.
func (s Strong[T]) PtrEqual(other Strong[T]) bool { return s.cb == other.cb }

// Addr returns the control block's address, the basis for pointer
// equality, hashing, and ordering of handles to the same block.
func (s Strong[T]) Addr() uintptr { return uintptr(unsafe.Pointer(s.cb)) }

func (s Strong[T]) String() string {
	if s.cb == nil {
		return "rc.Strong(<nil>)"
	}
	return fmt.Sprintf("rc.Strong(%p)", s.cb)
}

// GoString implements fmt.GoStringer so that %#v on a Strong handle shows
// its identity rather than trying to dump the payload through an
// unexported field.
func (s Strong[T]) GoString() string { return s.String() }

// Drop decrements the strong count and hands off to the Drop Coordinator.
// If this block has never been adopted or adopted anything, the
// coordinator only acts once the decrement reaches zero, the classical
// path. Once adoption links exist, every decrement re-runs the
// Reachability Oracle, because a component can become orphaned on a
// decrement that leaves this particular block's own strong count above
// zero (every other member was already fully accounted for internally;
// this was the last external share anywhere in the component).
//
// Drop takes a pointer receiver so that it can invalidate this particular
// handle variable after running, guarding against the same variable being
// dropped twice; it has no effect on any other Strong[T] value that was
// cloned from the same control block.
func (s *Strong[T]) Drop() {
	if s == nil || s.cb == nil {
		return
	}
	cb := s.cb
	s.cb = nil
	if cb.tomb {
		// An outer Drop Coordinator invocation already committed to
		// tearing down this block; this call is one of the re-entrant
		// drops the Payload-drop phase causes. The coordinator's own
		// Phase 4 loop is the sole source of every member's weak-release,
		// exactly once per member, so this call has nothing left to do.
		return
	}
	cb.strong--
	release(cb)
}
