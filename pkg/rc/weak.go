package rc

import "fmt"

// Weak is a non-owning handle. It holds one share of the control block's
// weak count (on top of the implicit strong-weak share contributed by any
// live Strong handle) and can be upgraded back to a Strong handle as long
// as the block's strong count has not reached zero.
type Weak[T any] struct {
	cb *controlBlock[T]
}

// Dangling returns a Weak handle that never refers to a control block and
// can never be upgraded. It is the zero value of Weak[T]; Dangling exists
// as a named constructor for readability at call sites.
func Dangling[T any]() Weak[T] { return Weak[T]{} }

// Clone increments the weak count and returns a new handle to the same
// control block. Cloning a dangling handle returns another dangling
// handle.
func (w Weak[T]) Clone() Weak[T] {
	if w.cb == nil {
		return Weak[T]{}
	}
	if w.cb.weak == maxCount {
		panicOverflow("weak")
	}
	w.cb.weak++
	return Weak[T]{cb: w.cb}
}

// Upgrade returns a new Strong handle and true if the control block's
// strong count is still above zero and the block has not been
// tombstoned; otherwise it returns the zero Strong[T] and false.
//
// The tombstone check is strictly redundant with strong > 0 for
// correctness: the Drop Coordinator sets the tombstone and forces every
// member's strong count to zero before dropping any payload.
// It is kept explicit because it is what makes re-entrant drop
// idempotent, and an Upgrade that only checked strong would be relying on
// an invariant it doesn't itself enforce.
func (w Weak[T]) Upgrade() (Strong[T], bool) {
	if w.cb == nil || w.cb.strong == 0 || w.cb.tomb {
		return Strong[T]{}, false
	}
	if w.cb.strong == maxCount {
		panicOverflow("strong")
	}
	w.cb.strong++
	return Strong[T]{cb: w.cb}, true
}

// StrongCount returns the live strong count, or 0 for a dangling handle.
func (w Weak[T]) StrongCount() uint64 {
	if w.cb == nil {
		return 0
	}
	return w.cb.strongCount()
}

// WeakCount returns the live weak count excluding the implicit
// strong-weak share, or 0 for a dangling handle.
func (w Weak[T]) WeakCount() uint64 {
	if w.cb == nil {
		return 0
	}
	return w.cb.weakCount()
}

func (w Weak[T]) String() string {
	if w.cb == nil {
		return "rc.Weak(<dangling>)"
	}
	return fmt.Sprintf("rc.Weak(%p)", w.cb)
}

// GoString implements fmt.GoStringer; see Strong.GoString.
func (w Weak[T]) GoString() string { return w.String() }

// Drop decrements the weak count and, once it reaches zero, releases the
// control block's hold on its neighbors. Like Strong.Drop, this takes a
// pointer receiver so the handle variable that was dropped cannot be
// dropped a second time.
func (w *Weak[T]) Drop() {
	if w == nil || w.cb == nil {
		return
	}
	cb := w.cb
	w.cb = nil
	cb.weak--
	if cb.weak == 0 {
		cb.maybeFree()
	}
}
