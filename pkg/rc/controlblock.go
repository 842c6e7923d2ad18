package rc

import "unsafe"

// Dropper is implemented by a payload type T that itself holds Strong or
// Weak handles to other control blocks. DropPayload is called by the Drop
// Coordinator when the payload is dropped: on the last Drop of a block
// with no adoption links, or in the Payload-drop phase, after every member
// of an orphaned component has been tombstoned. It must Drop every Strong handle the
// payload owns (the handles adopt recorded as forward edges). A plain
// payload with no owning handles doesn't need to implement it.
type Dropper interface {
	DropPayload()
}

// controlBlock is the heap cell shared by every handle to one value. It is
// never exposed directly; Strong[T] and Weak[T] are the only way to reach
// one, and the unexported node interface is the only way the Adoption
// Registry and Reachability Oracle touch a block whose payload type they
// don't know.
type controlBlock[T any] struct {
	value    T
	hasValue bool // false once the payload has been dropped

	strong uint64
	weak   uint64 // biased by 1 while strong > 0 (the implicit strong-weak share)
	tomb   bool

	lk *links
}

func newControlBlock[T any](value T) *controlBlock[T] {
	return &controlBlock[T]{
		value:    value,
		hasValue: true,
		strong:   1,
		weak:     1,
		lk:       newLinks(),
	}
}

// node is the type-erased view of a control block used by the Adoption
// Registry and the Reachability Oracle, which must walk edges between
// control blocks of unrelated payload types. Every *controlBlock[T]
// satisfies it.
type node interface {
	strongCount() uint64
	zeroStrong()
	tombstoned() bool
	markTombstone()
	neighbors() *links
	dropPayload()
	decWeakShare() uint64
	maybeFree()
	addr() uintptr
}

func (cb *controlBlock[T]) strongCount() uint64 { return cb.strong }

// zeroStrong forces the strong count to zero. Called on every member of
// an orphaned component before Payload-drop: a decrement can tip the
// whole component into orphaned while leaving the triggering member's
// own strong count above zero, so this pass forces it to match the rest.
func (cb *controlBlock[T]) zeroStrong() { cb.strong = 0 }

// weakCount is the observer-visible weak count: the raw counter minus
// the implicit strong-weak share.
func (cb *controlBlock[T]) weakCount() uint64 {
	if cb.strong > 0 {
		return cb.weak - 1
	}
	return cb.weak
}

func (cb *controlBlock[T]) tombstoned() bool { return cb.tomb }

func (cb *controlBlock[T]) markTombstone() { cb.tomb = true }

func (cb *controlBlock[T]) neighbors() *links { return cb.lk }

func (cb *controlBlock[T]) addr() uintptr { return uintptr(unsafe.Pointer(cb)) }

// dropPayload drops the payload exactly once. A second call, which
// happens routinely on re-entrant drop, is a no-op because hasValue is
// already false.
func (cb *controlBlock[T]) dropPayload() {
	if !cb.hasValue {
		return
	}
	if d, ok := any(&cb.value).(Dropper); ok {
		d.DropPayload()
	}
	var zero T
	cb.value = zero
	cb.hasValue = false
}

// decWeakShare releases the implicit strong-weak share and returns the
// resulting weak count.
func (cb *controlBlock[T]) decWeakShare() uint64 {
	cb.weak--
	return cb.weak
}

// maybeFree drops the control block's own hold on its neighbors once no
// handle of either kind remains. Go's collector reclaims the memory on
// its own schedule; this step exists so the block stops participating in
// any other component's adoption ledger, matching the "weak == 0 implies
// freed" invariant observably (WeakCount-based upgrade failures, not an
// actual deallocation).
func (cb *controlBlock[T]) maybeFree() {
	if cb.weak == 0 {
		cb.lk = nil
	}
}
