// Package rc implements a single-threaded, cycle-aware, reference-counted
// smart pointer: Strong[T] and Weak[T] behave like a classical
// non-atomic Rc, plus an opt-in adoption ledger that lets a strongly
// connected component of mutually owning Strong handles be torn down
// deterministically once nothing outside the component still holds a
// share in it.
//
// Go's own garbage collector already traces and reclaims reference
// cycles, so the point of this package is not to plug a memory leak. It
// is to give objects arranged in a cycle (rings, doubly-linked lists,
// parent-pointer trees, mutually owning graph nodes) a deterministic
// moment at which their payload's cleanup runs, the same way Strong.Drop
// runs cleanup for acyclic objects the instant the last handle goes away.
// A payload that wants that cleanup to fire implements Dropper; the Drop
// Coordinator calls it exactly once per control block: when the last
// handle to a block with no adoption links goes away, or in bulk, once a
// whole component is confirmed orphaned.
//
// Construction, cloning, dereferencing, pointer equality, and the raw
// pointer round trip are intentionally unremarkable: they behave like
// any other reference-counted pointer. The interesting part, and the
// only part this package spends real effort on, is what happens when a
// Strong handle is dropped while its block still participates in an
// adoption ledger: see Strong.Drop and the Reachability Oracle in
// oracle.go.
package rc
