package rc

import "fmt"

// maxCount is the saturation ceiling for both the strong and weak
// counters. Wrapping count arithmetic is unsound, since a wrap produces
// a premature free, so counts saturate here and the program aborts on
// the attempt to go past it, rather than silently wrapping.
const maxCount = ^uint64(0)

// panicOverflow aborts the program on count saturation, per the "a leak
// is preferable to a use-after-free" rule. This is the only failure mode
// a Clone, Downgrade, or Upgrade can produce.
func panicOverflow(kind string) {
	panic(fmt.Sprintf("rc: %s count overflow: refusing to wrap, leaking instead", kind))
}

// errDanglingControlBlock is raised by the Reachability Oracle's traversal
// or the Drop Coordinator's unlink phase when a neighbor pointer leads to
// a block whose adoption ledger has already been released.
// The coordinator aborts the process rather than risk silent corruption.
func errDanglingControlBlock(detail string) {
	panic(fmt.Sprintf("rc: dangling control block reference during cycle teardown: %s", detail))
}
