package rc

import "testing"

func TestOracleTrivialComponentNotOrphanedWhileExternallyHeld(t *testing.T) {
	a := New(1)
	component, orphaned := a.OrphanedComponent()
	if len(component) != 1 {
		t.Fatalf("component size = %d, want 1", len(component))
	}
	if orphaned {
		t.Fatal("a lone node with one external handle must not be orphaned")
	}
	a.Drop()
}

func TestOracleTwoNodeRingIsOrphanedOnlyWhenUnreachableExternally(t *testing.T) {
	var drops []string
	a := New(ringLink{Name: "a", Drops: &drops})
	b := New(ringLink{Name: "b", Drops: &drops})

	av := a.Deref()
	av.setNext(b.Clone())
	Adopt(a, b)

	bv := b.Deref()
	bv.setNext(a.Clone())
	Adopt(b, a)

	// Strong counts: a has the external handle + b's Next clone = 2.
	// b has the external handle + a's Next clone = 2.
	if a.StrongCount() != 2 || b.StrongCount() != 2 {
		t.Fatalf("strong counts = (%d, %d), want (2, 2)", a.StrongCount(), b.StrongCount())
	}

	component, orphaned := a.OrphanedComponent()
	if orphaned {
		t.Fatal("ring with both external handles live must not be orphaned")
	}
	if len(component) != 2 {
		t.Fatalf("component size = %d, want 2", len(component))
	}
	for addr, owned := range component {
		if owned != 1 {
			t.Fatalf("node %#x owned_within = %d, want 1 (one incoming ring edge)", addr, owned)
		}
	}

	// Dropping b's external handle leaves b's only remaining strong share
	// the one a holds, so b is now fully accounted for internally. a still
	// has strong 2 against owned_within 1, since a's external handle is
	// still outstanding, and neither node's strong count has reached zero.
	b.Drop()
	component, orphaned = a.OrphanedComponent()
	if orphaned {
		t.Fatal("a's external handle is still live; the pair must not be orphaned yet")
	}
	if len(component) != 2 {
		t.Fatalf("component size = %d, want 2", len(component))
	}

	// Dropping a's external handle is the last external share anywhere in
	// the component: the Drop Coordinator re-runs the oracle on this
	// decrement even though it leaves a's own strong count at 1 (still
	// held by b's Next clone), finds the pair orphaned, and collects both.
	a.Drop()
	if len(drops) != 2 {
		t.Fatalf("drops = %v, want exactly one drop of each of a and b", drops)
	}
}

func TestOracleVisitsEachNodeAtMostOnce(t *testing.T) {
	// Build a 5-node ring and confirm the component the oracle reports
	// has exactly 5 members, never revisiting a node through both its
	// forward and backward edge.
	var drops []string
	const n = 5
	nodes := make([]Strong[ringLink], n)
	for i := range nodes {
		nodes[i] = New(ringLink{Name: string(rune('a' + i)), Drops: &drops})
	}
	for i := range nodes {
		next := nodes[(i+1)%n]
		nodes[i].Deref().setNext(next.Clone())
		Adopt(nodes[i], next)
	}

	component, _ := nodes[0].OrphanedComponent()
	if len(component) != n {
		t.Fatalf("component size = %d, want %d", len(component), n)
	}

	for i := range nodes {
		nodes[i].Drop()
	}
}
