package rc

// runOracle performs the Reachability Oracle's breadth-first traversal
// starting at start, over the union of forward and backward adoption
// edges, and classifies the resulting component.
//
// It returns the cycle candidate set as a map from each member to its
// owned_within count (the total multiplicity of forward edges from
// members of the component that target it, self-loops included), plus whether the component
// is orphaned: every member's strong count is exactly accounted for by
// ownership edges originating inside the component.
//
// The traversal uses a slice-backed queue and a map for the visited set,
// never recursion, so it runs in O(|nodes| + |links|) and does not
// overflow any stack regardless of how deep the graph is.
func runOracle(start node) (map[node]int, bool) {
	visited := map[node]bool{start: true}
	queue := []node{start}
	var component []node

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		component = append(component, n)

		lk := n.neighbors()
		if lk == nil {
			errDanglingControlBlock("component member has no adoption ledger")
		}
		for nb := range lk.forward {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
		for nb := range lk.backward {
			if !visited[nb] {
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
	}

	ownedWithin := make(map[node]int, len(component))
	for _, n := range component {
		ownedWithin[n] = 0
	}
	for _, n := range component {
		for target, multiplicity := range n.neighbors().forward {
			if _, inComponent := ownedWithin[target]; inComponent {
				ownedWithin[target] += multiplicity
			}
		}
	}

	orphaned := true
	for _, n := range component {
		if n.strongCount() != uint64(ownedWithin[n]) {
			orphaned = false
			break
		}
	}

	return ownedWithin, orphaned
}
