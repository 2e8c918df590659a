package tskit

import "sort"

// buildIndexes produces insertion_order and removal_order, the pair of
// permutations of [0, NumEdgesets()) that make left-to-right and
// right-to-left sweeps O(edges), per §4.3.
//
// insertion_order sorts by (left asc, original position asc): original
// position is a stable proxy for event time, so ties at equal left
// resolve to the order the simulator produced them in, which is the
// event-time order.
//
// removal_order sorts by (right asc, original position desc): for equal
// right, newer edges leave first, so older edges persist longer across a
// breakpoint, reproducing reverse event-time order.
//
// Both tie-breaks are fully specified by the secondary key, so any sort
// algorithm (stable or not) produces the same result; this uses sort.Slice.
func (ts *TreeSequence) buildIndexes() error {
	m := len(ts.edges)

	ins := make([]int32, m)
	rem := make([]int32, m)
	for i := 0; i < m; i++ {
		ins[i] = int32(i)
		rem[i] = int32(i)
	}

	sort.Slice(ins, func(i, j int) bool {
		a, b := ins[i], ins[j]
		if ts.edges[a].Left != ts.edges[b].Left {
			return ts.edges[a].Left < ts.edges[b].Left
		}
		return a < b
	})

	sort.Slice(rem, func(i, j int) bool {
		a, b := rem[i], rem[j]
		if ts.edges[a].Right != ts.edges[b].Right {
			return ts.edges[a].Right < ts.edges[b].Right
		}
		return a > b
	})

	ts.insertionOrder = ins
	ts.removalOrder = rem
	return nil
}

// buildTreeSpans walks the edges in insertion order counting breakpoints
// to determine NumTrees, then assigns each tree the contiguous run of
// sites whose position falls in that tree's half-open interval, per
// §4.2.7. Every site belongs to exactly one tree.
func (ts *TreeSequence) buildTreeSpans() error {
	if len(ts.edges) == 0 {
		ts.spans = nil
		return nil
	}

	var spans []treeSpan
	insIdx, remIdx := 0, 0
	left := 0.0
	for remIdx < len(ts.removalOrder) {
		for remIdx < len(ts.removalOrder) && ts.edges[ts.removalOrder[remIdx]].Right == left {
			remIdx++
		}
		for insIdx < len(ts.insertionOrder) && ts.edges[ts.insertionOrder[insIdx]].Left == left {
			insIdx++
		}

		right := ts.sequenceLength
		if remIdx < len(ts.removalOrder) {
			right = ts.edges[ts.removalOrder[remIdx]].Right
		}

		if right == left {
			break
		}
		spans = append(spans, treeSpan{Left: left, Right: right})
		left = right
	}

	sitePos := 0
	for i := range spans {
		start := sitePos
		for sitePos < len(ts.sites) && ts.sites[sitePos].Position < spans[i].Right {
			sitePos++
		}
		spans[i].SitesStart = start
		spans[i].SitesEnd = sitePos
	}

	ts.spans = spans
	return nil
}
