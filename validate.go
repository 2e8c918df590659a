package tskit

import "sort"

// validate enforces every structural invariant of §3 against an already
// loaded store, per §4.2a. It runs last in [LoadFromTables]'s pipeline,
// after indexing and per-tree site assignment; the breakpoint-tiling
// invariant is checked against the raw edge rows only, the built spans
// are not consulted.
func validate(ts *TreeSequence) error {
	if err := validateEdgesets(ts); err != nil {
		return err
	}
	if err := validateSites(ts); err != nil {
		return err
	}
	if err := validateMutations(ts); err != nil {
		return err
	}
	return nil
}

func validateEdgesets(ts *TreeSequence) error {
	n := len(ts.nodes)
	m := len(ts.edges)

	haveLeftZero := false
	rightSet := make(map[float64]bool, m+1)
	rightSet[ts.sequenceLength] = true

	var lastParentTime float64
	haveLast := false

	for i, e := range ts.edges {
		if e.Left >= e.Right {
			return newErr(CodeBadRecordInterval, "edgesets", i, "left %g >= right %g", e.Left, e.Right)
		}
		if e.Left == 0 {
			haveLeftZero = true
		}
		rightSet[e.Left] = true

		if int(e.Parent) == int(Null) {
			return newErr(CodeNullNodeInRecord, "edgesets", i, "parent is NULL")
		}
		if int(e.Parent) < 0 || int(e.Parent) >= n {
			return newErr(CodeNodeOutOfBounds, "edgesets", i, "parent %d out of bounds", e.Parent)
		}

		if len(e.Children) == 0 {
			return newErr(CodeZeroChildren, "edgesets", i, "edgeset has no children")
		}
		prev := NodeId(Null)
		for j, c := range e.Children {
			if int(c) == int(Null) {
				return newErr(CodeNullNodeInRecord, "edgesets", i, "child %d is NULL", j)
			}
			if int(c) < 0 || int(c) >= n {
				return newErr(CodeNodeOutOfBounds, "edgesets", i, "child %d out of bounds", c)
			}
			if j > 0 && c <= prev {
				return newErr(CodeUnsortedChildren, "edgesets", i, "children not strictly ascending")
			}
			prev = c
			if ts.nodes[c].Time >= ts.nodes[e.Parent].Time {
				return newErr(CodeBadNodeTimeOrdering, "edgesets", i, "child %d not younger than parent %d", c, e.Parent)
			}
		}

		pt := ts.nodes[e.Parent].Time
		if haveLast && pt < lastParentTime {
			return newErr(CodeRecordsNotTimeSorted, "edgesets", i, "parent time %g precedes previous %g", pt, lastParentTime)
		}
		lastParentTime = pt
		haveLast = true
	}

	if m > 0 && !haveLeftZero {
		return newErr(CodeBadEdgesetNoLeftAtZero, "edgesets", -1, "no edgeset has left == 0")
	}
	for i, e := range ts.edges {
		if !rightSet[e.Right] {
			return newErr(CodeBadEdgesetNonmatchingRight, "edgesets", i, "right %g matches no left coordinate or L", e.Right)
		}
	}
	return nil
}

func validateSites(ts *TreeSequence) error {
	var lastPos float64
	have := false
	for i, s := range ts.sites {
		if s.Position < 0 || s.Position >= ts.sequenceLength {
			return newErr(CodeBadSitePosition, "sites", i, "position %g outside [0, %g)", s.Position, ts.sequenceLength)
		}
		if have && !(s.Position > lastPos) {
			return newErr(CodeUnsortedSites, "sites", i, "position %g not strictly greater than previous %g", s.Position, lastPos)
		}
		lastPos = s.Position
		have = true

		if len(s.AncestralState) != 1 {
			return newErr(CodeBadAlphabet, "sites", i, "ancestral state length %d != 1", len(s.AncestralState))
		}
	}
	return nil
}

func validateMutations(ts *TreeSequence) error {
	numSites := len(ts.sites)
	numNodes := len(ts.nodes)

	if !sort.SliceIsSorted(ts.muts, func(i, j int) bool { return ts.muts[i].Site < ts.muts[j].Site }) {
		return newErr(CodeUnsortedMutations, "mutations", -1, "mutations not ordered by non-decreasing site")
	}

	for i, mu := range ts.muts {
		if int(mu.Site) < 0 || int(mu.Site) >= numSites {
			return newErr(CodeSiteOutOfBounds, "mutations", i, "site %d out of bounds", mu.Site)
		}
		if int(mu.Node) < 0 || int(mu.Node) >= numNodes {
			return newErr(CodeNodeOutOfBounds, "mutations", i, "node %d out of bounds", mu.Node)
		}
		if len(mu.DerivedState) != 1 {
			return newErr(CodeBadAlphabet, "mutations", i, "derived state length %d != 1", len(mu.DerivedState))
		}
	}
	return nil
}
