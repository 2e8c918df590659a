package tskit

import "sort"

// SimplifyOptions configures [Simplify].
type SimplifyOptions struct {
	// FilterInvariantSites drops any site left with no surviving
	// mutation after simplification, renumbering site references.
	FilterInvariantSites bool
}

// simplifyEdgeRow is a transient output edge before node-id compaction.
type simplifyEdgeRow struct {
	Left, Right float64
	Parent      NodeId // original node space
	Children    []NodeId
	Time        float64
}

type survivingMutation struct {
	Site         SiteId
	Node         NodeId // original node space
	DerivedState []byte
}

type foldedMutation struct {
	Site         SiteId
	DerivedState []byte
}

// simplifier carries the working state of one [Simplify] sweep: the
// original topology it is rebuilding via the same two index permutations
// used everywhere else, the lazily propagated mapping of original node to
// retained descendant-or-self, and the per-node active output record.
type simplifier struct {
	ts      *TreeSequence
	samples []NodeId
	opts    SimplifyOptions

	parent   []NodeId
	children [][]NodeId
	mapping  []NodeId

	wasVisited  []bool
	visitedList []NodeId

	active         []bool
	activeLeft     []float64
	activeChildren [][]NodeId

	edges     []simplifyEdgeRow
	surviving []survivingMutation
	folded    []foldedMutation
}

func newSimplifier(ts *TreeSequence, samples []NodeId, opts SimplifyOptions) *simplifier {
	n := ts.NumNodes()
	s := &simplifier{
		ts:             ts,
		samples:        samples,
		opts:           opts,
		parent:         make([]NodeId, n),
		children:       make([][]NodeId, n),
		mapping:        make([]NodeId, n),
		wasVisited:     make([]bool, n),
		active:         make([]bool, n),
		activeLeft:     make([]float64, n),
		activeChildren: make([][]NodeId, n),
	}
	for i := range s.parent {
		s.parent[i] = Null
		s.mapping[i] = Null
	}
	for _, u := range samples {
		s.mapping[u] = u
	}
	return s
}

func (s *simplifier) markVisited(u NodeId) {
	for v := u; v != Null && !s.wasVisited[v]; v = s.parent[v] {
		s.wasVisited[v] = true
		s.visitedList = append(s.visitedList, v)
	}
}

// recomputeMapping applies §4.6 step 3 for one visited node.
func (s *simplifier) recomputeMapping(u NodeId, closeAt float64) {
	seen := make(map[NodeId]bool)
	var kids []NodeId
	for _, c := range s.children[u] {
		mc := s.mapping[c]
		if mc == Null || seen[mc] {
			continue
		}
		seen[mc] = true
		kids = append(kids, mc)
	}
	sort.Slice(kids, func(i, j int) bool { return kids[i] < kids[j] })

	switch len(kids) {
	case 0:
		s.mapping[u] = Null
	case 1:
		s.mapping[u] = kids[0]
	default:
		s.mapping[u] = u
	}

	if equalNodeIds(kids, s.activeChildren[u]) {
		return
	}

	if s.active[u] {
		s.edges = append(s.edges, simplifyEdgeRow{
			Left:     s.activeLeft[u],
			Right:    closeAt,
			Parent:   u,
			Children: append([]NodeId(nil), s.activeChildren[u]...),
			Time:     s.ts.nodes[u].Time,
		})
		s.active[u] = false
	}

	if s.mapping[u] == u {
		s.activeChildren[u] = kids
		s.activeLeft[u] = closeAt
		s.active[u] = true
	} else {
		s.activeChildren[u] = nil
	}
}

func (s *simplifier) flush(right float64) {
	for u := 0; u < len(s.active); u++ {
		if !s.active[u] {
			continue
		}
		s.edges = append(s.edges, simplifyEdgeRow{
			Left:     s.activeLeft[u],
			Right:    right,
			Parent:   NodeId(u),
			Children: append([]NodeId(nil), s.activeChildren[u]...),
			Time:     s.ts.nodes[u].Time,
		})
		s.active[u] = false
	}
}

// processSites resolves every mutation at the sites in [start,end) against
// the current topology/mapping state, per §4.6 step 4.
func (s *simplifier) processSites(start, end int) {
	for i := start; i < end; i++ {
		site := s.ts.sites[i]
		for _, mid := range site.Mutations {
			mu := s.ts.muts[mid]
			if s.mapping[mu.Node] == Null {
				s.foldMutation(SiteId(i), mu.DerivedState)
				continue
			}
			v := mu.Node
			found := false
			for v != Null {
				if s.mapping[v] == v {
					found = true
					break
				}
				v = s.parent[v]
			}
			if found {
				s.surviving = append(s.surviving, survivingMutation{
					Site:         SiteId(i),
					Node:         s.mapping[mu.Node],
					DerivedState: mu.DerivedState,
				})
			} else {
				s.foldMutation(SiteId(i), mu.DerivedState)
			}
		}
	}
}

func (s *simplifier) foldMutation(site SiteId, derived []byte) {
	s.folded = append(s.folded, foldedMutation{Site: site, DerivedState: derived})
}

// run executes the single left-to-right sweep, reusing ts's own index
// permutations and per-tree site spans.
func (s *simplifier) run() {
	ts := s.ts
	removalIdx, insertionIdx := 0, 0

	if ts.NumTrees() == 0 {
		s.processSites(0, ts.NumSites())
		return
	}

	for treeIdx := 0; treeIdx < ts.NumTrees(); treeIdx++ {
		span := ts.spans[treeIdx]

		for removalIdx < len(ts.removalOrder) && ts.edges[ts.removalOrder[removalIdx]].Right == span.Left {
			k := ts.removalOrder[removalIdx]
			e := ts.edges[k]
			for _, c := range e.Children {
				s.parent[c] = Null
			}
			s.children[e.Parent] = nil
			s.markVisited(e.Parent)
			removalIdx++
		}
		for insertionIdx < len(ts.insertionOrder) && ts.edges[ts.insertionOrder[insertionIdx]].Left == span.Left {
			k := ts.insertionOrder[insertionIdx]
			e := ts.edges[k]
			for _, c := range e.Children {
				s.parent[c] = e.Parent
			}
			s.children[e.Parent] = e.Children
			s.markVisited(e.Parent)
			insertionIdx++
		}

		sort.Slice(s.visitedList, func(i, j int) bool { return s.visitedList[i] < s.visitedList[j] })
		for _, u := range s.visitedList {
			s.recomputeMapping(u, span.Left)
		}
		for _, u := range s.visitedList {
			s.wasVisited[u] = false
		}
		s.visitedList = s.visitedList[:0]

		s.processSites(span.SitesStart, span.SitesEnd)
	}

	s.flush(ts.sequenceLength)
}

// sortedEdges returns the output edges in the order the validator
// requires on reload: time asc, parent asc, left asc.
func (s *simplifier) sortedEdges() []simplifyEdgeRow {
	edges := s.edges
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Time != edges[j].Time {
			return edges[i].Time < edges[j].Time
		}
		if edges[i].Parent != edges[j].Parent {
			return edges[i].Parent < edges[j].Parent
		}
		return edges[i].Left < edges[j].Left
	})
	return edges
}

// compactNodeIds assigns samples 0..|samples| in input order, then walks
// the sorted edge list assigning fresh ids to every other referenced node
// in first-appearance order, per §4.6 post-processing.
func (s *simplifier) compactNodeIds(edges []simplifyEdgeRow) (map[NodeId]NodeId, int) {
	nodeMap := make(map[NodeId]NodeId, len(s.samples))
	next := NodeId(0)
	for _, u := range s.samples {
		nodeMap[u] = next
		next++
	}

	assign := func(u NodeId) {
		if _, ok := nodeMap[u]; !ok {
			nodeMap[u] = next
			next++
		}
	}
	for _, e := range edges {
		assign(e.Parent)
		for _, c := range e.Children {
			assign(c)
		}
	}
	return nodeMap, int(next)
}

// buildTables materialises the compacted node/edgeset/site/mutation tables
// that feed the final revalidating [LoadFromTables] call.
func (s *simplifier) buildTables(edges []simplifyEdgeRow, nodeMap map[NodeId]NodeId, numOutNodes int) *TableCollection {
	ts := s.ts
	tc := &TableCollection{}

	outOriginal := make([]NodeId, numOutNodes)
	for orig, out := range nodeMap {
		outOriginal[out] = orig
	}
	for i := 0; i < numOutNodes; i++ {
		orig := outOriginal[i]
		n := ts.nodes[orig]
		tc.Nodes.AddRow(n.Time, n.Population, n.Flags, n.Name)
	}

	for _, e := range edges {
		children := make([]NodeId, len(e.Children))
		for i, c := range e.Children {
			children[i] = nodeMap[c]
		}
		sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
		tc.Edgesets.AddRow(e.Left, e.Right, nodeMap[e.Parent], children)
	}

	survivingBySite := make(map[SiteId][]survivingMutation)
	for _, m := range s.surviving {
		survivingBySite[m.Site] = append(survivingBySite[m.Site], m)
	}
	foldedBySite := make(map[SiteId][]byte)
	for _, f := range s.folded {
		foldedBySite[f.Site] = f.DerivedState
	}

	for i := range ts.sites {
		site := SiteId(i)
		muts := survivingBySite[site]
		if s.opts.FilterInvariantSites && len(muts) == 0 {
			continue
		}
		ancestral := ts.sites[i].AncestralState
		if folded, ok := foldedBySite[site]; ok && len(muts) == 0 {
			ancestral = folded
		}
		newSite := tc.Sites.AddRow(ts.sites[i].Position, ancestral)
		for _, m := range muts {
			tc.Mutations.AddRow(newSite, nodeMap[m.Node], m.DerivedState)
		}
	}

	for i := range ts.migs {
		m := ts.migs[i]
		tc.Migrations.AddRow(m.Left, m.Right, m.Node, m.Source, m.Dest, m.Time)
	}
	for i := range ts.provenance {
		tc.Provenance.Add(ts.provenance[i])
	}

	return tc
}

// Simplify projects ts onto exactly the genealogy of samples, per §4.6.
// The returned store is freshly built and fully revalidated; samples
// occupy node ids 0..len(samples) in the order given.
func Simplify(ts *TreeSequence, samples []NodeId, opts SimplifyOptions) (*TreeSequence, error) {
	if ts == nil {
		return nil, newErr(CodeBadParamValue, "", -1, "nil tree sequence")
	}
	if len(samples) < 2 {
		return nil, newErr(CodeBadParamValue, "", -1, "need at least 2 samples, have %d", len(samples))
	}

	seen := make(map[NodeId]bool, len(samples))
	for i, u := range samples {
		if int(u) < 0 || int(u) >= ts.NumNodes() {
			return nil, newErr(CodeOutOfBounds, "", i, "sample %d out of bounds", u)
		}
		if !ts.nodes[u].IsSample() {
			return nil, newErr(CodeBadSamples, "", i, "node %d is not a sample", u)
		}
		if seen[u] {
			return nil, newErr(CodeDuplicateSample, "", i, "duplicate sample %d", u)
		}
		seen[u] = true
	}

	s := newSimplifier(ts, samples, opts)
	s.run()

	edges := s.sortedEdges()
	if len(edges) == 0 && ts.NumEdgesets() > 0 {
		return nil, newErr(CodeCannotSimplify, "", -1, "no ancestry survived simplification")
	}

	nodeMap, numOutNodes := s.compactNodeIds(edges)
	tc := s.buildTables(edges, nodeMap, numOutNodes)

	return LoadFromTables(tc)
}
