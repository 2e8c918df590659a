package tskit

// node is the store's internal representation of one row of the node
// table, plus the name bytes sliced out of the name pool at load time.
type node struct {
	Time       float64
	Population PopulationId
	Flags      Flags
	Name       []byte
}

// IsSample reports whether the node carries the IsSample flag.
func (n node) IsSample() bool { return n.Flags&IsSample != 0 }

// edge is the store's internal representation of one edgeset row, with
// Children already sliced out of the children pool.
type edge struct {
	Left, Right float64
	Parent      NodeId
	Children    []NodeId
}

// site is the store's internal representation of one site row, plus the
// slice of mutation ids (in table order) assigned to it.
type site struct {
	Position       float64
	AncestralState []byte
	Mutations      []MutationId
}

// mutation is the store's internal representation of one mutation row.
type mutation struct {
	Site          SiteId
	Node          NodeId
	DerivedState  []byte
}

// migration is the store's internal representation of one migration row.
type migration struct {
	Left, Right  float64
	Node         NodeId
	Source, Dest PopulationId
	Time         float64
}

// treeSpan is the half-open genomic interval of one local tree together
// with the contiguous run of sites (by index into TreeSequence.sites)
// that fall inside it.
type treeSpan struct {
	Left, Right     float64
	SitesStart, SitesEnd int
}

// TreeSequence is the validated, immutable succinct representation built
// by [LoadFromTables]. All exported accessors hand out borrowed views into
// the store's arrays; the views' lifetime is bounded by the TreeSequence
// value that produced them.
type TreeSequence struct {
	sequenceLength float64
	alphabet       Alphabet

	nodes []node
	edges []edge
	sites []site
	muts  []mutation
	migs  []migration

	provenance [][]byte

	samples        []NodeId // dense sample index -> NodeId
	sampleIndexMap []int32  // NodeId -> dense sample index, or -1

	insertionOrder []int32 // permutation of [0,len(edges))
	removalOrder   []int32

	spans []treeSpan // one per local tree, len == NumTrees()
}

// NumNodes reports the number of rows in the node table.
func (ts *TreeSequence) NumNodes() int { return len(ts.nodes) }

// NumEdgesets reports the number of rows in the edgeset table.
func (ts *TreeSequence) NumEdgesets() int { return len(ts.edges) }

// NumSites reports the number of rows in the site table.
func (ts *TreeSequence) NumSites() int { return len(ts.sites) }

// NumMutations reports the number of rows in the mutation table.
func (ts *TreeSequence) NumMutations() int { return len(ts.muts) }

// NumMigrations reports the number of rows in the migration table.
func (ts *TreeSequence) NumMigrations() int { return len(ts.migs) }

// NumTrees reports the number of local trees tiling [0, SequenceLength).
func (ts *TreeSequence) NumTrees() int { return len(ts.spans) }

// SequenceLength reports L, the maximum right coordinate over all edges
// (0 if the edgeset table is empty).
func (ts *TreeSequence) SequenceLength() float64 { return ts.sequenceLength }

// Alphabet reports whether every site/mutation state is binary.
func (ts *TreeSequence) Alphabet() Alphabet { return ts.alphabet }

// SampleSize reports the number of samples.
func (ts *TreeSequence) SampleSize() int { return len(ts.samples) }

// Samples returns the borrowed dense sample-index -> NodeId array.
func (ts *TreeSequence) Samples() []NodeId { return ts.samples }

// SampleIndexMap returns the borrowed NodeId -> dense sample index array;
// entries for non-sample nodes hold Null.
func (ts *TreeSequence) SampleIndexMap() []int32 { return ts.sampleIndexMap }

// NodeView is the borrowed-view accessor type returned by GetNode.
type NodeView struct {
	Time       float64
	Population PopulationId
	Flags      Flags
	Name       []byte
}

// GetNode returns a borrowed view of node u. Panics-via-error on an
// out-of-bounds id: this is always a caller bug per §7.
func (ts *TreeSequence) GetNode(u NodeId) (NodeView, error) {
	if int(u) < 0 || int(u) >= len(ts.nodes) {
		return NodeView{}, newErr(CodeNodeOutOfBounds, "nodes", int(u), "node id out of bounds")
	}
	n := ts.nodes[u]
	return NodeView{Time: n.Time, Population: n.Population, Flags: n.Flags, Name: n.Name}, nil
}

// EdgesetView is the borrowed-view accessor type returned by GetEdgeset.
type EdgesetView struct {
	Left, Right float64
	Parent      NodeId
	Children    []NodeId
}

// GetEdgeset returns a borrowed view of edgeset e.
func (ts *TreeSequence) GetEdgeset(e int) (EdgesetView, error) {
	if e < 0 || e >= len(ts.edges) {
		return EdgesetView{}, newErr(CodeOutOfBounds, "edgesets", e, "edgeset index out of bounds")
	}
	x := ts.edges[e]
	return EdgesetView{Left: x.Left, Right: x.Right, Parent: x.Parent, Children: x.Children}, nil
}

// SiteView is the borrowed-view accessor type returned by GetSite.
type SiteView struct {
	Position       float64
	AncestralState []byte
	Mutations      []MutationId
}

// GetSite returns a borrowed view of site s.
func (ts *TreeSequence) GetSite(s SiteId) (SiteView, error) {
	if int(s) < 0 || int(s) >= len(ts.sites) {
		return SiteView{}, newErr(CodeSiteOutOfBounds, "sites", int(s), "site id out of bounds")
	}
	x := ts.sites[s]
	return SiteView{Position: x.Position, AncestralState: x.AncestralState, Mutations: x.Mutations}, nil
}

// MutationView is the borrowed-view accessor type returned by GetMutation.
type MutationView struct {
	Site         SiteId
	Node         NodeId
	DerivedState []byte
}

// GetMutation returns a borrowed view of mutation m.
func (ts *TreeSequence) GetMutation(m MutationId) (MutationView, error) {
	if int(m) < 0 || int(m) >= len(ts.muts) {
		return MutationView{}, newErr(CodeOutOfBounds, "mutations", int(m), "mutation id out of bounds")
	}
	x := ts.muts[m]
	return MutationView{Site: x.Site, Node: x.Node, DerivedState: x.DerivedState}, nil
}

// MigrationView is the borrowed-view accessor type returned by GetMigration.
type MigrationView struct {
	Left, Right  float64
	Node         NodeId
	Source, Dest PopulationId
	Time         float64
}

// GetMigration returns a borrowed view of migration m.
func (ts *TreeSequence) GetMigration(m int) (MigrationView, error) {
	if m < 0 || m >= len(ts.migs) {
		return MigrationView{}, newErr(CodeOutOfBounds, "migrations", m, "migration index out of bounds")
	}
	x := ts.migs[m]
	return MigrationView{Left: x.Left, Right: x.Right, Node: x.Node, Source: x.Source, Dest: x.Dest, Time: x.Time}, nil
}

// Provenance returns the borrowed bytes of provenance record i.
func (ts *TreeSequence) Provenance(i int) []byte { return ts.provenance[i] }

// NumProvenance reports the number of provenance records.
func (ts *TreeSequence) NumProvenance() int { return len(ts.provenance) }

// LoadFromTables validates tc and builds the immutable succinct store.
// Every validator failure is fatal: there is no partial load (§7).
func LoadFromTables(tc *TableCollection) (*TreeSequence, error) {
	if tc == nil {
		return nil, newErr(CodeBadParamValue, "", -1, "nil table collection")
	}

	ts := &TreeSequence{}

	if err := ts.initNodes(tc); err != nil {
		return nil, err
	}
	if err := ts.initEdgesets(tc); err != nil {
		return nil, err
	}
	if err := ts.buildIndexes(); err != nil {
		return nil, err
	}
	if err := ts.initSitesAndMutations(tc); err != nil {
		return nil, err
	}
	if err := ts.buildTreeSpans(); err != nil {
		return nil, err
	}
	ts.copyMigrations(tc)
	ts.copyProvenance(tc)

	if err := validate(ts); err != nil {
		return nil, err
	}

	return ts, nil
}

// initNodes counts samples and builds the dense sample index, per §4.2.3.
func (ts *TreeSequence) initNodes(tc *TableCollection) error {
	n := tc.Nodes.NumRows()
	ts.nodes = make([]node, n)

	numSamples := 0
	for i := 0; i < n; i++ {
		f := tc.Nodes.Flags[i]
		ts.nodes[i] = node{
			Time:       tc.Nodes.Time[i],
			Population: tc.Nodes.Population[i],
			Flags:      f,
			Name:       tc.Nodes.Name(i),
		}
		if f&IsSample != 0 {
			numSamples++
		}
	}

	if n > 0 && numSamples < 2 {
		return newErr(CodeInsufficientSamples, "nodes", -1, "need at least 2 sample nodes, have %d", numSamples)
	}

	ts.samples = make([]NodeId, 0, numSamples)
	ts.sampleIndexMap = make([]int32, n)
	for i := range ts.sampleIndexMap {
		ts.sampleIndexMap[i] = Null
	}
	for i := 0; i < n; i++ {
		if ts.nodes[i].IsSample() {
			ts.sampleIndexMap[i] = int32(len(ts.samples))
			ts.samples = append(ts.samples, NodeId(i))
		}
	}
	return nil
}

// initEdgesets computes L and slices out each edge's children, per §4.2.4.
func (ts *TreeSequence) initEdgesets(tc *TableCollection) error {
	m := tc.Edgesets.NumRows()
	ts.edges = make([]edge, m)

	var length float64
	for i := 0; i < m; i++ {
		parent := tc.Edgesets.Parent[i]
		if int(parent) >= 0 && int(parent) < len(ts.nodes) && ts.nodes[parent].IsSample() {
			return newErr(CodeNodeSampleInternal, "edgesets", i, "sample node %d used as parent", parent)
		}
		ts.edges[i] = edge{
			Left:     tc.Edgesets.Left[i],
			Right:    tc.Edgesets.Right[i],
			Parent:   parent,
			Children: tc.Edgesets.Children(i),
		}
		if r := ts.edges[i].Right; r > length {
			length = r
		}
	}
	ts.sequenceLength = length
	return nil
}

// initSitesAndMutations assigns mutations to sites by a single ordered
// scan and classifies the alphabet, per §4.2.6.
func (ts *TreeSequence) initSitesAndMutations(tc *TableCollection) error {
	numSites := tc.Sites.NumRows()
	ts.sites = make([]site, numSites)
	for i := 0; i < numSites; i++ {
		ts.sites[i] = site{
			Position:       tc.Sites.Position[i],
			AncestralState: tc.Sites.AncestralState(i),
		}
	}

	numMuts := tc.Mutations.NumRows()
	ts.muts = make([]mutation, numMuts)
	binary := true
	for i := 0; i < numMuts; i++ {
		s := tc.Mutations.Site[i]
		ts.muts[i] = mutation{
			Site:         s,
			Node:         tc.Mutations.Node[i],
			DerivedState: tc.Mutations.DerivedState(i),
		}
		if int(s) >= 0 && int(s) < numSites {
			ts.sites[s].Mutations = append(ts.sites[s].Mutations, MutationId(i))
		}
		if !isBinaryDerived(ts.muts[i].DerivedState) {
			binary = false
		}
	}
	for i := range ts.sites {
		if !isBinaryAncestral(ts.sites[i].AncestralState) {
			binary = false
		}
	}
	if numSites == 0 {
		binary = false
	}

	if binary {
		ts.alphabet = AlphabetBinary
	} else {
		ts.alphabet = AlphabetASCII
	}
	return nil
}

func isBinaryAncestral(s []byte) bool { return len(s) == 1 && s[0] == '0' }
func isBinaryDerived(s []byte) bool   { return len(s) == 1 && (s[0] == '0' || s[0] == '1') }

func (ts *TreeSequence) copyMigrations(tc *TableCollection) {
	m := tc.Migrations.NumRows()
	ts.migs = make([]migration, m)
	for i := 0; i < m; i++ {
		ts.migs[i] = migration{
			Left:   tc.Migrations.Left[i],
			Right:  tc.Migrations.Right[i],
			Node:   tc.Migrations.Node[i],
			Source: tc.Migrations.Source[i],
			Dest:   tc.Migrations.Dest[i],
			Time:   tc.Migrations.Time[i],
		}
	}
}

func (ts *TreeSequence) copyProvenance(tc *TableCollection) {
	n := tc.Provenance.NumRows()
	ts.provenance = make([][]byte, n)
	for i := 0; i < n; i++ {
		ts.provenance[i] = tc.Provenance.Record(i)
	}
}

// DumpToTables materialises ts back into a fresh TableCollection, in the
// original row order for every table. load_from_tables(dump_to_tables(ts))
// reproduces ts up to the canonical ordering established at load (§8).
func (ts *TreeSequence) DumpToTables() *TableCollection {
	tc := &TableCollection{}

	for i := range ts.nodes {
		n := ts.nodes[i]
		tc.Nodes.AddRow(n.Time, n.Population, n.Flags, n.Name)
	}
	for i := range ts.edges {
		e := ts.edges[i]
		tc.Edgesets.AddRow(e.Left, e.Right, e.Parent, e.Children)
	}
	for i := range ts.sites {
		s := ts.sites[i]
		tc.Sites.AddRow(s.Position, s.AncestralState)
	}
	for i := range ts.muts {
		m := ts.muts[i]
		tc.Mutations.AddRow(m.Site, m.Node, m.DerivedState)
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
