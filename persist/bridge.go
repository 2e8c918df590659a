package persist

import "github.com/gaissmai/tskit"

// DumpTableCollection writes the node, edgeset, site and mutation tables
// of tc into store as one group per table, exercising the read/write
// typed columnar array contract §6 describes the persistent container as
// satisfying. The migration table and the provenance records are not
// written.
func DumpTableCollection(tc *tskit.TableCollection, store ColumnStore) error {
	if err := store.CreateGroup("/nodes"); err != nil {
		return err
	}
	n := tc.Nodes.NumRows()
	times := make([]float64, n)
	pops := make([]int32, n)
	flags := make([]int32, n)
	var nameBytes []byte
	nameLens := make([]int, n)
	for i := 0; i < n; i++ {
		times[i] = tc.Nodes.Time[i]
		pops[i] = int32(tc.Nodes.Population[i])
		flags[i] = int32(tc.Nodes.Flags[i])
		name := tc.Nodes.Name(i)
		nameBytes = append(nameBytes, name...)
		nameLens[i] = len(name)
	}
	if err := store.WriteDataset("/nodes", "time", Dataset{Kind: KindFloat64, Float64: times}); err != nil {
		return err
	}
	if err := store.WriteDataset("/nodes", "population", Dataset{Kind: KindInt32, Int32: pops}); err != nil {
		return err
	}
	if err := store.WriteDataset("/nodes", "flags", Dataset{Kind: KindInt32, Int32: flags}); err != nil {
		return err
	}
	if err := store.WriteDataset("/nodes", "name", Dataset{Kind: KindBytes, Bytes: nameBytes, Lengths: nameLens}); err != nil {
		return err
	}
	if err := store.SetAttr("/nodes", "num_rows", n); err != nil {
		return err
	}

	if err := store.CreateGroup("/edgesets"); err != nil {
		return err
	}
	m := tc.Edgesets.NumRows()
	left := make([]float64, m)
	right := make([]float64, m)
	parent := make([]int32, m)
	var childBytes []byte
	childLens := make([]int, m)
	for i := 0; i < m; i++ {
		left[i] = tc.Edgesets.Left[i]
		right[i] = tc.Edgesets.Right[i]
		parent[i] = int32(tc.Edgesets.Parent[i])
		children := tc.Edgesets.Children(i)
		enc := encodeNodeIdsLE(children)
		childBytes = append(childBytes, enc...)
		childLens[i] = len(enc)
	}
	if err := store.WriteDataset("/edgesets", "left", Dataset{Kind: KindFloat64, Float64: left}); err != nil {
		return err
	}
	if err := store.WriteDataset("/edgesets", "right", Dataset{Kind: KindFloat64, Float64: right}); err != nil {
		return err
	}
	if err := store.WriteDataset("/edgesets", "parent", Dataset{Kind: KindInt32, Int32: parent}); err != nil {
		return err
	}
	if err := store.WriteDataset("/edgesets", "children", Dataset{Kind: KindBytes, Bytes: childBytes, Lengths: childLens}); err != nil {
		return err
	}

	if err := store.CreateGroup("/sites"); err != nil {
		return err
	}
	numSites := tc.Sites.NumRows()
	positions := make([]float64, numSites)
	var ancestralBytes []byte
	ancestralLens := make([]int, numSites)
	for i := 0; i < numSites; i++ {
		positions[i] = tc.Sites.Position[i]
		s := tc.Sites.AncestralState(i)
		ancestralBytes = append(ancestralBytes, s...)
		ancestralLens[i] = len(s)
	}
	if err := store.WriteDataset("/sites", "position", Dataset{Kind: KindFloat64, Float64: positions}); err != nil {
		return err
	}
	if err := store.WriteDataset("/sites", "ancestral_state", Dataset{Kind: KindBytes, Bytes: ancestralBytes, Lengths: ancestralLens}); err != nil {
		return err
	}

	if err := store.CreateGroup("/mutations"); err != nil {
		return err
	}
	numMuts := tc.Mutations.NumRows()
	siteCol := make([]int32, numMuts)
	nodeCol := make([]int32, numMuts)
	var derivedBytes []byte
	derivedLens := make([]int, numMuts)
	for i := 0; i < numMuts; i++ {
		siteCol[i] = int32(tc.Mutations.Site[i])
		nodeCol[i] = int32(tc.Mutations.Node[i])
		d := tc.Mutations.DerivedState(i)
		derivedBytes = append(derivedBytes, d...)
		derivedLens[i] = len(d)
	}
	if err := store.WriteDataset("/mutations", "site", Dataset{Kind: KindInt32, Int32: siteCol}); err != nil {
		return err
	}
	if err := store.WriteDataset("/mutations", "node", Dataset{Kind: KindInt32, Int32: nodeCol}); err != nil {
		return err
	}
	if err := store.WriteDataset("/mutations", "derived_state", Dataset{Kind: KindBytes, Bytes: derivedBytes, Lengths: derivedLens}); err != nil {
		return err
	}

	return nil
}

// LoadTableCollection reads back a TableCollection written by
// DumpTableCollection.
func LoadTableCollection(store ColumnStore) (*tskit.TableCollection, error) {
	tc := &tskit.TableCollection{}

	times, err := store.ReadDataset("/nodes", "time")
	if err != nil {
		return nil, err
	}
	pops, err := store.ReadDataset("/nodes", "population")
	if err != nil {
		return nil, err
	}
	flags, err := store.ReadDataset("/nodes", "flags")
	if err != nil {
		return nil, err
	}
	names, err := store.ReadDataset("/nodes", "name")
	if err != nil {
		return nil, err
	}
	off := 0
	for i := range times.Float64 {
		l := names.Lengths[i]
		tc.Nodes.AddRow(times.Float64[i], tskit.PopulationId(pops.Int32[i]), tskit.Flags(flags.Int32[i]), names.Bytes[off:off+l])
		off += l
	}

	lefts, err := store.ReadDataset("/edgesets", "left")
	if err != nil {
		return nil, err
	}
	rights, err := store.ReadDataset("/edgesets", "right")
	if err != nil {
		return nil, err
	}
	parents, err := store.ReadDataset("/edgesets", "parent")
	if err != nil {
		return nil, err
	}
	childrenCol, err := store.ReadDataset("/edgesets", "children")
	if err != nil {
		return nil, err
	}
	off = 0
	for i := range lefts.Float64 {
		l := childrenCol.Lengths[i]
		children := decodeNodeIdsLE(childrenCol.Bytes[off : off+l])
		tc.Edgesets.AddRow(lefts.Float64[i], rights.Float64[i], tskit.NodeId(parents.Int32[i]), children)
		off += l
	}

	positions, err := store.ReadDataset("/sites", "position")
	if err != nil {
		return nil, err
	}
	ancestral, err := store.ReadDataset("/sites", "ancestral_state")
	if err != nil {
		return nil, err
	}
	off = 0
	for i := range positions.Float64 {
		l := ancestral.Lengths[i]
		tc.Sites.AddRow(positions.Float64[i], ancestral.Bytes[off:off+l])
		off += l
	}

	siteCol, err := store.ReadDataset("/mutations", "site")
	if err != nil {
		return nil, err
	}
	nodeCol, err := store.ReadDataset("/mutations", "node")
	if err != nil {
		return nil, err
	}
	derived, err := store.ReadDataset("/mutations", "derived_state")
	if err != nil {
		return nil, err
	}
	off = 0
	for i := range siteCol.Int32 {
		l := derived.Lengths[i]
		tc.Mutations.AddRow(tskit.SiteId(siteCol.Int32[i]), tskit.NodeId(nodeCol.Int32[i]), derived.Bytes[off:off+l])
		off += l
	}

	return tc, nil
}

func encodeNodeIdsLE(ids []tskit.NodeId) []byte {
	b := make([]byte, 4*len(ids))
	for i, id := range ids {
		v := uint32(int32(id))
		b[4*i] = byte(v)
		b[4*i+1] = byte(v >> 8)
		b[4*i+2] = byte(v >> 16)
		b[4*i+3] = byte(v >> 24)
	}
	return b
}

func decodeNodeIdsLE(b []byte) []tskit.NodeId {
	n := len(b) / 4
	ids := make([]tskit.NodeId, n)
	for i := range ids {
		v := uint32(b[4*i]) | uint32(b[4*i+1])<<8 | uint32(b[4*i+2])<<16 | uint32(b[4*i+3])<<24
		ids[i] = tskit.NodeId(int32(v))
	}
	return ids
}
