package tskit

import "github.com/gaissmai/tskit/internal/bytepool"

// NodeTable is an append-only builder for node rows. It performs no
// validation; a row is only syntactically well-formed once appended.
type NodeTable struct {
	Time       []float64
	Population []PopulationId
	Flags      []Flags
	name       bytepool.Pool
}

// AddRow appends one node and returns its NodeId.
func (t *NodeTable) AddRow(time float64, population PopulationId, flags Flags, name []byte) NodeId {
	t.Time = append(t.Time, time)
	t.Population = append(t.Population, population)
	t.Flags = append(t.Flags, flags)
	t.name.Add(name)
	return NodeId(len(t.Time) - 1)
}

// NumRows reports the number of appended nodes.
func (t *NodeTable) NumRows() int { return len(t.Time) }

// Name returns the borrowed name bytes for row i.
func (t *NodeTable) Name(i int) []byte { return t.name.Row(i) }

// Reset empties the table without releasing its capacity.
func (t *NodeTable) Reset() {
	t.Time = t.Time[:0]
	t.Population = t.Population[:0]
	t.Flags = t.Flags[:0]
	t.name.Reset()
}

// EdgesetTable is an append-only builder for edgeset rows. Children are
// flattened into a single byte pool (4 bytes per NodeId, little endian) so
// that the table has a uniform "flattened byte column + length" shape like
// every other variable-length column, per §4.1.
type EdgesetTable struct {
	Left, Right []float64
	Parent      []NodeId
	children    bytepool.Pool
}

// AddRow appends one edgeset row. children must already be sorted strictly
// ascending; the table itself performs no validation.
func (t *EdgesetTable) AddRow(left, right float64, parent NodeId, children []NodeId) int {
	t.Left = append(t.Left, left)
	t.Right = append(t.Right, right)
	t.Parent = append(t.Parent, parent)
	t.children.Add(encodeNodeIds(children))
	return len(t.Left) - 1
}

// Children returns the children of row i as a freshly decoded slice.
func (t *EdgesetTable) Children(i int) []NodeId {
	return decodeNodeIds(t.children.Row(i))
}

// NumRows reports the number of appended edgesets.
func (t *EdgesetTable) NumRows() int { return len(t.Left) }

// Reset empties the table without releasing its capacity.
func (t *EdgesetTable) Reset() {
	t.Left = t.Left[:0]
	t.Right = t.Right[:0]
	t.Parent = t.Parent[:0]
	t.children.Reset()
}

func encodeNodeIds(ids []NodeId) []byte {
	b := make([]byte, 4*len(ids))
	for i, id := range ids {
		putU32(b[4*i:], uint32(int32(id)))
	}
	return b
}

func decodeNodeIds(b []byte) []NodeId {
	n := len(b) / 4
	ids := make([]NodeId, n)
	for i := range ids {
		ids[i] = NodeId(int32(getU32(b[4*i:])))
	}
	return ids
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// SiteTable is an append-only builder for site rows.
type SiteTable struct {
	Position       []float64
	ancestralState bytepool.Pool
}

// AddRow appends one site row and returns its SiteId.
func (t *SiteTable) AddRow(position float64, ancestralState []byte) SiteId {
	t.Position = append(t.Position, position)
	t.ancestralState.Add(ancestralState)
	return SiteId(len(t.Position) - 1)
}

// AncestralState returns the borrowed ancestral-state bytes for row i.
func (t *SiteTable) AncestralState(i int) []byte { return t.ancestralState.Row(i) }

// NumRows reports the number of appended sites.
func (t *SiteTable) NumRows() int { return len(t.Position) }

// Reset empties the table without releasing its capacity.
func (t *SiteTable) Reset() {
	t.Position = t.Position[:0]
	t.ancestralState.Reset()
}

// MutationTable is an append-only builder for mutation rows.
type MutationTable struct {
	Site         []SiteId
	Node         []NodeId
	derivedState bytepool.Pool
}

// AddRow appends one mutation row and returns its MutationId.
func (t *MutationTable) AddRow(site SiteId, node NodeId, derivedState []byte) MutationId {
	t.Site = append(t.Site, site)
	t.Node = append(t.Node, node)
	t.derivedState.Add(derivedState)
	return MutationId(len(t.Site) - 1)
}

// DerivedState returns the borrowed derived-state bytes for row i.
func (t *MutationTable) DerivedState(i int) []byte { return t.derivedState.Row(i) }

// NumRows reports the number of appended mutations.
func (t *MutationTable) NumRows() int { return len(t.Site) }

// Reset empties the table without releasing its capacity.
func (t *MutationTable) Reset() {
	t.Site = t.Site[:0]
	t.Node = t.Node[:0]
	t.derivedState.Reset()
}

// MigrationTable is an append-only builder for migration rows. Migrations
// are opaque to the tree-iteration core; the table exists only to round
// trip them through load/dump.
type MigrationTable struct {
	Left, Right           []float64
	Node                  []NodeId
	Source, Dest          []PopulationId
	Time                  []float64
}

// AddRow appends one migration row.
func (t *MigrationTable) AddRow(left, right float64, node NodeId, source, dest PopulationId, time float64) int {
	t.Left = append(t.Left, left)
	t.Right = append(t.Right, right)
	t.Node = append(t.Node, node)
	t.Source = append(t.Source, source)
	t.Dest = append(t.Dest, dest)
	t.Time = append(t.Time, time)
	return len(t.Left) - 1
}

// NumRows reports the number of appended migrations.
func (t *MigrationTable) NumRows() int { return len(t.Left) }

// Reset empties the table without releasing its capacity.
func (t *MigrationTable) Reset() {
	t.Left = t.Left[:0]
	t.Right = t.Right[:0]
	t.Node = t.Node[:0]
	t.Source = t.Source[:0]
	t.Dest = t.Dest[:0]
	t.Time = t.Time[:0]
}

// Provenance is an append-only ordered sequence of opaque byte strings.
type Provenance struct {
	pool bytepool.Pool
}

// Add appends one provenance record.
func (p *Provenance) Add(record []byte) int { return p.pool.Add(record) }

// Record returns the borrowed bytes of record i.
func (p *Provenance) Record(i int) []byte { return p.pool.Row(i) }

// NumRows reports the number of provenance records.
func (p *Provenance) NumRows() int { return p.pool.Len() }

// Reset empties the provenance log without releasing its capacity.
func (p *Provenance) Reset() { p.pool.Reset() }

// TableCollection bundles the four required tables plus the optional
// migration table and provenance log; it is the sole input to
// [LoadFromTables].
type TableCollection struct {
	Nodes      NodeTable
	Edgesets   EdgesetTable
	Sites      SiteTable
	Mutations  MutationTable
	Migrations MigrationTable
	Provenance Provenance
}
