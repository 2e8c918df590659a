// Package bytepool implements the flattened variable-length byte column
// used by every table buffer: a single contiguous byte slice plus a
// per-row length, with no delimiter bytes wasted between rows.
package bytepool

import "fmt"

// Pool is an append-only flattened byte column. Row i's bytes are
// data[offset(i):offset(i)+lengths[i]].
type Pool struct {
	data    []byte
	lengths []int
	offsets []int
}

// Add appends one row and returns its row index.
func (p *Pool) Add(b []byte) int {
	p.offsets = append(p.offsets, len(p.data))
	p.data = append(p.data, b...)
	p.lengths = append(p.lengths, len(b))
	return len(p.lengths) - 1
}

// Reset empties the pool without releasing its capacity.
func (p *Pool) Reset() {
	p.data = p.data[:0]
	p.lengths = p.lengths[:0]
	p.offsets = p.offsets[:0]
}

// Len reports the number of rows.
func (p *Pool) Len() int { return len(p.lengths) }

// TotalLength reports Σ length[i], the invariant every flattened column
// must satisfy against its companion length column on ingestion.
func (p *Pool) TotalLength() int { return len(p.data) }

// Row returns a borrowed view of row i's bytes. The view aliases the
// pool's backing array and must not be mutated or retained past the
// pool's lifetime.
func (p *Pool) Row(i int) []byte {
	off := p.offsets[i]
	return p.data[off : off+p.lengths[i]]
}

// Unflatten expands the raw data+lengths columns (as read back from a
// columnar store, where only the flattened bytes and the length array
// survive) into a Pool with O(1) Row lookups, by precomputing offsets.
func Unflatten(data []byte, lengths []int) (*Pool, error) {
	want := 0
	for _, l := range lengths {
		if l < 0 {
			return nil, fmt.Errorf("bytepool: negative length %d", l)
		}
		want += l
	}
	if want != len(data) {
		return nil, fmt.Errorf("bytepool: length mismatch: Σlength=%d, data=%d", want, len(data))
	}

	p := &Pool{data: data, lengths: lengths, offsets: make([]int, len(lengths))}
	off := 0
	for i, l := range lengths {
		p.offsets[i] = off
		off += l
	}
	return p, nil
}
