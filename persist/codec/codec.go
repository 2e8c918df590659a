// Package codec is the reference in-memory implementation of
// persist.ColumnStore: an HDF5-shaped container (nested groups, scalar
// attributes, one chunk per dataset) held entirely in memory, with
// Fletcher32 checksums, optional zlib level 9 compression, and an
// optional siphash-keyed integrity mode.
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zlib"

	"github.com/gaissmai/tskit/persist"
)

type storedDataset struct {
	kind       persist.Kind
	payload    []byte // zlib-compressed if compressed is true
	compressed bool
	lengths    []int
	checksum   uint32
	siphashSum uint64
	hasSiphash bool
}

type group struct {
	attrs    map[string]any
	datasets map[string]storedDataset
}

// Store is an in-memory persist.ColumnStore, suitable for round-trip
// testing without a filesystem dependency.
type Store struct {
	groups     map[string]*group
	compress   bool
	siphashKey [16]byte
	useSiphash bool
	runID      uuid.UUID
}

// Option configures a new Store.
type Option func(*Store)

// WithCompression enables zlib level 9 compression of dataset payloads.
// Integer datasets are not scale-offset encoded.
func WithCompression(enabled bool) Option {
	return func(s *Store) { s.compress = enabled }
}

// WithSiphashIntegrity enables an additional siphash-2-4 keyed checksum
// alongside the mandatory Fletcher32, for a self-test mode that detects
// tampering as well as corruption.
func WithSiphashIntegrity(key [16]byte) Option {
	return func(s *Store) { s.useSiphash = true; s.siphashKey = key }
}

// New creates an empty Store, stamping its root group with a fresh run
// identifier attribute.
func New(opts ...Option) *Store {
	s := &Store{
		groups: map[string]*group{"/": {attrs: map[string]any{}, datasets: map[string]storedDataset{}}},
		runID:  uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.groups["/"].attrs["run_id"] = s.runID.String()
	return s
}

// RunID returns the run identifier stamped into the root group.
func (s *Store) RunID() uuid.UUID { return s.runID }

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimSuffix(path, "/")
	// the root path itself ("/") comes back as ""; callers map that
	// empty result back to "/".
}

func (s *Store) CreateGroup(path string) error {
	path = normalizePath(path)
	if path == "" {
		path = "/"
	}
	if _, ok := s.groups[path]; ok {
		return nil
	}

	parent := "/"
	if idx := strings.LastIndex(path, "/"); idx > 0 {
		parent = path[:idx]
	}
	if parent != path {
		if err := s.CreateGroup(parent); err != nil {
			return err
		}
	}
	s.groups[path] = &group{attrs: map[string]any{}, datasets: map[string]storedDataset{}}
	return nil
}

func (s *Store) group(path string) (*group, error) {
	path = normalizePath(path)
	if path == "" {
		path = "/"
	}
	g, ok := s.groups[path]
	if !ok {
		return nil, fmt.Errorf("codec: no such group %q", path)
	}
	return g, nil
}

func (s *Store) SetAttr(path, name string, value any) error {
	g, err := s.group(path)
	if err != nil {
		return err
	}
	g.attrs[name] = value
	return nil
}

func (s *Store) GetAttr(path, name string) (any, bool, error) {
	g, err := s.group(path)
	if err != nil {
		return nil, false, err
	}
	v, ok := g.attrs[name]
	return v, ok, nil
}

func (s *Store) WriteDataset(path, name string, ds persist.Dataset) error {
	g, err := s.group(path)
	if err != nil {
		return err
	}

	raw := encodeDataset(ds)
	sd := storedDataset{
		kind:     ds.Kind,
		lengths:  ds.Lengths,
		checksum: persist.Fletcher32(raw),
	}
	if s.useSiphash {
		sd.hasSiphash = true
		sd.siphashSum = siphash.Hash(
			binary.LittleEndian.Uint64(s.siphashKey[0:8]),
			binary.LittleEndian.Uint64(s.siphashKey[8:16]),
			raw,
		)
	}

	if s.compress {
		var buf bytes.Buffer
		w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if err != nil {
			return err
		}
		if _, err := w.Write(raw); err != nil {
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		sd.payload = buf.Bytes()
		sd.compressed = true
	} else {
		sd.payload = raw
	}

	g.datasets[name] = sd
	return nil
}

func (s *Store) ReadDataset(path, name string) (persist.Dataset, error) {
	g, err := s.group(path)
	if err != nil {
		return persist.Dataset{}, err
	}
	sd, ok := g.datasets[name]
	if !ok {
		return persist.Dataset{}, fmt.Errorf("codec: no such dataset %q/%q", path, name)
	}

	raw := sd.payload
	if sd.compressed {
		r, err := zlib.NewReader(bytes.NewReader(sd.payload))
		if err != nil {
			return persist.Dataset{}, err
		}
		decoded, err := io.ReadAll(r)
		if err != nil {
			return persist.Dataset{}, err
		}
		if err := r.Close(); err != nil {
			return persist.Dataset{}, err
		}
		raw = decoded
	}

	if persist.Fletcher32(raw) != sd.checksum {
		return persist.Dataset{}, persist.ErrChecksumMismatch
	}
	if sd.hasSiphash {
		sum := siphash.Hash(
			binary.LittleEndian.Uint64(s.siphashKey[0:8]),
			binary.LittleEndian.Uint64(s.siphashKey[8:16]),
			raw,
		)
		if sum != sd.siphashSum {
			return persist.Dataset{}, persist.ErrChecksumMismatch
		}
	}

	return decodeDataset(sd.kind, sd.lengths, raw)
}

func (s *Store) Close() error { return nil }

func encodeDataset(ds persist.Dataset) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(ds.Kind))

	switch ds.Kind {
	case persist.KindFloat64:
		writeUint32(&buf, uint32(len(ds.Float64)))
		for _, v := range ds.Float64 {
			writeUint64(&buf, math.Float64bits(v))
		}
	case persist.KindInt32:
		writeUint32(&buf, uint32(len(ds.Int32)))
		for _, v := range ds.Int32 {
			writeUint32(&buf, uint32(v))
		}
	case persist.KindBytes:
		writeUint32(&buf, uint32(len(ds.Lengths)))
		for _, l := range ds.Lengths {
			writeUint32(&buf, uint32(l))
		}
		writeUint32(&buf, uint32(len(ds.Bytes)))
		buf.Write(ds.Bytes)
	}
	return buf.Bytes()
}

func decodeDataset(kind persist.Kind, lengths []int, raw []byte) (persist.Dataset, error) {
	if len(raw) < 1 || persist.Kind(raw[0]) != kind {
		return persist.Dataset{}, fmt.Errorf("codec: corrupt dataset header")
	}
	r := bytes.NewReader(raw[1:])

	switch kind {
	case persist.KindFloat64:
		n, err := readUint32(r)
		if err != nil {
			return persist.Dataset{}, err
		}
		vals := make([]float64, n)
		for i := range vals {
			bits, err := readUint64(r)
			if err != nil {
				return persist.Dataset{}, err
			}
			vals[i] = math.Float64frombits(bits)
		}
		return persist.Dataset{Kind: kind, Float64: vals}, nil

	case persist.KindInt32:
		n, err := readUint32(r)
		if err != nil {
			return persist.Dataset{}, err
		}
		vals := make([]int32, n)
		for i := range vals {
			v, err := readUint32(r)
			if err != nil {
				return persist.Dataset{}, err
			}
			vals[i] = int32(v)
		}
		return persist.Dataset{Kind: kind, Int32: vals}, nil

	case persist.KindBytes:
		numLengths, err := readUint32(r)
		if err != nil {
			return persist.Dataset{}, err
		}
		lens := make([]int, numLengths)
		for i := range lens {
			l, err := readUint32(r)
			if err != nil {
				return persist.Dataset{}, err
			}
			lens[i] = int(l)
		}
		n, err := readUint32(r)
		if err != nil {
			return persist.Dataset{}, err
		}
		data := make([]byte, n)
		if _, err := io.ReadFull(r, data); err != nil {
			return persist.Dataset{}, err
		}
		return persist.Dataset{Kind: kind, Bytes: data, Lengths: lens}, nil
	}

	return persist.Dataset{}, fmt.Errorf("codec: unknown dataset kind %d", kind)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readUint64(r *bytes.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
