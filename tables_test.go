package tskit_test

import (
	"bytes"
	"testing"

	"github.com/gaissmai/tskit"
)

func TestNodeTableRoundTrip(t *testing.T) {
	var nt tskit.NodeTable
	a := nt.AddRow(1.5, 0, tskit.IsSample, []byte("alice"))
	b := nt.AddRow(2.5, 1, 0, []byte("bob"))

	if a != 0 || b != 1 {
		t.Fatalf("unexpected row ids: %d, %d", a, b)
	}
	if nt.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", nt.NumRows())
	}
	if !bytes.Equal(nt.Name(0), []byte("alice")) {
		t.Errorf("Name(0) = %q, want %q", nt.Name(0), "alice")
	}
	if !bytes.Equal(nt.Name(1), []byte("bob")) {
		t.Errorf("Name(1) = %q, want %q", nt.Name(1), "bob")
	}

	nt.Reset()
	if nt.NumRows() != 0 {
		t.Fatalf("NumRows after Reset = %d, want 0", nt.NumRows())
	}
}

func TestEdgesetTableChildren(t *testing.T) {
	var et tskit.EdgesetTable
	et.AddRow(0, 1, 4, []tskit.NodeId{0, 1, 2})
	et.AddRow(1, 2, 5, []tskit.NodeId{3})

	got := et.Children(0)
	want := []tskit.NodeId{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("Children(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Children(0)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
	if len(et.Children(1)) != 1 || et.Children(1)[0] != 3 {
		t.Errorf("Children(1) = %v, want [3]", et.Children(1))
	}
}

func TestSiteAndMutationTables(t *testing.T) {
	var st tskit.SiteTable
	s0 := st.AddRow(1.0, []byte("0"))
	s1 := st.AddRow(2.0, []byte("A"))

	var mt tskit.MutationTable
	mt.AddRow(s0, 4, []byte("1"))
	mt.AddRow(s1, 5, []byte("T"))

	if st.NumRows() != 2 || mt.NumRows() != 2 {
		t.Fatalf("NumRows: sites=%d mutations=%d", st.NumRows(), mt.NumRows())
	}
	if !bytes.Equal(st.AncestralState(1), []byte("A")) {
		t.Errorf("AncestralState(1) = %q, want %q", st.AncestralState(1), "A")
	}
	if !bytes.Equal(mt.DerivedState(1), []byte("T")) {
		t.Errorf("DerivedState(1) = %q, want %q", mt.DerivedState(1), "T")
	}
}

func TestProvenanceRoundTrip(t *testing.T) {
	var p tskit.Provenance
	p.Add([]byte(`{"tool":"sim"}`))
	p.Add([]byte(`{"tool":"analyse"}`))

	if p.NumRows() != 2 {
		t.Fatalf("NumRows = %d, want 2", p.NumRows())
	}
	if string(p.Record(0)) != `{"tool":"sim"}` {
		t.Errorf("Record(0) = %q", p.Record(0))
	}
}
