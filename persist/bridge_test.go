package persist_test

import (
	"bytes"
	"testing"

	"github.com/gaissmai/tskit"
	"github.com/gaissmai/tskit/persist"
	"github.com/gaissmai/tskit/persist/codec"
)

func fourSampleCollection() *tskit.TableCollection {
	tc := &tskit.TableCollection{}
	for i := 0; i < 4; i++ {
		tc.Nodes.AddRow(0, tskit.Null, tskit.IsSample, []byte("s"))
	}
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 4
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 5
	tc.Nodes.AddRow(2, tskit.Null, 0, nil) // 6
	tc.Edgesets.AddRow(0, 10, 4, []tskit.NodeId{0, 1})
	tc.Edgesets.AddRow(0, 10, 5, []tskit.NodeId{2, 3})
	tc.Edgesets.AddRow(0, 10, 6, []tskit.NodeId{4, 5})
	tc.Sites.AddRow(3, []byte("0"))
	tc.Mutations.AddRow(0, 0, []byte("1"))
	return tc
}

func TestDumpAndLoadTableCollection(t *testing.T) {
	tc := fourSampleCollection()

	store := codec.New(codec.WithCompression(true))
	if err := persist.DumpTableCollection(tc, store); err != nil {
		t.Fatalf("DumpTableCollection: %v", err)
	}

	reloaded, err := persist.LoadTableCollection(store)
	if err != nil {
		t.Fatalf("LoadTableCollection: %v", err)
	}

	ts, err := tskit.LoadFromTables(tc)
	if err != nil {
		t.Fatalf("LoadFromTables(original): %v", err)
	}
	reloadedTs, err := tskit.LoadFromTables(reloaded)
	if err != nil {
		t.Fatalf("LoadFromTables(reloaded): %v", err)
	}

	if ts.NumNodes() != reloadedTs.NumNodes() {
		t.Errorf("NumNodes: %d vs %d", ts.NumNodes(), reloadedTs.NumNodes())
	}
	if ts.NumEdgesets() != reloadedTs.NumEdgesets() {
		t.Errorf("NumEdgesets: %d vs %d", ts.NumEdgesets(), reloadedTs.NumEdgesets())
	}
	if ts.NumSites() != reloadedTs.NumSites() {
		t.Errorf("NumSites: %d vs %d", ts.NumSites(), reloadedTs.NumSites())
	}
	if ts.SequenceLength() != reloadedTs.SequenceLength() {
		t.Errorf("SequenceLength: %g vs %g", ts.SequenceLength(), reloadedTs.SequenceLength())
	}

	origSite, err := ts.GetSite(0)
	if err != nil {
		t.Fatalf("GetSite(original): %v", err)
	}
	gotSite, err := reloadedTs.GetSite(0)
	if err != nil {
		t.Fatalf("GetSite(reloaded): %v", err)
	}
	if !bytes.Equal(origSite.AncestralState, gotSite.AncestralState) {
		t.Errorf("AncestralState mismatch: %q vs %q", origSite.AncestralState, gotSite.AncestralState)
	}
}
