package tskit_test

import (
	"testing"

	"github.com/gaissmai/tskit"
)

// FuzzValidateEdgesets feeds arbitrary left/right/parent perturbations of a
// small edgeset table into the validator. The validator must never panic:
// every malformed input must surface as a structured *tskit.Error.
func FuzzValidateEdgesets(f *testing.F) {
	f.Add(0.0, 5.0, int32(4))
	f.Add(0.0, 10.0, int32(5))
	f.Add(5.0, 5.0, int32(4))
	f.Add(-1.0, 3.0, int32(99))

	f.Fuzz(func(t *testing.T, left, right float64, parent int32) {
		tc := &tskit.TableCollection{}
		for i := 0; i < 4; i++ {
			tc.Nodes.AddRow(0, tskit.Null, tskit.IsSample, nil)
		}
		tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 4
		tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 5

		tc.Edgesets.AddRow(left, right, tskit.NodeId(parent), []tskit.NodeId{0, 1})

		_, err := tskit.LoadFromTables(tc)
		if err == nil {
			return
		}
		if _, ok := err.(*tskit.Error); !ok {
			t.Fatalf("LoadFromTables returned a non-structured error: %v (%T)", err, err)
		}
	})
}

// FuzzValidateSites does the same for site position perturbations.
func FuzzValidateSites(f *testing.F) {
	f.Add(3.0, []byte("0"))
	f.Add(20.0, []byte("0"))
	f.Add(3.0, []byte("AA"))

	f.Fuzz(func(t *testing.T, position float64, ancestral []byte) {
		tc := &tskit.TableCollection{}
		for i := 0; i < 4; i++ {
			tc.Nodes.AddRow(0, tskit.Null, tskit.IsSample, nil)
		}
		tc.Nodes.AddRow(1, tskit.Null, 0, nil)
		tc.Edgesets.AddRow(0, 10, 4, []tskit.NodeId{0, 1, 2, 3})
		tc.Sites.AddRow(position, ancestral)

		_, err := tskit.LoadFromTables(tc)
		if err == nil {
			return
		}
		if _, ok := err.(*tskit.Error); !ok {
			t.Fatalf("LoadFromTables returned a non-structured error: %v (%T)", err, err)
		}
	})
}
