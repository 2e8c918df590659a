package tskit_test

import (
	"errors"
	"testing"

	"github.com/gaissmai/tskit"
)

func TestSimplifyStructuralInvariants(t *testing.T) {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		t.Fatalf("LoadFromTables: %v", err)
	}

	subset := []tskit.NodeId{0, 1, 2}
	simplified, err := tskit.Simplify(ts, subset, tskit.SimplifyOptions{})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}

	if simplified.SampleSize() != len(subset) {
		t.Fatalf("SampleSize = %d, want %d", simplified.SampleSize(), len(subset))
	}
	for i, u := range simplified.Samples() {
		if int(u) != i {
			t.Errorf("Samples()[%d] = %d, want %d", i, u, i)
		}
	}
	if simplified.NumTrees() == 0 {
		t.Error("simplified sequence has no trees")
	}
	if simplified.SequenceLength() != ts.SequenceLength() {
		t.Errorf("SequenceLength = %g, want %g", simplified.SequenceLength(), ts.SequenceLength())
	}

	// every remaining edgeset's children must resolve to valid nodes in
	// the compacted node table
	for i := 0; i < simplified.NumEdgesets(); i++ {
		e, err := simplified.GetEdgeset(i)
		if err != nil {
			t.Fatalf("GetEdgeset(%d): %v", i, err)
		}
		if e.Parent < 0 || int(e.Parent) >= simplified.NumNodes() {
			t.Errorf("edgeset %d parent %d out of bounds", i, e.Parent)
		}
	}
}

func TestSimplifyFilterInvariantSites(t *testing.T) {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		t.Fatalf("LoadFromTables: %v", err)
	}

	simplified, err := tskit.Simplify(ts, []tskit.NodeId{0, 1, 2, 3}, tskit.SimplifyOptions{FilterInvariantSites: true})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if simplified.NumSites() > ts.NumSites() {
		t.Errorf("NumSites grew from %d to %d", ts.NumSites(), simplified.NumSites())
	}
}

func TestSimplifyErrors(t *testing.T) {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		t.Fatalf("LoadFromTables: %v", err)
	}

	t.Run("too few samples", func(t *testing.T) {
		_, err := tskit.Simplify(ts, []tskit.NodeId{0}, tskit.SimplifyOptions{})
		if !errors.Is(err, tskit.ErrBadParamValue) {
			t.Errorf("got %v, want Is(ErrBadParamValue)", err)
		}
	})

	t.Run("out of bounds sample", func(t *testing.T) {
		_, err := tskit.Simplify(ts, []tskit.NodeId{0, tskit.NodeId(ts.NumNodes())}, tskit.SimplifyOptions{})
		if !errors.Is(err, tskit.ErrOutOfBounds) {
			t.Errorf("got %v, want Is(ErrOutOfBounds)", err)
		}
	})

	t.Run("not a sample", func(t *testing.T) {
		_, err := tskit.Simplify(ts, []tskit.NodeId{0, 4}, tskit.SimplifyOptions{})
		if !errors.Is(err, tskit.ErrBadSamples) {
			t.Errorf("got %v, want Is(ErrBadSamples)", err)
		}
	})

	t.Run("duplicate sample", func(t *testing.T) {
		_, err := tskit.Simplify(ts, []tskit.NodeId{0, 0, 1}, tskit.SimplifyOptions{})
		if !errors.Is(err, tskit.ErrDuplicateSample) {
			t.Errorf("got %v, want Is(ErrDuplicateSample)", err)
		}
	})
}
