package tskit_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/gaissmai/tskit"
)

func ExampleSparseTree_Fprint() {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		panic(err)
	}
	tree, err := tskit.NewSparseTree(ts, 0)
	if err != nil {
		panic(err)
	}
	if ok, err := tree.First(); err != nil || !ok {
		panic(fmt.Sprint(ok, err))
	}

	tree.Fprint(os.Stdout)

	// Output:
	// ▼
	// 6
	// ├─ 4
	// │  ├─ 0
	// │  └─ 1
	// └─ 5
	//    ├─ 2
	//    └─ 3
}

func TestSparseTreeIteration(t *testing.T) {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		t.Fatalf("LoadFromTables: %v", err)
	}

	tree, err := tskit.NewSparseTree(ts, tskit.LeafCounts)
	if err != nil {
		t.Fatalf("NewSparseTree: %v", err)
	}

	ok, err := tree.First()
	if err != nil || !ok {
		t.Fatalf("First: ok=%v err=%v", ok, err)
	}
	if tree.Root() != 6 {
		t.Errorf("tree 0 root = %d, want 6", tree.Root())
	}
	if tree.Left() != 0 || tree.Right() != 5 {
		t.Errorf("tree 0 span = [%g, %g), want [0, 5)", tree.Left(), tree.Right())
	}

	mrca, err := tree.MRCA(0, 1)
	if err != nil || mrca != 4 {
		t.Errorf("MRCA(0,1) = %d, err=%v, want 4", mrca, err)
	}
	mrca, err = tree.MRCA(0, 2)
	if err != nil || mrca != 6 {
		t.Errorf("MRCA(0,2) = %d, err=%v, want 6", mrca, err)
	}

	n, err := tree.NumLeaves(6)
	if err != nil || n != 4 {
		t.Errorf("NumLeaves(6) = %d, err=%v, want 4", n, err)
	}
	n, err = tree.NumLeaves(4)
	if err != nil || n != 2 {
		t.Errorf("NumLeaves(4) = %d, err=%v, want 2", n, err)
	}

	ok, err = tree.Next()
	if err != nil || !ok {
		t.Fatalf("Next: ok=%v err=%v", ok, err)
	}
	if tree.Root() != 9 {
		t.Errorf("tree 1 root = %d, want 9", tree.Root())
	}
	if tree.Left() != 5 || tree.Right() != 10 {
		t.Errorf("tree 1 span = [%g, %g), want [5, 10)", tree.Left(), tree.Right())
	}
	mrca, err = tree.MRCA(0, 2)
	if err != nil || mrca != 7 {
		t.Errorf("MRCA(0,2) in tree 1 = %d, err=%v, want 7", mrca, err)
	}

	ok, err = tree.Next()
	if err != nil || ok {
		t.Fatalf("Next past the last tree: ok=%v err=%v, want false", ok, err)
	}

	ok, err = tree.Prev()
	if err != nil || !ok {
		t.Fatalf("Prev: ok=%v err=%v", ok, err)
	}
	if tree.Root() != 6 {
		t.Errorf("after Prev, root = %d, want 6 (back on tree 0)", tree.Root())
	}
}

func TestSparseTreeSetTrackedLeaves(t *testing.T) {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		t.Fatalf("LoadFromTables: %v", err)
	}
	tree, err := tskit.NewSparseTree(ts, tskit.LeafCounts)
	if err != nil {
		t.Fatalf("NewSparseTree: %v", err)
	}
	if _, err := tree.First(); err != nil {
		t.Fatalf("First: %v", err)
	}

	if err := tree.SetTrackedLeaves([]tskit.NodeId{0, 2}); err != nil {
		t.Fatalf("SetTrackedLeaves: %v", err)
	}
	n, err := tree.NumTrackedLeaves(6)
	if err != nil || n != 2 {
		t.Errorf("NumTrackedLeaves(6) = %d, err=%v, want 2", n, err)
	}
	n, err = tree.NumTrackedLeaves(4)
	if err != nil || n != 1 {
		t.Errorf("NumTrackedLeaves(4) = %d, err=%v, want 1", n, err)
	}

	if err := tree.SetTrackedLeaves([]tskit.NodeId{0, 0}); err == nil {
		t.Error("SetTrackedLeaves with a duplicate: want error")
	}
	if err := tree.SetTrackedLeaves([]tskit.NodeId{4}); err == nil {
		t.Error("SetTrackedLeaves with a non-sample: want error")
	}
}

func TestSparseTreeEqualAndCopy(t *testing.T) {
	ts, err := tskit.LoadFromTables(twoTreeFixture())
	if err != nil {
		t.Fatalf("LoadFromTables: %v", err)
	}
	a, err := tskit.NewSparseTree(ts, 0)
	if err != nil {
		t.Fatalf("NewSparseTree: %v", err)
	}
	b, err := tskit.NewSparseTree(ts, 0)
	if err != nil {
		t.Fatalf("NewSparseTree: %v", err)
	}

	if _, err := a.First(); err != nil {
		t.Fatalf("First: %v", err)
	}
	if _, err := b.Last(); err != nil {
		t.Fatalf("Last: %v", err)
	}
	if a.Equal(b) {
		t.Error("tree on tree 0 should not equal tree on the last tree")
	}

	if err := b.CopyFrom(a); err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if !a.Equal(b) {
		t.Error("after CopyFrom, trees should be equal")
	}
}
