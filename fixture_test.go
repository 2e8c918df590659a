package tskit_test

import "github.com/gaissmai/tskit"

// twoTreeFixture builds a four-sample, two-local-tree history with a
// single recombination breakpoint at position 5 on a sequence of length
// 10: ((0,1)4,(2,3)5)6 on [0,5), ((0,2)7,(1,3)8)9 on [5,10). Node times
// increase with distance from the samples, and one diallelic mutation
// falls in each local tree.
func twoTreeFixture() *tskit.TableCollection {
	tc := &tskit.TableCollection{}

	for i := 0; i < 4; i++ {
		tc.Nodes.AddRow(0, tskit.Null, tskit.IsSample, nil)
	}
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 4
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 5
	tc.Nodes.AddRow(2, tskit.Null, 0, nil) // 6, root of [0,5)
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 7
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 8
	tc.Nodes.AddRow(2, tskit.Null, 0, nil) // 9, root of [5,10)

	tc.Edgesets.AddRow(0, 5, 4, []tskit.NodeId{0, 1})
	tc.Edgesets.AddRow(0, 5, 5, []tskit.NodeId{2, 3})
	tc.Edgesets.AddRow(5, 10, 7, []tskit.NodeId{0, 2})
	tc.Edgesets.AddRow(5, 10, 8, []tskit.NodeId{1, 3})
	tc.Edgesets.AddRow(0, 5, 6, []tskit.NodeId{4, 5})
	tc.Edgesets.AddRow(5, 10, 9, []tskit.NodeId{7, 8})

	site0 := tc.Sites.AddRow(2, []byte("0"))
	site1 := tc.Sites.AddRow(7, []byte("0"))
	tc.Mutations.AddRow(site0, 2, []byte("1"))
	tc.Mutations.AddRow(site1, 7, []byte("1"))

	return tc
}

// singleTreeFixture builds a minimal four-sample, single-local-tree
// history spanning the whole sequence: ((0,1)4,(2,3)5)6 on [0,10).
func singleTreeFixture() *tskit.TableCollection {
	tc := &tskit.TableCollection{}

	for i := 0; i < 4; i++ {
		tc.Nodes.AddRow(0, tskit.Null, tskit.IsSample, nil)
	}
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 4
	tc.Nodes.AddRow(1, tskit.Null, 0, nil) // 5
	tc.Nodes.AddRow(2, tskit.Null, 0, nil) // 6

	tc.Edgesets.AddRow(0, 10, 4, []tskit.NodeId{0, 1})
	tc.Edgesets.AddRow(0, 10, 5, []tskit.NodeId{2, 3})
	tc.Edgesets.AddRow(0, 10, 6, []tskit.NodeId{4, 5})

	return tc
}
