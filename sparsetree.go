package tskit

import (
	"fmt"
	"io"
)

// TreeFlags selects which optional bookkeeping a SparseTree maintains.
type TreeFlags uint8

const (
	// LeafCounts maintains num_leaves[v] and num_tracked_leaves[v] for
	// every node, enabling O(1) count queries.
	LeafCounts TreeFlags = 1 << iota
	// LeafLists maintains a per-node linked list of sample descendants,
	// enabling O(#leaves) enumeration.
	LeafLists
)

// Direction is the sweep direction of a SparseTree.
type Direction int8

const (
	dirNone    Direction = 0
	DirForward Direction = 1
	DirReverse Direction = -1
)

// SparseTree represents ONE local tree at a time over the full node
// space of its TreeSequence. It is an exclusive-mutable observer: it
// holds a shared borrow on the store and must not be used concurrently
// with another SparseTree/DiffIterator/Simplifier run that shares cached
// counters with it, per §5.
type SparseTree struct {
	ts    *TreeSequence
	flags TreeFlags

	parent      []NodeId
	population  []PopulationId
	time        []float64
	numChildren []int32
	childrenOf  [][]NodeId // borrowed view into an edge's Children slice, or nil

	numLeaves        []int32
	numTrackedLeaves []int32
	marked           []uint8
	mark             uint8

	llHead, llTail []NodeId // NodeId-indexed: head/tail sample of u's leaf list
	llNext         []NodeId // dense sample index -> next sample NodeId, or Null

	left, right float64
	root        NodeId
	index       int
	sitesStart  int
	sitesEnd    int

	direction  Direction
	leftIndex  int // cursor into ts.insertionOrder
	rightIndex int // cursor into ts.removalOrder
}

// NewSparseTree allocates a SparseTree bound to ts, positioned before the
// first tree. Call First or Last to position it.
func NewSparseTree(ts *TreeSequence, flags TreeFlags) (*SparseTree, error) {
	if ts == nil {
		return nil, newErr(CodeBadParamValue, "", -1, "nil tree sequence")
	}

	n := ts.NumNodes()
	t := &SparseTree{
		ts:          ts,
		flags:       flags,
		parent:      make([]NodeId, n),
		population:  make([]PopulationId, n),
		time:        make([]float64, n),
		numChildren: make([]int32, n),
		childrenOf:  make([][]NodeId, n),
	}

	if flags&LeafCounts != 0 {
		t.numLeaves = make([]int32, n)
		t.numTrackedLeaves = make([]int32, n)
		t.marked = make([]uint8, n)
	}
	if flags&LeafLists != 0 {
		t.llHead = make([]NodeId, n)
		t.llTail = make([]NodeId, n)
		t.llNext = make([]NodeId, ts.SampleSize())
	}

	t.clear()
	return t, nil
}

func (t *SparseTree) checkNode(u NodeId) error {
	if int(u) < 0 || int(u) >= len(t.parent) {
		return newErr(CodeOutOfBounds, "", int(u), "node id out of bounds")
	}
	return nil
}

// clear resets the tree to the empty/initial state: every node isolated
// except the samples, which always carry their own time/population.
func (t *SparseTree) clear() {
	t.left, t.right = 0, 0
	t.root = 0
	t.index = -1

	for i := range t.parent {
		t.parent[i] = Null
		t.population[i] = Null
		t.time[i] = 0
		t.numChildren[i] = 0
		t.childrenOf[i] = nil
	}

	if t.flags&LeafCounts != 0 {
		for i := range t.numLeaves {
			t.numLeaves[i] = 0
			t.marked[i] = 0
		}
		// tracked-leaf flags on the samples themselves survive a
		// reposition; only the derived internal-node aggregates reset.
		for i := range t.numTrackedLeaves {
			if !t.ts.nodes[i].IsSample() {
				t.numTrackedLeaves[i] = 0
			}
		}
	}
	if t.flags&LeafLists != 0 {
		for i := range t.llHead {
			t.llHead[i] = Null
			t.llTail[i] = Null
		}
	}

	for _, u := range t.ts.samples {
		t.population[u] = t.ts.nodes[u].Population
		t.time[u] = t.ts.nodes[u].Time
		if t.flags&LeafCounts != 0 {
			t.numLeaves[u] = 1
		}
		if t.flags&LeafLists != 0 {
			t.llHead[u] = u
			t.llTail[u] = u
		}
	}

	t.leftIndex, t.rightIndex = 0, 0
}

// First positions the tree at the first (leftmost) local tree.
func (t *SparseTree) First() (bool, error) {
	if t.ts.NumEdgesets() == 0 {
		return false, nil
	}
	t.clear()
	t.direction = DirForward
	return t.advanceDir(DirForward), nil
}

// Last positions the tree at the last (rightmost) local tree.
func (t *SparseTree) Last() (bool, error) {
	if t.ts.NumEdgesets() == 0 {
		return false, nil
	}
	t.clear()
	m := t.ts.NumEdgesets()
	t.leftIndex, t.rightIndex = m-1, m-1
	t.index = t.ts.NumTrees()
	t.direction = DirReverse
	return t.advanceDir(DirReverse), nil
}

// Next advances by one tree to the right. ok is false once the last tree
// has already been reached.
func (t *SparseTree) Next() (bool, error) {
	if t.index+1 >= t.ts.NumTrees() {
		return false, nil
	}
	return t.advanceDir(DirForward), nil
}

// Prev advances by one tree to the left. ok is false once the first tree
// has already been reached.
func (t *SparseTree) Prev() (bool, error) {
	if t.index <= 0 {
		return false, nil
	}
	return t.advanceDir(DirReverse), nil
}

func (t *SparseTree) advanceDir(direction Direction) bool {
	ts := t.ts
	edgeRight := func(k int32) float64 { return ts.edges[k].Right }
	edgeLeft := func(k int32) float64 { return ts.edges[k].Left }

	if direction == DirForward {
		return t.advance(direction,
			edgeRight, ts.removalOrder, &t.rightIndex,
			edgeLeft, ts.insertionOrder, &t.leftIndex)
	}
	return t.advance(direction,
		edgeLeft, ts.insertionOrder, &t.leftIndex,
		edgeRight, ts.removalOrder, &t.rightIndex)
}

// advance is the single routine shared by First/Last/Next/Prev, per
// §4.5/§9 "double-ended iteration state": moving the sweep point by one
// breakpoint in either direction, compensating the two cursors by one
// step whenever the direction flips.
func (t *SparseTree) advance(
	direction Direction,
	outBreak func(int32) float64, outOrder []int32, outIndex *int,
	inBreak func(int32) float64, inOrder []int32, inIndex *int,
) bool {
	directionChange := 0
	if direction != t.direction {
		directionChange = int(direction)
	}
	in := *inIndex + directionChange
	out := *outIndex + directionChange

	if in < 0 || in >= len(inOrder) {
		return false
	}
	x := inBreak(inOrder[in])

	for out >= 0 && out < len(outOrder) && outBreak(outOrder[out]) == x {
		k := outOrder[out]
		u := t.ts.edges[k].Parent

		oldestChildTime := -1.0
		var oldestChild NodeId
		for _, c := range t.childrenOf[u] {
			t.parent[c] = Null
			if t.time[c] > oldestChildTime {
				oldestChild = c
				oldestChildTime = t.time[c]
			}
		}
		t.numChildren[u] = 0
		t.childrenOf[u] = nil
		t.time[u] = 0
		t.population[u] = Null
		if u == t.root {
			t.root = oldestChild
		}
		if t.flags&LeafCounts != 0 {
			t.propagateLeafCountLoss(u)
		}
		if t.flags&LeafLists != 0 {
			t.updateLeafLists(u)
		}
		out += int(direction)
	}

	for in >= 0 && in < len(inOrder) && inBreak(inOrder[in]) == x {
		k := inOrder[in]
		e := t.ts.edges[k]
		u := e.Parent
		for _, c := range e.Children {
			t.parent[c] = u
		}
		t.numChildren[u] = int32(len(e.Children))
		t.childrenOf[u] = e.Children
		t.time[u] = t.ts.nodes[u].Time
		t.population[u] = t.ts.nodes[u].Population
		if t.time[u] > t.time[t.root] {
			t.root = u
		}
		if t.flags&LeafCounts != 0 {
			t.propagateLeafCountGain(u)
		}
		if t.flags&LeafLists != 0 {
			t.updateLeafLists(u)
		}
		in += int(direction)
	}

	for t.parent[t.root] != Null {
		t.root = t.parent[t.root]
	}

	if direction == DirForward {
		t.left = x
		t.right = outBreak(outOrder[out])
	} else {
		t.left = outBreak(outOrder[out])
		t.right = x
	}
	t.direction = direction
	t.index += int(direction)
	*outIndex = out
	*inIndex = in

	if len(t.ts.sites) > 0 && t.index >= 0 && t.index < len(t.ts.spans) {
		sp := t.ts.spans[t.index]
		t.sitesStart, t.sitesEnd = sp.SitesStart, sp.SitesEnd
	} else {
		t.sitesStart, t.sitesEnd = 0, 0
	}

	return true
}

func (t *SparseTree) propagateLeafCountLoss(u NodeId) {
	allDiff := t.numLeaves[u]
	trackedDiff := t.numTrackedLeaves[u]
	mark := t.mark
	for v := u; v != Null; v = t.parent[v] {
		t.numLeaves[v] -= allDiff
		t.numTrackedLeaves[v] -= trackedDiff
		t.marked[v] = mark
	}
}

func (t *SparseTree) propagateLeafCountGain(u NodeId) {
	var allDiff, trackedDiff int32
	for _, c := range t.childrenOf[u] {
		allDiff += t.numLeaves[c]
		trackedDiff += t.numTrackedLeaves[c]
	}
	mark := t.mark
	for v := u; v != Null; v = t.parent[v] {
		t.numLeaves[v] += allDiff
		t.numTrackedLeaves[v] += trackedDiff
		t.marked[v] = mark
	}
}

// updateLeafLists rebuilds head/tail for node and every ancestor, by
// concatenating each node's children's lists, per §4.5b.
func (t *SparseTree) updateLeafLists(node NodeId) {
	for u := node; u != Null; u = t.parent[u] {
		t.llHead[u] = Null
		t.llTail[u] = Null
		for _, v := range t.childrenOf[u] {
			if t.llHead[v] == Null {
				continue
			}
			if t.llHead[u] == Null {
				t.llHead[u] = t.llHead[v]
				t.llTail[u] = t.llTail[v]
			} else {
				t.setLLNext(t.llTail[u], t.llHead[v])
				t.llTail[u] = t.llTail[v]
			}
		}
	}
}

func (t *SparseTree) setLLNext(sample, next NodeId) {
	t.llNext[t.ts.sampleIndexMap[sample]] = next
}

// LeafListNext returns the next sample after sample in its leaf list.
// Leaf lists share their links, so the value after a list's tail is in
// general not Null: a walk from GetLeafList's head ends at its tail. It
// is only meaningful for values returned by GetLeafList / previously
// chained via LeafListNext.
func (t *SparseTree) LeafListNext(sample NodeId) NodeId {
	idx := t.ts.sampleIndexMap[sample]
	if idx == Null {
		return Null
	}
	return t.llNext[idx]
}

// SetTrackedLeaves resets num_tracked_leaves to zero, then for each
// tracked leaf increments every ancestor by 1, per §4.5.
func (t *SparseTree) SetTrackedLeaves(leaves []NodeId) error {
	if t.flags&LeafCounts == 0 {
		return newErr(CodeUnsupportedOperation, "", -1, "tree was not allocated with LeafCounts")
	}
	for i := range t.numTrackedLeaves {
		t.numTrackedLeaves[i] = 0
	}

	for _, u := range leaves {
		if err := t.checkNode(u); err != nil {
			return newErr(CodeOutOfBounds, "", int(u), "tracked leaf out of bounds")
		}
		if !t.ts.nodes[u].IsSample() {
			return newErr(CodeBadSamples, "", int(u), "tracked leaf is not a sample")
		}
		if t.numTrackedLeaves[u] != 0 {
			return newErr(CodeDuplicateSample, "", int(u), "duplicate tracked leaf")
		}
		for v := u; v != Null; v = t.parent[v] {
			t.numTrackedLeaves[v]++
		}
	}
	return nil
}

// MRCA walks two root-paths into two stacks and pops equal suffixes; the
// last equal ancestor is the most recent common ancestor, or Null if
// there is none. O(tree depth).
func (t *SparseTree) MRCA(u, v NodeId) (NodeId, error) {
	if err := t.checkNode(u); err != nil {
		return Null, err
	}
	if err := t.checkNode(v); err != nil {
		return Null, err
	}

	p1 := t.pathToRoot(u)
	p2 := t.pathToRoot(v)

	i, j := len(p1)-1, len(p2)-1
	w := NodeId(Null)
	for i >= 0 && j >= 0 && p1[i] == p2[j] {
		w = p1[i]
		i--
		j--
	}
	return w, nil
}

func (t *SparseTree) pathToRoot(u NodeId) []NodeId {
	var path []NodeId
	for u != Null {
		path = append(path, u)
		u = t.parent[u]
	}
	return path
}

// NumLeaves reports the number of samples reachable by descending
// children from u: the maintained counter in O(1) if LeafCounts is on,
// else a DFS traversal.
func (t *SparseTree) NumLeaves(u NodeId) (int, error) {
	if err := t.checkNode(u); err != nil {
		return 0, err
	}
	if t.flags&LeafCounts != 0 {
		return int(t.numLeaves[u]), nil
	}
	return t.numLeavesByTraversal(u), nil
}

func (t *SparseTree) numLeavesByTraversal(u NodeId) int {
	count := 0
	stack := []NodeId{u}
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.ts.nodes[v].IsSample() {
			count++
		}
		stack = append(stack, t.childrenOf[v]...)
	}
	return count
}

// NumTrackedLeaves reports the maintained tracked-leaf counter for u.
func (t *SparseTree) NumTrackedLeaves(u NodeId) (int, error) {
	if err := t.checkNode(u); err != nil {
		return 0, err
	}
	if t.flags&LeafCounts == 0 {
		return 0, newErr(CodeUnsupportedOperation, "", -1, "tree was not allocated with LeafCounts")
	}
	return int(t.numTrackedLeaves[u]), nil
}

// GetLeafList returns (head, tail) for node u's leaf list.
func (t *SparseTree) GetLeafList(u NodeId) (head, tail NodeId, err error) {
	if err = t.checkNode(u); err != nil {
		return Null, Null, err
	}
	if t.flags&LeafLists == 0 {
		return Null, Null, newErr(CodeUnsupportedOperation, "", -1, "tree was not allocated with LeafLists")
	}
	return t.llHead[u], t.llTail[u], nil
}

// Root returns the current tree's root.
func (t *SparseTree) Root() NodeId { return t.root }

// Left returns the current tree's left coordinate.
func (t *SparseTree) Left() float64 { return t.left }

// Right returns the current tree's right coordinate.
func (t *SparseTree) Right() float64 { return t.right }

// Index returns the current tree's index along the sequence, or -1
// before the first positioning call.
func (t *SparseTree) Index() int { return t.index }

// Parent returns the parent of u in the current tree, or Null.
func (t *SparseTree) Parent(u NodeId) (NodeId, error) {
	if err := t.checkNode(u); err != nil {
		return Null, err
	}
	return t.parent[u], nil
}

// Children returns a borrowed view of u's children in the current tree.
func (t *SparseTree) Children(u NodeId) ([]NodeId, error) {
	if err := t.checkNode(u); err != nil {
		return nil, err
	}
	return t.childrenOf[u], nil
}

// Time returns u's time in the current tree (0 if u is not part of it).
func (t *SparseTree) Time(u NodeId) (float64, error) {
	if err := t.checkNode(u); err != nil {
		return 0, err
	}
	return t.time[u], nil
}

// Sites returns the SiteIds belonging to the current tree, in ascending
// position order.
func (t *SparseTree) Sites() []SiteId {
	ids := make([]SiteId, 0, t.sitesEnd-t.sitesStart)
	for i := t.sitesStart; i < t.sitesEnd; i++ {
		ids = append(ids, SiteId(i))
	}
	return ids
}

// Equal reports deep equality on the topological state of two trees over
// the same store: (index, left, right, root, sites, parent, population,
// time, num_children, children). Maintained counts and leaf lists are
// optional bookkeeping and are not considered.
func (t *SparseTree) Equal(o *SparseTree) bool {
	if t.ts != o.ts {
		return false
	}
	if t.index != o.index || t.left != o.left || t.right != o.right || t.root != o.root {
		return false
	}
	if t.sitesStart != o.sitesStart || t.sitesEnd != o.sitesEnd {
		return false
	}
	for i := range t.parent {
		if t.parent[i] != o.parent[i] || t.population[i] != o.population[i] || t.time[i] != o.time[i] {
			return false
		}
		if t.numChildren[i] != o.numChildren[i] || !equalNodeIds(t.childrenOf[i], o.childrenOf[i]) {
			return false
		}
	}
	return true
}

func equalNodeIds(a, b []NodeId) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CopyFrom assigns src's topological state into t. Leaf lists are never
// copied (returns UnsupportedOperation if t was allocated with
// LeafLists); if t maintains leaf counts, they are copied from src, and
// UnsupportedOperation is returned when src does not maintain them.
func (t *SparseTree) CopyFrom(src *SparseTree) error {
	if t == src {
		return newErr(CodeBadParamValue, "", -1, "cannot copy a tree onto itself")
	}
	if t.ts != src.ts {
		return newErr(CodeBadParamValue, "", -1, "source tree is over a different store")
	}

	t.left, t.right, t.root, t.index = src.left, src.right, src.root, src.index
	t.sitesStart, t.sitesEnd = src.sitesStart, src.sitesEnd

	copy(t.parent, src.parent)
	copy(t.population, src.population)
	copy(t.time, src.time)
	copy(t.numChildren, src.numChildren)
	copy(t.childrenOf, src.childrenOf)

	if t.flags&LeafCounts != 0 {
		if src.flags&LeafCounts == 0 {
			return newErr(CodeUnsupportedOperation, "", -1, "source tree has no leaf counts")
		}
		copy(t.numLeaves, src.numLeaves)
	}
	if t.flags&LeafLists != 0 {
		return newErr(CodeUnsupportedOperation, "", -1, "leaf lists are never copied")
	}
	return nil
}

// Fprint writes a hierarchical diagram of the current tree to w, in the
// same glyph style as the teacher library's interval-tree printer.
func (t *SparseTree) Fprint(w io.Writer) error {
	if _, err := fmt.Fprint(w, "▼\n"); err != nil {
		return err
	}
	return t.walkAndStringify(w, t.root, "")
}

func (t *SparseTree) walkAndStringify(w io.Writer, u NodeId, pad string) error {
	if _, err := fmt.Fprintf(w, "%d\n", u); err != nil {
		return err
	}

	children := t.childrenOf[u]
	glyphe := "├─ "
	spacer := "│  "
	for i, c := range children {
		if i == len(children)-1 {
			glyphe = "└─ "
			spacer = "   "
		}
		if _, err := fmt.Fprint(w, pad+glyphe); err != nil {
			return err
		}
		if err := t.walkAndStringify(w, c, pad+spacer); err != nil {
			return err
		}
	}
	return nil
}
