// Package tskit implements the core of a succinct tree-sequence storage
// and traversal engine for population-genetics simulation.
//
// A tree sequence is a compact representation of a sequence of correlated
// genealogical trees tiling a one dimensional genomic interval [0, L).
// Rather than storing every local tree separately, the package stores a
// table of half-open edge intervals and materialises each local tree by a
// left-to-right (or right-to-left) sweep over two index permutations.
//
// The package owns table ingestion and validation, index construction, and
// tree iteration including the [Simplify] projection. It does not own file
// I/O, compression or checksum algorithms; those live behind the
// github.com/gaissmai/tskit/persist interface, which the package treats as
// an external collaborator (see [TreeSequence.DumpToTables]).
//
// The time complexity of a full left-to-right sweep (or a simplify pass)
// is O(edges). MRCA queries on an already-built [SparseTree] are O(tree
// depth); leaf counts are O(1) with [LeafCounts] and a subtree traversal
// without it.
//
//	table buffers -> validator -> TreeSequence store -> indexer -> (SparseTree | DiffIterator | Simplify)
//
// The store is immutable after [LoadFromTables]; iteration and simplify are
// read-only observers of the stored arrays.
package tskit
