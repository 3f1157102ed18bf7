package rope

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/

import (
	"fmt"
	"math"
	"sync"
)

// This implementation follows more or less the description of the `Rope´ data
// structure as described by Boehm, Atkinson and Plass. I recommend having the
// paper at hand alongside the code for easier understanding.
//
// A rope builds a binary tree structure on top of string fragments. Leaf nodes
// carry a fragment of text (interface Leaf), inner nodes carry exactly two
// children plus cached routing information. Some invariants hold:
//
//   * The weight of an inner node is equal to the total byte length of the
//     *left* subtree.
//   * The weight of a leaf is equal to the length of the string fragment it
//     carries.
//   * length of a node is weight plus the byte length of the right subtree.
//   * The summary of a node is the monoid sum of the summaries of its children.
//   * The depth of a leaf is 0, the depth of an inner node is one plus the
//     maximum depth of its children.
//
// One design decision is to not include a reference to the parent node. This is
// a trade-off which makes some algorithms a bit more cumbersome. On the other
// hand, this is necessary to be able to re-use subtrees and having a persistent
// (immutable) data structure without having to always clone the complete tree.
// Tree operations will create fresh nodes along the root-to-leaf path of a
// modification, but leave unchanged parts of the tree in place and rather
// reference them.

type node struct {
	leaf        Leaf  // non-nil for leaf nodes
	left, right *node // children, set for inner nodes only
	length      uint64
	weight      uint64
	depth       int
	summed      sync.Once
	sum         Summary
}

// makeLeaf wraps a text fragment into a leaf node.
//
// Only the leaf's weight is consulted here. Leaf types which load their
// content lazily (textfile) stay unmaterialized until a metric or read
// operation touches them.
func makeLeaf(l Leaf) *node {
	return &node{
		leaf:   l,
		length: l.Weight(),
		weight: l.Weight(),
	}
}

// emptyLeaf returns a leaf node for the empty string.
func emptyLeaf() *node {
	return makeLeaf(StringLeaf(""))
}

// makeBranch concatenates two nodes under a fresh inner node.
// Length, weight, depth and summary are computed from the children.
func makeBranch(left, right *node) *node {
	assert(left != nil && right != nil, "inner node needs two children")
	return &node{
		left:   left,
		right:  right,
		length: left.length + right.length,
		weight: left.length,
		depth:  max(left.depth, right.depth) + 1,
	}
}

func (n *node) isLeaf() bool {
	return n.leaf != nil
}

// summary returns the aggregated text metrics of this node's subtree.
//
// Summaries are computed on first use and cached. For a leaf this
// materializes the fragment, which may block on a not-yet-loaded file
// fragment, so rope assembly must not touch summaries. The sync.Once
// makes the cache safe for ropes shared between goroutines.
func (n *node) summary() Summary {
	n.summed.Do(func() {
		if n.isLeaf() {
			n.sum = summarize(n.leaf.String())
		} else {
			n.sum = Monoid{}.Add(n.left.summary(), n.right.summary())
		}
	})
	return n.sum
}

// measure returns the number of units of metric in this node's subtree.
func (n *node) measure(m Metric) uint64 {
	return m.Measure(n.summary())
}

// metricWeight returns the number of units of metric in the left subtree,
// or in the fragment for a leaf.
func (n *node) metricWeight(m Metric) uint64 {
	if n.isLeaf() {
		return n.measure(m)
	}
	return n.left.measure(m)
}

func (n *node) String() string {
	if n.isLeaf() {
		return n.leaf.String()
	}
	return fmt.Sprintf("<inner %d|%d|>", n.weight, n.depth)
}

// --- Split -----------------------------------------------------------------

// split splits the subtree of n right after index units of metric.
//
// Splitting walks the tree from n until it reaches the fragment containing
// the boundary, and splits that fragment. The two halves are returned as a
// pair rather than as a new inner node, since the expected use case for this
// function is splitting a rope so that new text can be inserted between the
// two split halves. Nodes untouched by the boundary are shared with the
// input tree, not copied.
//
// An index which has no boundary in the addressed fragment is an invariant
// violation and panics.
func (n *node) split(m Metric, index uint64) (*node, *node) {
	if n.isLeaf() {
		switch {
		case n.length == 0:
			// splitting an empty leaf returns two empty leafs
			return emptyLeaf(), emptyLeaf()
		case n.measure(m) == 1:
			return n, emptyLeaf()
		default:
			frag := n.leaf.String()
			b, ok := m.ByteIndex(frag, index)
			if !ok {
				panic(fmt.Sprintf("rope: no boundary for %s index %d in %q",
					m.Name(), index, strstart(frag)))
			}
			l, r := n.leaf.Split(b)
			return makeLeaf(l), makeLeaf(r)
		}
	}
	// to determine which side of this node we are splitting on, we compare
	// the index to split to this node's weight in terms of the metric
	weight := n.left.measure(m)
	if index < weight {
		left, leftRight := n.left.split(m, index)
		if leftRight.length == 0 {
			// the right side of the returned pair is just this node's
			// right child
			return left, n.right
		}
		return left, makeBranch(leftRight, n.right)
	}
	// the index is somewhere in the right subtree. walk the right subtree,
	// subtracting this node's weight
	rightLeft, right := n.right.split(m, index-weight)
	if rightLeft.length == 0 {
		return n.left, right
	}
	return makeBranch(n.left, rightLeft), right
}

// --- Balance ---------------------------------------------------------------

// fibTable holds Fibonacci numbers up to the largest one representable as
// an uint64.
var fibTable = func() [94]uint64 {
	var fibs [94]uint64
	fibs[1] = 1
	for i := 2; i < len(fibs); i++ {
		fibs[i] = fibs[i-1] + fibs[i-2]
	}
	return fibs
}()

func fibonacci(n int) uint64 {
	if n < len(fibTable) {
		return fibTable[n]
	}
	return math.MaxUint64
}

// isBalanced reports whether the subtree of n is balanced.
//
// From "Ropes: An Alternative to Strings":
//
//	We define the depth of a leaf to be 0, and the depth of a concatenation
//	to be one plus the maximum depth of its children. Let Fn be the nth
//	Fibonacci number. A rope of depth n is balanced if its length is at
//	least Fn+2, e.g. a balanced rope of depth 1 must have length at least 2.
//	Note that balanced ropes may contain unbalanced subropes.
func (n *node) isBalanced() bool {
	return n.length >= fibonacci(n.depth+2)
}

// rebalance returns a balanced tree for the subtree of n.
//
// If n is already balanced it is returned unchanged. Otherwise all non-empty
// leafs are collected in order and a tree of minimal depth is rebuilt on top
// of them.
func (n *node) rebalance() *node {
	if n.isBalanced() {
		return n
	}
	leaves := n.collectLeaves(nil)
	if len(leaves) == 0 {
		return emptyLeaf()
	}
	return buildBalanced(leaves)
}

// collectLeaves appends all non-empty leaf nodes of n's subtree, in text
// order, to dst.
func (n *node) collectLeaves(dst []*node) []*node {
	if n.isLeaf() {
		if n.length > 0 {
			dst = append(dst, n)
		}
		return dst
	}
	dst = n.left.collectLeaves(dst)
	return n.right.collectLeaves(dst)
}

// buildBalanced builds a tree of minimal depth over a non-empty ordered
// slice of leafs.
func buildBalanced(leaves []*node) *node {
	switch len(leaves) {
	case 1:
		return leaves[0]
	case 2:
		return makeBranch(leaves[0], leaves[1])
	}
	mid := len(leaves) / 2
	return makeBranch(buildBalanced(leaves[:mid]), buildBalanced(leaves[mid:]))
}

// --- Addressing ------------------------------------------------------------

// orZero is saturating subtraction on byte offsets.
func orZero(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return 0
}

// spanning returns the smallest subtree of n which contains the byte span
// [i, i+spanLen), together with the offset of i within that subtree.
func (n *node) spanning(i, spanLen uint64) (*node, uint64) {
	assert(n.length >= spanLen, "span is longer than text")
	if n.isLeaf() {
		return n, i
	}
	if n.weight < i {
		// the first index of the span is on the right side
		spanIdx := orZero(i, n.left.length)
		assert(orZero(n.right.length, spanIdx) >= spanLen, "span escapes right subtree")
		return n.right.spanning(spanIdx, spanLen)
	}
	if orZero(n.left.length, i) >= spanLen {
		// the left child is long enough to contain the entire span
		return n.left.spanning(i, spanLen)
	}
	// the span crosses the boundary between the children, so this node is
	// the minimum spanning node
	return n, i
}

// index returns the i-th unit of metric within n's subtree as a substring.
//
// The descent compares the index against the metric weight of each inner
// node, the same comparison split uses, so that index and split agree on
// unit positions.
func (n *node) index(m Metric, i uint64) string {
	if n.isLeaf() {
		frag := n.leaf.String()
		start, ok1 := m.ByteIndex(frag, i)
		end, ok2 := m.ByteIndex(frag, i+1)
		if !ok1 || !ok2 || end <= start {
			// metrics which only recognize fragment-end boundaries
			// resolve to the whole fragment
			return frag
		}
		return frag[start:end]
	}
	weight := n.left.measure(m)
	if i < weight {
		return n.left.index(m, i)
	}
	return n.right.index(m, i-weight)
}

// report appends the byte range [i, i+l) of n's subtree to buf.
func (n *node) report(i, l uint64, buf []byte) []byte {
	if l == 0 {
		return buf
	}
	if n.isLeaf() {
		assert(i+l <= n.length, "report range escapes fragment")
		return append(buf, n.leaf.Substring(i, i+l)...)
	}
	if i < n.weight {
		take := min(l, n.weight-i)
		buf = n.left.report(i, take, buf)
		l -= take
		i = 0
	} else {
		i -= n.weight
	}
	if l > 0 {
		buf = n.right.report(i, l, buf)
	}
	return buf
}

// --- Debugging helper ------------------------------------------------------

func dump(n *node) {
	dumpIndent(n, 0, 0)
}

func dumpIndent(n *node, pos uint64, depth int) {
	if n.isLeaf() {
		tracer().Debugf("%sL @%d = %q", indent(depth), pos, strstart(n.leaf.String()))
		return
	}
	tracer().Debugf("%sN @%d = %v", indent(depth), pos, n)
	dumpIndent(n.left, pos, depth+1)
	dumpIndent(n.right, pos+n.weight, depth+1)
}

func indent(d int) string {
	ind := ""
	for d > 0 {
		ind = ind + "  "
		d--
	}
	return ind
}

func strstart(s string) string {
	if len(s) > 8 {
		return s[:7] + "…"
	}
	return s
}
