package rope

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Rope is a type for an enhanced string.
//
// A rope internally consists of fragments of text, which are considered
// immutable. Fragments may be shared between ropes, or versions of ropes.
// Every modifying operation on a rope will re-create the nodes on the path
// from the root to the changed fragment and reference all unchanged parts.
// The “With…” family of operations relies on this to return modified
// clones in O(log n), leaving the receiver untouched.
//
// A rope created by
//
//	Rope{}
//
// is a valid object and behaves like the empty string.
type Rope struct {
	root *node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope from a Go string.
//
// Fragments are split right after every newline character, aligning line
// boundaries with fragment boundaries. LineMetric relies on this layout.
func FromString(s string) Rope {
	if s == "" {
		return Rope{}
	}
	return Rope{root: strToTree(s)}
}

// FromLeaf creates a rope from a single client-provided leaf fragment.
func FromLeaf(leaf Leaf) Rope {
	if leaf == nil || leaf.Weight() == 0 {
		return Rope{}
	}
	return Rope{root: makeLeaf(leaf)}
}

// FromBytes creates a rope from UTF-8 bytes.
// Returns ErrInvalidUTF8 for input which is not valid UTF-8.
func FromBytes(b []byte) (Rope, error) {
	if !utf8.Valid(b) {
		return Rope{}, ErrInvalidUTF8
	}
	return FromString(string(b)), nil
}

// FromBytesUnchecked creates a rope from bytes which the caller guarantees
// to be valid UTF-8. No validation is performed.
func FromBytesUnchecked(b []byte) Rope {
	return FromString(string(b))
}

// strToTree splits a string into fragments right after every '\n' and
// builds a tree of minimal depth over them.
func strToTree(s string) *node {
	assert(s != "", "cannot build tree from empty string")
	parts := splitToFragments(s)
	leaves := make([]*node, len(parts))
	for i, part := range parts {
		leaves[i] = makeLeaf(part)
	}
	return buildBalanced(leaves)
}

// takeRoot takes the rope's root node, leaving an empty rope in its place.
func (rope *Rope) takeRoot() *node {
	r := rope.root
	rope.root = nil
	if r == nil {
		return emptyLeaf()
	}
	return r
}

// --- Queries ---------------------------------------------------------------

// Len returns the length in bytes of a rope.
func (rope Rope) Len() uint64 {
	if rope.root == nil {
		return 0
	}
	return rope.root.length
}

// IsEmpty returns true if rope is "".
func (rope Rope) IsEmpty() bool {
	return rope.Len() == 0
}

// Measure returns the length of the rope in units of metric.
func (rope Rope) Measure(metric Metric) uint64 {
	if rope.root == nil {
		return 0
	}
	return rope.root.measure(metric)
}

// Summary returns the aggregated text metrics of the rope.
func (rope Rope) Summary() Summary {
	if rope.root == nil {
		return Summary{}
	}
	return rope.root.summary()
}

// String returns the rope as a Go string. This may be an expensive
// operation, as it will allocate a buffer for all the bytes of the rope and
// collect all fragments to a single continuous string. When working with
// large amounts of text, clients should probably avoid to call this.
// Instead they should jump to a position within the rope and report a
// substring or use an iterator.
func (rope Rope) String() string {
	if rope.IsEmpty() {
		return ""
	}
	var bf bytes.Buffer
	err := rope.EachLeaf(func(leaf Leaf, pos uint64) error {
		if _, err := bf.WriteString(leaf.String()); err != nil {
			tracer().Errorf(err.Error())
			return err
		}
		return nil
	})
	assert(err == nil, "internal error in rope.String()")
	return bf.String()
}

// EachLeaf iterates over all leaf fragments of the rope, in text order,
// together with their byte position. Empty fragments are skipped.
func (rope Rope) EachLeaf(f func(Leaf, uint64) error) error {
	if rope.root == nil {
		return nil
	}
	var err error
	var pos uint64
	for l := range rope.root.leaves() {
		if err = f(l, pos); err != nil {
			break
		}
		pos += l.Weight()
	}
	return err
}

// FragmentCount returns the number of non-empty fragments this rope is
// internally split into.
func (rope Rope) FragmentCount() int {
	cnt := 0
	_ = rope.EachLeaf(func(Leaf, uint64) error {
		cnt++
		return nil
	})
	return cnt
}

// Index returns the index-th unit of metric as a substring, e.g. the i-th
// byte, rune, grapheme cluster or line of the text.
//
// Index panics if index is outside the rope. Metrics which only recognize
// boundaries at fragment ends (LineMetric) resolve a unit to the whole
// fragment containing it.
func (rope Rope) Index(metric Metric, index uint64) string {
	m := rope.Measure(metric)
	if index >= m {
		panic(fmt.Sprintf("rope: index %d out of bounds (%d %s)", index, m, metric.Name()))
	}
	return rope.root.index(metric, index)
}

// Report outputs a byte substring: Report(i,l) => string b_i,...,b_i+l-1.
func (rope Rope) Report(i, l uint64) (string, error) {
	// i+l may wrap around; compare without adding
	if i > rope.Len() || l > rope.Len()-i {
		return "", ErrIndexOutOfBounds
	}
	if l == 0 {
		return "", nil
	}
	buf := rope.root.report(i, l, make([]byte, 0, l))
	return string(buf), nil
}

// Equal compares the text content of two ropes. The internal tree
// structure of the ropes does not matter; ropes with differing fragment
// layout but identical text are equal.
func (rope Rope) Equal(other Rope) bool {
	if rope.Len() != other.Len() {
		return false
	}
	return eqStrings(rope, func(yield func(string) bool) {
		for frag := range other.Strings() {
			if !yield(frag) {
				return
			}
		}
	})
}

// EqualString compares the text content of the rope to a string.
func (rope Rope) EqualString(s string) bool {
	if rope.Len() != uint64(len(s)) {
		return false
	}
	ok := true
	_ = rope.EachLeaf(func(leaf Leaf, pos uint64) error {
		frag := leaf.String()
		if s[pos:pos+uint64(len(frag))] != frag {
			ok = false
			return ErrIllegalArguments // any error stops the walk
		}
		return nil
	})
	return ok
}

// --- Editing ---------------------------------------------------------------

// Insert inserts a character at index, interpreted in units of metric.
// Inserting at index 0 prepends, inserting at Measure(metric) appends.
//
// Insert panics if index is greater than the length of the rope in terms
// of metric.
func (rope *Rope) Insert(metric Metric, index uint64, ch rune) {
	rope.InsertStr(metric, index, string(ch))
}

// InsertStr inserts a string at index, interpreted in units of metric.
//
// InsertStr panics if index is greater than the length of the rope in
// terms of metric.
func (rope *Rope) InsertStr(metric Metric, index uint64, s string) {
	rope.InsertRope(metric, index, FromString(s))
}

// InsertRope inserts a rope at index, interpreted in units of metric.
// Inserting an empty rope is a no-op.
//
// InsertRope panics if index is greater than the length of the rope in
// terms of metric.
func (rope *Rope) InsertRope(metric Metric, index uint64, other Rope) {
	m := rope.Measure(metric)
	assert(index <= m, fmt.Sprintf("insert index %d out of bounds (%d %s)",
		index, m, metric.Name()))
	if other.IsEmpty() {
		return
	}
	switch index {
	case 0:
		rope.Prepend(other)
	case m:
		rope.Append(other)
	default:
		left, right := rope.takeRoot().split(metric, index)
		rope.root = makeBranch(makeBranch(left, other.root), right)
		rope.rebalance()
	}
}

// Append appends a rope to the end of this rope, updating it in place.
// Appending an empty rope is a no-op.
func (rope *Rope) Append(other Rope) {
	if other.IsEmpty() {
		return
	}
	rope.root = makeBranch(rope.takeRoot(), other.root)
	rope.rebalance()
}

// Prepend prepends a rope to the front of this rope, updating it in place.
// Prepending an empty rope is a no-op.
func (rope *Rope) Prepend(other Rope) {
	if other.IsEmpty() {
		return
	}
	rope.root = makeBranch(other.root, rope.takeRoot())
	rope.rebalance()
}

// Delete deletes the range [from, to) from the rope, interpreted in units
// of metric.
//
// Delete panics if from > to or if the range reaches outside the rope.
func (rope *Rope) Delete(metric Metric, from, to uint64) {
	m := rope.Measure(metric)
	assert(from <= to, fmt.Sprintf("invalid range: start %d > end %d", from, to))
	assert(to <= m, fmt.Sprintf("delete range %d..%d out of bounds (%d %s)",
		from, to, m, metric.Name()))
	if from == to {
		return
	}
	l, r := rope.takeRoot().split(metric, from)
	_, r = r.split(metric, to-from)
	rope.root = makeBranch(l, r)
	rope.rebalance()
}

// Split splits the rope into two ropes right after index units of metric.
// The receiver is left unchanged; all unchanged fragments are shared
// between the receiver and the two result ropes.
//
// Split panics if index is greater than the length of the rope in terms
// of metric.
func (rope Rope) Split(metric Metric, index uint64) (Rope, Rope) {
	m := rope.Measure(metric)
	assert(index <= m, fmt.Sprintf("split index %d out of bounds (%d %s)",
		index, m, metric.Name()))
	if rope.root == nil {
		return Rope{}, Rope{}
	}
	l, r := rope.root.split(metric, index)
	return Rope{root: l}, Rope{root: r}
}

// Rebalance rebalances the rope in place. Editing operations rebalance
// automatically; clients only need this after building ropes from many
// small pieces through Append in a loop.
func (rope *Rope) Rebalance() {
	rope.rebalance()
}

func (rope *Rope) rebalance() {
	if rope.root == nil {
		return
	}
	rope.root = rope.root.rebalance()
}

// --- Recoverable variants --------------------------------------------------

// The editing operations above treat illegal indices as programming errors
// and panic. Embedding contexts which pass through untrusted positions may
// prefer an error value instead.

// SplitAt is the recoverable variant of Split.
func (rope Rope) SplitAt(metric Metric, index uint64) (Rope, Rope, error) {
	if index > rope.Measure(metric) {
		return Rope{}, Rope{}, ErrIndexOutOfBounds
	}
	l, r := rope.Split(metric, index)
	return l, r, nil
}

// InsertRopeAt is the recoverable variant of InsertRope.
func (rope *Rope) InsertRopeAt(metric Metric, index uint64, other Rope) error {
	if index > rope.Measure(metric) {
		return ErrIndexOutOfBounds
	}
	rope.InsertRope(metric, index, other)
	return nil
}

// DeleteRange is the recoverable variant of Delete.
func (rope *Rope) DeleteRange(metric Metric, from, to uint64) error {
	if from > to {
		return ErrIllegalArguments
	}
	if to > rope.Measure(metric) {
		return ErrIndexOutOfBounds
	}
	rope.Delete(metric, from, to)
	return nil
}

// --- Package-level operations ----------------------------------------------

// Concat concatenates ropes and returns a new rope. The arguments are
// left unchanged.
func Concat(rope Rope, others ...Rope) Rope {
	result := Rope{root: rope.root}
	for _, other := range others {
		result.Append(other)
	}
	return result
}

// Substr creates a new rope from the byte range [i, i+l) of rope.
func Substr(rope Rope, i, l uint64) (Rope, error) {
	if i > rope.Len() || l > rope.Len()-i {
		return Rope{}, ErrIndexOutOfBounds
	}
	if l == 0 {
		return Rope{}, nil
	}
	_, r := rope.Split(ByteMetric{}, i)
	mid, _ := r.Split(ByteMetric{}, l)
	return mid, nil
}

// Cut cuts out the byte range [i, i+l) from a rope. It returns a new rope
// without the cut-out segment, and the cut segment itself.
func Cut(rope Rope, i, l uint64) (Rope, Rope, error) {
	if i > rope.Len() || l > rope.Len()-i {
		return Rope{}, Rope{}, ErrIndexOutOfBounds
	}
	left, r := rope.Split(ByteMetric{}, i)
	mid, right := r.Split(ByteMetric{}, l)
	left.Append(right)
	return left, mid, nil
}
