package rope

import (
	"bytes"
	"iter"
)

// RopeSlice is a read-only view of a byte range of a rope.
//
// A slice does not copy text. It locates the minimum subtree spanning the
// byte range and records an offset into it, so unrelated parts of the rope
// are never touched when iterating the slice.
type RopeSlice struct {
	node   *node
	offset uint64
	length uint64
}

// Slice creates a view of the byte range [from, to) of the rope.
func (rope Rope) Slice(from, to uint64) (RopeSlice, error) {
	if from > to || to > rope.Len() {
		return RopeSlice{}, ErrIndexOutOfBounds
	}
	if from == to || rope.root == nil {
		return RopeSlice{}, nil
	}
	span, offset := rope.root.spanning(from, to-from)
	return RopeSlice{node: span, offset: offset, length: to - from}, nil
}

// Len returns the length of the slice in bytes.
func (slice RopeSlice) Len() uint64 {
	return slice.length
}

// String materializes the slice content as a Go string.
func (slice RopeSlice) String() string {
	if slice.length == 0 {
		return ""
	}
	var bf bytes.Buffer
	for frag := range slice.Strings() {
		bf.WriteString(frag)
	}
	return bf.String()
}

// Strings returns an iterator over the fragments of the slice, clipped to
// the slice boundaries.
func (slice RopeSlice) Strings() iter.Seq[string] {
	return func(yield func(string) bool) {
		if slice.length == 0 {
			return
		}
		var pos uint64
		end := slice.offset + slice.length
		for leaf := range slice.node.leaves() {
			if pos >= end {
				return
			}
			frag := leaf.String()
			next := pos + uint64(len(frag))
			if next > slice.offset {
				lo := orZero(slice.offset, pos)
				hi := min(uint64(len(frag)), end-pos)
				if !yield(frag[lo:hi]) {
					return
				}
			}
			pos = next
		}
	}
}

// Bytes returns an iterator over the bytes of the slice.
func (slice RopeSlice) Bytes() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for frag := range slice.Strings() {
			for i := 0; i < len(frag); i++ {
				if !yield(frag[i]) {
					return
				}
			}
		}
	}
}

// Chars returns an iterator over the runes of the slice. The slice
// boundaries must lie on rune boundaries for the runes to be meaningful.
func (slice RopeSlice) Chars() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for frag := range slice.Strings() {
			for _, r := range frag {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// Rope materializes the slice as a rope of its own, sharing fragments
// with the underlying rope where possible.
func (slice RopeSlice) Rope() Rope {
	if slice.length == 0 {
		return Rope{}
	}
	sub, err := Substr(Rope{root: slice.node}, slice.offset, slice.length)
	assert(err == nil, "slice range inconsistent with spanning node")
	return sub
}

// EqualString compares the content of the slice to a string.
func (slice RopeSlice) EqualString(s string) bool {
	if slice.length != uint64(len(s)) {
		return false
	}
	var pos uint64
	for frag := range slice.Strings() {
		if s[pos:pos+uint64(len(frag))] != frag {
			return false
		}
		pos += uint64(len(frag))
	}
	return true
}

// Equal compares the content of two slices.
func (slice RopeSlice) Equal(other RopeSlice) bool {
	if slice.length != other.length {
		return false
	}
	return slice.Rope().Equal(other.Rope())
}

// --- Mutable slices --------------------------------------------------------

// RopeSliceMut is a mutable view of a byte range of a rope. Editing
// operations on the slice address positions relative to the slice start
// and write through to the underlying rope.
//
// A mutable slice requires exclusive access to its rope: while a
// RopeSliceMut is in use, the rope must not be modified through any other
// handle. Read-only slices taken before mutation become stale.
type RopeSliceMut struct {
	rope   *Rope
	offset uint64
	length uint64
}

// SliceMut creates a mutable view of the byte range [from, to) of the rope.
func (rope *Rope) SliceMut(from, to uint64) (*RopeSliceMut, error) {
	if from > to || to > rope.Len() {
		return nil, ErrIndexOutOfBounds
	}
	return &RopeSliceMut{rope: rope, offset: from, length: to - from}, nil
}

// Len returns the length of the slice in bytes.
func (slice *RopeSliceMut) Len() uint64 {
	return slice.length
}

// String materializes the slice content as a Go string.
func (slice *RopeSliceMut) String() string {
	s, err := slice.rope.Report(slice.offset, slice.length)
	assert(err == nil, "mutable slice range inconsistent with rope")
	return s
}

// InsertRope inserts a rope at index, where index is a byte position
// relative to the start of the slice. The underlying rope is updated and
// the slice grows by the length of the insertion.
func (slice *RopeSliceMut) InsertRope(index uint64, other Rope) error {
	if index > slice.length {
		return ErrIndexOutOfBounds
	}
	grow := other.Len()
	if err := slice.rope.InsertRopeAt(ByteMetric{}, slice.offset+index, other); err != nil {
		return err
	}
	slice.length += grow
	return nil
}

// Insert inserts a character at byte index relative to the slice start.
func (slice *RopeSliceMut) Insert(index uint64, ch rune) error {
	return slice.InsertRope(index, FromString(string(ch)))
}

// InsertStr inserts a string at byte index relative to the slice start.
func (slice *RopeSliceMut) InsertStr(index uint64, s string) error {
	return slice.InsertRope(index, FromString(s))
}

// Delete deletes the byte range [from, to), relative to the slice start,
// from slice and rope.
func (slice *RopeSliceMut) Delete(from, to uint64) error {
	if from > to {
		return ErrIllegalArguments
	}
	if to > slice.length {
		return ErrIndexOutOfBounds
	}
	if err := slice.rope.DeleteRange(ByteMetric{}, slice.offset+from, slice.offset+to); err != nil {
		return err
	}
	slice.length -= to - from
	return nil
}

// EqualString compares the content of the slice to a string.
func (slice *RopeSliceMut) EqualString(s string) bool {
	return slice.length == uint64(len(s)) && slice.String() == s
}
