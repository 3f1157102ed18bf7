package rope

import (
	"iter"
	"strings"
)

// node.leaves yields all non-empty leaf fragments in text order.
func (n *node) leaves() iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		n.yieldLeaves(yield)
	}
}

func (n *node) yieldLeaves(yield func(Leaf) bool) bool {
	if n.isLeaf() {
		if n.length == 0 {
			return true
		}
		return yield(n.leaf)
	}
	if !n.left.yieldLeaves(yield) {
		return false
	}
	return n.right.yieldLeaves(yield)
}

// Leaves returns an iterator over all non-empty leaf fragments of the rope.
func (rope Rope) Leaves() iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		if rope.root == nil {
			return
		}
		rope.root.yieldLeaves(yield)
	}
}

// Strings returns an iterator over the fragment strings of the rope, in
// text order. Concatenating all fragments yields the rope's content.
func (rope Rope) Strings() iter.Seq[string] {
	return func(yield func(string) bool) {
		for leaf := range rope.Leaves() {
			if !yield(leaf.String()) {
				return
			}
		}
	}
}

// Bytes returns an iterator over all the bytes of the rope.
func (rope Rope) Bytes() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for frag := range rope.Strings() {
			for i := 0; i < len(frag); i++ {
				if !yield(frag[i]) {
					return
				}
			}
		}
	}
}

// Chars returns an iterator over all the runes of the rope.
//
// It's important to remember that a rune represents a Unicode scalar value,
// and may not match your idea of what a ‘character’ is. Iteration over
// grapheme clusters may be what you actually want.
func (rope Rope) Chars() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for frag := range rope.Strings() {
			for _, r := range frag {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// CharIndices returns an iterator over the runes of the rope together with
// their byte positions.
func (rope Rope) CharIndices() iter.Seq2[uint64, rune] {
	return func(yield func(uint64, rune) bool) {
		var pos uint64
		for frag := range rope.Strings() {
			for i, r := range frag {
				if !yield(pos+uint64(i), r) {
					return
				}
			}
			pos += uint64(len(frag))
		}
	}
}

// Lines returns an iterator over the lines of text in the rope. A line is
// terminated by '\n'; the yielded line content does not include the
// newline character. A final segment without a trailing newline is yielded
// as the last line.
func (rope Rope) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		if rope.IsEmpty() {
			return
		}
		var partial strings.Builder
		for frag := range rope.Strings() {
			for {
				i := strings.IndexByte(frag, '\n')
				if i < 0 {
					partial.WriteString(frag)
					break
				}
				line := frag[:i]
				if partial.Len() > 0 {
					partial.WriteString(line)
					line = partial.String()
					partial.Reset()
				}
				if !yield(line) {
					return
				}
				frag = frag[i+1:]
			}
		}
		if partial.Len() > 0 {
			yield(partial.String())
		}
	}
}

// eqStrings compares the content of rope against a stream of fragments.
// The caller has verified that both sides have the same total length.
func eqStrings(rope Rope, other iter.Seq[string]) bool {
	next, stop := iter.Pull(other)
	defer stop()
	cur := ""
	equal := true
	_ = rope.EachLeaf(func(leaf Leaf, pos uint64) error {
		frag := leaf.String()
		for len(frag) > 0 {
			for cur == "" {
				var ok bool
				if cur, ok = next(); !ok {
					equal = false
					return ErrIllegalArguments // any error stops the walk
				}
			}
			n := min(len(frag), len(cur))
			if frag[:n] != cur[:n] {
				equal = false
				return ErrIllegalArguments
			}
			frag = frag[n:]
			cur = cur[n:]
		}
		return nil
	})
	return equal
}
