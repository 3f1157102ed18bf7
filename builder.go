package rope

import (
	"strings"
	"unicode/utf8"
)

// maxFragment bounds the size of fragments produced by the builder.
// Lines longer than this are split at the nearest rune boundary.
const maxFragment = 1024

// Builder incrementally stages text and finalizes it into a Rope.
//
// Builder collects UTF-8 text as fragments and materializes the rope only
// when Rope() is called, building a tree of minimal depth in one pass
// instead of rebalancing after every piece.
//
// The empty instance is a valid builder, but clients may use NewBuilder.
type Builder struct {
	// front keeps prepended fragments in reverse logical order.
	front []Leaf
	// back keeps appended fragments in logical order.
	back []Leaf

	done  bool
	dirty bool
	rope  Rope
}

// NewBuilder creates a new and empty rope builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Rope returns the rope built from all staged fragments.
//
// It is illegal to continue adding fragments after Rope has been called,
// but Rope may be called multiple times.
func (b *Builder) Rope() Rope {
	if b == nil {
		return Rope{}
	}
	if b.dirty {
		b.rope = b.buildRope()
		b.dirty = false
	}
	b.done = true
	if b.rope.IsEmpty() {
		tracer().Debugf("rope builder: rope is void")
	}
	return b.rope
}

// Reset drops the staged build and prepares the builder for a fresh build.
func (b *Builder) Reset() {
	b.front = nil
	b.back = nil
	b.done = false
	b.dirty = false
	b.rope = Rope{}
}

// AppendString appends UTF-8 text to the staged build.
func (b *Builder) AppendString(text string) error {
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	return b.appendFrags(splitToFragments(text))
}

// PrependString prepends UTF-8 text to the staged build.
func (b *Builder) PrependString(text string) error {
	if !utf8.ValidString(text) {
		return ErrInvalidUTF8
	}
	return b.prependFrags(splitToFragments(text))
}

// AppendBytes appends UTF-8 bytes to the staged build.
func (b *Builder) AppendBytes(text []byte) error {
	return b.AppendString(string(text))
}

// PrependBytes prepends UTF-8 bytes to the staged build.
func (b *Builder) PrependBytes(text []byte) error {
	return b.PrependString(string(text))
}

// AppendLeaf appends a pre-built leaf fragment.
func (b *Builder) AppendLeaf(leaf Leaf) error {
	if leaf == nil || leaf.Weight() == 0 {
		return nil
	}
	return b.appendFrags([]Leaf{leaf})
}

// PrependLeaf prepends a pre-built leaf fragment.
func (b *Builder) PrependLeaf(leaf Leaf) error {
	if leaf == nil || leaf.Weight() == 0 {
		return nil
	}
	return b.prependFrags([]Leaf{leaf})
}

func (b *Builder) appendFrags(frags []Leaf) error {
	if b == nil {
		return ErrIllegalArguments
	}
	if b.done {
		return ErrRopeCompleted
	}
	b.back = append(b.back, frags...)
	if len(frags) > 0 {
		b.dirty = true
	}
	return nil
}

func (b *Builder) prependFrags(frags []Leaf) error {
	if b == nil {
		return ErrIllegalArguments
	}
	if b.done {
		return ErrRopeCompleted
	}
	// front is stored in reverse logical order.
	for i := len(frags) - 1; i >= 0; i-- {
		b.front = append(b.front, frags[i])
	}
	if len(frags) > 0 {
		b.dirty = true
	}
	return nil
}

func (b *Builder) buildRope() Rope {
	parts := b.orderedLeaves()
	if len(parts) == 0 {
		return Rope{}
	}
	nodes := make([]*node, len(parts))
	for i, leaf := range parts {
		nodes[i] = makeLeaf(leaf)
	}
	return Rope{root: buildBalanced(nodes)}
}

func (b *Builder) orderedLeaves() []Leaf {
	total := len(b.front) + len(b.back)
	if total == 0 {
		return nil
	}
	out := make([]Leaf, 0, total)
	for i := len(b.front) - 1; i >= 0; i-- {
		out = append(out, b.front[i])
	}
	out = append(out, b.back...)
	return out
}

// splitToFragments splits UTF-8 text into rope fragments.
//
// Fragments end right after every '\n', aligning line boundaries with
// fragment boundaries. Overlong lines are additionally split at
// maxFragment, with the boundary moved back to the nearest rune start.
func splitToFragments(text string) []Leaf {
	if len(text) == 0 {
		return nil
	}
	frags := make([]Leaf, 0, 1+len(text)/maxFragment)
	for len(text) > 0 {
		end := strings.IndexByte(text, '\n') + 1
		if end == 0 || end > maxFragment {
			if len(text) <= maxFragment {
				end = len(text)
			} else {
				end = maxFragment
				for end > 0 && !utf8.RuneStart(text[end]) {
					end--
				}
				assert(end > 0, "fragment shrunk to nothing while seeking rune boundary")
			}
		}
		frags = append(frags, StringLeaf(text[:end]))
		text = text[end:]
	}
	return frags
}
