package rope

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Pos is an immutable rune-aware position coordinate.
//
// A Pos carries both a rune offset and a byte offset. Both values always
// refer to the same logical boundary in a specific rope snapshot.
type Pos struct {
	runes   uint64
	bytepos uint64
}

// Runes returns the rune offset of the position.
func (p Pos) Runes() uint64 { return p.runes }

// Bytes returns the byte offset of the position.
func (p Pos) Bytes() uint64 { return p.bytepos }

func (p Pos) String() string {
	return fmt.Sprintf("pos[rune=%d byte=%d]", p.runes, p.bytepos)
}

// PosStart returns the zero position of a rope.
func (rope Rope) PosStart() Pos {
	return Pos{}
}

// PosEnd returns the end position of a rope.
func (rope Rope) PosEnd() Pos {
	s := rope.Summary()
	return Pos{runes: s.Chars, bytepos: s.Bytes}
}

// PosFromByte creates a rune-aware position from a byte offset.
//
// The byte offset must point to a UTF-8 rune boundary.
func (rope Rope) PosFromByte(b uint64) (Pos, error) {
	if b > rope.Len() {
		return Pos{}, ErrIndexOutOfBounds
	}
	if b == 0 {
		return Pos{}, nil
	}
	if b == rope.Len() {
		return rope.PosEnd(), nil
	}
	runes, err := runesBeforeByte(rope.root, b)
	if err != nil {
		return Pos{}, err
	}
	return Pos{runes: runes, bytepos: b}, nil
}

// PosFromRunes creates a rune-aware position from a rune offset.
func (rope Rope) PosFromRunes(r uint64) (Pos, error) {
	total := rope.Summary()
	if r > total.Chars {
		return Pos{}, ErrIndexOutOfBounds
	}
	if r == 0 {
		return Pos{}, nil
	}
	if r == total.Chars {
		return Pos{runes: r, bytepos: total.Bytes}, nil
	}
	b, err := byteForRuneCount(rope.root, r)
	if err != nil {
		return Pos{}, err
	}
	return Pos{runes: r, bytepos: b}, nil
}

// ByteOffset returns the byte offset for a rune-aware position.
//
// The position is validated against the receiving rope.
func (rope Rope) ByteOffset(p Pos) (uint64, error) {
	if err := rope.validatePos(p); err != nil {
		return 0, err
	}
	return p.bytepos, nil
}

// validatePos verifies that a Pos is consistent for the receiving rope.
func (rope Rope) validatePos(p Pos) error {
	if p.bytepos > rope.Len() {
		return ErrIndexOutOfBounds
	}
	resolved, err := rope.PosFromByte(p.bytepos)
	if err != nil {
		if errors.Is(err, ErrIndexOutOfBounds) {
			return err
		}
		return fmt.Errorf("%w: cannot resolve byte offset", ErrIllegalPosition)
	}
	if resolved.runes != p.runes {
		return ErrIllegalPosition
	}
	return nil
}

// runesBeforeByte counts the runes in the byte range [0, b) of a subtree.
// The byte offset must be a rune boundary.
func runesBeforeByte(n *node, b uint64) (uint64, error) {
	if n.isLeaf() {
		frag := n.leaf.String()
		if b > uint64(len(frag)) {
			return 0, ErrIndexOutOfBounds
		}
		if b < uint64(len(frag)) && !utf8.RuneStart(frag[b]) {
			return 0, ErrIllegalPosition
		}
		return uint64(utf8.RuneCountInString(frag[:b])), nil
	}
	if b <= n.weight {
		return runesBeforeByte(n.left, b)
	}
	r, err := runesBeforeByte(n.right, b-n.weight)
	return n.left.summary().Chars + r, err
}

// byteForRuneCount returns the byte offset after the first r runes of a
// subtree.
func byteForRuneCount(n *node, r uint64) (uint64, error) {
	if n.isLeaf() {
		b, ok := CharMetric{}.ByteIndex(n.leaf.String(), r)
		if !ok {
			return 0, ErrIndexOutOfBounds
		}
		return b, nil
	}
	wchars := n.left.summary().Chars
	if r <= wchars {
		return byteForRuneCount(n.left, r)
	}
	b, err := byteForRuneCount(n.right, r-wchars)
	return n.weight + b, err
}

// leafAt locates the fragment containing byte position i, returning the
// fragment and the position within it.
func (rope Rope) leafAt(i uint64) (string, uint64, error) {
	if rope.root == nil || i >= rope.Len() {
		return "", 0, ErrIndexOutOfBounds
	}
	n := rope.root
	for !n.isLeaf() {
		if i < n.weight {
			n = n.left
		} else {
			i -= n.weight
			n = n.right
		}
	}
	return n.leaf.String(), i, nil
}

// --- Cursor ----------------------------------------------------------------

// CharCursor navigates a rope by UTF-8 rune positions.
//
// The cursor is bound to one rope snapshot. Movement is in rune steps,
// while internal addressing uses byte offsets for efficient tree routing.
type CharCursor struct {
	rope    Rope
	pos     Pos
	byteOff uint64
}

// NewCharCursor creates a rune-aware cursor at the start of rope.
func (rope Rope) NewCharCursor() *CharCursor {
	return &CharCursor{rope: rope}
}

// Pos returns the current immutable cursor position.
func (cc *CharCursor) Pos() Pos {
	if cc == nil {
		return Pos{}
	}
	return cc.pos
}

// ByteOffset returns the current cursor byte offset.
func (cc *CharCursor) ByteOffset() uint64 {
	if cc == nil {
		return 0
	}
	return cc.byteOff
}

// SeekPos moves the cursor to p after validating p against the cursor's
// rope.
func (cc *CharCursor) SeekPos(p Pos) error {
	if cc == nil {
		return ErrIllegalArguments
	}
	if err := cc.rope.validatePos(p); err != nil {
		return err
	}
	cc.pos = p
	cc.byteOff = p.bytepos
	return nil
}

// SeekRunes moves the cursor to absolute rune offset n.
func (cc *CharCursor) SeekRunes(n uint64) error {
	if cc == nil {
		return ErrIllegalArguments
	}
	p, err := cc.rope.PosFromRunes(n)
	if err != nil {
		return err
	}
	cc.pos = p
	cc.byteOff = p.bytepos
	return nil
}

// Next returns the rune at the current cursor position and advances by one
// rune.
//
// If the cursor is at end-of-rope, ok is false.
func (cc *CharCursor) Next() (r rune, ok bool) {
	if cc == nil {
		return 0, false
	}
	if cc.byteOff >= cc.rope.Len() {
		return 0, false
	}
	frag, local, err := cc.rope.leafAt(cc.byteOff)
	if err != nil {
		return 0, false
	}
	r, n := utf8.DecodeRuneInString(frag[local:])
	if r == utf8.RuneError && n == 1 {
		return 0, false
	}
	cc.byteOff += uint64(n)
	cc.pos = Pos{runes: cc.pos.runes + 1, bytepos: cc.byteOff}
	return r, true
}

// Prev returns the rune before the current cursor position and moves back
// by one rune.
//
// If the cursor is at start-of-rope, ok is false.
func (cc *CharCursor) Prev() (r rune, ok bool) {
	if cc == nil {
		return 0, false
	}
	if cc.byteOff == 0 {
		return 0, false
	}
	probe := cc.byteOff - 1
	frag, local, err := cc.rope.leafAt(probe)
	if err != nil {
		return 0, false
	}
	off := local
	for off > 0 && !utf8.RuneStart(frag[off]) {
		off--
	}
	r, n := utf8.DecodeRuneInString(frag[off:])
	if r == utf8.RuneError && n == 1 {
		return 0, false
	}
	cc.byteOff = probe - local + off
	if cc.pos.runes > 0 {
		cc.pos = Pos{runes: cc.pos.runes - 1, bytepos: cc.byteOff}
	} else {
		cc.pos = Pos{bytepos: cc.byteOff}
	}
	return r, true
}
