package rope

import (
	"math"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestNewStringRope(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	text := FromString("Hello World")
	t.Logf("text = '%s'", text)
	if text.String() != "Hello World" {
		t.Errorf("expected rope.String() to be 'Hello World', is not")
	}
	if text.Len() != 11 {
		t.Errorf("expected length of 11, got %d", text.Len())
	}
	if text.IsEmpty() {
		t.Errorf("rope should not be empty")
	}
}

func TestEmptyRope(t *testing.T) {
	text := New()
	if !text.IsEmpty() {
		t.Errorf("new rope should be empty")
	}
	if text.Len() != 0 {
		t.Errorf("empty rope should have length 0, has %d", text.Len())
	}
	if text.String() != "" {
		t.Errorf("empty rope should stringify to \"\"")
	}
	empty := FromString("")
	if !empty.IsEmpty() {
		t.Errorf("FromString(\"\") should be empty")
	}
}

func TestFromStringSplitsAfterNewlines(t *testing.T) {
	text := FromString("one\ntwo\nthree")
	cnt := 0
	for frag := range text.Strings() {
		if cnt < 2 && !strings.HasSuffix(frag, "\n") {
			t.Errorf("fragment %d = %q does not end with newline", cnt, frag)
		}
		cnt++
	}
	if cnt != 3 {
		t.Errorf("expected 3 fragments, got %d", cnt)
	}
	if text.String() != "one\ntwo\nthree" {
		t.Errorf("content not preserved: %q", text.String())
	}
}

func TestRopeConcat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	r1 := FromString("Hello World")
	r2 := FromString(", how are you?")
	text := Concat(r1, r2)
	if text.IsEmpty() {
		t.Fatalf("concatenation is empty")
	}
	t.Logf("text = '%s'", text)
	if text.String() != "Hello World, how are you?" {
		t.Errorf("unexpected content: %q", text.String())
	}
	if r1.String() != "Hello World" {
		t.Errorf("argument rope has been modified by Concat")
	}
}

func TestRopeSplitBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	text := FromString("Hello World")
	left, right := text.Split(ByteMetric{}, 6)
	if left.String() != "Hello " || right.String() != "World" {
		t.Errorf("split produced %q | %q", left.String(), right.String())
	}
	if text.String() != "Hello World" {
		t.Errorf("split modified its receiver")
	}
}

func TestRopeSplitEdges(t *testing.T) {
	text := FromString("abc")
	left, right := text.Split(ByteMetric{}, 0)
	if left.String() != "" || right.String() != "abc" {
		t.Errorf("split at 0 produced %q | %q", left.String(), right.String())
	}
	left, right = text.Split(ByteMetric{}, 3)
	if left.String() != "abc" || right.String() != "" {
		t.Errorf("split at end produced %q | %q", left.String(), right.String())
	}
}

func TestRopeSplitChars(t *testing.T) {
	text := FromString("héllo wörld")
	left, right := text.Split(CharMetric{}, 5)
	if left.String() != "héllo" || right.String() != " wörld" {
		t.Errorf("char split produced %q | %q", left.String(), right.String())
	}
}

func TestRopeSplitLines(t *testing.T) {
	text := FromString("one\ntwo\nthree\n")
	if text.Measure(LineMetric{}) != 3 {
		t.Fatalf("expected 3 lines, got %d", text.Measure(LineMetric{}))
	}
	// The left half of a line split keeps the line with the given index.
	left, right := text.Split(LineMetric{}, 0)
	if left.String() != "one\n" {
		t.Errorf("expected first line on the left, got %q", left.String())
	}
	if right.String() != "two\nthree\n" {
		t.Errorf("expected remainder on the right, got %q", right.String())
	}
	left, right = text.Split(LineMetric{}, 1)
	if left.String() != "one\ntwo\n" || right.String() != "three\n" {
		t.Errorf("line split at 1 produced %q | %q", left.String(), right.String())
	}
}

func TestRopeInsert(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	text := FromString("an rope")
	text.InsertStr(ByteMetric{}, 3, "example ")
	if text.String() != "an example rope" {
		t.Errorf("insert produced %q", text.String())
	}
	text.Insert(CharMetric{}, 0, '—')
	if text.String() != "—an example rope" {
		t.Errorf("rune insert produced %q", text.String())
	}
}

func TestRopeInsertRopeEdges(t *testing.T) {
	text := FromString("bc")
	text.InsertRope(ByteMetric{}, 0, FromString("a"))
	if text.String() != "abc" {
		t.Errorf("prepend via insert produced %q", text.String())
	}
	text.InsertRope(ByteMetric{}, 3, FromString("d"))
	if text.String() != "abcd" {
		t.Errorf("append via insert produced %q", text.String())
	}
	text.InsertRope(ByteMetric{}, 2, New())
	if text.String() != "abcd" {
		t.Errorf("inserting an empty rope should be a no-op, got %q", text.String())
	}
}

func TestRopeDelete(t *testing.T) {
	text := FromString("Hello cruel World")
	text.Delete(ByteMetric{}, 5, 11)
	if text.String() != "Hello World" {
		t.Errorf("delete produced %q", text.String())
	}
	text.Delete(ByteMetric{}, 3, 3)
	if text.String() != "Hello World" {
		t.Errorf("empty delete should be a no-op, got %q", text.String())
	}
}

func TestRopeAppendPrepend(t *testing.T) {
	text := FromString("World")
	text.Prepend(FromString("Hello "))
	text.Append(FromString("!"))
	if text.String() != "Hello World!" {
		t.Errorf("append/prepend produced %q", text.String())
	}
	empty := New()
	empty.Append(FromString("x"))
	if empty.String() != "x" {
		t.Errorf("append to empty rope produced %q", empty.String())
	}
}

func TestRopeIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	text := FromString("Hello World")
	if s := text.Index(ByteMetric{}, 6); s != "W" {
		t.Errorf("expected byte 6 to be \"W\", got %q", s)
	}
	text = FromString("héllo")
	if s := text.Index(CharMetric{}, 1); s != "é" {
		t.Errorf("expected char 1 to be \"é\", got %q", s)
	}
}

// Indexing has to descend by the left subtree's measure, not by the total
// measure of a node. A two-fragment rope with the target unit in the right
// subtree exposes the difference.
func TestRopeIndexRightSubtree(t *testing.T) {
	r1 := FromString("Hello ")
	r2 := FromString("World")
	text := Concat(r1, r2)
	if s := text.Index(ByteMetric{}, 6); s != "W" {
		t.Errorf("expected byte 6 to be \"W\", got %q", s)
	}
	if s := text.Index(ByteMetric{}, 10); s != "d" {
		t.Errorf("expected byte 10 to be \"d\", got %q", s)
	}
	if s := text.Index(CharMetric{}, 7); s != "o" {
		t.Errorf("expected char 7 to be \"o\", got %q", s)
	}
}

func TestRopeIndexLines(t *testing.T) {
	text := FromString("one\ntwo\nthree")
	if s := text.Index(LineMetric{}, 0); s != "one\n" {
		t.Errorf("expected line 0 to be \"one\\n\", got %q", s)
	}
	if s := text.Index(LineMetric{}, 1); s != "two\n" {
		t.Errorf("expected line 1 to be \"two\\n\", got %q", s)
	}
}

func TestRopeIndexOutOfBounds(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected out-of-bounds index to panic")
		}
	}()
	text := FromString("abc")
	text.Index(ByteMetric{}, 3)
}

func TestRopeReport(t *testing.T) {
	text := Concat(FromString("Hello "), FromString("World"))
	s, err := text.Report(3, 5)
	if err != nil {
		t.Fatal(err.Error())
	}
	if s != "lo Wo" {
		t.Errorf("report(3,5) = %q", s)
	}
	if _, err = text.Report(8, 10); err == nil {
		t.Errorf("expected out-of-bounds report to fail")
	}
}

func TestRopeBalance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	text := New()
	for i := 0; i < 999; i++ {
		text.Append(FromString("a"))
	}
	if text.Len() != 999 {
		t.Fatalf("expected length 999, got %d", text.Len())
	}
	if !text.root.isBalanced() {
		t.Errorf("rope is unbalanced after 999 appends, depth=%d", text.root.depth)
	}
}

func TestRopeEqual(t *testing.T) {
	r1 := Concat(FromString("Hel"), FromString("lo"))
	r2 := FromString("Hello")
	if !r1.Equal(r2) {
		t.Errorf("ropes with equal content but different structure should be Equal")
	}
	if !r1.EqualString("Hello") {
		t.Errorf("EqualString failed for equal content")
	}
	if r1.EqualString("Hellx") {
		t.Errorf("EqualString matched unequal content")
	}
	if r1.Equal(FromString("Hello World")) {
		t.Errorf("Equal matched unequal content")
	}
}

func TestSubstrAndCut(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "rope")
	defer teardown()
	//
	text := FromString("Hello World")
	mid, err := Substr(text, 3, 5)
	if err != nil {
		t.Fatal(err.Error())
	}
	if mid.String() != "lo Wo" {
		t.Errorf("Substr(3,5) = %q", mid.String())
	}
	rest, seg, err := Cut(text, 5, 6)
	if err != nil {
		t.Fatal(err.Error())
	}
	if rest.String() != "Hello" || seg.String() != " World" {
		t.Errorf("Cut(5,6) = %q | %q", rest.String(), seg.String())
	}
	if text.String() != "Hello World" {
		t.Errorf("Cut modified its argument")
	}
}

func TestRecoverableOps(t *testing.T) {
	text := FromString("Hello")
	if _, _, err := text.SplitAt(ByteMetric{}, 6); err != ErrIndexOutOfBounds {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
	if err := text.InsertRopeAt(ByteMetric{}, 9, FromString("x")); err != ErrIndexOutOfBounds {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
	if err := text.DeleteRange(ByteMetric{}, 3, 2); err != ErrIllegalArguments {
		t.Errorf("expected ErrIllegalArguments, got %v", err)
	}
	left, right, err := text.SplitAt(ByteMetric{}, 2)
	if err != nil {
		t.Fatal(err.Error())
	}
	if left.String() != "He" || right.String() != "llo" {
		t.Errorf("SplitAt(2) = %q | %q", left.String(), right.String())
	}
}

func TestFromBytes(t *testing.T) {
	text, err := FromBytes([]byte("Hello"))
	if err != nil {
		t.Fatal(err.Error())
	}
	if text.String() != "Hello" {
		t.Errorf("FromBytes produced %q", text.String())
	}
	if _, err = FromBytes([]byte{0xff, 0xfe}); err != ErrInvalidUTF8 {
		t.Errorf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestRangesNearMaxUint(t *testing.T) {
	// i+l would wrap around for these arguments
	text := FromString("Hello World")
	if _, err := text.Report(math.MaxUint64-1, 5); err != ErrIndexOutOfBounds {
		t.Errorf("Report: expected ErrIndexOutOfBounds, got %v", err)
	}
	if _, err := text.Report(5, math.MaxUint64-2); err != ErrIndexOutOfBounds {
		t.Errorf("Report: expected ErrIndexOutOfBounds, got %v", err)
	}
	if _, err := Substr(text, math.MaxUint64-1, 5); err != ErrIndexOutOfBounds {
		t.Errorf("Substr: expected ErrIndexOutOfBounds, got %v", err)
	}
	if _, _, err := Cut(text, math.MaxUint64-1, 5); err != ErrIndexOutOfBounds {
		t.Errorf("Cut: expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestFragmentCount(t *testing.T) {
	text := Concat(FromString("a"), FromString("b"), FromString("c"))
	if text.FragmentCount() != 3 {
		t.Errorf("expected 3 fragments, got %d", text.FragmentCount())
	}
}
