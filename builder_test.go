package rope

import (
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// countingLeaf records how often its content has been materialized.
type countingLeaf struct {
	text  string
	reads int32
}

func (cl *countingLeaf) Weight() uint64 { return uint64(len(cl.text)) }

func (cl *countingLeaf) String() string {
	atomic.AddInt32(&cl.reads, 1)
	return cl.text
}

func (cl *countingLeaf) Substring(i, j uint64) []byte {
	return []byte(cl.String()[i:j])
}

func (cl *countingLeaf) Split(i uint64) (Leaf, Leaf) {
	s := cl.String()
	return StringLeaf(s[:i]), StringLeaf(s[i:])
}

func TestBuilderAppendPrepend(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AppendString("World"))
	require.NoError(t, b.PrependString("Hello "))
	require.NoError(t, b.AppendString("!"))
	text := b.Rope()
	require.Equal(t, "Hello World!", text.String())
}

func TestBuilderEmpty(t *testing.T) {
	b := NewBuilder()
	text := b.Rope()
	require.True(t, text.IsEmpty())
}

func TestBuilderCompleted(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AppendString("done"))
	_ = b.Rope()
	require.Equal(t, ErrRopeCompleted, b.AppendString("more"))
	text := b.Rope()
	require.Equal(t, "done", text.String())
}

func TestBuilderReset(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AppendString("first"))
	_ = b.Rope()
	b.Reset()
	require.NoError(t, b.AppendString("second"))
	require.Equal(t, "second", b.Rope().String())
}

func TestBuilderInvalidUTF8(t *testing.T) {
	b := NewBuilder()
	require.Equal(t, ErrInvalidUTF8, b.AppendString(string([]byte{0xff, 0xfe})))
}

func TestBuilderLeafs(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AppendLeaf(StringLeaf("World")))
	require.NoError(t, b.PrependLeaf(StringLeaf("Hello ")))
	require.NoError(t, b.AppendLeaf(nil)) // ignored
	require.Equal(t, "Hello World", b.Rope().String())
}

func TestBuilderFragmentsLongText(t *testing.T) {
	long := strings.Repeat("x", 3*maxFragment+10)
	b := NewBuilder()
	require.NoError(t, b.AppendString(long))
	text := b.Rope()
	require.Equal(t, long, text.String())
	for frag := range text.Strings() {
		require.LessOrEqual(t, len(frag), maxFragment)
	}
	require.Equal(t, 4, text.FragmentCount())
}

func TestBuilderFragmentsAtNewlines(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.AppendString("one\ntwo\nthree"))
	text := b.Rope()
	require.Equal(t, 3, text.FragmentCount())
	require.EqualValues(t, 2, text.Measure(LineMetric{}))
}

// Leaf types with expensive content (async-loaded file fragments) must not
// be materialized by rope assembly. Only metric queries and reads touch the
// content.
func TestBuilderKeepsLeavesUnmaterialized(t *testing.T) {
	first := &countingLeaf{text: "Hello "}
	second := &countingLeaf{text: "World\n"}
	b := NewBuilder()
	require.NoError(t, b.AppendLeaf(first))
	require.NoError(t, b.AppendLeaf(second))
	text := b.Rope()
	require.EqualValues(t, 12, text.Len())
	require.Zero(t, atomic.LoadInt32(&first.reads))
	require.Zero(t, atomic.LoadInt32(&second.reads))
	require.EqualValues(t, 1, text.Measure(LineMetric{}))
	require.Positive(t, atomic.LoadInt32(&first.reads))
	require.Positive(t, atomic.LoadInt32(&second.reads))
}

func TestBuilderBuildsBalancedTree(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 500; i++ {
		require.NoError(t, b.AppendString("line\n"))
	}
	text := b.Rope()
	require.EqualValues(t, 2500, text.Len())
	require.True(t, text.root.isBalanced())
}
