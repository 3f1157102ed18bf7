package rope

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/

import (
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/uax/grapheme"
)

// Summary aggregates fragment-level text metrics for tree routing.
//
// Tree-level code uses summaries to navigate and aggregate, while leaf
// code keeps ownership of local byte/rune boundary logic. Summaries are
// computed once, at node construction.
type Summary struct {
	Bytes     uint64
	Chars     uint64
	Graphemes uint64
	Lines     uint64
}

// summarize computes the summary for a text fragment.
//
// Lines counts newline characters. For ropes built by this package all
// newlines of a fragment are trailing ones, as construction splits
// fragments right after '\n'.
func summarize(frag string) Summary {
	if frag == "" {
		return Summary{}
	}
	return Summary{
		Bytes:     uint64(len(frag)),
		Chars:     uint64(utf8.RuneCountInString(frag)),
		Graphemes: uint64(grapheme.StringFromString(frag).Len()),
		Lines:     uint64(strings.Count(frag, "\n")),
	}
}

// Monoid aggregates fragment summaries for inner nodes of the rope tree.
type Monoid struct{}

// Zero returns the neutral summary value.
func (Monoid) Zero() Summary { return Summary{} }

// Add combines two summaries.
func (Monoid) Add(left, right Summary) Summary {
	return Summary{
		Bytes:     left.Bytes + right.Bytes,
		Chars:     left.Chars + right.Chars,
		Graphemes: left.Graphemes + right.Graphemes,
		Lines:     left.Lines + right.Lines,
	}
}

// --- Metrics ---------------------------------------------------------------

// Metric is a unit of measurement on text, e.g. bytes, runes, grapheme
// clusters or lines. Operations on ropes which address positions within the
// text accept a metric and interpret index arguments in terms of it.
//
// ByteIndex converts a metric index into a byte index into a given text
// fragment: it returns the byte offset of the boundary after the first n
// units of frag. The boolean return value will be false if frag contains no
// such boundary.
type Metric interface {
	Name() string                                   // name of the metric, for diagnostics
	Measure(sum Summary) uint64                     // number of units from a node summary
	ByteIndex(frag string, n uint64) (uint64, bool) // byte offset after n units
	Splittable() bool                               // may fragments be split at interior boundaries?
}

// ByteMetric measures text in bytes.
type ByteMetric struct{}

func (ByteMetric) Name() string { return "bytes" }

// Measure returns the byte count of a summary.
func (ByteMetric) Measure(sum Summary) uint64 { return sum.Bytes }

// ByteIndex is the identity for byte metrics.
func (ByteMetric) ByteIndex(frag string, n uint64) (uint64, bool) {
	if n > uint64(len(frag)) {
		return 0, false
	}
	return n, true
}

func (ByteMetric) Splittable() bool { return true }

// CharMetric measures text in runes (Unicode code points).
type CharMetric struct{}

func (CharMetric) Name() string { return "chars" }

// Measure returns the rune count of a summary.
func (CharMetric) Measure(sum Summary) uint64 { return sum.Chars }

// ByteIndex returns the byte offset after the first n runes of frag.
func (CharMetric) ByteIndex(frag string, n uint64) (uint64, bool) {
	if n == 0 {
		return 0, true
	}
	var seen uint64
	for i := range frag {
		if seen == n {
			return uint64(i), true
		}
		seen++
	}
	if seen == n {
		return uint64(len(frag)), true
	}
	return 0, false
}

func (CharMetric) Splittable() bool { return true }

// GraphemeMetric measures text in grapheme clusters (user-perceived
// characters), as segmented by uax/grapheme.
type GraphemeMetric struct{}

func (GraphemeMetric) Name() string { return "graphemes" }

// Measure returns the grapheme count of a summary.
func (GraphemeMetric) Measure(sum Summary) uint64 { return sum.Graphemes }

// ByteIndex returns the byte offset after the first n grapheme clusters
// of frag.
func (GraphemeMetric) ByteIndex(frag string, n uint64) (uint64, bool) {
	if n == 0 {
		return 0, true
	}
	gstr := grapheme.StringFromString(frag)
	cnt := uint64(gstr.Len())
	if n > cnt {
		return 0, false
	}
	var off uint64
	for i := uint64(0); i < n; i++ {
		off += uint64(len(gstr.Nth(int(i))))
	}
	return off, true
}

// Splittable is false for graphemes: a fragment boundary inside a grapheme
// cluster would make cluster segmentation of the fragments disagree with
// segmentation of the whole text.
func (GraphemeMetric) Splittable() bool { return false }

// LineMetric measures text in lines, where a line is terminated by '\n'.
//
// A line boundary is only recognized at the end of a fragment. Ropes
// constructed by this package split fragments right after every newline,
// so every line boundary of the text is a fragment boundary. Ropes built
// from custom leafs with interior newlines will see line-addressed
// operations resolve to the nearest fragment end instead.
type LineMetric struct{}

func (LineMetric) Name() string { return "lines" }

// Measure returns the newline count of a summary.
func (LineMetric) Measure(sum Summary) uint64 { return sum.Lines }

// ByteIndex only resolves boundary 0, which is the end of the fragment.
func (LineMetric) ByteIndex(frag string, n uint64) (uint64, bool) {
	if n == 0 {
		return uint64(len(frag)), true
	}
	return 0, false
}

func (LineMetric) Splittable() bool { return true }
