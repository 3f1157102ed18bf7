package rope

import (
	"bufio"
	"iter"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
)

// Unicode text segmentation on ropes.
//
// Grapheme cluster and word boundaries are not stable under fragmentation:
// a cluster may straddle two fragments of the rope. The iterators in this
// file therefore run a uax segmenter over the byte stream of the whole
// rope instead of segmenting fragment by fragment.

// Graphemes returns an iterator over the grapheme clusters of the rope,
// with cluster boundaries as defined by Unicode Annex #29.
func (rope Rope) Graphemes() iter.Seq[string] {
	return func(yield func(string) bool) {
		if rope.IsEmpty() {
			return
		}
		segmenter := segment.NewSegmenter(grapheme.NewBreaker(1))
		segmenter.Init(bufio.NewReader(rope.Reader()))
		for segmenter.Next() {
			if !yield(string(segmenter.Bytes())) {
				return
			}
		}
	}
}

// GraphemeIndices returns an iterator over the grapheme clusters of the
// rope together with their byte positions.
func (rope Rope) GraphemeIndices() iter.Seq2[uint64, string] {
	return func(yield func(uint64, string) bool) {
		if rope.IsEmpty() {
			return
		}
		var pos uint64
		segmenter := segment.NewSegmenter(grapheme.NewBreaker(1))
		segmenter.Init(bufio.NewReader(rope.Reader()))
		for segmenter.Next() {
			cluster := string(segmenter.Bytes())
			if !yield(pos, cluster) {
				return
			}
			pos += uint64(len(cluster))
		}
	}
}

// Words returns an iterator over the word segments of the rope, as
// produced by the default segmenter of package uax/segment. Inter-word
// spans (whitespace) are yielded as segments of their own, so the
// concatenation of all segments restores the text.
func (rope Rope) Words() iter.Seq[string] {
	return func(yield func(string) bool) {
		if rope.IsEmpty() {
			return
		}
		segmenter := segment.NewSegmenter()
		segmenter.Init(bufio.NewReader(rope.Reader()))
		for segmenter.Next() {
			if !yield(string(segmenter.Bytes())) {
				return
			}
		}
	}
}
