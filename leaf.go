package rope

/*
BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the License file in the repository root.
*/

// Leaf is an interface type for leafs of a rope structure.
// Leafs do carry fragments of text.
//
// The default implementation uses Go strings.
type Leaf interface {
	Weight() uint64                  // length of the leaf fragment in bytes
	String() string                  // produce the leaf fragment as a string
	Substring(uint64, uint64) []byte // substring [i:j]
	Split(uint64) (Leaf, Leaf)       // split into 2 leafs at byte position i
}

// StringLeaf is the default implementation of type Leaf.
// Calls to rope.FromString(…) will produce a rope with leafs of type
// StringLeaf.
//
// StringLeaf is made public, because it may be of use for other constructors
// of ropes.
type StringLeaf string

// Weight of a leaf is its string length in bytes.
func (lstr StringLeaf) Weight() uint64 {
	return uint64(len(lstr))
}

func (lstr StringLeaf) String() string {
	return string(lstr)
}

// Split splits a leaf at position i, resulting in 2 new leafs.
func (lstr StringLeaf) Split(i uint64) (Leaf, Leaf) {
	left := lstr[:i]
	right := lstr[i:]
	return left, right
}

// Substring returns a string segment of the leaf's text fragment.
func (lstr StringLeaf) Substring(i, j uint64) []byte {
	return []byte(lstr)[i:j]
}

var _ Leaf = StringLeaf("")
