package rope

// Modifying operations come in two flavors. Insert, Delete and friends
// update the rope in place. The operations in this file return a new rope
// and leave the receiver untouched. Since fragments and tree nodes are
// immutable, a clone is just a second reference to the root: both versions
// share all unchanged subtrees.

// WithInsert returns a new rope with ch inserted at index, interpreted in
// units of metric. The receiver is unchanged.
//
// WithInsert panics if index is greater than the length of the rope in
// terms of metric.
func (rope Rope) WithInsert(metric Metric, index uint64, ch rune) Rope {
	clone := Rope{root: rope.root}
	clone.Insert(metric, index, ch)
	return clone
}

// WithInsertStr returns a new rope with s inserted at index, interpreted
// in units of metric. The receiver is unchanged.
//
// WithInsertStr panics if index is greater than the length of the rope in
// terms of metric.
func (rope Rope) WithInsertStr(metric Metric, index uint64, s string) Rope {
	clone := Rope{root: rope.root}
	clone.InsertStr(metric, index, s)
	return clone
}

// WithInsertRope returns a new rope with other inserted at index,
// interpreted in units of metric. The receiver is unchanged.
//
// WithInsertRope panics if index is greater than the length of the rope in
// terms of metric.
func (rope Rope) WithInsertRope(metric Metric, index uint64, other Rope) Rope {
	clone := Rope{root: rope.root}
	clone.InsertRope(metric, index, other)
	return clone
}

// WithAppend returns a new rope with other appended. The receiver is
// unchanged.
func (rope Rope) WithAppend(other Rope) Rope {
	clone := Rope{root: rope.root}
	clone.Append(other)
	return clone
}

// WithPrepend returns a new rope with other prepended. The receiver is
// unchanged.
func (rope Rope) WithPrepend(other Rope) Rope {
	clone := Rope{root: rope.root}
	clone.Prepend(other)
	return clone
}

// WithDelete returns a new rope with the range [from, to) deleted,
// interpreted in units of metric. The receiver is unchanged.
//
// WithDelete panics if from > to or if the range reaches outside the rope.
func (rope Rope) WithDelete(metric Metric, from, to uint64) Rope {
	clone := Rope{root: rope.root}
	clone.Delete(metric, from, to)
	return clone
}
