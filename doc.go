/*
Package rope implements a rope: a tree-backed text type for applications
which modify large amounts of text frequently.

Ropes

A rope organizes fragments of immutable text in a binary tree structure.
Inner nodes carry the byte length of their left subtree as a weight, which
lets most editing operations run in time logarithmic in the length of the
text.

From a paper by Hans-J. Boehm, Russ Atkinson and Michael Plass, 1995
(“Ropes, an Alternative to Strings”):

Programming languages such as C […] provide a built-in notion of strings
as essentially fixed length arrays of characters. […] We desire the
following characteristics: Immutable strings should be well supported.
Commonly occurring operations on strings should be efficient. In
particular (non-destructive) concatenation of strings and non-destructive
substring operations should be fast, and should not require excessive
amounts of space. Common string operations should scale to long strings.

	Operation     |   Rope          |  String
	--------------+-----------------+--------
	Index         |   O(log n)      |   O(1)
	Split         |   O(log n)      |   O(1)
	Concatenate   |   O(log n)      |   O(n)
	Insert        |   O(log n)      |   O(n)
	Delete        |   O(log n)      |   O(n)

Metrics

Positions within a rope are not restricted to byte offsets. Operations
which address text accept a Metric, which may count bytes, runes, grapheme
clusters or lines. Unicode segmentation is delegated to package uax
(https://github.com/npillmayer/uax).

_________________________________________________________________________

BSD 3-Clause License

Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package rope

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'rope'
func tracer() tracing.Trace {
	return tracing.Select("rope")
}

// assert checks an internal invariant and panics if it does not hold.
func assert(condition bool, msg string) {
	if !condition {
		panic("rope: " + msg)
	}
}

// RopeError is an error type for the rope module.
type RopeError string

func (e RopeError) Error() string {
	return string(e)
}

// ErrIndexOutOfBounds is flagged whenever a rope position is
// greater than the length of the rope.
const ErrIndexOutOfBounds = RopeError("index out of bounds")

// ErrIllegalArguments is flagged whenever function parameters are invalid.
const ErrIllegalArguments = RopeError("illegal arguments")

// ErrRopeCompleted signals that a rope builder has already completed a rope
// and it's illegal to further add fragments.
const ErrRopeCompleted = RopeError("forbidden to add fragments; rope has been completed")

// ErrIllegalPosition signals a position which is inconsistent with the rope
// it refers to, e.g. a byte offset within a UTF-8 rune.
const ErrIllegalPosition = RopeError("position not valid for this rope")

// ErrInvalidUTF8 is flagged for text input which is not valid UTF-8.
const ErrInvalidUTF8 = RopeError("text is not valid UTF-8")
