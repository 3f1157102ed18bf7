package rope

import "io"

// Reader returns a reader for the bytes of rope.
//
// Reading advances fragment by fragment, so a reader over a rope with
// lazily loaded fragments (textfile) blocks exactly when Read reaches a
// fragment which has not arrived yet, not on creation.
func (rope Rope) Reader() io.Reader {
	return &ropeReader{rope: rope}
}

type ropeReader struct {
	rope   Rope
	cursor uint64 // invariant: cursor <= rope.Len()
}

func (rr *ropeReader) Read(p []byte) (n int, err error) {
	l := uint64(len(p))
	if l > rr.rope.Len()-rr.cursor {
		l = rr.rope.Len() - rr.cursor
		if l == 0 {
			return 0, io.EOF
		}
	}
	i := rr.cursor
	s, err := rr.rope.Report(i, l)
	if err != nil {
		return 0, err
	}
	n = copy(p, s)
	rr.cursor += uint64(n)
	return n, nil
}
