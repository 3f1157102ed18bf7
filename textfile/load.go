package textfile

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/guiguan/caster"
	"github.com/npillmayer/rope"
)

/*
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

// Some constants for fragment size defaults
const (
	twoKb     = 2048
	sixKb     = 6144
	tenKb     = 10240
	hundredKb = 1024000
	oneMb     = 1048576
)

// fileLeaf is a rope leaf type to hold a fragment of a text-file's content.
// fileLeaf implements interface rope.Leaf.
//
// The leaf's weight is known from the start, but its content may still be
// in-flight. Reading the content of a not-yet-loaded leaf blocks until the
// background loader has delivered the fragment.
type fileLeaf struct {
	mx      sync.Mutex
	content string    // content fragment carried by this leaf
	loaded  bool      // has the fragment arrived yet?
	length  int64     // length of this fragment in bytes
	pos     int64     // start position of this fragment within the file
	tf      *textFile // reference to the file this fragment is from, dropped after loading
}

// textFile represents an OS file which will be loaded as a rope.
type textFile struct {
	path      string         // file name
	info      os.FileInfo    // result from Stat(path)
	file      *os.File       // file handle
	cast      *caster.Caster // broadcaster for async file loading
	mx        sync.Mutex     // guards lastError
	lastError error          // remember last I/O error
}

// Load reads a file, which must be a text file, and loads it as a rope.
// Clients may indicate an initial cursor position and a recommended fragment
// length. Both may be 0, letting Load use sensible defaults. An initialPos of
// -1 means opening the file at the end (i.e., reading the trailing fragment
// first).
//
// Loading of large files is done asynchronously, but this is transparent to
// the client. The rope can be used right away and synchronisation will happen
// correctly in the background. Opening of the file is always done
// synchronously.
//
func Load(name string, initialPos int64, fragSize int64) (rope.Rope, error) {
	tf, err := openFile(name)
	if err != nil {
		return rope.Rope{}, err
	}
	if initialPos > tf.info.Size() || initialPos < 0 {
		initialPos = tf.info.Size()
	}
	if fragSize <= 0 || fragSize > tenKb {
		if tf.info.Size() < 64 {
			fragSize = tf.info.Size()
		} else if tf.info.Size() < 1024 {
			fragSize = 64
		} else if tf.info.Size() < tenKb {
			fragSize = 256
		} else if tf.info.Size() < hundredKb {
			fragSize = 512
		} else if tf.info.Size() < oneMb {
			fragSize = twoKb
		} else {
			fragSize = sixKb
		}
	}
	tracer().Debugf("loading %q with fragment size %d", name, fragSize)
	if tf.info.Size() == 0 {
		tf.file.Close()
		tf.cast.Close()
		return rope.Rope{}, nil
	}
	leaves := makeFileLeaves(tf, fragSize)
	text, err := assembleRope(leaves)
	if err != nil {
		tf.file.Close()
		tf.cast.Close()
		return rope.Rope{}, err
	}
	startLoadingFileAsync(tf, leaves, initialPos, fragSize)
	return text, nil
}

// openFile opens an OS file and collects some useful information on it,
// checking for error conditions.
func openFile(name string) (*textFile, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("file is not a regular file")
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, err
	}
	tf := &textFile{
		path: name,
		info: fi,
		file: file,
		cast: caster.New(nil), // we will broadcast messages when fragments are loaded
	}
	return tf, nil
}

// makeFileLeaves creates an (initially empty) fileLeaf for every to-be
// fragment, in file order.
func makeFileLeaves(tf *textFile, fragSize int64) []*fileLeaf {
	size := tf.info.Size()
	cnt := (size + fragSize - 1) / fragSize
	leaves := make([]*fileLeaf, 0, cnt)
	for k := int64(0); k < size; k += fragSize {
		leaves = append(leaves, &fileLeaf{
			length: min(fragSize, size-k),
			pos:    k,
			tf:     tf,
		})
	}
	return leaves
}

// assembleRope builds a rope from file leaves. The weight of every leaf is
// known at this point, so the rope is fully usable even though content may
// still be loading.
func assembleRope(leaves []*fileLeaf) (rope.Rope, error) {
	b := rope.NewBuilder()
	for _, leaf := range leaves {
		if err := b.AppendLeaf(leaf); err != nil {
			return rope.Rope{}, err
		}
	}
	return b.Rope(), nil
}

// startLoadingFileAsync spawns the background loader. The fragment which
// contains initialPos is loaded first, the remaining fragments follow in
// file order.
func startLoadingFileAsync(tf *textFile, leaves []*fileLeaf, initialPos int64, fragSize int64) {
	first := int(initialPos / fragSize)
	if first >= len(leaves) {
		first = len(leaves) - 1
	}
	go func() {
		defer tf.cast.Close()
		defer tf.file.Close()
		loadFragment(tf, leaves[first])
		for k, leaf := range leaves {
			if k == first {
				continue
			}
			loadFragment(tf, leaf)
		}
		tracer().Debugf("all %d fragments of %q loaded", len(leaves), tf.path)
	}()
}

// loadFragment reads the fragment of text referenced by leaf and publishes
// the leaf to all waiting readers.
func loadFragment(tf *textFile, leaf *fileLeaf) {
	buf := make([]byte, leaf.length)
	cnt, err := tf.file.ReadAt(buf, leaf.pos)
	if err != nil && err != io.EOF {
		tf.mx.Lock()
		tf.lastError = fmt.Errorf("error loading text fragment: %w", err)
		tf.mx.Unlock()
	} else if int64(cnt) < leaf.length {
		tf.mx.Lock()
		tf.lastError = fmt.Errorf("not all bytes loaded for text fragment")
		tf.mx.Unlock()
	}
	leaf.mx.Lock()
	leaf.content = string(buf[:cnt])
	leaf.loaded = true
	leaf.tf = nil // drop admin info
	leaf.mx.Unlock()
	tf.cast.Pub(leaf)
}

// --- fileLeaf methods ------------------------------------------------------

// Weight is the length of the fragment in bytes. It is known before the
// fragment's content has been loaded.
func (fl *fileLeaf) Weight() uint64 {
	return uint64(fl.length)
}

func (fl *fileLeaf) String() string {
	fl.mx.Lock()
	if fl.loaded {
		s := fl.content
		fl.mx.Unlock()
		return s
	}
	fl.mx.Unlock()
	fl.wait()
	fl.mx.Lock()
	s := fl.content
	fl.mx.Unlock()
	return s
}

// Substring returns a string segment of the leaf's text fragment.
func (fl *fileLeaf) Substring(i, j uint64) []byte {
	return []byte(fl.String()[i:j])
}

// Split materializes the fragment and splits it at byte position i.
func (fl *fileLeaf) Split(i uint64) (rope.Leaf, rope.Leaf) {
	s := fl.String()
	return rope.StringLeaf(s[:i]), rope.StringLeaf(s[i:])
}

// wait blocks until the leaf's fragment has been loaded. It subscribes to
// the broadcast of loaded fragments and re-checks the load status on every
// message.
func (fl *fileLeaf) wait() {
	fl.mx.Lock()
	tf := fl.tf
	fl.mx.Unlock()
	if tf == nil { // already loaded and admin info dropped
		return
	}
	ch, ok := tf.cast.Sub(context.Background(), 1)
	if !ok { // caster closed, loading has finished
		return
	}
	defer tf.cast.Unsub(ch)
	for {
		fl.mx.Lock()
		done := fl.loaded
		fl.mx.Unlock()
		if done {
			return
		}
		if _, open := <-ch; !open {
			return
		}
	}
}

var _ rope.Leaf = &fileLeaf{}

// --- Helpers ---------------------------------------------------------------

func min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
