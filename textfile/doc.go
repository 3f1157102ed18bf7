/*
Package textfile provides API helpers to load UTF-8 text files as ropes.

Files are opened synchronously, but file content is loaded asynchronously
in the background. Clients may use the resulting rope right away; reading
a fragment which is not yet loaded will block until the fragment arrives.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'rope'
func tracer() tracing.Trace {
	return tracing.Select("rope")
}
