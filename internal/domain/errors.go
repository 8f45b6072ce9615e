package domain

import "errors"

// ErrParse indicates a malformed statement: an unparsable row, timestamp,
// number, or trade token. Parsing is all-or-nothing; the first malformed
// field aborts the whole load.
var ErrParse = errors.New("malformed statement")
