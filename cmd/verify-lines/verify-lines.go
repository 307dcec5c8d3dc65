package main

import "C"
import (
	"os"

	lpv2 "github.com/influxdata/line-protocol/v2/lineprotocol"

	"github.com/influxdata/lpbatch/internal/verify"
)

func main() {}

// verifyLines provides a cgo hook to verify line protocol strings with
// nanosecond timestamps. Decode errors are printed to stderr. It
// returns 0 when every line is valid and 1 otherwise.
//
//export verifyLines
func verifyLines(lines *C.char) C.int {
	dec := lpv2.NewDecoderWithBytes([]byte(C.GoString(lines)))
	if !verify.Lines(dec, lpv2.Nanosecond, os.Stderr, "verifyLines").OK() {
		return 1
	}
	return 0
}
