// Package goroutineid reports the runtime ID of the calling goroutine. It is
// used to recognise the event loop goroutine, so that work already running on
// the loop is executed inline instead of being posted back to it.
package goroutineid

import (
	"bytes"
	"runtime"
)

var header = []byte("goroutine ")

// Get returns the ID of the calling goroutine, or 0 if it cannot be determined.
func Get() int64 {
	// only the first line of the trace is needed
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parse(buf[:n])
}

// parse reads the ID from a trace beginning "goroutine 123 [running]:".
func parse(stack []byte) int64 {
	rest, ok := bytes.CutPrefix(stack, header)
	if !ok {
		return 0
	}
	var id int64
	for _, c := range rest {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
