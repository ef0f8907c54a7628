package monitoring

import (
	"fmt"
	"log"
)

// Logf receives per-frame diagnostics (missing or malformed predictions, early
// quits). It defaults to log.Printf.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger swaps the diagnostic sink. nil silences it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Capture redirects Logf into the returned slice until restore is called.
func Capture() (lines *[]string, restore func()) {
	original := Logf
	captured := make([]string, 0)
	Logf = func(format string, v ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, v...))
	}
	return &captured, func() { Logf = original }
}
