// Package diag writes diagnostic lines to stderr, the same bare
// fmt.Fprintf(os.Stderr, ...) convention used throughout this module,
// rather than introducing a logging framework.
package diag

import (
	"fmt"
	"os"
)

// Warnf writes a formatted diagnostic line to stderr. Used for
// protocol errors (malformed or unknown requests): the request is
// dropped, no response is emitted, and this is the only observable
// trace of the failure.
func Warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
