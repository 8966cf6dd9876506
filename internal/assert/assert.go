// Package assert reports programming-logic failures. A Violation is never
// part of the user-facing error surface; it terminates the pass that hit it.
package assert

import "fmt"

// Violation is the panic value raised by Invariant.
type Violation struct {
	Message string
}

func (v Violation) Error() string {
	return "invariant violation: " + v.Message
}

// Invariant panics with a Violation when cond is false.
func Invariant(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(Violation{Message: fmt.Sprintf(format, args...)})
}
