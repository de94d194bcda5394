// Package check reports API contract violations.
//
// A violation is a local programmer bug (reading a component an entity does
// not have, adding a component twice, using a moved registry). Debug builds
// panic with a *Violation; building with the ecsrelease tag compiles the
// checks out and the offending call is undefined behaviour.
package check

import "fmt"

// Violation is the panic value raised by That and Fail.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "ecs: contract violation: " + v.Msg
}

// That panics with a *Violation when cond is false.
func That(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(&Violation{Msg: fmt.Sprintf(format, args...)})
	}
}

// Fail panics with a *Violation.
func Fail(format string, args ...any) {
	if Enabled {
		panic(&Violation{Msg: fmt.Sprintf(format, args...)})
	}
}
