package kernel

import "fmt"

// MisuseError marks a programmer-misuse failure: scheduling into the past,
// duplicate entity registration, transmitting from a non-endpoint, and
// similar. These are fail-fast and never retried - see SPEC_FULL.md §4.9/§7.
type MisuseError struct {
	Op  string
	Msg string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("kernel: %s: %s", e.Op, e.Msg)
}

// failMisuse panics with a MisuseError. The kernel does not catch or retry
// programmer errors; panicking surfaces them immediately at the call site.
func failMisuse(op, format string, args ...any) {
	panic(&MisuseError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
