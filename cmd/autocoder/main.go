package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Session finished, or task list exhausted
	ExitCycleFailed = 1 // A work cycle failed and stopped the session
	ExitError       = 2 // Configuration or runtime error
)

// CycleFailureError indicates the session itself ran fine, but one of its
// work cycles failed and stopped it early.
type CycleFailureError struct {
	Message string
}

func (e *CycleFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var cycleErr *CycleFailureError
		if errors.As(err, &cycleErr) {
			os.Exit(ExitCycleFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
