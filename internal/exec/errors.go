package exec

import (
	"fmt"
	"time"
)

// SpawnError reports a formatter process that could not be started.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("cannot start formatter process %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// StdinError reports a failure obtaining or writing the child's stdin.
type StdinError struct {
	// Unavailable is true when the stdin handle could not be opened at
	// all, as opposed to a write that failed mid-stream.
	Unavailable bool
	Err         error
}

func (e *StdinError) Error() string {
	if e.Unavailable {
		return fmt.Sprintf(`cannot open the command's stdin: %v. Perhaps you meant to set the command's "stdin" configuration to false?`, e.Err)
	}
	return fmt.Sprintf("cannot write into the command's stdin: %v", e.Err)
}

func (e *StdinError) Unwrap() error { return e.Err }

// ExitError reports a child process that exited with a non-zero code.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("child process exited with code %d: %s", e.Code, e.Stderr)
}

// TimeoutError reports a command that exceeded its allotted duration.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("child process has not returned a result within %d seconds", int(e.Limit.Seconds()))
}
