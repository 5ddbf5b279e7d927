// Package exec runs one external formatter command to completion while
// exchanging bytes with it over pipes.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	osexec "os/exec"
	"syscall"
	"time"

	"github.com/formatkit/execfmt/internal/log"
)

const (
	// maxStderrBytes caps the amount of stderr carried into error messages.
	maxStderrBytes = 64 * 1024

	// terminationGracePeriod is the time we wait after SIGTERM before sending SIGKILL.
	terminationGracePeriod = 5 * time.Second
)

// Command describes one child-process invocation.
type Command struct {
	Path     string
	Args     []string
	Dir      string
	UseStdin bool
	Input    []byte
	Timeout  time.Duration // zero means no timeout
}

// Run executes the command and returns its captured stdout bytes,
// untouched. The run races against ctx cancellation and the command's
// timeout; on either losing branch the child is terminated before Run
// returns, so no process outlives the call.
//
// The stdin write and the stdout/stderr drains proceed concurrently.
// Serializing them can deadlock once the kernel pipe buffer fills while
// the child blocks on the other end.
func Run(ctx context.Context, c Command) ([]byte, error) {
	logger := log.WithCommand(c.Path)

	// Not CommandContext: termination is managed explicitly below so the
	// SIGTERM grace period applies on every abandoned path.
	cmd := osexec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	var stdin io.WriteCloser
	if c.UseStdin {
		pipe, err := cmd.StdinPipe()
		if err != nil {
			return nil, &StdinError{Unavailable: true, Err: err}
		}
		stdin = pipe
	}

	logger.Debug("spawning formatter", "dir", c.Dir, "timeout", c.Timeout)

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{Path: c.Path, Err: err}
	}

	// os/exec drains stdout and stderr in its own goroutines; the stdin
	// write gets one too so all three pipes are served at once.
	writeErr := make(chan error, 1)
	if c.UseStdin {
		go func() {
			defer stdin.Close()
			if _, err := stdin.Write(c.Input); err != nil {
				writeErr <- &StdinError{Err: err}
				return
			}
			writeErr <- nil
		}()
	} else {
		writeErr <- nil
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
	}()

	var timeoutC <-chan time.Time
	if c.Timeout > 0 {
		timer := time.NewTimer(c.Timeout)
		defer timer.Stop()
		timeoutC = timer.C
	}

	select {
	case <-ctx.Done():
		logger.Debug("formatter abandoned, terminating", "reason", ctx.Err())
		terminate(cmd, waitErr, logger)
		return nil, ctx.Err()

	case <-timeoutC:
		logger.Warn("formatter timed out, terminating", "timeout", c.Timeout)
		terminate(cmd, waitErr, logger)
		return nil, &TimeoutError{Limit: c.Timeout}

	case err := <-waitErr:
		// Wait closes the stdin pipe on exit, so the writer goroutine
		// cannot stay blocked here.
		if werr := <-writeErr; werr != nil {
			return nil, werr
		}
		if err != nil {
			var exitErr *osexec.ExitError
			if errors.As(err, &exitErr) {
				return nil, &ExitError{
					Code:   exitErr.ExitCode(),
					Stderr: truncateStderr(stderr.String()),
				}
			}
			return nil, fmt.Errorf("wait for process: %w", err)
		}
		return stdout.Bytes(), nil
	}
}

// terminate stops the child: SIGTERM, a grace period, then SIGKILL, and
// always reaps the process before returning.
func terminate(cmd *osexec.Cmd, waitErr <-chan error, logger *slog.Logger) {
	if cmd.Process == nil {
		return
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		logger.Debug("failed to send SIGTERM", "error", err)
	}

	grace := time.NewTimer(terminationGracePeriod)
	defer grace.Stop()

	select {
	case <-waitErr:
		// Process exited within the grace period.
	case <-grace.C:
		logger.Warn("formatter did not exit after SIGTERM, sending SIGKILL")
		if err := cmd.Process.Kill(); err != nil {
			logger.Debug("failed to send SIGKILL", "error", err)
		}
		<-waitErr
	}
}

// truncateStderr caps stderr to maxStderrBytes.
func truncateStderr(s string) string {
	if len(s) > maxStderrBytes {
		return s[:maxStderrBytes]
	}
	return s
}
