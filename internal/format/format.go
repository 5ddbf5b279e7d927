// Package format decides which configured commands apply to a file and
// drives them in sequence, chaining each command's output into the next
// command's input.
package format

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/formatkit/execfmt/internal/config"
	"github.com/formatkit/execfmt/internal/exec"
	"github.com/formatkit/execfmt/internal/log"
	"github.com/formatkit/execfmt/internal/tmpl"
)

// Format runs the selected command chain for path over original.
//
// A nil result with a nil error means the content is unchanged; this is
// also the outcome when ctx is cancelled mid-chain, which preserves the
// original content rather than failing. A non-nil result carries the
// new content, possibly empty. Every other condition is an error and
// aborts the remainder of the chain: spawn failures, stdin failures,
// non-zero exits, per-command timeouts, template errors, and the
// empty-output guard.
func Format(ctx context.Context, path string, original []byte, cfg *config.Config) ([]byte, error) {
	commands, err := Select(cfg, path)
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return nil, nil
	}

	logger := log.WithCall(uuid.New().String()).With("file", path)
	timeout := time.Duration(cfg.Timeout) * time.Second

	// Copy-on-write: content aliases original until a command ran.
	content := original
	for _, cmd := range commands {
		vars := tmpl.Variables{
			FilePath:    path,
			LineWidth:   cfg.LineWidth,
			UseTabs:     cfg.UseTabs,
			IndentWidth: cfg.IndentWidth,
			Cwd:         cmd.Cwd,
			Timeout:     cfg.Timeout,
		}

		// All arguments render before the process spawns, so a template
		// error never leaves a half-started command behind.
		args := make([]string, 0, len(cmd.Args))
		for _, raw := range cmd.Args {
			arg, err := tmpl.Render(raw, vars)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}

		var input []byte
		if cmd.Stdin {
			input = content
		}

		logger.Debug("running formatter", "executable", cmd.Executable, "args", args)
		out, err := exec.Run(ctx, exec.Command{
			Path:     cmd.Executable,
			Args:     args,
			Dir:      cmd.Cwd,
			UseStdin: cmd.Stdin,
			Input:    input,
			Timeout:  timeout,
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Debug("format cancelled, keeping original content")
				return nil, nil
			}
			return nil, err
		}
		content = out
	}

	if bytes.Equal(content, original) {
		return nil, nil
	}
	if err := checkEmptyOutput(original, content); err != nil {
		return nil, err
	}
	if content == nil {
		// The chain legitimately produced empty output below the guard
		// threshold; report it as changed content, not as unchanged.
		content = []byte{}
	}
	return content, nil
}
