// Package doctor validates execfmt configuration against the host
// system: resolution diagnostics, command executables, and working
// directories.
package doctor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/formatkit/execfmt/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Check validates a resolve result. Resolution diagnostics are errors;
// environment problems that only matter at format time (a missing
// executable, a missing working directory) are reported per command.
func Check(result config.ResolveResult) *Result {
	r := &Result{Valid: true}

	for _, d := range result.Diagnostics {
		r.addError("config", d.PropertyName, d.Message)
	}

	for i, cmd := range result.Config.Commands {
		field := fmt.Sprintf("commands[%d]", i)

		if _, err := exec.LookPath(cmd.Executable); err != nil {
			r.addError("executable", field+".command",
				fmt.Sprintf("executable %q not found: %v", cmd.Executable, err))
		}

		if cmd.Cwd != "" {
			if info, err := os.Stat(cmd.Cwd); err != nil || !info.IsDir() {
				r.addWarning("cwd", field+".cwd",
					fmt.Sprintf("working directory %q does not exist", cmd.Cwd))
			}
		}
	}

	if len(result.Diagnostics) == 0 && len(result.Config.Commands) == 0 {
		r.addWarning("commands", "commands", "no commands configured; nothing will ever be formatted")
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func (r *Result) addError(category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (r *Result) addWarning(category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}
