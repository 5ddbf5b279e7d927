package format

import (
	"bytes"
	"fmt"
)

// minBytesToEmpty is the substantive-content threshold: originals whose
// trimmed content exceeds this many bytes must not format to nothing.
const minBytesToEmpty = 100

// GuardError reports a formatter chain that deleted all content.
type GuardError struct {
	OriginalLen int
}

func (e *GuardError) Error() string {
	return fmt.Sprintf(
		"the original file text was greater than %d characters, but the formatted text was empty. Perhaps a formatting command has been misconfigured?",
		minBytesToEmpty)
}

// checkEmptyOutput rejects a final result that trims to nothing when the
// original content was substantive. It runs once, on the final buffer
// against the original, never between chained commands.
func checkEmptyOutput(original, formatted []byte) error {
	if len(bytes.TrimSpace(original)) > minBytesToEmpty && len(bytes.TrimSpace(formatted)) == 0 {
		return &GuardError{OriginalLen: len(original)}
	}
	return nil
}
