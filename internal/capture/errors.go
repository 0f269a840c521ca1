package capture

import "strings"

// ValidationError reports why a value could not be read as a capture.
// Problems holds one sentence per violated rule.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid JSON format:\n" + strings.Join(e.Problems, "\n")
}
