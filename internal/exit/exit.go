package exit

import (
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	CodeSuccess = 0
	// CodeError covers usage errors and failures to read input.
	CodeError = 1
	// CodeInvalid means at least one input was not valid JSON.
	CodeInvalid = 2
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Success creates a result for stdout with exit code 0.
func Success(message string) *Result {
	return &Result{
		Output:   os.Stdout,
		ExitCode: CodeSuccess,
		Message:  message,
	}
}

// Error creates a result for stderr with exit code 1.
func Error(message string) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeError,
		Message:  message,
	}
}

func Errorf(format string, a ...any) *Result {
	return Error(fmt.Sprintf(format, a...))
}

// Invalidf creates a result for stderr reporting malformed input.
func Invalidf(format string, a ...any) *Result {
	return &Result{
		Output:   os.Stderr,
		ExitCode: CodeInvalid,
		Message:  fmt.Sprintf(format, a...),
	}
}
