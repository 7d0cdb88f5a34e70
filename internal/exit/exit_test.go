package exit

import (
	"bytes"
	"os"
	"testing"
)

func TestResults(t *testing.T) {
	tests := []struct {
		name    string
		result  *Result
		code    int
		output  *os.File
		message string
	}{
		{name: "success", result: Success("ok\n"), code: CodeSuccess, output: os.Stdout, message: "ok\n"},
		{name: "error", result: Error("bad\n"), code: CodeError, output: os.Stderr, message: "bad\n"},
		{name: "errorf", result: Errorf("bad %d\n", 7), code: CodeError, output: os.Stderr, message: "bad 7\n"},
		{name: "invalidf", result: Invalidf("offset %d\n", 3), code: CodeInvalid, output: os.Stderr, message: "offset 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.ExitCode != tt.code {
				t.Errorf("ExitCode = %d, want %d", tt.result.ExitCode, tt.code)
			}
			if tt.result.Output != tt.output {
				t.Errorf("Output = %v, want %v", tt.result.Output, tt.output)
			}
			if tt.result.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.result.Message, tt.message)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	r := &Result{Output: &buf, Message: "hello"}
	r.Print()

	if buf.String() != "hello" {
		t.Errorf("Print() wrote %q, want %q", buf.String(), "hello")
	}
}
