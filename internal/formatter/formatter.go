package formatter

import (
	"fmt"

	"github.com/jacoelho/jsonlens/internal/results"
	"github.com/jacoelho/jsonlens/internal/stream"
	"github.com/jacoelho/jsonlens/internal/token"
)

// Format names an output encoding.
type Format string

const (
	FormatText  Format = "text"
	FormatJSONL Format = "jsonl"
)

// ParseFormat accepts the names used on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSONL:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q, expected text or jsonl", s)
}

// Formatter defines the interface for different output formats.
// Implementations are responsible for determining the output device (stdout, file, etc.).
type Formatter interface {
	// Token renders one kept token. text is only valid during the call.
	Token(source string, tok token.Token, text []byte) error

	// Summary renders the outcome of a run.
	Summary(s *results.Summary) error

	// Debug renders one traced reader step.
	Debug(source string, step stream.Step) error
}
