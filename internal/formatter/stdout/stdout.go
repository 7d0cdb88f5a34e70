package stdout

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/jacoelho/jsonlens/internal/formatter"
	"github.com/jacoelho/jsonlens/internal/results"
	"github.com/jacoelho/jsonlens/internal/stream"
	"github.com/jacoelho/jsonlens/internal/token"
)

var (
	structureFmt = color.New(color.FgCyan).SprintFunc()
	stringFmt    = color.New(color.FgGreen).SprintFunc()
	numberFmt    = color.New(color.FgYellow).SprintFunc()
	literalFmt   = color.New(color.FgMagenta).SprintFunc()
	nothingFmt   = color.New(color.FgHiBlack).SprintFunc()
	sourceFmt    = color.New(color.Faint).SprintfFunc()
	failedFmt    = color.New(color.Bold, color.FgRed).SprintFunc()
	successFmt   = color.New(color.Bold, color.FgGreen).SprintFunc()
	debugFmt     = color.New(color.Bold, color.FgCyan).SprintFunc()
)

// Options selects the encoding and verbosity.
type Options struct {
	Format formatter.Format
	// Quiet suppresses the summary.
	Quiet bool
}

// Formatter writes tokens to out and summaries and debug traces to log.
type Formatter struct {
	out  io.Writer
	log  io.Writer
	opts Options
}

// New creates a formatter writing tokens to stdout and everything else to stderr.
func New(opts Options) formatter.Formatter {
	return NewWithWriters(os.Stdout, os.Stderr, opts)
}

// NewWithWriters creates a formatter with custom writers.
// This is useful for testing or redirecting output to files.
func NewWithWriters(out, log io.Writer, opts Options) formatter.Formatter {
	if opts.Format == formatter.FormatJSONL {
		return &jsonlFormatter{out: out, log: log, opts: opts}
	}
	return &Formatter{out: out, log: log, opts: opts}
}

func (f *Formatter) Token(source string, tok token.Token, text []byte) error {
	indent := strings.Repeat("  ", max(tok.Depth, 0))

	var err error
	if tok.Kind.HasText() {
		_, err = fmt.Fprintf(f.out, "%s %s%s %s\n", sourceFmt("%s:%d", source, tok.Offset), indent, kindFmt(tok.Kind), valueFmt(tok.Kind, text))
	} else {
		_, err = fmt.Fprintf(f.out, "%s %s%s\n", sourceFmt("%s:%d", source, tok.Offset), indent, kindFmt(tok.Kind))
	}
	return err
}

func kindFmt(k token.Kind) string {
	if k == token.Nothing {
		return nothingFmt(k.String())
	}
	return structureFmt(k.String())
}

func valueFmt(k token.Kind, text []byte) string {
	switch k {
	case token.StringPart, token.StringEnd:
		return stringFmt(`"` + string(text) + `"`)
	case token.Number:
		return numberFmt(string(text))
	default:
		return literalFmt(string(text))
	}
}

// Summary prints one line per file followed by the totals.
func (f *Formatter) Summary(s *results.Summary) error {
	if f.opts.Quiet {
		return nil
	}

	for _, fileResult := range s.FileResults {
		status := successFmt("Success")
		if fileResult.Error != nil {
			status = failedFmt("Failed") + ": " + fileResult.Error.Error()
		}
		_, err := fmt.Fprintf(f.log, "%s: %s (%d bytes, %d tokens in %d ms)\n",
			fileResult.Filename, status, fileResult.Stats.Bytes, fileResult.Stats.Tokens, fileResult.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(f.log, "--------------------------------------------------------------------------------"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(f.log, "Run:               %s\n", s.RunID); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Processed files:   %d\n", s.ExecutedFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Succeeded files:   %d (%.1f%%)\n", s.SucceededFiles, s.SuccessPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Failed files:      %d (%.1f%%, %d invalid JSON)\n", s.FailedFiles, s.FailurePercentage(), s.InvalidFiles); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Bytes read:        %d (%.2f/s)\n", s.TotalBytes, s.BytesPerSecond()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Tokens kept:       %d (%d excluded)\n", s.TotalTokens, s.TotalNothing); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Underruns:         %d\n", s.TotalUnderruns); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.log, "Duration:          %d ms\n", s.TotalDuration.Milliseconds()); err != nil {
		return err
	}

	return nil
}

func (f *Formatter) Debug(source string, step stream.Step) error {
	_, err := fmt.Fprintf(f.log, "%s %s:%d window=%d consumed=%d final=%t status=%s mode=%s depth=%d\n",
		debugFmt("DEBUG"), source, step.Offset, step.Window, step.Consumed, step.Final, step.Status, step.Mode, step.Depth)
	return err
}
