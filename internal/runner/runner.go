package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/jacoelho/jsonlens/internal/config"
	"github.com/jacoelho/jsonlens/internal/exit"
	"github.com/jacoelho/jsonlens/internal/formatter"
	"github.com/jacoelho/jsonlens/internal/formatter/stdout"
	"github.com/jacoelho/jsonlens/internal/ratelimit"
	"github.com/jacoelho/jsonlens/internal/results"
	"github.com/jacoelho/jsonlens/internal/selector"
	"github.com/jacoelho/jsonlens/internal/stream"
	"github.com/jacoelho/jsonlens/internal/token"
)

// Runner filters every configured input through one selection.
type Runner struct {
	config    *config.Config
	selector  *selector.Node
	formatter formatter.Formatter
	stdin     io.Reader
	stderr    io.Writer
}

// New creates a new Runner with the provided configuration.
// If creation fails, returns nil runner and exit result.
func New(cfg *config.Config) (*Runner, *exit.Result) {
	if cfg.NoColor {
		color.NoColor = true
	}

	f := stdout.New(stdout.Options{
		Format: cfg.Format,
		Quiet:  cfg.Quiet,
	})

	return NewWithFormatter(cfg, f)
}

// NewWithFormatter creates a Runner that renders through f.
func NewWithFormatter(cfg *config.Config, f formatter.Formatter) (*Runner, *exit.Result) {
	root, err := cfg.Selector()
	if err != nil {
		return nil, exit.Errorf("Error building selector: %v\n", err)
	}

	return &Runner{
		config:    cfg,
		selector:  root,
		formatter: f,
		stdin:     os.Stdin,
		stderr:    os.Stderr,
	}, nil
}

// Run processes the inputs and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	summary, err := r.ExecuteFiles(ctx, r.config.Inputs)

	if ferr := r.formatter.Summary(summary); ferr != nil {
		fmt.Fprintf(r.stderr, "Error formatting results: %v\n", ferr)
	}

	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(r.stderr, "\nInterrupted after %d of %d inputs\n", summary.ExecutedFiles, len(r.config.Inputs))
		return exit.CodeError
	case summary.InvalidFiles > 0:
		return exit.CodeInvalid
	case summary.FailedFiles > 0:
		return exit.CodeError
	}
	return exit.CodeSuccess
}

// ExecuteFiles filters each input in order and returns the aggregated
// results. A failing input does not stop the run; cancellation does.
// The returned error is the first failure.
func (r *Runner) ExecuteFiles(ctx context.Context, inputs []string) (*results.Summary, error) {
	s := results.NewSummary(len(inputs))

	overallStart := time.Now()
	var firstError error

	for _, input := range inputs {
		select {
		case <-ctx.Done():
			s.SetTotalDuration(time.Since(overallStart))
			return s, ctx.Err()
		default:
		}

		start := time.Now()
		stats, err := r.executeFile(ctx, input)
		duration := time.Since(start)

		s.Add(results.NewFileResultBuilder(input).
			WithStats(stats).
			WithDuration(duration).
			WithError(err))

		if err != nil && firstError == nil {
			firstError = err
		}
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	s.SetTotalDuration(time.Since(overallStart))
	return s, firstError
}

// executeFile streams a single input through the selection.
func (r *Runner) executeFile(ctx context.Context, input string) (stream.Stats, error) {
	src, closeFn, err := r.open(input)
	if err != nil {
		return stream.Stats{}, err
	}
	defer closeFn()

	if r.config.RateLimit > 0 {
		src = ratelimit.NewReader(ctx, src, r.config.RateLimit, r.config.ChunkSize)
	}

	opts := r.config.StreamOptions()
	if r.config.Debug {
		opts.Trace = func(step stream.Step) {
			if err := r.formatter.Debug(input, step); err != nil {
				fmt.Fprintf(r.stderr, "Error formatting debug step: %v\n", err)
			}
		}
	}

	sink := stream.SinkFunc(func(tok token.Token, text []byte) error {
		return r.formatter.Token(input, tok, text)
	})

	stats, err := stream.Run(ctx, src, r.selector, sink, opts)
	if err != nil {
		return stats, fmt.Errorf("%s: %w", input, err)
	}
	return stats, nil
}

func (r *Runner) open(input string) (io.Reader, func(), error) {
	if input == config.Stdin {
		return r.stdin, func() {}, nil
	}

	file, err := os.Open(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file %s: %w", input, err)
	}
	return file, func() { file.Close() }, nil
}
