package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/jsonlens/internal/exit"
	"github.com/jacoelho/jsonlens/internal/formatter"
	"github.com/jacoelho/jsonlens/internal/selector"
	"github.com/jacoelho/jsonlens/internal/stream"
)

// Stdin is the input name that reads standard input.
const Stdin = "-"

var (
	ErrNoArguments     = errors.New("no arguments provided")
	ErrNoInputs        = errors.New("no input files specified")
	ErrEmptyPath       = errors.New("path expression cannot be empty")
	ErrInvalidChunk    = errors.New("chunk size must be positive")
	ErrInvalidWindow   = errors.New("max window must be at least the chunk size")
	ErrInvalidRate     = errors.New("rate limit cannot be negative")
	ErrRepeatedStdin   = errors.New("standard input can only be read once")
	ErrInvalidMaxDepth = errors.New("max depth must be -1 (unlimited), 0 (default) or positive")
)

// Config represents the complete configuration for the jsonlens tool.
type Config struct {
	Inputs []string

	// Selection
	SelectFile string
	Paths      []string

	// Streaming
	ChunkSize   int
	MaxWindow   int
	MaxDepth    int
	StringParts bool
	RateLimit   float64 // Bytes per second (0 = unlimited)

	// Output
	Format  formatter.Format
	NoColor bool
	Quiet   bool
	Debug   bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInputs
	}

	stdin := 0
	for _, input := range c.Inputs {
		if input == Stdin {
			stdin++
			continue
		}
		if _, err := os.Stat(input); err != nil {
			return fmt.Errorf("input file %s not found: %w", input, err)
		}
	}
	if stdin > 1 {
		return ErrRepeatedStdin
	}

	if c.SelectFile != "" {
		if _, err := os.Stat(c.SelectFile); err != nil {
			return fmt.Errorf("selector file %s not found: %w", c.SelectFile, err)
		}
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w, got: %d", ErrInvalidChunk, c.ChunkSize)
	}
	if c.MaxWindow < c.ChunkSize {
		return fmt.Errorf("%w, got: %d < %d", ErrInvalidWindow, c.MaxWindow, c.ChunkSize)
	}
	if c.MaxDepth < -1 {
		return fmt.Errorf("%w, got: %d", ErrInvalidMaxDepth, c.MaxDepth)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w, got: %g", ErrInvalidRate, c.RateLimit)
	}

	return nil
}

// Selector builds the selection tree from the selector file and path
// expressions. Without either, whole documents are selected.
func (c *Config) Selector() (*selector.Node, error) {
	if c.SelectFile == "" && len(c.Paths) == 0 {
		return selector.New().Any().Build()
	}

	b := selector.New()

	if c.SelectFile != "" {
		data, err := os.ReadFile(c.SelectFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read selector file %s: %w", c.SelectFile, err)
		}
		if err := b.YAML(data); err != nil {
			return nil, fmt.Errorf("selector file %s: %w", c.SelectFile, err)
		}
	}

	for _, path := range c.Paths {
		if err := b.Path(path); err != nil {
			return nil, fmt.Errorf("path %s: %w", path, err)
		}
	}

	return b.Build()
}

// StreamOptions returns the driver settings.
func (c *Config) StreamOptions() stream.Options {
	return stream.Options{
		ChunkSize:   c.ChunkSize,
		MaxWindow:   c.MaxWindow,
		MaxDepth:    c.MaxDepth,
		StringParts: c.StringParts,
	}
}

// pathsFlag implements flag.Value for parsing multiple -path flags.
type pathsFlag []string

func (p *pathsFlag) String() string {
	return strings.Join(*p, ",")
}

func (p *pathsFlag) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyPath
	}

	*p = append(*p, value)
	return nil
}

// formatFlag implements flag.Value for the -format flag.
type formatFlag formatter.Format

func (f *formatFlag) String() string {
	return string(*f)
}

func (f *formatFlag) Set(value string) error {
	format, err := formatter.ParseFormat(value)
	if err != nil {
		return err
	}

	*f = formatFlag(format)
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		selectFile  = fs.String("select", "", "Path to a YAML selector file")
		paths       pathsFlag
		chunkSize   = fs.Int("chunk", stream.DefaultChunkSize, "Bytes read from the input at a time")
		maxWindow   = fs.Int("max-window", stream.DefaultMaxWindow, "Largest input window a single token may need")
		maxDepth    = fs.Int("max-depth", 0, "Deepest container nesting accepted (0 for the default, -1 for unlimited)")
		stringParts = fs.Bool("string-parts", false, "Emit long strings in parts instead of growing the window")
		rateLimit   = fs.Float64("rate-limit", 0, "Rate limit in bytes per second (0 for unlimited)")
		format      = formatFlag(formatter.FormatText)
		noColor     = fs.Bool("no-color", false, "Disable colored output")
		quiet       = fs.Bool("quiet", false, "Do not print the summary")
		debug       = fs.Bool("debug", false, "Enable debug output showing every reader step")
	)

	fs.Var(&paths, "path", "JSONPath expression to select (can be used multiple times)")
	fs.Var(&format, "format", "Output format: text or jsonl")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoInputs, Usage())
	}

	config := &Config{
		Inputs:      inputs,
		SelectFile:  *selectFile,
		Paths:       paths,
		ChunkSize:   *chunkSize,
		MaxWindow:   *maxWindow,
		MaxDepth:    *maxDepth,
		StringParts: *stringParts,
		RateLimit:   *rateLimit,
		Format:      formatter.Format(format),
		NoColor:     *noColor,
		Quiet:       *quiet,
		Debug:       *debug,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jsonlens - streaming JSON filter

Usage: jsonlens [options] <file1|-> [file2] ...

Options:
  --select FILE           YAML selector file
  --path EXPR             JSONPath expression to select (can be used multiple times)
  --chunk N               Bytes read from the input at a time (default: 32768)
  --max-window N          Largest input window a single token may need (default: 16777216)
  --max-depth N           Deepest container nesting accepted, -1 for unlimited (default: 10000)
  --string-parts          Emit long strings in parts instead of growing the window
  --rate-limit N          Rate limit in bytes per second (0 for unlimited)
  --format FORMAT         Output format: text or jsonl (default: text)
  --no-color              Disable colored output
  --quiet                 Do not print the summary
  --debug                 Enable debug output showing every reader step
  -h, --help              Show this help message

Selectors:
  Without --select or --path every document is printed in full. Paths support
  $, .name, ['name'], ["name"], unions of names and [*] for array items.

Examples:
  jsonlens data.json                                 # Tokenize the whole document
  jsonlens --path '$.store.book[*].author' data.json # Keep only the authors
  jsonlens --select fields.yaml --format jsonl -     # Filter stdin with a selector file
  jsonlens --chunk 16 --debug data.json              # Trace every step with tiny reads
  jsonlens --rate-limit 1024 big.json                # Simulate a slow producer`
}
