// Package stream drives a Reader over an io.Reader.
//
// Run owns the input window: it reads fixed-size chunks, grows the window
// when a token does not fit, slides it forward as tokens are consumed and
// hands every kept token to a Sink with its offset translated to the
// absolute position in the stream.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/jacoelho/jsonlens/internal/reader"
	"github.com/jacoelho/jsonlens/internal/ring"
	"github.com/jacoelho/jsonlens/internal/selector"
	"github.com/jacoelho/jsonlens/internal/token"
	"github.com/jacoelho/jsonlens/internal/tokenizer"
)

const (
	DefaultChunkSize  = 32 * 1024
	DefaultMaxWindow  = 16 * 1024 * 1024
	DefaultBufferSize = 64
)

// Sink receives kept tokens in document order. Offsets are absolute. text
// is only valid during the call.
type Sink interface {
	Token(tok token.Token, text []byte) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(tok token.Token, text []byte) error

func (f SinkFunc) Token(tok token.Token, text []byte) error {
	return f(tok, text)
}

// Options tunes Run. Zero values select the defaults.
type Options struct {
	ChunkSize   int
	MaxWindow   int
	BufferSize  int
	// MaxDepth of zero keeps the tokenizer default; a negative value removes
	// the limit.
	MaxDepth    int
	StringParts bool
	// Trace, when set, is called after every reader step.
	Trace func(Step)
}

// Step describes one reader step for tracing.
type Step struct {
	Offset   int64
	Window   int
	Consumed int
	Final    bool
	Status   token.Status
	Mode     reader.Mode
	Depth    int
}

// Stats summarizes a run.
type Stats struct {
	Steps     int
	Underruns int
	Fulls     int
	Reads     int
	Bytes     int64
	Tokens    int
	Nothing   int
	MaxWindow int
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxWindow <= 0 {
		o.MaxWindow = DefaultMaxWindow
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	return o
}

func (o Options) tokenizerOptions() []tokenizer.Option {
	var opts []tokenizer.Option
	if o.StringParts {
		opts = append(opts, tokenizer.WithStringParts())
	}
	if o.MaxDepth != 0 {
		opts = append(opts, tokenizer.WithMaxDepth(o.MaxDepth))
	}
	return opts
}

// Run filters src through sel and sends the kept tokens to sink until the
// end of the stream, a syntax error, a sink error or cancellation of ctx.
func Run(ctx context.Context, src io.Reader, sel *selector.Node, sink Sink, opts Options) (Stats, error) {
	opts = opts.withDefaults()

	if opts.BufferSize < reader.MinFree {
		return Stats{}, fmt.Errorf("%w: %d, need at least %d", ErrBufferSize, opts.BufferSize, reader.MinFree)
	}

	out, err := ring.New[token.Token](opts.BufferSize)
	if err != nil {
		return Stats{}, fmt.Errorf("output buffer: %w", err)
	}

	d := &driver{
		src:  src,
		sink: sink,
		opts: opts,
		rd:   reader.New(sel, tokenizer.New(opts.tokenizerOptions()...)),
		out:  out,
		buf:  make([]byte, 0, opts.ChunkSize),
	}

	err = d.run(ctx)
	return d.stats, err
}

type driver struct {
	src  io.Reader
	sink Sink
	opts Options
	rd   *reader.Reader
	out  *ring.Buffer[token.Token]

	buf   []byte
	start int
	base  int64
	eof   bool
	stats Stats
}

func (d *driver) run(ctx context.Context) error {
	for {
		window := d.buf[d.start:]
		offset := d.base + int64(d.start)

		status, n := d.rd.Next(window, d.eof, d.out)
		d.stats.Steps++
		d.stats.MaxWindow = max(d.stats.MaxWindow, len(window))

		if d.opts.Trace != nil {
			d.opts.Trace(Step{
				Offset:   offset,
				Window:   len(window),
				Consumed: n,
				Final:    d.eof,
				Status:   status,
				Mode:     d.rd.Mode(),
				Depth:    d.rd.Depth(),
			})
		}

		if err := d.drain(window, offset); err != nil {
			return err
		}

		switch status {
		case token.StatusOk:
			d.start += n
			d.stats.Bytes += int64(n)

		case token.StatusFull:
			d.stats.Fulls++

		case token.StatusEnd:
			return nil

		case token.StatusBadInput:
			return &SyntaxError{Offset: offset, Depth: d.rd.Depth()}

		case token.StatusUnderrun:
			d.stats.Underruns++
			if d.eof {
				return &SyntaxError{Offset: offset, Depth: d.rd.Depth()}
			}
			if err := d.fill(ctx); err != nil {
				return err
			}
		}
	}
}

func (d *driver) drain(window []byte, offset int64) error {
	for {
		tok, ok := d.out.Read()
		if !ok {
			return nil
		}

		text := tok.Text(window)
		tok.Offset += int(offset)

		d.stats.Tokens++
		if tok.Kind == token.Nothing {
			d.stats.Nothing++
		}

		if err := d.sink.Token(tok, text); err != nil {
			return err
		}
	}
}

// fill slides the unconsumed bytes to the front of the buffer and reads
// at most one chunk after them.
func (d *driver) fill(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d.start > 0 {
		n := copy(d.buf, d.buf[d.start:])
		d.buf = d.buf[:n]
		d.base += int64(d.start)
		d.start = 0
	}

	room := d.opts.MaxWindow - len(d.buf)
	if room <= 0 {
		return fmt.Errorf("%w: %d bytes at offset %d", ErrWindowExceeded, len(d.buf), d.base)
	}

	want := min(d.opts.ChunkSize, room)
	d.buf = slices.Grow(d.buf, want)

	n, err := d.src.Read(d.buf[len(d.buf) : len(d.buf)+want])
	d.buf = d.buf[:len(d.buf)+n]
	d.stats.Reads++

	switch {
	case errors.Is(err, io.EOF):
		d.eof = true
	case err != nil:
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
