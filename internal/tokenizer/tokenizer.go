// Package tokenizer implements a resumable JSON lexer.
//
// The tokenizer is a pushdown automaton over an explicit mode stack rather
// than a recursive descent parser, so it can stop at any nesting depth when
// its input window runs out and continue once the caller supplies more.
// Each call to Next inspects a window onto the unconsumed input, performs at
// most one transition and reports how many bytes it accounted for.
//
// A call that returns StatusUnderrun leaves the tokenizer untouched: the caller
// retries with a longer window over the same position. The final flag marks a
// window that extends to the true end of the stream; there is no sentinel
// character, so NUL bytes are ordinary input.
package tokenizer

import (
	"github.com/jacoelho/jsonlens/internal/stack"
	"github.com/jacoelho/jsonlens/internal/token"
)

// DefaultMaxDepth bounds container nesting unless WithMaxDepth overrides it.
const DefaultMaxDepth = 10000

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithStringParts makes unterminated string values emit StringPart tokens for
// the bytes available instead of reporting an underrun. Property names are
// never split.
func WithStringParts() Option {
	return func(t *Tokenizer) {
		t.parts = true
	}
}

// WithMaxDepth sets the deepest container nesting accepted. Zero or a
// negative value removes the limit.
func WithMaxDepth(n int) Option {
	return func(t *Tokenizer) {
		t.maxDepth = n
	}
}

// Tokenizer holds the state of one JSON stream. It must not be shared.
type Tokenizer struct {
	mode     Mode
	modes    *stack.Stack[Mode]
	depth    int
	maxDepth int
	parts    bool
}

// New returns a tokenizer positioned before the first top-level value.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		mode:     Line,
		modes:    stack.NewWithCapacity[Mode](32),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Reset returns the tokenizer to its initial state, keeping its options.
func (t *Tokenizer) Reset() {
	t.mode = Line
	t.modes.Reset()
	t.depth = 0
}

func (t *Tokenizer) Mode() Mode {
	return t.mode
}

// Depth returns the number of open containers.
func (t *Tokenizer) Depth() int {
	return t.depth
}

// Next performs one step over the window in. It returns the token produced,
// if any (Kind None otherwise), the number of bytes consumed and the status.
// Token offsets index in.
func (t *Tokenizer) Next(in []byte, final bool) (token.Token, int, token.Status) {
	if t.mode == End {
		return token.Token{}, 0, token.StatusEnd
	}

	if len(in) == 0 {
		if !final {
			return token.Token{}, 0, token.StatusUnderrun
		}
		if t.mode == Line || t.mode == LineEnd {
			t.mode = End
			return token.Token{Kind: token.End}, 0, token.StatusEnd
		}
		return token.Token{}, 0, token.StatusBadInput
	}

	if t.mode != String && isSpace[in[0]] {
		i := 1
		for i < len(in) && isSpace[in[i]] {
			i++
		}
		if t.mode == LineEnd {
			t.mode = Line
		}
		return token.Token{}, i, token.StatusOk
	}

	c := in[0]

	switch t.mode {
	case Line:
		t.modes.Push(LineEnd)
		t.mode = Value
		return token.Token{}, 0, token.StatusOk

	case LineEnd:
		// Values that are not self-delimiting need whitespace before the next
		// top-level value; otherwise "01" would read as two numbers.
		switch c {
		case '{', '[', '"':
			t.modes.Push(LineEnd)
			t.mode = Value
			return token.Token{}, 0, token.StatusOk
		}

	case Value:
		return t.value(in, final)

	case Object1:
		switch c {
		case '}':
			return t.close(token.ObjectEnd)
		case '"':
			t.modes.Push(Object2)
			t.mode = String
			return token.Token{Kind: token.String, Depth: t.depth}, 1, token.StatusOk
		}

	case Object2:
		if c == ':' {
			t.modes.Push(Object3)
			t.mode = Value
			return token.Token{}, 1, token.StatusOk
		}

	case Object3:
		switch c {
		case ',':
			t.mode = Object1
			return token.Token{}, 1, token.StatusOk
		case '}':
			return t.close(token.ObjectEnd)
		}

	case Array1:
		if c == ']' {
			return t.close(token.ArrayEnd)
		}
		t.modes.Push(Array2)
		t.mode = Value
		return token.Token{}, 0, token.StatusOk

	case Array2:
		switch c {
		case ',':
			t.mode = Array1
			return token.Token{}, 1, token.StatusOk
		case ']':
			return t.close(token.ArrayEnd)
		}

	case String:
		return t.str(in, final)
	}

	return token.Token{}, 0, token.StatusBadInput
}

func (t *Tokenizer) value(in []byte, final bool) (token.Token, int, token.Status) {
	switch c := in[0]; {
	case c == '"':
		t.mode = String
		return token.Token{Kind: token.String, Depth: t.depth}, 1, token.StatusOk

	case c == '{':
		return t.open(token.Object, Object1)

	case c == '[':
		return t.open(token.Array, Array1)

	case c == '-' || isDigit(c):
		n, status := scanNumber(in, final)
		if status != token.StatusOk {
			return token.Token{}, 0, status
		}
		return t.scalar(token.Number, n)

	case c == 't':
		return t.literal(in, "true", token.True, final)

	case c == 'f':
		return t.literal(in, "false", token.False, final)

	case c == 'n':
		return t.literal(in, "null", token.Null, final)
	}

	return token.Token{}, 0, token.StatusBadInput
}

func (t *Tokenizer) literal(in []byte, literal string, kind token.Kind, final bool) (token.Token, int, token.Status) {
	n, status := scanLiteral(in, literal, final)
	if status != token.StatusOk {
		return token.Token{}, 0, status
	}
	return t.scalar(kind, n)
}

func (t *Tokenizer) scalar(kind token.Kind, n int) (token.Token, int, token.Status) {
	tok := token.Token{Kind: kind, Length: n, Depth: t.depth}
	t.pop()
	return tok, n, token.StatusOk
}

func (t *Tokenizer) open(kind token.Kind, next Mode) (token.Token, int, token.Status) {
	if t.maxDepth > 0 && t.depth >= t.maxDepth {
		return token.Token{}, 0, token.StatusBadInput
	}
	t.depth++
	t.mode = next
	return token.Token{Kind: kind, Depth: t.depth}, 1, token.StatusOk
}

func (t *Tokenizer) close(kind token.Kind) (token.Token, int, token.Status) {
	tok := token.Token{Kind: kind, Depth: t.depth}
	t.depth--
	t.pop()
	return tok, 1, token.StatusOk
}

func (t *Tokenizer) str(in []byte, final bool) (token.Token, int, token.Status) {
	quote, safe := scanString(in)
	if quote >= 0 {
		tok := token.Token{Kind: token.StringEnd, Length: quote, Depth: t.depth}
		t.pop()
		return tok, quote + 1, token.StatusOk
	}

	if final {
		return token.Token{}, 0, token.StatusBadInput
	}

	if t.parts && safe > 0 && !t.inPropertyName() {
		return token.Token{Kind: token.StringPart, Length: safe, Depth: t.depth}, safe, token.StatusOk
	}

	return token.Token{}, 0, token.StatusUnderrun
}

func (t *Tokenizer) inPropertyName() bool {
	top, ok := t.modes.Peek()
	return ok && top == Object2
}

func (t *Tokenizer) pop() {
	mode, ok := t.modes.Pop()
	if !ok {
		mode = LineEnd
	}
	t.mode = mode
}
