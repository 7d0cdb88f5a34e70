// Package reader filters a token stream through a selection tree.
//
// A Reader drives a tokenizer one step per call and decides, token by token,
// whether to pass it on, drop it, or stand in a Nothing marker for a value
// that was matched but excluded. It keeps no recursion: containers the
// selection descends into are tracked on a frame stack, and containers it
// keeps or drops wholesale are tracked by the tokenizer depth at which they
// started.
package reader

import (
	"fmt"

	"github.com/jacoelho/jsonlens/internal/ring"
	"github.com/jacoelho/jsonlens/internal/selector"
	"github.com/jacoelho/jsonlens/internal/stack"
	"github.com/jacoelho/jsonlens/internal/token"
	"github.com/jacoelho/jsonlens/internal/tokenizer"
)

// Mode is the operating state of a Reader.
type Mode uint8

const (
	// Seek applies the current node to the next value.
	Seek Mode = iota
	// Props expects a property name or the end of a selected object.
	Props
	// Key waits for the end of a property name.
	Key
	// Items expects an element or the end of a selected array.
	Items
	// Read forwards every token until the current value ends.
	Read
	// Skip drops every token until the current value ends.
	Skip
)

var modeNames = [...]string{
	Seek:  "Seek",
	Props: "Props",
	Key:   "Key",
	Items: "Items",
	Read:  "Read",
	Skip:  "Skip",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// MinFree is the room a single step may need in the output buffer: a matched
// property name is written as its opener plus its end. Output buffers
// smaller than this never make progress.
const MinFree = 2

// Reader is bound to one tokenizer and one selection tree. The tree may be
// shared; the Reader may not.
type Reader struct {
	tk     *tokenizer.Tokenizer
	root   *selector.Node
	frames *stack.Stack[*selector.Node]

	mode   Mode
	node   *selector.Node
	marked bool
	till   int
	done   bool
}

// New returns a Reader positioned before the first top-level value. Every
// top-level value in the stream is matched against root.
func New(root *selector.Node, tk *tokenizer.Tokenizer) *Reader {
	return &Reader{
		tk:     tk,
		root:   root,
		frames: stack.NewWithCapacity[*selector.Node](16),
		node:   root,
	}
}

func (r *Reader) Mode() Mode {
	return r.mode
}

// Depth is the nesting depth of the underlying tokenizer.
func (r *Reader) Depth() int {
	return r.tk.Depth()
}

// Reset rewinds the Reader and its tokenizer for a new stream.
func (r *Reader) Reset() {
	r.tk.Reset()
	r.frames.Reset()
	r.mode = Seek
	r.node = r.root
	r.marked = false
	r.till = 0
	r.done = false
}

// Next performs one tokenizer step over in and writes the tokens it keeps to
// out. Tokens index in. It returns the number of bytes consumed.
//
// StatusFull means out has fewer than two free slots; nothing was consumed and
// the call should be repeated after draining out. StatusUnderrun leaves the
// Reader untouched, like the tokenizer.
func (r *Reader) Next(in []byte, final bool, out *ring.Buffer[token.Token]) (token.Status, int) {
	if r.done {
		return token.StatusEnd, 0
	}
	if out.Free() < MinFree {
		return token.StatusFull, 0
	}

	tok, n, status := r.tk.Next(in, final)
	switch status {
	case token.StatusOk:
	case token.StatusEnd:
		if tok.Kind == token.End {
			out.Write(tok)
		}
		r.done = true
		return status, n
	default:
		return status, n
	}

	if tok.Kind == token.None {
		return token.StatusOk, n
	}

	switch r.mode {
	case Seek:
		r.begin(tok, r.node, r.marked, out)

	case Props:
		switch tok.Kind {
		case token.ObjectEnd:
			out.Write(tok)
			r.frames.Pop()
			r.complete()
		case token.String:
			r.mode = Key
		}

	case Key:
		if tok.Kind == token.StringEnd {
			r.property(tok, in, out)
		}

	case Items:
		if tok.Kind == token.ArrayEnd {
			out.Write(tok)
			r.frames.Pop()
			r.complete()
			break
		}
		top, _ := r.frames.Peek()
		r.begin(tok, top.Item(), true, out)

	case Read:
		out.Write(tok)
		if r.ends(tok) {
			r.complete()
		}

	case Skip:
		if r.ends(tok) {
			r.complete()
		}
	}

	return token.StatusOk, n
}

// begin applies node to the value whose first token is tok. Marked values
// leave a Nothing in place of their content when excluded.
func (r *Reader) begin(tok token.Token, node *selector.Node, marked bool, out *ring.Buffer[token.Token]) {
	strategy := selector.None
	if node != nil {
		strategy = node.Strategy()
	}

	switch {
	case strategy == selector.Any:
		out.Write(tok)
		r.enter(tok, Read)
		return

	case strategy == selector.Object && tok.Kind == token.Object:
		out.Write(tok)
		r.frames.Push(node)
		r.mode = Props
		return

	case strategy == selector.Array && tok.Kind == token.Array:
		out.Write(tok)
		r.frames.Push(node)
		r.mode = Items
		return
	}

	if marked {
		out.Write(token.Token{Kind: token.Nothing, Offset: tok.Offset, Depth: startDepth(tok)})
	}
	r.enter(tok, Skip)
}

// enter starts a Read or Skip scope, or finishes at once for single-token values.
func (r *Reader) enter(tok token.Token, mode Mode) {
	if tok.Kind.Completes() {
		r.complete()
		return
	}
	r.till = startDepth(tok)
	r.mode = mode
}

func (r *Reader) ends(tok token.Token) bool {
	return tok.Kind.Completes() && r.tk.Depth() == r.till
}

// property resolves a finished property name against the selected object.
func (r *Reader) property(name token.Token, in []byte, out *ring.Buffer[token.Token]) {
	top, _ := r.frames.Peek()
	prop := top.Lookup(name.Text(in))
	r.mode = Seek

	if prop == nil {
		r.node = nil
		r.marked = false
		return
	}

	out.Write(token.Token{Kind: token.String, Offset: name.Offset - 1, Depth: name.Depth})
	out.Write(name)
	r.node = prop.Value()
	r.marked = true
}

// complete moves on after a value ends: to the enclosing selected container,
// or back to the root for the next top-level value.
func (r *Reader) complete() {
	top, ok := r.frames.Peek()
	if !ok {
		r.mode = Seek
		r.node = r.root
		r.marked = false
		return
	}

	if top.Strategy() == selector.Array {
		r.mode = Items
	} else {
		r.mode = Props
	}
}

func startDepth(tok token.Token) int {
	if tok.Kind.Opens() {
		return tok.Depth - 1
	}
	return tok.Depth
}
