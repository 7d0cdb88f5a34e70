// Package token defines the vocabulary shared by the tokenizer, the reader and
// their drivers: token kinds, the token record and step status.
package token

import "fmt"

// Kind identifies what a token represents.
type Kind uint8

const (
	// None means a step produced no token (whitespace, a colon, a comma,
	// or an internal transition).
	None Kind = iota
	Object
	ObjectEnd
	Array
	ArrayEnd
	// String opens a string; it carries no text.
	String
	// StringPart is a prefix of a string value emitted before its end was seen.
	StringPart
	// StringEnd carries the (remaining) string text without quotes.
	StringEnd
	Number
	True
	False
	Null
	End
	// Nothing stands in for a value the reader chose to exclude.
	Nothing
)

var kindNames = [...]string{
	None:       "None",
	Object:     "Object",
	ObjectEnd:  "ObjectEnd",
	Array:      "Array",
	ArrayEnd:   "ArrayEnd",
	String:     "String",
	StringPart: "StringPart",
	StringEnd:  "StringEnd",
	Number:     "Number",
	True:       "True",
	False:      "False",
	Null:       "Null",
	End:        "End",
	Nothing:    "Nothing",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Opens reports whether k starts a container.
func (k Kind) Opens() bool {
	return k == Object || k == Array
}

// Closes reports whether k ends a container.
func (k Kind) Closes() bool {
	return k == ObjectEnd || k == ArrayEnd
}

// Completes reports whether k is the last token of a value.
func (k Kind) Completes() bool {
	switch k {
	case ObjectEnd, ArrayEnd, StringEnd, Number, True, False, Null:
		return true
	}
	return false
}

// HasText reports whether tokens of kind k carry a span of the input.
func (k Kind) HasText() bool {
	switch k {
	case StringPart, StringEnd, Number, True, False, Null:
		return true
	}
	return false
}

// Token is a span of the window handed to the step that produced it.
// Offset is where the token starts; for String that is the opening quote,
// which lies just before the window when the opener is written together with
// the end of a property name. Length is zero unless Kind.HasText is true.
type Token struct {
	Kind   Kind
	Offset int
	Length int
	// Depth is the nesting depth when the token was emitted. Object and
	// Array report the depth after opening, their end tokens the same value.
	Depth int
}

// Text slices the token out of the window it was produced from.
func (t Token) Text(window []byte) []byte {
	if t.Length == 0 {
		return nil
	}
	return window[t.Offset : t.Offset+t.Length]
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%d[%d:%d]", t.Kind, t.Depth, t.Offset, t.Offset+t.Length)
}

// Status is the outcome of a single step.
type Status uint8

const (
	// StatusOk means the step advanced; it may have consumed input and
	// produced a token.
	StatusOk Status = iota
	// StatusUnderrun means the window is too short; nothing was consumed or changed.
	StatusUnderrun
	// StatusEnd means the stream is complete. It is terminal and repeatable.
	StatusEnd
	// StatusBadInput means the input violates the grammar. It is terminal.
	StatusBadInput
	// StatusFull means the output buffer lacks room for a step; drain and retry.
	StatusFull
)

var statusNames = [...]string{
	StatusOk:       "Ok",
	StatusUnderrun: "Underrun",
	StatusEnd:      "End",
	StatusBadInput: "BadInput",
	StatusFull:     "Full",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}
