package tokenizer

import "fmt"

// Mode is a state of the tokenizer's pushdown automaton.
type Mode uint8

const (
	// Line awaits the start of a top-level value.
	Line Mode = iota
	// Value awaits any value.
	Value
	// Object1 awaits a property name or '}'.
	Object1
	// Object2 awaits ':'.
	Object2
	// Object3 awaits ',' or '}'.
	Object3
	// Array1 awaits a value or ']'.
	Array1
	// Array2 awaits ',' or ']'.
	Array2
	// String is inside a string, after the opening quote.
	String
	// LineEnd follows a complete top-level value.
	LineEnd
	// End is terminal.
	End
)

var modeNames = [...]string{
	Line:    "Line",
	Value:   "Value",
	Object1: "Object1",
	Object2: "Object2",
	Object3: "Object3",
	Array1:  "Array1",
	Array2:  "Array2",
	String:  "String",
	LineEnd: "LineEnd",
	End:     "End",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}
