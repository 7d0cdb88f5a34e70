package selector

import "errors"

var (
	// ErrSyntax indicates a selector source that cannot be parsed.
	ErrSyntax = errors.New("selector: syntax error")

	// ErrNotSupported indicates a path feature that a streaming selection cannot express.
	ErrNotSupported = errors.New("selector: feature not supported")

	// ErrMalformed indicates a tree that contradicts itself, such as one
	// property selected both as an object and as an array.
	ErrMalformed = errors.New("selector: malformed selection")
)
