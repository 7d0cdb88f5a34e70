package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrBadInput indicates the stream is not valid JSON.
	ErrBadInput = errors.New("stream: bad input")

	// ErrWindowExceeded indicates a single token did not fit in the maximum window.
	ErrWindowExceeded = errors.New("stream: token exceeds maximum window")

	// ErrBufferSize indicates an output buffer too small for a reader step.
	ErrBufferSize = errors.New("stream: buffer size too small")
)

// SyntaxError reports where the stream stopped being valid JSON.
type SyntaxError struct {
	// Offset is the absolute position where the rejected token starts.
	Offset int64
	Depth  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d (depth %d)", ErrBadInput, e.Offset, e.Depth)
}

func (e *SyntaxError) Unwrap() error {
	return ErrBadInput
}
