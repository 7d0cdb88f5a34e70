// Package ring provides a fixed-capacity FIFO used to hand tokens from the
// reader to its driver in batches.
package ring

import (
	"errors"
	"fmt"
)

// ErrCapacity indicates a capacity that is not a positive power of two.
var ErrCapacity = errors.New("ring: capacity must be a positive power of two")

// Buffer is a bounded FIFO. Write refuses values once the buffer is full;
// that refusal is the only backpressure signal, so callers must drain
// before writing again.
type Buffer[T any] struct {
	data   []T
	mask   int
	cursor int
	charge int
}

// New returns a buffer holding up to capacity values.
func New[T any](capacity int) (*Buffer[T], error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w, got: %d", ErrCapacity, capacity)
	}

	return &Buffer[T]{
		data: make([]T, capacity),
		mask: capacity - 1,
	}, nil
}

// MustNew is New for capacities known at compile time.
func MustNew[T any](capacity int) *Buffer[T] {
	b, err := New[T](capacity)
	if err != nil {
		panic(err)
	}
	return b
}

// Write appends v. It reports false, leaving the buffer untouched, when full.
func (b *Buffer[T]) Write(v T) bool {
	if b.charge == len(b.data) {
		return false
	}

	b.data[(b.cursor+b.charge)&b.mask] = v
	b.charge++
	return true
}

// Read removes the oldest value. It reports false with the zero value when
// the buffer is empty.
func (b *Buffer[T]) Read() (T, bool) {
	var zero T
	if b.charge == 0 {
		return zero, false
	}

	v := b.data[b.cursor]
	b.data[b.cursor] = zero
	b.cursor = (b.cursor + 1) & b.mask
	b.charge--
	return v, true
}

func (b *Buffer[T]) Len() int {
	return b.charge
}

func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// Free returns how many writes will succeed before the buffer is full.
func (b *Buffer[T]) Free() int {
	return len(b.data) - b.charge
}
