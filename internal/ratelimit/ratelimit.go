// Package ratelimit throttles input streams to a byte rate, which makes slow
// producers such as network peers reproducible from local files.
package ratelimit

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// Reader limits how fast bytes can be read from the wrapped reader.
type Reader struct {
	ctx     context.Context
	src     io.Reader
	limiter *rate.Limiter
	burst   int
}

// NewReader uses 0 or negative bytesPerSecond for no rate limiting. burst is
// the largest read allowed at once; reads asking for more are shortened.
func NewReader(ctx context.Context, src io.Reader, bytesPerSecond float64, burst int) *Reader {
	burst = max(burst, 1)

	limit := rate.Inf
	if bytesPerSecond > 0 {
		limit = rate.Limit(bytesPerSecond)
	}

	return &Reader{
		ctx:     ctx,
		src:     src,
		limiter: rate.NewLimiter(limit, burst),
		burst:   burst,
	}
}

// Read waits until the bytes it returns are within the rate. Cancellation of
// the reader's context interrupts the wait.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) > r.burst {
		p = p[:r.burst]
	}

	n, err := r.src.Read(p)
	if n > 0 {
		if werr := r.limiter.WaitN(r.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

// SetLimit can be called at runtime.
func (r *Reader) SetLimit(bytesPerSecond float64) {
	if bytesPerSecond <= 0 {
		r.limiter.SetLimit(rate.Inf)
	} else {
		r.limiter.SetLimit(rate.Limit(bytesPerSecond))
	}
}

func (r *Reader) Limit() float64 {
	limit := r.limiter.Limit()
	if limit == rate.Inf {
		return 0 // Indicate no rate limiting
	}
	return float64(limit)
}
