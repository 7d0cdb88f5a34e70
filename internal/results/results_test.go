package results

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jacoelho/jsonlens/internal/stream"
)

func TestSummaryAdd(t *testing.T) {
	s := NewSummary(3)

	s.Add(NewFileResultBuilder("ok.json").
		WithStats(stream.Stats{Bytes: 100, Tokens: 10, Nothing: 1, Underruns: 2}).
		WithDuration(time.Millisecond))
	s.Add(NewFileResultBuilder("bad.json").
		WithStats(stream.Stats{Bytes: 5, Tokens: 1}).
		WithError(fmt.Errorf("bad.json: %w", &stream.SyntaxError{Offset: 5})))
	s.Add(NewFileResultBuilder("missing.json").
		WithError(errors.New("open missing.json: no such file")))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{name: "executed", got: s.ExecutedFiles, want: 3},
		{name: "succeeded", got: s.SucceededFiles, want: 1},
		{name: "failed", got: s.FailedFiles, want: 2},
		{name: "invalid", got: s.InvalidFiles, want: 1},
		{name: "bytes", got: s.TotalBytes, want: int64(105)},
		{name: "tokens", got: s.TotalTokens, want: 11},
		{name: "nothing", got: s.TotalNothing, want: 1},
		{name: "underruns", got: s.TotalUnderruns, want: 2},
		{name: "results", got: len(s.FileResults), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if !s.FileResults[1].Invalid() {
		t.Errorf("Invalid() = false for a syntax error")
	}
	if s.FileResults[2].Invalid() {
		t.Errorf("Invalid() = true for a read error")
	}
}

func TestSummaryRunID(t *testing.T) {
	a, b := NewSummary(0), NewSummary(0)
	if a.RunID == uuid.Nil {
		t.Error("RunID is nil")
	}
	if a.RunID == b.RunID {
		t.Errorf("RunID repeated: %s", a.RunID)
	}
}

func TestSummaryRates(t *testing.T) {
	tests := []struct {
		name        string
		summary     Summary
		bytesPerSec float64
		success     float64
		failure     float64
	}{
		{
			name: "empty",
		},
		{
			name: "half_failed",
			summary: Summary{
				ExecutedFiles:  4,
				SucceededFiles: 2,
				FailedFiles:    2,
				TotalBytes:     2048,
				TotalDuration:  2 * time.Second,
			},
			bytesPerSec: 1024,
			success:     50,
			failure:     50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.BytesPerSecond(); got != tt.bytesPerSec {
				t.Errorf("BytesPerSecond() = %v, want %v", got, tt.bytesPerSec)
			}
			if got := tt.summary.SuccessPercentage(); got != tt.success {
				t.Errorf("SuccessPercentage() = %v, want %v", got, tt.success)
			}
			if got := tt.summary.FailurePercentage(); got != tt.failure {
				t.Errorf("FailurePercentage() = %v, want %v", got, tt.failure)
			}
		})
	}
}
