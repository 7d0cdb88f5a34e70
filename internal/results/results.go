package results

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jacoelho/jsonlens/internal/stream"
)

type FileResult struct {
	Filename string
	Stats    stream.Stats
	Duration time.Duration
	Error    error
}

// Invalid reports whether the file failed because it was not valid JSON.
func (r FileResult) Invalid() bool {
	return errors.Is(r.Error, stream.ErrBadInput)
}

type FileResultBuilder struct {
	filename string
	stats    stream.Stats
	duration time.Duration
	err      error
}

func NewFileResultBuilder(filename string) *FileResultBuilder {
	return &FileResultBuilder{
		filename: filename,
	}
}

func (b *FileResultBuilder) WithStats(stats stream.Stats) *FileResultBuilder {
	b.stats = stats
	return b
}

func (b *FileResultBuilder) WithDuration(duration time.Duration) *FileResultBuilder {
	b.duration = duration
	return b
}

func (b *FileResultBuilder) WithError(err error) *FileResultBuilder {
	b.err = err
	return b
}

func (b *FileResultBuilder) Build() FileResult {
	return FileResult{
		Filename: b.filename,
		Stats:    b.stats,
		Duration: b.duration,
		Error:    b.err,
	}
}

// Summary aggregates the files processed by one run.
type Summary struct {
	RunID          uuid.UUID
	FileResults    []FileResult
	ExecutedFiles  int
	SucceededFiles int
	FailedFiles    int
	InvalidFiles   int
	TotalBytes     int64
	TotalTokens    int
	TotalNothing   int
	TotalUnderruns int
	TotalDuration  time.Duration
}

func NewSummary(expectedFiles int) *Summary {
	return &Summary{
		RunID:       uuid.New(),
		FileResults: make([]FileResult, 0, expectedFiles),
	}
}

func (s *Summary) Add(builder *FileResultBuilder) {
	result := builder.Build()

	s.FileResults = append(s.FileResults, result)
	s.ExecutedFiles++
	s.TotalBytes += result.Stats.Bytes
	s.TotalTokens += result.Stats.Tokens
	s.TotalNothing += result.Stats.Nothing
	s.TotalUnderruns += result.Stats.Underruns

	switch {
	case result.Error == nil:
		s.SucceededFiles++
	case result.Invalid():
		s.InvalidFiles++
		s.FailedFiles++
	default:
		s.FailedFiles++
	}
}

func (s *Summary) SetTotalDuration(duration time.Duration) {
	s.TotalDuration = duration
}

func (s *Summary) BytesPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.TotalBytes) / s.TotalDuration.Seconds()
}

func (s *Summary) SuccessPercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.SucceededFiles) / float64(s.ExecutedFiles)) * 100
}

func (s *Summary) FailurePercentage() float64 {
	if s.ExecutedFiles == 0 {
		return 0
	}
	return (float64(s.FailedFiles) / float64(s.ExecutedFiles)) * 100
}
