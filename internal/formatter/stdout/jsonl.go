package stdout

import (
	"io"

	"github.com/sugawarayuuta/sonnet"

	"github.com/jacoelho/jsonlens/internal/results"
	"github.com/jacoelho/jsonlens/internal/stream"
	"github.com/jacoelho/jsonlens/internal/token"
)

// jsonlFormatter writes one JSON object per line.
type jsonlFormatter struct {
	out  io.Writer
	log  io.Writer
	opts Options
}

type tokenLine struct {
	Source string  `json:"source"`
	Kind   string  `json:"kind"`
	Offset int     `json:"offset"`
	Depth  int     `json:"depth"`
	Text   *string `json:"text,omitempty"`
}

type fileLine struct {
	File       string `json:"file"`
	Bytes      int64  `json:"bytes"`
	Tokens     int    `json:"tokens"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Invalid    bool   `json:"invalid,omitempty"`
}

type summaryLine struct {
	RunID      string     `json:"run_id"`
	Files      []fileLine `json:"files"`
	Succeeded  int        `json:"succeeded"`
	Failed     int        `json:"failed"`
	Invalid    int        `json:"invalid"`
	Bytes      int64      `json:"bytes"`
	Tokens     int        `json:"tokens"`
	Nothing    int        `json:"nothing"`
	Underruns  int        `json:"underruns"`
	DurationMS int64      `json:"duration_ms"`
}

type stepLine struct {
	Source   string `json:"source"`
	Offset   int64  `json:"offset"`
	Window   int    `json:"window"`
	Consumed int    `json:"consumed"`
	Final    bool   `json:"final"`
	Status   string `json:"status"`
	Mode     string `json:"mode"`
	Depth    int    `json:"depth"`
}

func (f *jsonlFormatter) Token(source string, tok token.Token, text []byte) error {
	line := tokenLine{
		Source: source,
		Kind:   tok.Kind.String(),
		Offset: tok.Offset,
		Depth:  tok.Depth,
	}
	if tok.Kind.HasText() {
		s := string(text)
		line.Text = &s
	}
	return writeLine(f.out, line)
}

func (f *jsonlFormatter) Summary(s *results.Summary) error {
	if f.opts.Quiet {
		return nil
	}

	line := summaryLine{
		RunID:      s.RunID.String(),
		Files:      make([]fileLine, 0, len(s.FileResults)),
		Succeeded:  s.SucceededFiles,
		Failed:     s.FailedFiles,
		Invalid:    s.InvalidFiles,
		Bytes:      s.TotalBytes,
		Tokens:     s.TotalTokens,
		Nothing:    s.TotalNothing,
		Underruns:  s.TotalUnderruns,
		DurationMS: s.TotalDuration.Milliseconds(),
	}
	for _, r := range s.FileResults {
		fl := fileLine{
			File:       r.Filename,
			Bytes:      r.Stats.Bytes,
			Tokens:     r.Stats.Tokens,
			DurationMS: r.Duration.Milliseconds(),
			Invalid:    r.Invalid(),
		}
		if r.Error != nil {
			fl.Error = r.Error.Error()
		}
		line.Files = append(line.Files, fl)
	}
	return writeLine(f.log, line)
}

func (f *jsonlFormatter) Debug(source string, step stream.Step) error {
	return writeLine(f.log, stepLine{
		Source:   source,
		Offset:   step.Offset,
		Window:   step.Window,
		Consumed: step.Consumed,
		Final:    step.Final,
		Status:   step.Status.String(),
		Mode:     step.Mode.String(),
		Depth:    step.Depth,
	})
}

func writeLine(w io.Writer, v any) error {
	data, err := sonnet.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
