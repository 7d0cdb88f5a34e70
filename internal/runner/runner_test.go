package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/jacoelho/jsonlens/internal/config"
	"github.com/jacoelho/jsonlens/internal/exit"
	"github.com/jacoelho/jsonlens/internal/formatter"
	"github.com/jacoelho/jsonlens/internal/formatter/stdout"
	"github.com/jacoelho/jsonlens/internal/results"
	"github.com/jacoelho/jsonlens/internal/stream"
	"github.com/jacoelho/jsonlens/internal/token"
)

func init() {
	color.NoColor = true
}

type recorded struct {
	source string
	kind   token.Kind
	text   string
}

// recorder is a formatter that keeps everything it is given.
type recorder struct {
	tokens    []recorded
	steps     int
	summaries []*results.Summary
}

var _ formatter.Formatter = (*recorder)(nil)

func (r *recorder) Token(source string, tok token.Token, text []byte) error {
	r.tokens = append(r.tokens, recorded{source, tok.Kind, string(text)})
	return nil
}

func (r *recorder) Summary(s *results.Summary) error {
	r.summaries = append(r.summaries, s)
	return nil
}

func (r *recorder) Debug(string, stream.Step) error {
	r.steps++
	return nil
}

func writeInputs(t *testing.T, files map[string]string) map[string]string {
	t.Helper()

	dir := t.TempDir()
	paths := make(map[string]string, len(files))
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths[name] = path
	}
	return paths
}

func baseConfig(inputs ...string) *config.Config {
	return &config.Config{
		Inputs:    inputs,
		ChunkSize: 4,
		MaxWindow: 1024,
		Format:    formatter.FormatText,
	}
}

func newRunner(t *testing.T, cfg *config.Config, f formatter.Formatter) *Runner {
	t.Helper()

	r, exitResult := NewWithFormatter(cfg, f)
	if exitResult != nil {
		t.Fatalf("NewWithFormatter() unexpected error: %s", exitResult.Message)
	}
	r.stderr = &bytes.Buffer{}
	return r
}

func TestRun(t *testing.T) {
	t.Parallel()

	paths := writeInputs(t, map[string]string{
		"valid.json":   `{"a":1,"b":[true,null]}`,
		"invalid.json": `{"a":1,]`,
		"second.json":  `[1,2] [3]`,
	})
	missing := filepath.Join(t.TempDir(), "missing.json")

	tests := []struct {
		name          string
		inputs        []string
		wantCode      int
		wantSucceeded int
		wantFailed    int
		wantInvalid   int
	}{
		{
			name:          "single_valid",
			inputs:        []string{paths["valid.json"]},
			wantCode:      exit.CodeSuccess,
			wantSucceeded: 1,
		},
		{
			name:          "multiple_valid",
			inputs:        []string{paths["valid.json"], paths["second.json"]},
			wantCode:      exit.CodeSuccess,
			wantSucceeded: 2,
		},
		{
			name:        "invalid_json",
			inputs:      []string{paths["invalid.json"]},
			wantCode:    exit.CodeInvalid,
			wantFailed:  1,
			wantInvalid: 1,
		},
		{
			name:       "missing_file",
			inputs:     []string{missing},
			wantCode:   exit.CodeError,
			wantFailed: 1,
		},
		{
			name:          "invalid_wins_over_other_failures",
			inputs:        []string{missing, paths["invalid.json"], paths["valid.json"]},
			wantCode:      exit.CodeInvalid,
			wantSucceeded: 1,
			wantFailed:    2,
			wantInvalid:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			r := newRunner(t, baseConfig(tt.inputs...), rec)

			if got := r.Run(context.Background()); got != tt.wantCode {
				t.Errorf("Run() = %d, want %d", got, tt.wantCode)
			}

			if len(rec.summaries) != 1 {
				t.Fatalf("Summary() called %d times, want 1", len(rec.summaries))
			}
			s := rec.summaries[0]
			if s.ExecutedFiles != len(tt.inputs) {
				t.Errorf("ExecutedFiles = %d, want %d", s.ExecutedFiles, len(tt.inputs))
			}
			if s.SucceededFiles != tt.wantSucceeded {
				t.Errorf("SucceededFiles = %d, want %d", s.SucceededFiles, tt.wantSucceeded)
			}
			if s.FailedFiles != tt.wantFailed {
				t.Errorf("FailedFiles = %d, want %d", s.FailedFiles, tt.wantFailed)
			}
			if s.InvalidFiles != tt.wantInvalid {
				t.Errorf("InvalidFiles = %d, want %d", s.InvalidFiles, tt.wantInvalid)
			}
		})
	}
}

func TestExecuteFilesFiltersTokens(t *testing.T) {
	t.Parallel()

	paths := writeInputs(t, map[string]string{
		"doc.json": `{"a":1,"b":2}`,
	})

	cfg := baseConfig(paths["doc.json"])
	cfg.Paths = []string{"$.a"}

	rec := &recorder{}
	r := newRunner(t, cfg, rec)

	if _, err := r.ExecuteFiles(context.Background(), cfg.Inputs); err != nil {
		t.Fatalf("ExecuteFiles() unexpected error: %v", err)
	}

	source := paths["doc.json"]
	want := []recorded{
		{source, token.Object, ""},
		{source, token.String, ""},
		{source, token.StringEnd, "a"},
		{source, token.Number, "1"},
		{source, token.ObjectEnd, ""},
		{source, token.End, ""},
	}
	if !reflect.DeepEqual(rec.tokens, want) {
		t.Errorf("tokens = %v, want %v", rec.tokens, want)
	}
}

func TestExecuteFilesReadsStdin(t *testing.T) {
	t.Parallel()

	cfg := baseConfig(config.Stdin)
	rec := &recorder{}
	r := newRunner(t, cfg, rec)
	r.stdin = strings.NewReader(`[true]`)

	s, err := r.ExecuteFiles(context.Background(), cfg.Inputs)
	if err != nil {
		t.Fatalf("ExecuteFiles() unexpected error: %v", err)
	}

	want := []recorded{
		{config.Stdin, token.Array, ""},
		{config.Stdin, token.True, "true"},
		{config.Stdin, token.ArrayEnd, ""},
		{config.Stdin, token.End, ""},
	}
	if !reflect.DeepEqual(rec.tokens, want) {
		t.Errorf("tokens = %v, want %v", rec.tokens, want)
	}
	if s.TotalBytes != int64(len(`[true]`)) {
		t.Errorf("TotalBytes = %d, want %d", s.TotalBytes, len(`[true]`))
	}
}

func TestExecuteFilesDebugTracesSteps(t *testing.T) {
	t.Parallel()

	paths := writeInputs(t, map[string]string{
		"doc.json": `{"a":"bcdefgh"}`,
	})

	cfg := baseConfig(paths["doc.json"])
	cfg.Debug = true

	rec := &recorder{}
	r := newRunner(t, cfg, rec)

	s, err := r.ExecuteFiles(context.Background(), cfg.Inputs)
	if err != nil {
		t.Fatalf("ExecuteFiles() unexpected error: %v", err)
	}
	if got, want := rec.steps, s.FileResults[0].Stats.Steps; got != want {
		t.Errorf("Debug() called %d times, want %d", got, want)
	}
}

func TestExecuteFilesRateLimited(t *testing.T) {
	t.Parallel()

	paths := writeInputs(t, map[string]string{
		"doc.json": `[1,2,3]`,
	})

	cfg := baseConfig(paths["doc.json"])
	cfg.RateLimit = 1 << 20

	rec := &recorder{}
	r := newRunner(t, cfg, rec)

	s, err := r.ExecuteFiles(context.Background(), cfg.Inputs)
	if err != nil {
		t.Fatalf("ExecuteFiles() unexpected error: %v", err)
	}
	if s.TotalTokens != 6 {
		t.Errorf("TotalTokens = %d, want 6", s.TotalTokens)
	}
}

func TestExecuteFilesCanceled(t *testing.T) {
	t.Parallel()

	paths := writeInputs(t, map[string]string{
		"a.json": `1`,
		"b.json": `2`,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := baseConfig(paths["a.json"], paths["b.json"])
	rec := &recorder{}
	r := newRunner(t, cfg, rec)

	s, err := r.ExecuteFiles(ctx, cfg.Inputs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ExecuteFiles() error = %v, want %v", err, context.Canceled)
	}
	if s.ExecutedFiles != 0 {
		t.Errorf("ExecutedFiles = %d, want 0", s.ExecutedFiles)
	}

	if got := r.Run(ctx); got != exit.CodeError {
		t.Errorf("Run() = %d, want %d", got, exit.CodeError)
	}
}

func TestNewWithFormatterRejectsSelector(t *testing.T) {
	cfg := baseConfig("-")
	cfg.Paths = []string{"$..a"}

	r, exitResult := NewWithFormatter(cfg, &recorder{})
	if r != nil {
		t.Fatal("NewWithFormatter() expected nil runner")
	}
	if exitResult == nil || exitResult.ExitCode != exit.CodeError {
		t.Fatalf("NewWithFormatter() = %+v, want exit code %d", exitResult, exit.CodeError)
	}
}

func TestRunTextOutput(t *testing.T) {
	t.Parallel()

	paths := writeInputs(t, map[string]string{
		"doc.json": `{"a":[1]}`,
	})

	var out, log bytes.Buffer
	cfg := baseConfig(paths["doc.json"])
	f := stdout.NewWithWriters(&out, &log, stdout.Options{Format: formatter.FormatText})
	r := newRunner(t, cfg, f)

	if got := r.Run(context.Background()); got != exit.CodeSuccess {
		t.Fatalf("Run() = %d, want %d", got, exit.CodeSuccess)
	}

	// Offsets are checked by the stream tests; here only layout matters.
	want := []string{
		"   Object",
		"   String",
		"   StringEnd \"a\"",
		"     Array",
		"     Number 1",
		"     ArrayEnd",
		"   ObjectEnd",
		" End",
	}
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("output has %d lines, want %d:\n%s", len(lines), len(want), out.String())
	}
	for i, line := range lines {
		if !strings.HasPrefix(line, paths["doc.json"]+":") || !strings.HasSuffix(line, want[i]) {
			t.Errorf("line %d = %q, want %s:<offset>%s", i, line, paths["doc.json"], want[i])
		}
	}
	if !strings.Contains(log.String(), "Processed files:   1") {
		t.Errorf("summary missing from log:\n%s", log.String())
	}
}
