package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roomclean/internal/genai/gemini"

	"github.com/google/go-cmp/cmp"
)

type fakeTextGenerator struct {
	text   string
	err    error
	prompt string
	image  gemini.Image
	calls  int
}

func (f *fakeTextGenerator) GenerateText(ctx context.Context, prompt string, image gemini.Image) (string, error) {
	f.calls++
	f.prompt = prompt
	f.image = image
	return f.text, f.err
}

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "room.png")
	promptPath := filepath.Join(dir, "rubric.txt")
	if err := os.WriteFile(imagePath, []byte("\x89PNG\r\n\x1a\nfake"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(promptPath, []byte("部屋を採点してください"), 0644); err != nil {
		t.Fatal(err)
	}
	return imagePath, promptPath
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json fence", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "surrounding whitespace", input: "\n  ```json\n{\"a\":1}\n```  \n", expected: `{"a":1}`},
		{name: "no fence", input: ` {"a":1} `, expected: `{"a":1}`},
		{name: "single line fence", input: "```json{\"a\":1}```", expected: `{"a":1}`},
		{name: "fence without newline before object", input: "```{\"a\":1}\n```", expected: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	imagePath, promptPath := writeInputs(t)
	fake := &fakeTextGenerator{text: "```json\n{\"score\": 42, \"improvement_suggestions\": [{\"target_area\": \"机\", \"suggestion\": \"片付ける\"}]}\n```"}

	result, err := New(fake).Analyze(context.Background(), imagePath, promptPath)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := Result{
		"score": 42.0,
		"improvement_suggestions": []interface{}{
			map[string]interface{}{"target_area": "机", "suggestion": "片付ける"},
		},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if fake.prompt != "部屋を採点してください" {
		t.Errorf("prompt = %q", fake.prompt)
	}
	if fake.image.MIMEType != "image/png" {
		t.Errorf("mime type = %q", fake.image.MIMEType)
	}
}

func TestAnalyzeMalformedJSON(t *testing.T) {
	imagePath, promptPath := writeInputs(t)
	fake := &fakeTextGenerator{text: "Sorry, I cannot rate this room."}

	result, err := New(fake).Analyze(context.Background(), imagePath, promptPath)
	if result != nil {
		t.Errorf("result = %v, want nil", result)
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if decodeErr.Raw != fake.text {
		t.Errorf("raw = %q", decodeErr.Raw)
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	imagePath, promptPath := writeInputs(t)
	boom := errors.New("connection reset")
	fake := &fakeTextGenerator{err: boom}

	_, err := New(fake).Analyze(context.Background(), imagePath, promptPath)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped transport error", err)
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		t.Error("transport error must not be reported as decode error")
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want exactly one attempt", fake.calls)
	}
}

func TestAnalyzeMissingFiles(t *testing.T) {
	imagePath, promptPath := writeInputs(t)
	fake := &fakeTextGenerator{text: "{}"}

	if _, err := New(fake).Analyze(context.Background(), imagePath+".missing", promptPath); err == nil {
		t.Error("expected error for missing image")
	}
	if _, err := New(fake).Analyze(context.Background(), imagePath, promptPath+".missing"); err == nil {
		t.Error("expected error for missing prompt")
	}
	if fake.calls != 0 {
		t.Errorf("model called %d times for unreadable inputs", fake.calls)
	}
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, in := range []string{"null", "[1,2]", `"text"`} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error", in)
		}
	}
}
