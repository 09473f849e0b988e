package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roomclean/internal/analyzer"
	"roomclean/internal/generator"
	"roomclean/internal/utils"

	"github.com/google/go-cmp/cmp"
)

type fakeAnalyzer struct {
	result analyzer.Result
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, imagePath, promptPath string) (analyzer.Result, error) {
	return f.result, f.err
}

type fakeGenerator struct {
	calls        int
	imagePath    string
	instructions interface{}
	result       *generator.Result
	err          error
}

func (f *fakeGenerator) Generate(ctx context.Context, imagePath string, instructions interface{}) (*generator.Result, error) {
	f.calls++
	f.imagePath = imagePath
	f.instructions = instructions
	return f.result, f.err
}

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishFile(ctx context.Context, localPath, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.published = append(f.published, localPath)
	return "https://oss.example.com/" + filepath.Base(localPath), nil
}

func analysisFixture() analyzer.Result {
	return analyzer.Result{
		"score": 35.0,
		"improvement_suggestions": []interface{}{
			map[string]interface{}{"target_area": "机の上", "suggestion": "書類を整理する"},
		},
	}
}

func options(t *testing.T) Options {
	dir := t.TempDir()
	return Options{
		ImagePath:          filepath.Join(dir, "room.png"),
		PromptPath:         filepath.Join(dir, "prompt.txt"),
		AnalysisOutputPath: filepath.Join(dir, "analysis_result.json"),
	}
}

func TestRunSuccess(t *testing.T) {
	opts := options(t)
	gen := &fakeGenerator{result: &generator.Result{OutputPath: "after.png", MIMEType: "image/png"}}

	report, err := New(&fakeAnalyzer{result: analysisFixture()}, gen, nil).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var persisted map[string]interface{}
	if err := utils.ReadJSON(opts.AnalysisOutputPath, &persisted); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if diff := cmp.Diff(map[string]interface{}(analysisFixture()), persisted); diff != "" {
		t.Errorf("persisted analysis mismatch (-want +got):\n%s", diff)
	}

	if gen.imagePath != opts.ImagePath {
		t.Errorf("generator image = %q", gen.imagePath)
	}
	if diff := cmp.Diff(map[string]interface{}(analysisFixture()), gen.instructions); diff != "" {
		t.Errorf("generator instructions mismatch (-want +got):\n%s", diff)
	}
	if report.AnalysisPath != opts.AnalysisOutputPath || report.Generation.OutputPath != "after.png" {
		t.Errorf("report = %+v", report)
	}
}

func TestRunAnalyzerFailureStopsPipeline(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "decode failure", err: &analyzer.DecodeError{Raw: "not json", Err: errors.New("invalid character")}},
		{name: "transport failure", err: errors.New("connection refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options(t)
			gen := &fakeGenerator{}

			_, err := New(&fakeAnalyzer{err: tt.err}, gen, nil).Run(context.Background(), opts)
			if !errors.Is(err, tt.err) {
				t.Fatalf("error = %v, want %v", err, tt.err)
			}
			if gen.calls != 0 {
				t.Errorf("generator called %d times after analyzer failure", gen.calls)
			}
			if _, err := os.Stat(opts.AnalysisOutputPath); !os.IsNotExist(err) {
				t.Errorf("analysis file should not exist, stat err = %v", err)
			}
		})
	}
}

func TestRunGeneratorFailureKeepsAnalysis(t *testing.T) {
	opts := options(t)
	gen := &fakeGenerator{result: &generator.Result{}, err: generator.ErrNoImage}
	pub := &fakePublisher{}

	report, err := New(&fakeAnalyzer{result: analysisFixture()}, gen, pub).Run(context.Background(), opts)
	if !errors.Is(err, generator.ErrNoImage) {
		t.Fatalf("error = %v, want ErrNoImage", err)
	}
	if _, err := os.Stat(opts.AnalysisOutputPath); err != nil {
		t.Errorf("analysis file should remain on disk: %v", err)
	}
	if report.AnalysisPath != opts.AnalysisOutputPath {
		t.Errorf("report.AnalysisPath = %q", report.AnalysisPath)
	}
	if len(pub.published) != 0 {
		t.Errorf("nothing should be published on failure, got %v", pub.published)
	}
}

func TestRunPublishesResults(t *testing.T) {
	opts := options(t)
	gen := &fakeGenerator{result: &generator.Result{OutputPath: "after.png", MIMEType: "image/png"}}
	pub := &fakePublisher{}

	report, err := New(&fakeAnalyzer{result: analysisFixture()}, gen, pub).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if diff := cmp.Diff([]string{opts.AnalysisOutputPath, "after.png"}, pub.published); diff != "" {
		t.Errorf("published mismatch (-want +got):\n%s", diff)
	}
	if report.AnalysisURL != "https://oss.example.com/analysis_result.json" || report.ImageURL != "https://oss.example.com/after.png" {
		t.Errorf("report = %+v", report)
	}
}

func TestRunPublishFailureIsNotFatal(t *testing.T) {
	opts := options(t)
	gen := &fakeGenerator{result: &generator.Result{OutputPath: "after.png", MIMEType: "image/png"}}

	report, err := New(&fakeAnalyzer{result: analysisFixture()}, gen, &fakePublisher{err: errors.New("denied")}).Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.AnalysisURL != "" || report.ImageURL != "" {
		t.Errorf("report = %+v", report)
	}
}
