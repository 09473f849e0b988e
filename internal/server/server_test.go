package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roomclean/internal/analyzer"
	"roomclean/internal/instructions"

	"github.com/google/go-cmp/cmp"
)

type fakeAnalyzer struct {
	result     analyzer.Result
	err        error
	imagePath  string
	promptPath string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, imagePath, promptPath string) (analyzer.Result, error) {
	f.imagePath, f.promptPath = imagePath, promptPath
	return f.result, f.err
}

func TestHandleAnalyze(t *testing.T) {
	want := analyzer.Result{
		"tasks": []interface{}{
			map[string]interface{}{"action": "move", "item": "shoes", "from": "doorway", "to": "closet"},
		},
	}
	fake := &fakeAnalyzer{result: want}
	srv := httptest.NewServer(NewHandler(fake, "image/img2.png", "prompt/get_score_and_solve.txt").Routes())
	defer srv.Close()

	got, err := instructions.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if diff := cmp.Diff(map[string]interface{}(want), got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if fake.imagePath != "image/img2.png" || fake.promptPath != "prompt/get_score_and_solve.txt" {
		t.Errorf("analyzer called with %q, %q", fake.imagePath, fake.promptPath)
	}
}

func TestHandleAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantBody string
	}{
		{name: "decode failure", err: &analyzer.DecodeError{Raw: "oops", Err: errors.New("bad")}, status: http.StatusInternalServerError, wantBody: "Failed to parse JSON"},
		{name: "api failure", err: errors.New("quota exceeded"), status: http.StatusInternalServerError, wantBody: "quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeAnalyzer{err: tt.err}, "a.png", "p.txt")
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	fake := &fakeAnalyzer{}
	rec := httptest.NewRecorder()
	NewHandler(fake, "", "").Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
	if fake.imagePath != "" {
		t.Error("health check must not trigger analysis")
	}
}

func TestHandleAnalyzeRejectsOtherMethodsAndPaths(t *testing.T) {
	h := NewHandler(&fakeAnalyzer{result: analyzer.Result{}}, "", "").Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Errorf("body is not JSON: %v", err)
	}
}
