package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "analysis_result.json")
	in := map[string]interface{}{
		"score":   42.5,
		"comment": "床に服が散らかっています <注意> & 要整理",
		"improvement_suggestions": []interface{}{
			map[string]interface{}{"target_area": "机", "suggestion": "書類をまとめる"},
		},
		"tags": []interface{}{"clutter", true, nil},
	}

	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(raw)
	if !strings.Contains(text, "床に服が散らかっています <注意> & 要整理") {
		t.Errorf("non-ASCII or HTML characters were escaped:\n%s", text)
	}
	if !strings.Contains(text, "\n    \"") {
		t.Errorf("output is not indented:\n%s", text)
	}

	var out map[string]interface{}
	if err := ReadJSON(path, &out); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSONOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := WriteJSON(path, map[string]interface{}{"run": 1.0, "extra": "old"}); err != nil {
		t.Fatal(err)
	}
	if err := WriteJSON(path, map[string]interface{}{"run": 2.0}); err != nil {
		t.Fatal(err)
	}

	var out map[string]interface{}
	if err := ReadJSON(path, &out); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]interface{}{"run": 2.0}, out); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestInferMimeTypeFromPath(t *testing.T) {
	tests := map[string]string{
		"room.PNG":  "image/png",
		"room.jpeg": "image/jpeg",
		"room.jpg":  "image/jpeg",
		"room.webp": "image/webp",
		"room":      "",
	}
	for in, want := range tests {
		if got := InferMimeTypeFromPath(in); got != want {
			t.Errorf("InferMimeTypeFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadImageSniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "room.dat")
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(path, png, 0644); err != nil {
		t.Fatal(err)
	}
	_, mimeType, err := ReadImage(path)
	if err != nil {
		t.Fatal(err)
	}
	if mimeType != "image/png" {
		t.Errorf("mimeType = %q", mimeType)
	}
}

func TestTruncateForLog(t *testing.T) {
	if got := TruncateForLog("abcdefghij", 6); got != "abc..." {
		t.Errorf("got %q", got)
	}
	if got := TruncateForLog("abc", 6); got != "abc" {
		t.Errorf("got %q", got)
	}
}
