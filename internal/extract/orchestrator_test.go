package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeReader struct {
	text     string
	err      error
	calls    int
	paths    []string
	mimes    []string
	prompts  []string
	contents [][]byte
}

func (f *fakeReader) ReadDocument(ctx context.Context, path, mimeType, prompt string) (string, error) {
	f.calls++
	f.paths = append(f.paths, path)
	f.mimes = append(f.mimes, mimeType)
	f.prompts = append(f.prompts, prompt)
	data, _ := os.ReadFile(path)
	f.contents = append(f.contents, data)
	return f.text, f.err
}

func newTestOrchestrator(t *testing.T, reader *fakeReader, local func(context.Context, []byte, string, string) (string, error)) *Orchestrator {
	t.Helper()
	var o *Orchestrator
	if reader == nil {
		o = NewOrchestrator(nil, t.TempDir())
	} else {
		o = NewOrchestrator(reader, t.TempDir())
	}
	o.now = func() time.Time { return time.Unix(1700000000, 0) }
	if local != nil {
		o.local = local
	}
	return o
}

func TestExtractScannedPDFFallsBackOnce(t *testing.T) {
	reader := &fakeReader{text: "OCR text of the tender"}
	o := newTestOrchestrator(t, reader, func(context.Context, []byte, string, string) (string, error) {
		return ScannedPDFPlaceholder, nil
	})
	data := bytes.Repeat([]byte("x"), 200)

	res := o.Extract(context.Background(), data, "scan.pdf", "application/pdf")
	if reader.calls != 1 {
		t.Fatalf("reader calls = %d, want 1", reader.calls)
	}
	if !res.UsedFallback || res.Text != "OCR text of the tender" || res.Err != nil {
		t.Fatalf("unexpected result: %#v", res)
	}
	if !strings.Contains(reader.prompts[0], "OCR") {
		t.Fatalf("expected OCR prompt, got %q", reader.prompts[0])
	}
	if !bytes.Equal(reader.contents[0], data) {
		t.Fatal("temp file content mismatch")
	}
	if !strings.Contains(filepath.Base(reader.paths[0]), "1700000000000000000") {
		t.Fatalf("temp path not timestamped: %s", reader.paths[0])
	}
	if _, err := os.Stat(reader.paths[0]); !os.IsNotExist(err) {
		t.Fatalf("temp file not removed: %v", err)
	}
}

func TestExtractShortTextLargeFileFallsBack(t *testing.T) {
	reader := &fakeReader{text: "remote"}
	o := newTestOrchestrator(t, reader, nil)
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 2000)...)

	res := o.Extract(context.Background(), data, "photo.png", "image/png")
	if reader.calls != 1 || res.Text != "remote" {
		t.Fatalf("calls=%d result=%#v", reader.calls, res)
	}
}

func TestExtractSmallFileNoFallback(t *testing.T) {
	reader := &fakeReader{text: "remote"}
	o := newTestOrchestrator(t, reader, nil)

	res := o.Extract(context.Background(), []byte("short"), "a.txt", "text/plain")
	if reader.calls != 0 {
		t.Fatalf("reader calls = %d, want 0", reader.calls)
	}
	if res.Text != "short" || res.UsedFallback {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExtractFallbackErrorIsInline(t *testing.T) {
	reader := &fakeReader{err: errors.New("quota exceeded")}
	o := newTestOrchestrator(t, reader, func(context.Context, []byte, string, string) (string, error) {
		return ScannedPDFPlaceholder, nil
	})

	res := o.Extract(context.Background(), bytes.Repeat([]byte("x"), 10), "scan.pdf", "application/pdf")
	if res.Err == nil {
		t.Fatal("expected Err to be set")
	}
	if !strings.Contains(res.Text, "scan.pdf") || !strings.Contains(res.Text, "quota exceeded") {
		t.Fatalf("placeholder = %q", res.Text)
	}
}

func TestExtractNoReaderDegrades(t *testing.T) {
	o := newTestOrchestrator(t, nil, nil)
	res := o.Extract(context.Background(), bytes.Repeat([]byte{0}, 2000), "blob.png", "image/png")
	if res.Err == nil || !strings.HasPrefix(res.Text, "[Text extraction failed") {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExtractLocalErrorSmallFile(t *testing.T) {
	reader := &fakeReader{}
	o := newTestOrchestrator(t, reader, nil)
	res := o.Extract(context.Background(), []byte("PK\x03\x04"), "x.zip", "application/zip")
	if reader.calls != 0 || res.Err == nil {
		t.Fatalf("calls=%d result=%#v", reader.calls, res)
	}
}

func TestNeedsFallback(t *testing.T) {
	cases := []struct {
		mime string
		text string
		size int
		want bool
	}{
		{mimePDF, ScannedPDFPlaceholder, 10, true},
		{"text/plain", ScannedPDFPlaceholder, 10, false},
		{"text/plain", "tiny", 1001, true},
		{"text/plain", "tiny", 1000, false},
		{mimePDF, strings.Repeat("a", 50), 5000, false},
	}
	for _, tc := range cases {
		if got := NeedsFallback(tc.mime, tc.text, tc.size); got != tc.want {
			t.Fatalf("NeedsFallback(%q, %q, %d) = %v, want %v", tc.mime, tc.text, tc.size, got, tc.want)
		}
	}
}
