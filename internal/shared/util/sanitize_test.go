package util

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "RFP_Highway_2025.pdf", want: "RFP_Highway_2025.pdf"},
		{in: "  a/b\\c.docx ", want: "a_b_c.docx"},
		{in: "RFP  final\tdraft.pdf", want: "RFP_final_draft.pdf"},
		{in: ".env", want: "env"},
		{in: "bid\x00\x1f.pdf", want: "bid.pdf"},
		{in: "../secret", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "...", wantErr: true},
	}
	for _, tt := range tests {
		got, err := CleanFileName(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidFileName) {
				t.Fatalf("CleanFileName(%q): expected ErrInvalidFileName, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("CleanFileName(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanFileNameShortensKeepingExtension(t *testing.T) {
	long := strings.Repeat("ä", 300) + ".pdf"
	got, err := CleanFileName(long)
	if err != nil {
		t.Fatalf("CleanFileName: %v", err)
	}
	if n := utf8.RuneCountInString(got); n != MaxFileNameRunes {
		t.Fatalf("rune count = %d, want %d", n, MaxFileNameRunes)
	}
	if !strings.HasSuffix(got, ".pdf") || !utf8.ValidString(got) {
		t.Fatalf("unexpected shortened name %q", got)
	}
}

func TestNamespace(t *testing.T) {
	if got := Namespace("tender/42"); got != "tender_42" {
		t.Fatalf("Namespace = %q", got)
	}
	if got := Namespace(" "); got != "unassigned" {
		t.Fatalf("Namespace = %q", got)
	}
}
