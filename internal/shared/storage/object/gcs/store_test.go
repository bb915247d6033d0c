package gcs

import "testing"

func TestObjectNameAppliesPrefix(t *testing.T) {
	s := &Store{bucket: "b", prefix: "uploads"}
	if got := s.objectName("/t-1/a.pdf"); got != "uploads/t-1/a.pdf" {
		t.Fatalf("objectName = %q", got)
	}
	s.prefix = ""
	if got := s.objectName("t-1/a.pdf"); got != "t-1/a.pdf" {
		t.Fatalf("objectName without prefix = %q", got)
	}
}

func TestPublicURLEscapesSpaces(t *testing.T) {
	got := publicURL("tender-docs", "uploads/t-1/x_Bid Form.pdf")
	want := "https://storage.googleapis.com/tender-docs/uploads/t-1/x_Bid%20Form.pdf"
	if got != want {
		t.Fatalf("publicURL = %q, want %q", got, want)
	}
}
