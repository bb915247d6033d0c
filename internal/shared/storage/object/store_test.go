package object

import (
	"bytes"
	"io"
	"testing"
)

func TestContentTypePrefersDeclared(t *testing.T) {
	if got := ContentType("application/pdf; charset=binary", []byte("hello")); got != "application/pdf" {
		t.Fatalf("expected declared type, got %q", got)
	}
}

func TestContentTypeSniffsGenericDeclarations(t *testing.T) {
	pdfHead := []byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n")
	if got := ContentType("application/octet-stream", pdfHead); got != "application/pdf" {
		t.Fatalf("expected sniffed pdf, got %q", got)
	}
	if got := ContentType("", []byte("plain words only")); got != "text/plain" {
		t.Fatalf("expected text/plain, got %q", got)
	}
}

func TestSniffReplaysHead(t *testing.T) {
	payload := bytes.Repeat([]byte("a"), 5000)
	head, r, err := Sniff(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Sniff: %v", err)
	}
	if len(head) != 3072 {
		t.Fatalf("expected 3072 byte head, got %d", len(head))
	}
	all, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read replay: %v", err)
	}
	if !bytes.Equal(all, payload) {
		t.Fatalf("replayed payload mismatch: got %d bytes", len(all))
	}
}

func TestNewKeyNamespacesAndSanitizes(t *testing.T) {
	key, err := NewKey("tender/42", "RFP final.pdf")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if !bytes.HasPrefix([]byte(key), []byte("tender_42/")) {
		t.Fatalf("expected sanitized namespace prefix, got %q", key)
	}
	if !bytes.HasSuffix([]byte(key), []byte("_RFP_final.pdf")) {
		t.Fatalf("expected file name suffix, got %q", key)
	}
	if _, err := NewKey("t", "../etc/passwd"); err == nil {
		t.Fatalf("expected traversal to be rejected")
	}
}
