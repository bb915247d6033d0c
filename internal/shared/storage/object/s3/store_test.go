package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "tender/file.pdf", want: "tender/file.pdf"},
		{name: "simple prefix", prefix: "root", key: "tender/file.pdf", want: "root/tender/file.pdf"},
		{name: "prefix trailing slash", prefix: "root/", key: "tender/file.pdf", want: "root/tender/file.pdf"},
		{name: "prefix and key slashes", prefix: "/root/", key: "/tender/file.pdf", want: "root/tender/file.pdf"},
		{name: "nested prefix", prefix: "root/sub", key: "tender/file.pdf", want: "root/sub/tender/file.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	got := publicURL("tenders", "eu-west-1", "docs/t-1/abc_RFP final.pdf")
	want := "https://tenders.s3.eu-west-1.amazonaws.com/docs/t-1/abc_RFP%20final.pdf"
	if got != want {
		t.Fatalf("publicURL = %q, want %q", got, want)
	}
	if got := publicURL("tenders", "", "k.pdf"); got != "https://tenders.s3.amazonaws.com/k.pdf" {
		t.Fatalf("publicURL without region = %q", got)
	}
}
