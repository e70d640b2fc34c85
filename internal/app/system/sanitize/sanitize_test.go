package sanitize_test

import (
	"testing"

	"github.com/skillsync/skillsync/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<script>alert(1)</script>hello", "hello"},
		{"<b>bold</b> stays as text", "bold stays as text"},
		{"<img src=x onerror=alert(1)>", ""},
	}

	for _, tt := range tests {
		if got := sanitize.Text(tt.in); got != tt.want {
			t.Errorf("Text(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	got := sanitize.Slice([]string{"go", "<b>x</b>", "  rust  ", "<img src=x>"})
	want := []string{"go", "x", "rust"}

	if len(got) != len(want) {
		t.Fatalf("Slice: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Slice[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}
