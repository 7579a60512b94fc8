package fetcher

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "My Video.mp4", "My Video.mp4"},
		{"illegal chars", `a\b/c:d*e?f"g<h>i|j.mp4`, "a_b_c_d_e_f_g_h_i_j.mp4"},
		{"illegal run collapses to one underscore", `clip???***.mp4`, "clip_.mp4"},
		{"whitespace collapsed", "too   many\t\tspaces .mp4", "too many spaces .mp4"},
		{"trimmed", "  padded.mp4  ", "padded.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameLengthCap(t *testing.T) {
	got := sanitizeFilename(strings.Repeat("a", 500))
	if len(got) != 240 {
		t.Errorf("sanitized length = %d, want 240", len(got))
	}
}
