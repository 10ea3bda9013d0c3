package engine

import (
	"strings"
	"testing"
)

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passthrough", "  hello   world  ", "hello world"},
		{"strips tags", "<p>Senior <b>Go</b> engineer</p>", "Senior Go engineer"},
		{"drops script content", "<p>role</p><script>alert(1)</script>", "role"},
		{"drops style content", "<style>.x{color:red}</style><p>body</p>", "body"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanHTML(tt.in); got != tt.want {
				t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanDescription(t *testing.T) {
	t.Run("plain text collapsed", func(t *testing.T) {
		got := CleanDescription("we   are\n\nhiring")
		if got != "we are hiring" {
			t.Errorf("CleanDescription() = %q", got)
		}
	})

	t.Run("html becomes markdown", func(t *testing.T) {
		got := CleanDescription("<ul><li>Golang</li><li>Kafka</li></ul>")
		if !strings.Contains(got, "Golang") || !strings.Contains(got, "Kafka") {
			t.Errorf("list items lost: %q", got)
		}
		if strings.Contains(got, "<li>") {
			t.Errorf("tags leaked: %q", got)
		}
	})
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("héllo wörld", 5, "..."); !strings.HasPrefix(got, "héllo") {
		t.Errorf("TruncateRunes() = %q, must cut on rune boundaries", got)
	}
	if got := TruncateRunes("short", 100, "..."); got != "short" {
		t.Errorf("TruncateRunes() = %q, short input must pass through", got)
	}
}
