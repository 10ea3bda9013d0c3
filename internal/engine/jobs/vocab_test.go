package jobs

import (
	"strings"
	"testing"
)

func TestVocabularyMatch(t *testing.T) {
	v := DefaultVocabulary()

	t.Run("case insensitive", func(t *testing.T) {
		got := v.Match("we use GOLANG, postgresql and kafka in production")
		want := []string{"Golang", "PostgreSQL", "Kafka"}
		if len(got) != len(want) {
			t.Fatalf("Match() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Match()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("empty text", func(t *testing.T) {
		if got := v.Match(""); got != nil {
			t.Errorf("Match(\"\") = %v, want nil", got)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		if got := v.Match("we are hiring a barista"); got != nil {
			t.Errorf("Match() = %v, want nil", got)
		}
	})

	t.Run("matchN caps results", func(t *testing.T) {
		text := "Python Golang Java Rust Kafka Redis"
		got := v.MatchN(text, 2)
		if len(got) != 2 {
			t.Errorf("MatchN(2) returned %d results: %v", len(got), got)
		}
	})

	t.Run("bare go does not match prose", func(t *testing.T) {
		// "going forward" must not register as a language skill.
		got := v.Match("going forward we will gossip about categories")
		for _, s := range got {
			if strings.EqualFold(s, "go") {
				t.Errorf("bare Go matched prose: %v", got)
			}
		}
	})
}
