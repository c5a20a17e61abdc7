package text

import (
	"strings"
	"testing"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := Normalize("  good \t\n night.  ")
	if got != "good night." {
		t.Fatalf("unexpected normalized text: %q", got)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := Normalize(" \t\n "); got != "" {
		t.Fatalf("expected empty string for blank input, got %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"", "   ", "cat", "  as  well\tas ", "good\nnight.", "a   b"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestTokenizeKeepsPunctuationAttached(t *testing.T) {
	tokens := Tokenize("good  night. sleep\nwell")
	want := []string{"good", "night.", "sleep", "well"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], tokens[i])
		}
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Fatalf("expected no tokens, got %v", tokens)
	}
	if tokens := Tokenize("  \n\t "); len(tokens) != 0 {
		t.Fatalf("expected no tokens for blank input, got %v", tokens)
	}
}

func TestTokenizeRejoinEqualsNormalize(t *testing.T) {
	inputs := []string{"", "  good   night. ", "one\ntwo\tthree", "a b c", " lone "}
	for _, in := range inputs {
		rejoined := strings.Join(Tokenize(in), " ")
		if want := Normalize(in); rejoined != want {
			t.Fatalf("rejoined tokens for %q: %q, want %q", in, rejoined, want)
		}
	}
}
