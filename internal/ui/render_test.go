package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okulab/sage/internal/gemini"
	"github.com/okulab/sage/internal/stream"
)

func TestStreamPrinter_IncrementalWrites(t *testing.T) {
	var buf bytes.Buffer
	p := NewStreamPrinter(&buf, nil)

	acc := stream.Fold(stream.New(), gemini.Fragment{TextDelta: "Hel"})
	p.Update(acc)
	acc = stream.Fold(acc, gemini.Fragment{TextDelta: "lo"})
	p.Update(acc)
	// Re-rendering the same snapshot must not duplicate output.
	p.Update(acc)

	if buf.String() != "Hello" {
		t.Errorf("output = %q, want %q", buf.String(), "Hello")
	}
}

func TestStreamPrinter_FinishAddsNewlineAndSources(t *testing.T) {
	var buf bytes.Buffer
	p := NewStreamPrinter(&buf, nil)

	acc := stream.Fold(stream.New(), gemini.Fragment{
		TextDelta: "answer",
		Citations: []gemini.Citation{{URI: "https://a.example", Title: "A"}},
	})
	p.Finish(stream.Finalize(acc))

	out := buf.String()
	if !strings.HasPrefix(out, "answer\n") {
		t.Errorf("missing line termination: %q", out)
	}
	if !strings.Contains(out, "Sources:") || !strings.Contains(out, "<https://a.example>") {
		t.Errorf("missing source list: %q", out)
	}
}

func TestPrintCitations_EmptyPrintsNothing(t *testing.T) {
	var buf bytes.Buffer
	PrintCitations(&buf, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestPrintTranslation(t *testing.T) {
	var buf bytes.Buffer
	PrintTranslation(&buf, &gemini.Translation{
		MainTranslation: "これは本です",
		WordByWord: []gemini.WordPair{
			{Original: "this", Translation: "これ"},
			{Original: "book", Translation: "本"},
		},
		Explanation: "です marks polite present tense.",
	})

	out := buf.String()
	for _, want := range []string{"Translation:", "これは本です", "Word by word:", "this", "これ", "Note: です marks polite present tense."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	if got := TruncateTitle("short", 10); got != "short" {
		t.Errorf("short titles must pass through, got %q", got)
	}
	got := TruncateTitle("0123456789", 4)
	if got != "0123…" {
		t.Errorf("TruncateTitle = %q, want %q", got, "0123…")
	}
	// Grapheme clusters, not bytes: family emoji counts as one.
	fam := "👨‍👩‍👧‍👦👨‍👩‍👧‍👦👨‍👩‍👧‍👦"
	if got := TruncateTitle(fam, 3); got != fam {
		t.Errorf("cluster-aware count failed: %q", got)
	}
}
