package tutor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okulab/sage/internal/apperrors"
	"github.com/okulab/sage/internal/gemini"
	"github.com/okulab/sage/internal/language"
	"github.com/okulab/sage/internal/stream"
)

func newTestTutor(t *testing.T, mock *gemini.MockCompleter, opts Options) *Tutor {
	t.Helper()
	tut, err := New(mock, opts)
	if err != nil {
		t.Fatal(err)
	}
	return tut
}

func TestAsk_StreamsSnapshotsInOrder(t *testing.T) {
	mock := &gemini.MockCompleter{Fragments: []gemini.Fragment{
		{TextDelta: "Photosynthesis "},
		{TextDelta: "converts light", Citations: []gemini.Citation{{URI: "http://a", Title: "A"}}},
	}}
	tut := newTestTutor(t, mock, Options{Subject: "biology", ClassLevel: "grade 9"})

	var texts []string
	acc, err := tut.Ask(context.Background(), "what is photosynthesis?", func(snap stream.Accumulated) {
		texts = append(texts, snap.Text)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(texts) != 2 || texts[0] != "Photosynthesis " || texts[1] != "Photosynthesis converts light" {
		t.Errorf("unexpected snapshots: %v", texts)
	}
	if acc.State != stream.StateComplete {
		t.Errorf("final state = %q, want complete", acc.State)
	}
	if mock.LastRequest.UseWebGrounding {
		t.Error("ask must not enable web grounding")
	}
	if !strings.Contains(mock.LastRequest.SystemInstruction, "biology") {
		t.Errorf("subject not interpolated into instruction: %q", mock.LastRequest.SystemInstruction)
	}
	if !strings.Contains(mock.LastRequest.SystemInstruction, "grade 9") {
		t.Errorf("class level not interpolated into instruction: %q", mock.LastRequest.SystemInstruction)
	}
}

func TestAsk_GroundAnswersEnablesWebGrounding(t *testing.T) {
	mock := &gemini.MockCompleter{Fragments: []gemini.Fragment{{TextDelta: "ok"}}}
	tut := newTestTutor(t, mock, Options{GroundAnswers: true})

	if _, err := tut.Ask(context.Background(), "q", nil); err != nil {
		t.Fatal(err)
	}
	if !mock.LastRequest.UseWebGrounding {
		t.Error("grounded sessions must enable web grounding on ask")
	}
}

func TestLookUp_EnablesWebGrounding(t *testing.T) {
	mock := &gemini.MockCompleter{Fragments: []gemini.Fragment{{TextDelta: "summary"}}}
	tut := newTestTutor(t, mock, Options{})

	if _, err := tut.LookUp(context.Background(), "treaty of westphalia", nil); err != nil {
		t.Fatal(err)
	}
	if !mock.LastRequest.UseWebGrounding {
		t.Error("lookup must enable web grounding")
	}
}

func TestAsk_ConfigErrorPropagates(t *testing.T) {
	mock := &gemini.MockCompleter{StreamErr: apperrors.Config(errors.New("no key"))}
	tut := newTestTutor(t, mock, Options{})

	_, err := tut.Ask(context.Background(), "q", nil)
	if !apperrors.IsConfig(err) {
		t.Fatalf("expected config error, got: %v", err)
	}
}

func TestAsk_ProviderFailureStaysInStream(t *testing.T) {
	cause := apperrors.Transient(errors.New("socket closed"))
	mock := &gemini.MockCompleter{Fragments: []gemini.Fragment{
		{TextDelta: "partial "},
		{TextDelta: "Error: Temporary upstream error. Please try again.", Err: cause},
	}}
	tut := newTestTutor(t, mock, Options{})

	acc, err := tut.Ask(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("stream failures must not surface as call errors, got: %v", err)
	}
	if acc.State != stream.StateComplete {
		t.Errorf("final state = %q, want complete", acc.State)
	}
	if !errors.Is(acc.Err, cause) {
		t.Errorf("accumulated Err must carry the stream failure, got: %v", acc.Err)
	}
	if !strings.Contains(acc.Text, "Error:") {
		t.Errorf("error message must be readable inline, got: %q", acc.Text)
	}
}

func TestExplainGrammar_RequiresTargetLanguage(t *testing.T) {
	tut := newTestTutor(t, &gemini.MockCompleter{}, Options{})
	if _, err := tut.ExplainGrammar(context.Background(), "sentence", nil); err == nil {
		t.Fatal("expected an error without a target language")
	}
}

func TestExplainGrammar_InterpolatesLanguage(t *testing.T) {
	mock := &gemini.MockCompleter{Fragments: []gemini.Fragment{{TextDelta: "ok"}}}
	lang, _ := language.Get("ja")
	tut := newTestTutor(t, mock, Options{TargetLanguage: lang})

	if _, err := tut.ExplainGrammar(context.Background(), "猫がいます", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mock.LastRequest.SystemInstruction, "Japanese") {
		t.Errorf("target language not interpolated: %q", mock.LastRequest.SystemInstruction)
	}
}

func TestTranslate_ReturnsStructuredResult(t *testing.T) {
	want := &gemini.Translation{
		MainTranslation: "یہ ایک کتاب ہے",
		WordByWord: []gemini.WordPair{
			{Original: "this", Translation: "یہ"},
			{Original: "is", Translation: "ہے"},
		},
		Explanation: "Urdu places the verb last.",
		Usage:       gemini.UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 20, TotalTokenCount: 30},
	}
	mock := &gemini.MockCompleter{Translation: want}
	lang, _ := language.Get("Urdu")
	tut := newTestTutor(t, mock, Options{TargetLanguage: lang})

	got, err := tut.Translate(context.Background(), "this is a book")
	if err != nil {
		t.Fatal(err)
	}
	if got.MainTranslation != want.MainTranslation || len(got.WordByWord) != 2 || got.Explanation != want.Explanation {
		t.Errorf("unexpected translation: %+v", got)
	}
	if mock.StructuredCalls != 1 {
		t.Errorf("expected exactly one structured call, got %d", mock.StructuredCalls)
	}
	if usage := tut.Usage(); usage.TotalTokenCount != 30 {
		t.Errorf("usage not accumulated: %+v", usage)
	}
}

func TestTranslate_MalformedPropagates(t *testing.T) {
	mock := &gemini.MockCompleter{StructuredErr: apperrors.Malformed(errors.New("invalid character 'I'"))}
	lang, _ := language.Get("ur")
	tut := newTestTutor(t, mock, Options{TargetLanguage: lang})

	_, err := tut.Translate(context.Background(), "text")
	if !apperrors.IsMalformed(err) {
		t.Fatalf("expected malformed error, got: %v", err)
	}
}

func TestNew_NilCompleter(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatal("expected error for nil completer")
	}
}
