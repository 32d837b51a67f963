// Package tutor turns student requests (subject questions, textbook
// lookups, grammar explanations, translations) into completion calls and
// hands the presentation layer a fresh accumulated snapshot after every
// streamed fragment.
package tutor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/okulab/sage/internal/gemini"
	"github.com/okulab/sage/internal/language"
	"github.com/okulab/sage/internal/logger"
	"github.com/okulab/sage/internal/stream"
)

// Options fixes the template variables for a tutoring session.
// GroundAnswers lets Ask consult web search and cite sources; LookUp is
// always grounded regardless.
type Options struct {
	Subject        string
	ClassLevel     string
	TargetLanguage language.Language
	GroundAnswers  bool
}

const (
	defaultSubject    = "general studies"
	defaultClassLevel = "secondary school"
)

// Tutor orchestrates tutoring requests against a Completer. Each request
// owns its own accumulated result; the only state shared between requests
// is the completer itself and the session usage counters.
type Tutor struct {
	completer gemini.Completer
	opts      Options

	usage   gemini.UsageMetadata
	usageMu sync.Mutex
}

// New creates a Tutor. Missing option fields fall back to neutral defaults
// so free-form questions work without any configuration.
func New(completer gemini.Completer, opts Options) (*Tutor, error) {
	if completer == nil {
		return nil, fmt.Errorf("completer must not be nil")
	}
	if opts.Subject == "" {
		opts.Subject = defaultSubject
	}
	if opts.ClassLevel == "" {
		opts.ClassLevel = defaultClassLevel
	}
	return &Tutor{completer: completer, opts: opts}, nil
}

func (t *Tutor) vars() promptVars {
	return promptVars{
		Subject:        t.opts.Subject,
		TargetLanguage: t.opts.TargetLanguage.Name,
		ClassLevel:     t.opts.ClassLevel,
	}
}

// Ask streams an answer to a free-form subject question. onUpdate receives
// the accumulated result after every fold; the returned value is the final,
// completed state. The only error returned directly is a fail-fast
// configuration error. Provider failures arrive inside the stream as a
// terminal error fragment and end up in the accumulated text.
func (t *Tutor) Ask(ctx context.Context, question string, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
	return t.run(ctx, "ask", gemini.Request{
		Prompt:            question,
		SystemInstruction: renderInstruction(askInstruction, t.vars()),
		UseWebGrounding:   t.opts.GroundAnswers,
	}, onUpdate)
}

// LookUp streams a source-backed summary for a textbook/topic query. Web
// grounding is enabled so the provider consults search results and reports
// citations.
func (t *Tutor) LookUp(ctx context.Context, query string, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
	return t.run(ctx, "lookup", gemini.Request{
		Prompt:            query,
		SystemInstruction: renderInstruction(lookupInstruction, t.vars()),
		UseWebGrounding:   true,
	}, onUpdate)
}

// ExplainGrammar streams a grammar explanation for a sentence in the
// session's target language.
func (t *Tutor) ExplainGrammar(ctx context.Context, sentence string, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
	if t.opts.TargetLanguage.Name == "" {
		return stream.Accumulated{}, fmt.Errorf("grammar explanations require a target language")
	}
	return t.run(ctx, "grammar", gemini.Request{
		Prompt:            sentence,
		SystemInstruction: renderInstruction(grammarInstruction, t.vars()),
	}, onUpdate)
}

// Translate issues a single structured call and returns the parsed result.
// There is no partial state to degrade into, so failures (configuration,
// transport, malformed response) propagate to the caller.
func (t *Tutor) Translate(ctx context.Context, text string) (*gemini.Translation, error) {
	if t.opts.TargetLanguage.Name == "" {
		return nil, fmt.Errorf("translation requires a target language")
	}
	id := uuid.NewString()
	logger.Debug("Structured translation call", "request_id", id, "target", t.opts.TargetLanguage.Code)

	translation, err := t.completer.CompleteStructured(ctx, gemini.Request{
		Prompt:            text,
		SystemInstruction: renderInstruction(translateInstruction, t.vars()),
	})
	if err != nil {
		logger.Debug("Structured translation failed", "request_id", id, "error", err)
		return nil, err
	}
	t.addUsage(translation.Usage)
	logger.Debug("Structured translation complete", "request_id", id, "pairs", len(translation.WordByWord))
	return translation, nil
}

func (t *Tutor) run(ctx context.Context, mode string, req gemini.Request, onUpdate func(stream.Accumulated)) (stream.Accumulated, error) {
	id := uuid.NewString()
	logger.Debug("Opening completion stream", "request_id", id, "mode", mode, "grounding", req.UseWebGrounding)

	src, err := t.completer.StreamCompletion(ctx, req)
	if err != nil {
		return stream.Accumulated{}, err
	}

	acc := stream.Consume(src, onUpdate)

	if reporter, ok := src.(interface{ Usage() gemini.UsageMetadata }); ok {
		t.addUsage(reporter.Usage())
	}
	logger.Debug("Stream complete", "request_id", id, "mode", mode,
		"citations", len(acc.Citations), "failed", acc.Err != nil)
	return acc, nil
}

func (t *Tutor) addUsage(u gemini.UsageMetadata) {
	t.usageMu.Lock()
	t.usage.Add(u)
	t.usageMu.Unlock()
}

// Usage returns the token usage accumulated across the session.
func (t *Tutor) Usage() gemini.UsageMetadata {
	t.usageMu.Lock()
	defer t.usageMu.Unlock()
	return t.usage
}
