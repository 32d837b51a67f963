package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/okulab/sage/internal/apperrors"
	"google.golang.org/api/option"
)

// structuredCallTimeout bounds the single blocking structured call. Long
// enough for slow model generations, short enough to never hang forever.
const structuredCallTimeout = 5 * time.Minute

// Config is the one-time configuration for a Client. It is treated as
// immutable after construction.
type Config struct {
	APIKey string
	Model  string
}

// Client handles communication with the Gemini API. The underlying genai
// handle is created lazily on first use and reused for every subsequent
// call; it is never torn down between requests. After initialization the
// handle is read-only, so concurrent requests need no locking beyond the
// sync.Once guard.
type Client struct {
	cfg     Config
	once    sync.Once
	genc    *genai.Client
	initErr error
}

// NewClient creates a Client. No network interaction happens until the
// first completion call.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Completer is the capability surface the rest of the application depends
// on, for mocking and dependency injection.
type Completer interface {
	StreamCompletion(ctx context.Context, req Request) (FragmentSource, error)
	CompleteStructured(ctx context.Context, req Request) (*Translation, error)
}

// Ensure Client implements Completer
var _ Completer = (*Client)(nil)

// Close closes the underlying genai client, if it was ever initialized.
func (c *Client) Close() error {
	if c.genc == nil {
		return nil
	}
	return c.genc.Close()
}

func (c *Client) requireKey() error {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return apperrors.New(apperrors.KindConfig,
			"Gemini API key is not configured.",
			fmt.Errorf("empty API key in client config"))
	}
	return nil
}

func (c *Client) handle(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		// Note: we avoid option.WithHTTPClient because it interferes with the
		// genai library's internal header injection for API keys, causing 403
		// errors. Timeouts are enforced via context instead.
		c.genc, c.initErr = genai.NewClient(ctx, option.WithAPIKey(c.cfg.APIKey))
	})
	if c.initErr != nil {
		return nil, classifyGeminiError(c.initErr)
	}
	return c.genc, nil
}

func (c *Client) model(genc *genai.Client, req Request) *genai.GenerativeModel {
	// A fresh GenerativeModel per call keeps requests independent; the model
	// value is cheap, only the client handle is shared.
	model := genc.GenerativeModel(c.cfg.Model)
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	if req.UseWebGrounding {
		model.Tools = []*genai.Tool{
			{GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{}},
		}
	}
	return model
}

// StreamCompletion opens a token stream for req and returns a lazy,
// single-pass cursor over its fragments. A missing API key fails fast with
// a config error before any network call. Every later failure is folded
// into the stream itself as a terminal error fragment, so consuming the
// returned source never raises.
func (c *Client) StreamCompletion(ctx context.Context, req Request) (FragmentSource, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	genc, err := c.handle(ctx)
	if err != nil {
		return nil, err
	}
	model := c.model(genc, req)
	return &Stream{it: model.GenerateContentStream(ctx, genai.Text(req.Prompt))}, nil
}

// CompleteStructured issues a single blocking call constrained to the
// translation schema and parses the response body. Parse failures surface
// as a malformed-response error carrying the original decode failure; they
// are not retried here.
func (c *Client) CompleteStructured(ctx context.Context, req Request) (*Translation, error) {
	if err := c.requireKey(); err != nil {
		return nil, err
	}
	genc, err := c.handle(ctx)
	if err != nil {
		return nil, err
	}

	// Enforce a ceiling to prevent indefinite hangs on the blocking call.
	ctx, cancel := context.WithTimeout(ctx, structuredCallTimeout)
	defer cancel()

	model := c.model(genc, req)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = translationSchema

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return nil, apperrors.Malformed(err)
	}

	translation, err := decodeTranslation(text)
	if err != nil {
		return nil, err
	}
	if resp.UsageMetadata != nil {
		translation.Usage = UsageMetadata{
			PromptTokenCount:     int(resp.UsageMetadata.PromptTokenCount),
			CandidatesTokenCount: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokenCount:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return translation, nil
}

func decodeTranslation(text string) (*Translation, error) {
	var translation Translation
	if err := json.Unmarshal([]byte(text), &translation); err != nil {
		return nil, apperrors.New(apperrors.KindMalformed,
			"Gemini returned a response that does not match the translation schema.",
			fmt.Errorf("failed to unmarshal translation: %w", err))
	}
	if translation.MainTranslation == "" {
		return nil, apperrors.New(apperrors.KindMalformed,
			"Gemini returned a translation without the required main text.",
			fmt.Errorf("mainTranslation is empty"))
	}
	return &translation, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
