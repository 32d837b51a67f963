package gemini

import (
	"net/url"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/okulab/sage/internal/apperrors"
	"google.golang.org/api/iterator"
)

// fallbackTitle substitutes for citations whose URI has no parseable host.
const fallbackTitle = "Web source"

// FragmentSource is a pull-based cursor over an ordered fragment sequence.
// It is single-pass and not restartable: each Next call surrenders one
// fragment, and once ok is false the sequence is exhausted for good.
type FragmentSource interface {
	Next() (Fragment, bool)
}

// Stream adapts the genai response iterator to a FragmentSource. Provider
// failures do not escape: the failing chunk becomes a terminal error
// fragment and the stream ends. Abandoning the stream early is safe; the
// underlying connection is released through the request context.
type Stream struct {
	it    *genai.GenerateContentResponseIterator
	done  bool
	usage UsageMetadata
}

var _ FragmentSource = (*Stream)(nil)

// Next returns the next fragment in provider-emission order. ok is false
// once the stream is exhausted.
func (s *Stream) Next() (Fragment, bool) {
	if s.done {
		return Fragment{}, false
	}
	resp, err := s.it.Next()
	if err == iterator.Done {
		s.done = true
		return Fragment{}, false
	}
	if err != nil {
		s.done = true
		classified := classifyGeminiError(err)
		return Fragment{
			TextDelta: "Error: " + apperrors.PublicMessage(classified),
			Err:       classified,
		}, true
	}
	s.recordUsage(resp)
	return fragmentFromResponse(resp), true
}

// Usage returns the token usage observed so far. The provider reports
// cumulative usage on the trailing chunks, so after exhaustion this holds
// the totals for the whole request.
func (s *Stream) Usage() UsageMetadata {
	return s.usage
}

func (s *Stream) recordUsage(resp *genai.GenerateContentResponse) {
	if resp == nil {
		return
	}
	for _, candidate := range resp.Candidates {
		if candidate != nil && candidate.GroundingMetadata != nil {
			s.usage.WebSearchCount += len(candidate.GroundingMetadata.WebSearchQueries)
		}
	}
	if resp.UsageMetadata == nil {
		return
	}
	// Token counts on trailing chunks are cumulative, not deltas.
	s.usage.PromptTokenCount = int(resp.UsageMetadata.PromptTokenCount)
	s.usage.CandidatesTokenCount = int(resp.UsageMetadata.CandidatesTokenCount)
	s.usage.TotalTokenCount = int(resp.UsageMetadata.TotalTokenCount)
}

func fragmentFromResponse(resp *genai.GenerateContentResponse) Fragment {
	var frag Fragment
	if resp == nil {
		return frag
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil {
			continue
		}
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					frag.TextDelta += string(text)
				}
			}
		}
		frag.Citations = append(frag.Citations, citationsFromCandidate(candidate)...)
	}
	return frag
}

// citationsFromCandidate extracts web citations from grounding metadata.
// Entries without a usable link are skipped; a missing title falls back to
// the URI host, then to a generic placeholder.
func citationsFromCandidate(candidate *genai.Candidate) []Citation {
	if candidate.GroundingMetadata == nil {
		return nil
	}
	var citations []Citation
	for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" {
			continue
		}
		citations = append(citations, Citation{
			URI:   uri,
			Title: citationTitle(chunk.Web.Title, uri),
		})
	}
	return citations
}

func citationTitle(title, uri string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	if u, err := url.Parse(uri); err == nil && u.Host != "" {
		return u.Host
	}
	return fallbackTitle
}
