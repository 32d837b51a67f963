package gemini

// Request carries everything needed for a single call to Gemini. The
// system instruction arrives with its template variables (subject, target
// language, class level) already interpolated. Requests are immutable once
// constructed; one Request per user-initiated call.
type Request struct {
	Prompt            string
	SystemInstruction string
	// UseWebGrounding attaches the Google Search tool to the call. When
	// false the tool is omitted entirely, not just disabled, since its mere
	// presence changes provider behavior and billing.
	UseWebGrounding bool
}

// Citation is a cited external source attached to generated text. Two
// citations are the same citation iff their URIs are equal; titles never
// distinguish entries.
type Citation struct {
	URI   string
	Title string
}

// Fragment is one incremental unit of a streamed response: a text delta
// (possibly empty) plus any citations found in that chunk, in arrival order.
//
// A provider failure mid-stream is delivered as a final Fragment whose text
// is a readable "Error: ..." message and whose Err field carries the
// classified error. Callers that want to special-case failures can check Err
// instead of string-matching the text.
type Fragment struct {
	TextDelta string
	Citations []Citation
	Err       error
}

// WordPair is one original/translation token pair in a structured
// translation response.
type WordPair struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
}

// Translation is the structured (non-streaming) translation result. It is
// produced atomically by a single request/response pair.
type Translation struct {
	MainTranslation string        `json:"mainTranslation"`
	WordByWord      []WordPair    `json:"wordByWord"`
	Explanation     string        `json:"explanation,omitempty"`
	Usage           UsageMetadata `json:"-"` // filled from provider metadata, not part of the JSON body
}

// UsageMetadata holds token usage information.
type UsageMetadata struct {
	PromptTokenCount     int
	CandidatesTokenCount int
	TotalTokenCount      int
	WebSearchCount       int
}

// Add accumulates usage from another call.
func (u *UsageMetadata) Add(other UsageMetadata) {
	u.PromptTokenCount += other.PromptTokenCount
	u.CandidatesTokenCount += other.CandidatesTokenCount
	u.TotalTokenCount += other.TotalTokenCount
	u.WebSearchCount += other.WebSearchCount
}
