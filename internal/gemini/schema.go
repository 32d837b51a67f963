package gemini

import "github.com/google/generative-ai-go/genai"

// translationSchema is the fixed output contract for structured translation
// calls. Top level: mainTranslation (required), wordByWord (required, array
// of original/translation pairs), explanation (optional).
var translationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"mainTranslation": {
			Type:        genai.TypeString,
			Description: "The full translation of the input text.",
		},
		"wordByWord": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"original":    {Type: genai.TypeString},
					"translation": {Type: genai.TypeString},
				},
				Required: []string{"original", "translation"},
			},
		},
		"explanation": {
			Type:        genai.TypeString,
			Description: "Optional short note on grammar or usage.",
		},
	},
	Required: []string{"mainTranslation", "wordByWord"},
}
