package language

import (
	"sort"
	"strings"
)

// Language is a supported target language for translation and grammar
// explanations.
type Language struct {
	Code string
	Name string
}

// Languages maps CLI code -> Language.
var Languages = map[string]Language{
	"ar": {Code: "ar", Name: "Arabic"},
	"bn": {Code: "bn", Name: "Bengali"},
	"de": {Code: "de", Name: "German"},
	"en": {Code: "en", Name: "English"},
	"es": {Code: "es", Name: "Spanish"},
	"fa": {Code: "fa", Name: "Persian"},
	"fr": {Code: "fr", Name: "French"},
	"hi": {Code: "hi", Name: "Hindi"},
	"id": {Code: "id", Name: "Indonesian"},
	"it": {Code: "it", Name: "Italian"},
	"ja": {Code: "ja", Name: "Japanese"},
	"ko": {Code: "ko", Name: "Korean"},
	"nl": {Code: "nl", Name: "Dutch"},
	"pa": {Code: "pa", Name: "Punjabi"},
	"pl": {Code: "pl", Name: "Polish"},
	"ps": {Code: "ps", Name: "Pashto"},
	"pt": {Code: "pt", Name: "Portuguese"},
	"ru": {Code: "ru", Name: "Russian"},
	"sw": {Code: "sw", Name: "Swahili"},
	"ta": {Code: "ta", Name: "Tamil"},
	"th": {Code: "th", Name: "Thai"},
	"tr": {Code: "tr", Name: "Turkish"},
	"uk": {Code: "uk", Name: "Ukrainian"},
	"ur": {Code: "ur", Name: "Urdu"},
	"vi": {Code: "vi", Name: "Vietnamese"},
	"zh": {Code: "zh", Name: "Chinese"},
}

// Get resolves a code or an English name (case-insensitive) to a Language.
func Get(input string) (Language, bool) {
	needle := strings.TrimSpace(input)
	if needle == "" {
		return Language{}, false
	}
	if lang, ok := Languages[strings.ToLower(needle)]; ok {
		return lang, true
	}
	for _, lang := range Languages {
		if strings.EqualFold(lang.Name, needle) {
			return lang, true
		}
	}
	return Language{}, false
}

// Supported returns all languages sorted by Name, then Code.
func Supported() []Language {
	entries := make([]Language, 0, len(Languages))
	for _, v := range Languages {
		entries = append(entries, v)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Code < entries[j].Code
	})
	return entries
}
