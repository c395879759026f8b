package translate

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DetectLanguage guesses the ISO 639-1 code of the language text is written in.
// The send payload's source_lang is advisory; when a client omits it the router
// fills it from this detection so the delivered message still carries a source
// language. Returns fallback for empty text or an unreliable detection.
func DetectLanguage(text, fallback string) string {
	if strings.TrimSpace(text) == "" {
		return fallback
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return fallback
	}

	code := info.Lang.Iso6391()
	if code == "" {
		return fallback
	}

	return code
}
