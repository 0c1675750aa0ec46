package pipeline

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// Class prefixes that name a code block language.
var languageClassPrefixes = []string{"language-", "lang-"}

// ClassLanguage returns the language named by the first language-* or lang-*
// class in the given class attribute values, lowercased, or "".
func ClassLanguage(classAttrs ...string) string {
	for _, attr := range classAttrs {
		for _, class := range strings.Fields(attr) {
			for _, prefix := range languageClassPrefixes {
				if lang, ok := strings.CutPrefix(class, prefix); ok && lang != "" {
					return strings.ToLower(lang)
				}
			}
		}
	}
	return ""
}

// DetectLanguage guesses the language of code with chroma's lexer analysers.
// Returns the lexer's primary alias, or "" when nothing matches.
func DetectLanguage(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	lexer := lexers.Analyse(code)
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}
