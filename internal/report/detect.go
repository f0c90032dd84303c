package report

import (
	"strings"

	"github.com/protokollo/protokollo/internal/analysis"
)

// DetectLanguage guesses the language of a document by examining the scripts
// used in its summary text. It is a coarse heuristic intended only to resolve
// the "original" target language; when nothing is confident it returns the
// default language.
func DetectLanguage(doc *analysis.Document) string {
	var sample strings.Builder
	if doc != nil {
		sample.WriteString(doc.MeetingTopicShort)
		sample.WriteString(" ")
		sample.WriteString(doc.ExecutiveSummary)
		sample.WriteString(" ")
		sample.WriteString(doc.Conclusion.MainInsight)
		for i, t := range doc.Topics {
			if i >= 3 {
				break
			}
			sample.WriteString(" ")
			sample.WriteString(t.Title)
		}
	}
	return detectScript(sample.String())
}

func detectScript(s string) string {
	var cyrillic, latin, cjk, kazakh, spanish, total int
	for _, r := range s {
		switch {
		case r >= 0x4E00 && r <= 0x9FFF, r >= 0x3400 && r <= 0x4DBF:
			cjk++
			total++
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
			total++
			if strings.ContainsRune("ӘәҒғҚқҢңӨөҰұҮүІіҺһ", r) {
				kazakh++
			}
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
			latin++
			total++
		case strings.ContainsRune("áéíóúñÁÉÍÓÚÑ¿¡", r):
			spanish++
			latin++
			total++
		}
	}
	if total == 0 {
		return defaultLang
	}
	// CJK characters are dense; a small share is already decisive.
	if cjk*10 > total {
		return "zh"
	}
	if cyrillic > latin {
		if kazakh > 0 {
			return "kk"
		}
		return "ru"
	}
	if spanish > 0 {
		return "es"
	}
	if latin > 0 {
		return "en"
	}
	return defaultLang
}

// ResolveLanguage maps a requested target language to a concrete language
// code with a UI-string table. The "original" sentinel triggers detection
// from document content.
func ResolveLanguage(target string, doc *analysis.Document) string {
	if target == LangOriginal || target == "" {
		return DetectLanguage(doc)
	}
	if _, ok := tables[target]; ok {
		return target
	}
	return defaultLang
}
