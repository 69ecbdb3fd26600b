package concept

import (
	"regexp"
	"unicode/utf8"
)

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)

	// Matched independently over the same text, in this order.
	scriptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`[ァ-ヶー]{2,8}`), // katakana
		regexp.MustCompile(`[一-龯]{2,6}`),   // kanji
		regexp.MustCompile(`[ぁ-ゖ]{2,6}`),   // hiragana
	}

	stopWords = map[string]bool{
		"です": true, "ます": true, "である": true, "として": true, "について": true,
		"により": true, "によって": true, "から": true, "まで": true, "など": true,
		"こと": true, "もの": true, "ため": true, "ところ": true, "とき": true,
		"ここ": true, "そこ": true, "あそこ": true, "これ": true, "それ": true, "あれ": true,
	}
)

const minConceptLength = 2

// Extract pulls candidate concepts out of free text.
// Markup tags are stripped, runs of katakana, kanji and hiragana are collected,
// stop words and one-character runs are dropped and the rest is deduplicated
// and capped at maxConcepts.
func Extract(text string, maxConcepts int) []string {
	if text == "" || maxConcepts <= 0 {
		return []string{}
	}

	cleaned := tagPattern.ReplaceAllString(text, "")

	var candidates []string
	for _, pattern := range scriptPatterns {
		candidates = append(candidates, pattern.FindAllString(cleaned, -1)...)
	}

	concepts := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if stopWords[candidate] || utf8.RuneCountInString(candidate) < minConceptLength {
			continue
		}
		concepts = append(concepts, candidate)
	}
	return Truncate(Dedupe(concepts), maxConcepts)
}

// IsStopWord reports whether value is excluded from extraction results.
func IsStopWord(value string) bool {
	return stopWords[value]
}
