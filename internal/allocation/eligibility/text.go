package eligibility

import (
	"strings"
	"unicode"
)

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// canonicalName reduces a qualification name to comparable words: degree
// abbreviations expanded, punctuation and connective words dropped. Both
// "BSc Nursing" and "Bachelor of Science in Nursing" become
// "bachelor science nursing".
func canonicalName(s string) string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(strings.ReplaceAll(tok, ".", ""), ",;:()'")
		if tok == "" {
			continue
		}
		words := []string{tok}
		if expansion, ok := degreeAbbreviations[tok]; ok {
			words = strings.Fields(expansion)
		}
		for _, w := range words {
			if _, skip := connectiveWords[w]; !skip {
				out = append(out, w)
			}
		}
	}
	return strings.Join(out, " ")
}

// sameQualificationName is containsEither over canonical names.
func sameQualificationName(a, b string) bool {
	return containsEither(canonicalName(a), canonicalName(b))
}

// containsEither reports whether either normalized phrase contains the other.
// Empty phrases never match.
func containsEither(a, b string) bool {
	a, b = normalize(a), normalize(b)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '/' || r == '(' || r == ')'
	})
}

// shareToken reports a common whitespace-delimited word. Punctuation stays
// part of the word, so "c/c++" and "c++ builder" share nothing.
func shareToken(a, b string) bool {
	seen := make(map[string]struct{})
	for _, t := range strings.Fields(strings.ToLower(a)) {
		seen[t] = struct{}{}
	}
	for _, t := range strings.Fields(strings.ToLower(b)) {
		if _, ok := seen[t]; ok {
			return true
		}
	}
	return false
}

// containsKeyword matches short keywords (abbreviations such as "ba" or
// "md") on whole tokens only; longer keywords match as substrings.
func containsKeyword(text, keyword string) bool {
	text, keyword = normalize(text), normalize(keyword)
	if text == "" || keyword == "" {
		return false
	}
	if len(keyword) > 3 || strings.Contains(keyword, " ") {
		return strings.Contains(text, keyword)
	}
	for _, t := range tokens(text) {
		if strings.Trim(t, ".") == keyword {
			return true
		}
	}
	return false
}

func dedupeFold(groups ...[]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range groups {
		for _, s := range group {
			key := normalize(s)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
