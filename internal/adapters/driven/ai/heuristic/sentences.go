package heuristic

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_']+|[^\p{L}\p{N}_'\s]`)

// sentence is one sentence with its tokens.
type sentence struct {
	text   string
	tokens []string
}

// splitSentences breaks text after terminal punctuation followed by
// whitespace, and at blank lines.
func splitSentences(text string) []sentence {
	var out []sentence
	runes := []rune(text)
	start := 0
	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		start = end
		if s != "" {
			out = append(out, sentence{text: s, tokens: tokenPattern.FindAllString(s, -1)})
		}
	}
	for i, r := range runes {
		switch {
		case isTerminal(r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])):
			flush(i + 1)
		case r == '\n' && i+1 < len(runes) && runes[i+1] == '\n':
			flush(i + 1)
		}
	}
	flush(len(runes))
	return out
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func lower(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(t)
	}
	return out
}

func contains(tokens []string, words ...string) bool {
	for _, t := range tokens {
		for _, w := range words {
			if t == w {
				return true
			}
		}
	}
	return false
}

// hasPassive spots "be" auxiliaries followed by a regular past participle.
func hasPassive(tokens []string) bool {
	for i := 0; i+1 < len(tokens); i++ {
		switch tokens[i] {
		case "is", "are", "was", "were", "be", "been", "being":
			next := tokens[i+1]
			if len(next) > 3 && strings.HasSuffix(next, "ed") {
				return true
			}
		}
	}
	return false
}
