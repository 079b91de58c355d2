package corpus

import (
	"strconv"
	"strings"

	"github.com/yousifnimah/NumToWordsGo/NumToWords"
)

// SpellDigits replaces integer tokens with their English spelling, one
// spelled word per output token. Tokens that do not parse as integers, or
// that the converter rejects, pass through unchanged.
func SpellDigits(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		num, err := strconv.Atoi(tok)
		if err != nil {
			out = append(out, tok)
			continue
		}
		sentence, err := NumToWords.Convert(num, "en")
		if err != nil {
			out = append(out, tok)
			continue
		}
		out = append(out, strings.Fields(sentence)...)
	}
	return out
}
