// Package corpus reads tab-separated text corpora and encodes sentences into
// the fixed-width index sequences the network consumes.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iabd/CNN-sentence/vocab"
)

// Options select the record columns and the token normalizations. The same
// options must be used when training and when labeling, they are not stored
// in the model file.
type Options struct {
	TextField   int  // tab-separated column holding the text
	TagField    int  // tab-separated column holding the label
	Lower       bool // lowercase tokens
	SpellDigits bool // expand integer tokens to English words
}

// Sample is one labeled training sentence.
type Sample struct {
	Tokens []string
	Label  int
}

// Tokenize splits a record's text column into normalized tokens.
func (o Options) Tokenize(text string) []string {
	toks := strings.Fields(text)
	if o.SpellDigits {
		toks = SpellDigits(toks)
	}
	if o.Lower {
		for i, t := range toks {
			toks[i] = strings.ToLower(t)
		}
	}
	return toks
}

// LoadSentences parses a labeled corpus. It returns the samples in input
// order, the document frequency of every token, and the label table in order
// of first appearance. A record without the tag or text column fails the
// whole load.
func LoadSentences(r io.Reader, opt Options) ([]Sample, map[string]int, *vocab.Labels, error) {
	var (
		samples []Sample
		df      = make(map[string]int)
		labels  = new(vocab.Labels)
	)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= opt.TextField || len(fields) <= opt.TagField {
			return nil, nil, nil, fmt.Errorf("line %d: %d tab-separated fields, need tag field %d and text field %d",
				lineno, len(fields), opt.TagField, opt.TextField)
		}
		toks := opt.Tokenize(fields[opt.TextField])
		seen := make(map[string]bool, len(toks))
		for _, tok := range toks {
			if !seen[tok] {
				seen[tok] = true
				df[tok]++
			}
		}
		samples = append(samples, Sample{
			Tokens: toks,
			Label:  labels.Add(fields[opt.TagField]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, err
	}
	return samples, df, labels, nil
}

// ReadCorpus encodes every record of an unlabeled corpus, in input order.
// A record without the text column fails the whole read.
func ReadCorpus(r io.Reader, v *vocab.Vocabulary, maxLen, pad int, opt Options) ([][]int32, error) {
	var out [][]int32
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= opt.TextField {
			return nil, fmt.Errorf("line %d: %d tab-separated fields, need text field %d",
				lineno, len(fields), opt.TextField)
		}
		out = append(out, EncodeSentence(opt.Tokenize(fields[opt.TextField]), v, maxLen, pad))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeSentence turns tokens into a sequence of exactly maxLen+2*pad
// vocabulary indices: pad zeros, then the indices of the known tokens, then
// zeros up to the full width. Unknown tokens are skipped and do not consume
// content positions. Tokens past maxLen known ones are dropped.
func EncodeSentence(tokens []string, v *vocab.Vocabulary, maxLen, pad int) []int32 {
	x := make([]int32, 0, maxLen+2*pad)
	for i := 0; i < pad; i++ {
		x = append(x, 0)
	}
	for _, tok := range tokens {
		if len(x) >= maxLen+pad {
			break
		}
		if idx, ok := v.Lookup(tok); ok {
			x = append(x, int32(idx))
		}
	}
	for len(x) < maxLen+2*pad {
		x = append(x, 0)
	}
	return x
}
