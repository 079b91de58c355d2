// Package embedding loads pretrained word vectors and assembles the initial
// embedding matrix the network trains from.
package embedding

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"

	"github.com/iabd/CNN-sentence/corpus"
	"github.com/iabd/CNN-sentence/mat"
	"github.com/iabd/CNN-sentence/vocab"
)

// LoadVectors reads word2vec vectors from path. The binary flag selects the
// binary format; otherwise one word and its values per line, with an
// optional count/width header line.
func LoadVectors(path string, binary bool) ([][]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	br := bufio.NewReader(f)
	if binary {
		return readBinary(br)
	}
	return readText(br)
}

// AddUnknownWords appends a random vector for every corpus word that has no
// pretrained one and appears in at least minDF documents. Words are visited
// in sample order, so the result is deterministic under the process-wide
// seed. The extended slices are returned.
func AddUnknownWords(vecs [][]float64, words []string, samples []corpus.Sample, df map[string]int, minDF, dim int) ([][]float64, []string) {
	have := make(map[string]bool, len(words))
	for _, w := range words {
		have[w] = true
	}
	for _, s := range samples {
		for _, tok := range s.Tokens {
			if have[tok] || df[tok] < minDF {
				continue
			}
			have[tok] = true
			words = append(words, tok)
			vecs = append(vecs, randomVector(dim))
		}
	}
	return vecs, words
}

func randomVector(dim int) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = rand.Float64()*0.5 - 0.25
	}
	return v
}

// Assemble builds the (len(words)+1) x dim embedding matrix and the matching
// vocabulary. Row 0 stays all zero, the padding row; word i sits at row i+1.
func Assemble(vecs [][]float64, words []string) (*mat.Mat, *vocab.Vocabulary, error) {
	if len(vecs) != len(words) {
		return nil, nil, fmt.Errorf("embedding: %d vectors for %d words", len(vecs), len(words))
	}
	if len(vecs) == 0 {
		return nil, nil, fmt.Errorf("embedding: empty vocabulary")
	}
	dim := len(vecs[0])
	m := mat.New(len(vecs)+1, dim)
	v := vocab.New()
	for i, w := range words {
		if len(vecs[i]) != dim {
			return nil, nil, fmt.Errorf("embedding: vector %d has width %d; want %d", i, len(vecs[i]), dim)
		}
		if v.Add(w) != i+1 {
			return nil, nil, fmt.Errorf("embedding: duplicate word %q", w)
		}
		copy(m.Row(i+1), vecs[i])
	}
	return m, v, nil
}
