// Package vocab holds the word vocabulary and the label table of a trained
// classifier. Both survive training inside the model file, so inference can
// encode text exactly the way training did.
package vocab

// Vocabulary maps words to embedding row indices. Index 0 is the reserved
// padding entry and never names a real word.
type Vocabulary struct {
	Words []string       // Words[i] is the word at index i, Words[0] is ""
	Index map[string]int // word to index, inverse of Words
}

// New returns an empty vocabulary holding only the reserved padding entry.
func New() *Vocabulary {
	return &Vocabulary{
		Words: []string{""},
		Index: make(map[string]int),
	}
}

// FromWords builds a vocabulary over words in order, assigning indices
// starting at 1. A word seen twice keeps its first index.
func FromWords(words []string) *Vocabulary {
	v := New()
	for _, w := range words {
		v.Add(w)
	}
	return v
}

// Add inserts word and returns its index. Adding a known word returns the
// existing index.
func (v *Vocabulary) Add(word string) int {
	if i, ok := v.Index[word]; ok {
		return i
	}
	i := len(v.Words)
	v.Words = append(v.Words, word)
	v.Index[word] = i
	return i
}

// Lookup reports the index of word, if it is known.
func (v *Vocabulary) Lookup(word string) (int, bool) {
	i, ok := v.Index[word]
	return i, ok
}

// Len is the number of indices, counting the reserved padding entry.
func (v *Vocabulary) Len() int {
	return len(v.Words)
}
