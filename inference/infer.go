// Package inference runs a restored classifier over a corpus and re-emits
// every record with its label column replaced by the predicted label.
package inference

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/iabd/CNN-sentence/artifact"
	"github.com/iabd/CNN-sentence/corpus"
)

// Model predicts one class index per encoded sentence, in input order.
type Model interface {
	Predict(x [][]int32) []int
}

// PredictCorpus reads tab-separated records from r, encodes each text column
// with the restored metadata, predicts, and writes every record back to w
// with the tag column overwritten by the predicted label. Records keep their
// input order and field layout. The corpus options must match the ones used
// at training time; they are not part of the metadata.
func PredictCorpus(r io.Reader, w io.Writer, m Model, meta *artifact.Metadata, opt corpus.Options) error {
	var (
		records [][]string
		encoded [][]int32
	)
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= opt.TextField || len(fields) <= opt.TagField {
			return fmt.Errorf("line %d: %d tab-separated fields, need tag field %d and text field %d",
				lineno, len(fields), opt.TagField, opt.TextField)
		}
		records = append(records, fields)
		encoded = append(encoded, corpus.EncodeSentence(opt.Tokenize(fields[opt.TextField]), meta.Vocab, meta.MaxLen, meta.Pad))
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	classes := m.Predict(encoded)
	if len(classes) != len(records) {
		return fmt.Errorf("%d predictions for %d records", len(classes), len(records))
	}
	bw := bufio.NewWriter(w)
	for i, fields := range records {
		c := classes[i]
		if c < 0 || c >= len(meta.Labels) {
			return fmt.Errorf("record %d: predicted class %d outside the %d-label table", i+1, c, len(meta.Labels))
		}
		fields[opt.TagField] = meta.Labels[c]
		if _, err := fmt.Fprintln(bw, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
