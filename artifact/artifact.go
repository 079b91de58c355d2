// Package artifact reads and writes the persisted model file: the network
// weights followed by the encoding metadata, one binary stream. The metadata
// travels with the weights because encoding new text with anything but the
// training-time vocabulary, length and padding silently produces garbage
// indices.
package artifact

import (
	"bufio"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/iabd/CNN-sentence/vocab"
)

// Metadata is the encoding state of a trained model: everything needed to
// turn new text into the exact index sequences the weights were trained on.
type Metadata struct {
	Vocab  *vocab.Vocabulary
	MaxLen int
	Pad    int
	Labels []string
}

// WeightsWriter serializes model weights. ReadWeights must later consume
// exactly the bytes WriteWeights produced, since the metadata record follows
// on the same stream.
type WeightsWriter interface {
	WriteWeights(w io.Writer) error
}

// WeightsReader restores model weights written by the matching WeightsWriter.
type WeightsReader interface {
	ReadWeights(r io.Reader) error
}

// Save writes the model weights and then one metadata record to w.
func Save(w io.Writer, m WeightsWriter, meta *Metadata) error {
	if meta == nil || meta.Vocab == nil {
		return errors.New("artifact: no metadata to save")
	}
	if err := m.WriteWeights(w); err != nil {
		return fmt.Errorf("artifact: weights: %w", err)
	}
	if err := gob.NewEncoder(w).Encode(meta); err != nil {
		return fmt.Errorf("artifact: metadata: %w", err)
	}
	return nil
}

// Load restores the weights into m and returns the metadata that follows
// them. The reader is buffered here so both decode stages stop at their own
// record boundary.
func Load(r io.Reader, m WeightsReader) (*Metadata, error) {
	br := bufio.NewReader(r)
	if err := m.ReadWeights(br); err != nil {
		return nil, fmt.Errorf("artifact: weights: %w", err)
	}
	var meta Metadata
	if err := gob.NewDecoder(br).Decode(&meta); err != nil {
		return nil, fmt.Errorf("artifact: metadata: %w", err)
	}
	if meta.Vocab == nil || len(meta.Labels) == 0 {
		return nil, errors.New("artifact: incomplete metadata record")
	}
	return &meta, nil
}

// SaveFile writes the artifact to name, replacing any previous file.
func SaveFile(name string, m WeightsWriter, meta *Metadata) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := Save(f, m, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads the artifact at name.
func LoadFile(name string, m WeightsReader) (*Metadata, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, m)
}
