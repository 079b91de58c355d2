package artifact

import (
	"bytes"
	"io"
	"math/rand"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/iabd/CNN-sentence/convnet"
	"github.com/iabd/CNN-sentence/mat"
	"github.com/iabd/CNN-sentence/vocab"
)

// fixedModel serializes a fixed marker, so the metadata round trip can be
// checked independently of any real network.
type fixedModel struct {
	marker []byte
	got    []byte
}

func (f *fixedModel) WriteWeights(w io.Writer) error {
	_, err := w.Write(f.marker)
	return err
}

func (f *fixedModel) ReadWeights(r io.Reader) error {
	f.got = make([]byte, len(f.marker))
	_, err := io.ReadFull(r, f.got)
	return err
}

func testMeta() *Metadata {
	return &Metadata{
		Vocab:  vocab.FromWords([]string{"hello", "world", "movie"}),
		MaxLen: 5,
		Pad:    2,
		Labels: []string{"neg", "pos"},
	}
}

func TestRoundTripMetadata(t *testing.T) {
	meta := testMeta()
	var buf bytes.Buffer
	if err := Save(&buf, &fixedModel{marker: []byte("weights!")}, meta); err != nil {
		t.Fatal(err)
	}
	back := &fixedModel{marker: []byte("weights!")}
	got, err := Load(&buf, back)
	if err != nil {
		t.Fatal(err)
	}
	if string(back.got) != "weights!" {
		t.Errorf("weights read back as %q", back.got)
	}
	if !reflect.DeepEqual(got, meta) {
		t.Errorf("metadata round trip:\n got %+v\nwant %+v", got, meta)
	}
}

func TestRoundTripNetwork(t *testing.T) {
	rand.Seed(7)
	meta := testMeta()
	net, err := convnet.New(convnet.Config{
		Vectors:     mat.NewRand(meta.Vocab.Len(), 8, -0.1, 0.1),
		Height:      meta.MaxLen + 2*meta.Pad,
		FilterHs:    []int{2, 3},
		FeatureMaps: 4,
		Classes:     2,
	})
	if err != nil {
		t.Fatal(err)
	}
	name := filepath.Join(t.TempDir(), "model.bin")
	if err := SaveFile(name, net, meta); err != nil {
		t.Fatal(err)
	}
	restored := new(convnet.Network)
	got, err := LoadFile(name, restored)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, meta) {
		t.Errorf("metadata round trip:\n got %+v\nwant %+v", got, meta)
	}
	x := [][]int32{
		{0, 0, 1, 2, 3, 0, 0, 0, 0},
		{0, 0, 2, 1, 0, 0, 0, 0, 0},
	}
	if want, have := net.Predict(x), restored.Predict(x); !reflect.DeepEqual(want, have) {
		t.Errorf("restored network predicts %v; original %v", have, want)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	if _, err := Load(bytes.NewReader([]byte("not an artifact")), &fixedModel{marker: []byte("weights!")}); err == nil {
		t.Error("loading garbage succeeded")
	}
}

func TestSaveNeedsMetadata(t *testing.T) {
	var buf bytes.Buffer
	if err := Save(&buf, &fixedModel{marker: []byte("w")}, nil); err == nil {
		t.Error("saving without metadata succeeded")
	}
}
