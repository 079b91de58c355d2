package convnet

import (
	"compress/zlib"
	"encoding/gob"
	"errors"
	"io"

	"github.com/iabd/CNN-sentence/mat"
)

// netState is the serialized network: geometry and parameters, no training
// schedule.
type netState struct {
	FilterHs []int
	Height   int
	Words    *mat.Mat
	Filters  []*mat.Mat
	FBias    []*mat.Mat
	Out      *mat.Mat
	OBias    *mat.Mat
}

// WriteWeights writes the parameter state as one zlib-compressed gob record.
func (n *Network) WriteWeights(w io.Writer) error {
	zw := zlib.NewWriter(w)
	st := netState{
		FilterHs: n.filterHs,
		Height:   n.height,
		Words:    n.words,
		Filters:  n.filters,
		FBias:    n.fbias,
		Out:      n.out,
		OBias:    n.obias,
	}
	if err := gob.NewEncoder(zw).Encode(&st); err != nil {
		return err
	}
	return zw.Close()
}

// ReadWeights restores a network written by WriteWeights into the receiver,
// ready for prediction. It consumes exactly the compressed record, so more
// data may follow on the same stream; hand it an io.ByteReader (a
// bufio.Reader wrapping works) when that matters.
func (n *Network) ReadWeights(r io.Reader) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return err
	}
	var st netState
	if err := gob.NewDecoder(zr).Decode(&st); err != nil {
		return err
	}
	// drain to the checksum so the stream position lands past the record
	if _, err := io.Copy(io.Discard, zr); err != nil {
		return err
	}
	if err := zr.Close(); err != nil {
		return err
	}
	if st.Words == nil || st.Out == nil || st.OBias == nil ||
		len(st.Filters) == 0 ||
		len(st.Filters) != len(st.FilterHs) ||
		len(st.FBias) != len(st.Filters) {
		return errors.New("convnet: corrupt weights record")
	}
	n.words = st.Words
	n.filters = st.Filters
	n.fbias = st.FBias
	n.out = st.Out
	n.obias = st.OBias
	n.filterHs = st.FilterHs
	n.height = st.Height
	n.rebuild()
	return nil
}
