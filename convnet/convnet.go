// Package convnet implements the convolutional sentence classifier: a
// trainable embedding table, parallel convolution filters of several widths
// with max-over-time pooling, dropout, and a softmax output layer.
package convnet

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/iabd/CNN-sentence/floats"
	"github.com/iabd/CNN-sentence/mat"
	"github.com/iabd/CNN-sentence/parallel"
)

// DefaultBatchSize is used when Config.BatchSize is zero.
const DefaultBatchSize = 50

// Config fixes the architecture and the training schedule of a Network.
type Config struct {
	Vectors     *mat.Mat // initial embedding table, row 0 the zero padding row
	Height      int      // encoded sentence length, maxLen + 2*pad
	FilterHs    []int    // filter heights, in words covered per step
	FeatureMaps int      // filters per height
	Classes     int      // output classes
	Dropout     float64  // dropout probability on the pooled features
	MaxNorm     float64  // norm ceiling on output rows, 0 disables
	BatchSize   int      // mini-batch size
	ShuffleBatch bool    // reshuffle sample order before each epoch

	DisableProgressBar bool // disable progress bar
}

// Network is a convolutional text classifier over encoded sentences. Build
// one with New; the zero value is usable only as a ReadWeights target.
type Network struct {
	words   *mat.Mat   // embedding table, trained with the rest
	filters []*mat.Mat // per height: FeatureMaps x (h*dim) filter bank
	fbias   []*mat.Mat // per height: FeatureMaps x 1
	out     *mat.Mat   // Classes x (len(filters)*FeatureMaps)
	obias   *mat.Mat   // Classes x 1

	filterHs []int
	height   int
	dim      int
	maps     int
	classes  int
	dropout  float64
	maxNorm  float64
	batch    int
	shuffle  bool
	noBar    bool

	params []*mat.Mat
}

// New builds a network with freshly initialized filters and a copy of the
// embedding vectors, so several networks can start from the same table.
func New(cfg Config) (*Network, error) {
	if cfg.Vectors == nil {
		return nil, errors.New("convnet: no embedding vectors")
	}
	if len(cfg.FilterHs) == 0 {
		return nil, errors.New("convnet: no filter heights")
	}
	if cfg.FeatureMaps < 1 {
		return nil, errors.New("convnet: need at least one feature map")
	}
	if cfg.Classes < 2 {
		return nil, errors.New("convnet: need at least two classes")
	}
	for _, h := range cfg.FilterHs {
		if h < 1 || h > cfg.Height {
			return nil, fmt.Errorf("convnet: filter height %d outside sentence height %d", h, cfg.Height)
		}
	}
	if cfg.Dropout < 0 || cfg.Dropout >= 1 {
		return nil, fmt.Errorf("convnet: dropout %v outside [0, 1)", cfg.Dropout)
	}
	k := cfg.Vectors.Cols
	n := &Network{
		words:    cfg.Vectors.Copy(),
		filterHs: append([]int(nil), cfg.FilterHs...),
		height:   cfg.Height,
		dropout:  cfg.Dropout,
		maxNorm:  cfg.MaxNorm,
		batch:    cfg.BatchSize,
		shuffle:  cfg.ShuffleBatch,
		noBar:    cfg.DisableProgressBar,
	}
	for _, h := range cfg.FilterHs {
		n.filters = append(n.filters, mat.NewRand(cfg.FeatureMaps, h*k, -0.01, 0.01))
		n.fbias = append(n.fbias, mat.New(cfg.FeatureMaps, 1))
	}
	n.out = mat.New(cfg.Classes, len(cfg.FilterHs)*cfg.FeatureMaps)
	n.obias = mat.New(cfg.Classes, 1)
	n.rebuild()
	return n, nil
}

// rebuild derives the cached geometry and the parameter list from the
// matrices.
func (n *Network) rebuild() {
	n.dim = n.words.Cols
	n.maps = n.filters[0].Rows
	n.classes = n.out.Rows
	ps := make([]*mat.Mat, 0, 2*len(n.filters)+3)
	ps = append(ps, n.words)
	ps = append(ps, n.filters...)
	ps = append(ps, n.fbias...)
	n.params = append(ps, n.out, n.obias)
}

// Classes reports how many output classes the network scores.
func (n *Network) Classes() int {
	return n.classes
}

// Height reports the encoded sentence length the network expects.
func (n *Network) Height() int {
	return n.height
}

// FilterHeights reports the filter heights, in the order their banks appear
// in Parameters.
func (n *Network) FilterHeights() []int {
	return n.filterHs
}

// Parameters returns the live parameter matrices in update order: the
// embedding table, the filter banks, the filter biases, the output layer and
// its bias. Callers mutate them at their own risk; the updater and the GPU
// scorer read them through this.
func (n *Network) Parameters() []*mat.Mat {
	return n.params
}

type scratch struct {
	pooled []float64 // post-relu max per feature
	argpos []int     // window position of each max, -1 when never positive
	feat   []float64 // pooled features after dropout scaling
	mask   []float64 // dropout scaling per feature
	dpool  []float64 // gradient wrt the pooled features
	logits []float64
	probs  []float64
}

func (n *Network) newScratch() *scratch {
	nf := len(n.filterHs) * n.maps
	return &scratch{
		pooled: make([]float64, nf),
		argpos: make([]int, nf),
		feat:   make([]float64, nf),
		mask:   make([]float64, nf),
		dpool:  make([]float64, nf),
		logits: make([]float64, n.classes),
		probs:  make([]float64, n.classes),
	}
}

// convPool runs the convolution and max-over-time pooling for one sentence,
// filling sc.pooled and sc.argpos.
func (n *Network) convPool(x []int32, sc *scratch) {
	k := n.dim
	pi := 0
	for b, h := range n.filterHs {
		f := n.filters[b]
		bias := n.fbias[b]
		steps := len(x) - h + 1
		for m := 0; m < n.maps; m++ {
			w := f.Row(m)
			// max over relu equals relu over max, so start the max at 0
			best, at := 0.0, -1
			for t := 0; t < steps; t++ {
				z := bias.W[m]
				for j := 0; j < h; j++ {
					z += floats.Dot(w[j*k:(j+1)*k], n.words.Row(int(x[t+j])))
				}
				if z > best {
					best, at = z, t
				}
			}
			sc.pooled[pi], sc.argpos[pi] = best, at
			pi++
		}
	}
}

func (n *Network) logitsFrom(feat, logits []float64) {
	for c := 0; c < n.classes; c++ {
		logits[c] = n.obias.W[c] + floats.Dot(n.out.Row(c), feat)
	}
}

func (n *Network) classify(x []int32, sc *scratch) int {
	n.convPool(x, sc)
	n.logitsFrom(sc.pooled, sc.logits)
	return floats.ArgMax(sc.logits)
}

// Predict returns one class index per encoded sentence, in input order.
func (n *Network) Predict(x [][]int32) []int {
	out := make([]int, len(x))
	workers := runtime.NumCPU()
	if workers > len(x) {
		workers = len(x)
	}
	if workers < 1 {
		workers = 1
	}
	parallel.ForEach(workers, workers, func(w int) {
		sc := n.newScratch()
		for i := w; i < len(x); i += workers {
			out[i] = n.classify(x[i], sc)
		}
	})
	return out
}

// softmax fills probs from logits and returns the cross-entropy loss of the
// gold class, computed through log-sum-exp so extreme logits stay finite.
func softmax(logits, probs []float64, gold int) float64 {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	var sum float64
	for c, v := range logits {
		e := math.Exp(v - max)
		probs[c] = e
		sum += e
	}
	for c := range probs {
		probs[c] /= sum
	}
	return max + math.Log(sum) - logits[gold]
}

// backprop accumulates the gradients of one sample, scaled by scale, and
// returns its loss. Dropout masks draw from the process-wide rand source.
func (n *Network) backprop(x []int32, gold int, scale float64, sc *scratch) float64 {
	n.convPool(x, sc)

	feat := sc.pooled
	if n.dropout > 0 {
		keep := 1 - n.dropout
		for i, p := range sc.pooled {
			if rand.Float64() < n.dropout {
				sc.mask[i] = 0
			} else {
				sc.mask[i] = 1 / keep
			}
			sc.feat[i] = p * sc.mask[i]
		}
		feat = sc.feat
	}
	n.logitsFrom(feat, sc.logits)
	loss := softmax(sc.logits, sc.probs, gold)

	floats.Zero(sc.dpool)
	for c := 0; c < n.classes; c++ {
		d := sc.probs[c]
		if c == gold {
			d--
		}
		d *= scale
		n.obias.Dw[c] += d
		floats.Axpy(d, feat, n.out.GradRow(c))
		floats.Axpy(d, n.out.Row(c), sc.dpool)
	}
	if n.dropout > 0 {
		for i := range sc.dpool {
			sc.dpool[i] *= sc.mask[i]
		}
	}

	k := n.dim
	pi := 0
	for b, h := range n.filterHs {
		f := n.filters[b]
		for m := 0; m < n.maps; m++ {
			g, t := sc.dpool[pi], sc.argpos[pi]
			pi++
			if g == 0 || t < 0 {
				continue
			}
			n.fbias[b].Dw[m] += g
			w := f.Row(m)
			grad := f.GradRow(m)
			for j := 0; j < h; j++ {
				word := int(x[t+j])
				floats.Axpy(g, n.words.Row(word), grad[j*k:(j+1)*k])
				floats.Axpy(g, w[j*k:(j+1)*k], n.words.GradRow(word))
			}
		}
	}
	return loss
}

// constrain keeps the padding row inert and the output rows inside the norm
// ceiling.
func (n *Network) constrain() {
	floats.Zero(n.words.Row(0))
	floats.Zero(n.words.GradRow(0))
	if n.maxNorm > 0 {
		for c := 0; c < n.out.Rows; c++ {
			row := n.out.Row(c)
			norm := math.Sqrt(floats.Dot(row, row))
			if norm > n.maxNorm {
				floats.Scale(n.maxNorm/norm, row)
			}
		}
	}
}

func (n *Network) accuracy(x [][]int32, y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sc := n.newScratch()
	hits := 0
	for _, i := range idx {
		if n.classify(x[i], sc) == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(idx))
}
