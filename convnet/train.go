package convnet

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/iabd/CNN-sentence/learning"
)

const progressBarWidth = 40

func progressBar(progress int) string {
	bar := ""
	for i := 0; i < progress; i++ {
		bar += "="
	}
	return bar
}

func emptySpace(space int) string {
	empty := ""
	for i := 0; i < space; i++ {
		empty += " "
	}
	return empty
}

// Train fits the network for the given number of epochs and reports the best
// accuracy seen on an internal held-out tenth of the samples (training
// accuracy when there are too few samples to hold any out). save runs
// whenever that accuracy reaches a new best, and at least once overall, so
// a caller persisting in save always ends up with some trained state.
func (n *Network) Train(x [][]int32, y []int, epochs int, up learning.Updater, save func() error) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("convnet: %d inputs for %d labels", len(x), len(y))
	}
	if up == nil {
		return 0, errors.New("convnet: nil updater")
	}
	if save == nil {
		save = func() error { return nil }
	}
	batch := n.batch
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	// hold out a tenth for the save-on-best decision
	order := rand.Perm(len(x))
	nVal := 0
	if len(x) >= 10 {
		nVal = len(x) / 10
	}
	val := order[len(order)-nVal:]
	idx := make([]int, len(order)-nVal)
	copy(idx, order[:len(order)-nVal])

	sc := n.newScratch()
	best := -1.0
	saved := false
	for e := 1; e <= epochs; e++ {
		begin := time.Now()
		if n.shuffle {
			rand.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		}
		var loss float64
		batches := 0
		for lo := 0; lo < len(idx); lo += batch {
			hi := lo + batch
			if hi > len(idx) {
				hi = len(idx)
			}
			loss += n.trainBatch(x, y, idx[lo:hi], up, sc)
			batches++
			if !n.noBar {
				progress := hi * progressBarWidth / len(idx)
				percent := hi * 100 / len(idx)
				fmt.Printf("\r[%s%s] %d%% ", progressBar(progress), emptySpace(progressBarWidth-progress), percent)
			}
		}
		if batches > 0 {
			loss /= float64(batches)
		}
		trainAcc := n.accuracy(x, y, idx)
		valAcc := trainAcc
		if nVal > 0 {
			valAcc = n.accuracy(x, y, val)
		}
		if !n.noBar {
			fmt.Printf("\repoch: %d, training time: %.2f secs, loss: %.4f, train perf: %.2f %%, val perf: %.2f %%\n",
				e, time.Since(begin).Seconds(), loss, 100*trainAcc, 100*valAcc)
		}
		if valAcc >= best {
			best = valAcc
			if err := save(); err != nil {
				return 0, fmt.Errorf("convnet: save: %w", err)
			}
			saved = true
		}
	}
	if !saved {
		if err := save(); err != nil {
			return 0, fmt.Errorf("convnet: save: %w", err)
		}
	}
	if best < 0 {
		best = 0
	}
	return best, nil
}

// trainBatch backpropagates one mini-batch, averaging gradients over it,
// then lets the updater step and re-applies the network constraints.
func (n *Network) trainBatch(x [][]int32, y []int, idx []int, up learning.Updater, sc *scratch) float64 {
	scale := 1 / float64(len(idx))
	var loss float64
	for _, i := range idx {
		loss += n.backprop(x[i], y[i], scale, sc)
	}
	up.Update(n.params)
	n.constrain()
	return loss * scale
}
