package trainer

import (
	"fmt"
	"io"

	"github.com/iabd/CNN-sentence/kfold"
	"github.com/iabd/CNN-sentence/learning"
)

// Classifier is the capability set the orchestrator needs from a model: it
// can be trained on encoded sentences, queried for class predictions, and
// asked to serialize its weights.
type Classifier interface {
	Train(x [][]int32, y []int, epochs int, up learning.Updater, save func() error) (float64, error)
	Predict(x [][]int32) []int
	WriteWeights(w io.Writer) error
}

// SaveFunc persists the model it is handed. The model owner may call it any
// number of times during training, at least once per fold.
type SaveFunc func(m Classifier) error

// RunCrossValidation trains one fresh model per fold and returns the
// held-out accuracy of each. Fold partitioning draws from the process-wide
// math/rand source, so seed it before calling for reproducible folds. Any
// construction or training failure aborts the whole run with no partial
// result.
func RunCrossValidation(x [][]int32, y []int, cfg *Config,
	newModel func() (Classifier, error), newUpdater func() learning.Updater,
	save SaveFunc) ([]float64, error) {

	if len(x) != len(y) {
		return nil, fmt.Errorf("trainer: %d inputs for %d labels", len(x), len(y))
	}
	if save == nil {
		save = func(Classifier) error { return nil }
	}
	split := kfold.New(len(x), cfg.Folds)
	accs := make([]float64, 0, split.Folds())
	for fold := 0; ; fold++ {
		train, test, ok := split.Next()
		if !ok {
			break
		}
		m, err := newModel()
		if err != nil {
			return nil, fmt.Errorf("trainer: fold %d: %w", fold, err)
		}
		trainX, trainY := subset(x, y, train)
		_, err = m.Train(trainX, trainY, cfg.Epochs, newUpdater(), func() error {
			return save(m)
		})
		if err != nil {
			return nil, fmt.Errorf("trainer: fold %d: %w", fold, err)
		}
		acc := accuracy(m, x, y, test)
		accs = append(accs, acc)
		fmt.Printf("cv: %d, perf: %f\n", fold, acc)
		if cfg.l != nil {
			cfg.l.Printf("cv: %d, perf: %f", fold, acc)
		}
	}
	return accs, nil
}

// Mean is the unweighted arithmetic mean of the per-fold accuracies, the
// reported cross-validation metric. Fold sizes may differ by one; they are
// deliberately not weighted.
func Mean(accs []float64) float64 {
	if len(accs) == 0 {
		return 0
	}
	var sum float64
	for _, a := range accs {
		sum += a
	}
	return sum / float64(len(accs))
}

func subset(x [][]int32, y []int, idx []int) ([][]int32, []int) {
	sx := make([][]int32, len(idx))
	sy := make([]int, len(idx))
	for i, j := range idx {
		sx[i], sy[i] = x[j], y[j]
	}
	return sx, sy
}

func accuracy(m Classifier, x [][]int32, y []int, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	testX, testY := subset(x, y, idx)
	hits := 0
	for i, c := range m.Predict(testX) {
		if c == testY[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(idx))
}
