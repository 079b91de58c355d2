package trainer

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/iabd/CNN-sentence/learning"
	"github.com/iabd/CNN-sentence/mat"
)

// stub learns nothing and always predicts class 0. It records how training
// was driven.
type stub struct {
	trainedOn int
	epochs    int
	saves     int
	fail      error
}

func (s *stub) Train(x [][]int32, y []int, epochs int, up learning.Updater, save func() error) (float64, error) {
	if s.fail != nil {
		return 0, s.fail
	}
	s.trainedOn = len(x)
	s.epochs = epochs
	if err := save(); err != nil {
		return 0, err
	}
	s.saves++
	return 1, nil
}

func (s *stub) Predict(x [][]int32) []int {
	return make([]int, len(x))
}

func (s *stub) WriteWeights(w io.Writer) error { return nil }

type nopUpdater struct{}

func (nopUpdater) Update(params []*mat.Mat) {}

func data(n int) ([][]int32, []int) {
	x := make([][]int32, n)
	y := make([]int, n)
	for i := range x {
		x[i] = []int32{int32(i)}
		y[i] = i % 2
	}
	return x, y
}

func TestFreshModelPerFold(t *testing.T) {
	rand.Seed(1)
	x, y := data(10)
	var models []*stub
	accs, err := RunCrossValidation(x, y, &Config{Folds: 5, Epochs: 3},
		func() (Classifier, error) {
			m := new(stub)
			models = append(models, m)
			return m, nil
		},
		func() learning.Updater { return nopUpdater{} },
		nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(accs) != 5 {
		t.Fatalf("got %d accuracies; want 5", len(accs))
	}
	if len(models) != 5 {
		t.Fatalf("built %d models; want one per fold", len(models))
	}
	for i, m := range models {
		if m.trainedOn != 8 {
			t.Errorf("fold %d trained on %d samples; want 8", i, m.trainedOn)
		}
		if m.epochs != 3 {
			t.Errorf("fold %d ran %d epochs; want 3", i, m.epochs)
		}
		if m.saves < 1 {
			t.Errorf("fold %d never saved", i)
		}
	}
}

func TestSingleFold(t *testing.T) {
	rand.Seed(2)
	x, y := data(6)
	var m *stub
	accs, err := RunCrossValidation(x, y, &Config{Folds: 1, Epochs: 1},
		func() (Classifier, error) {
			m = new(stub)
			return m, nil
		},
		func() learning.Updater { return nopUpdater{} },
		nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(accs) != 1 {
		t.Fatalf("got %d accuracies; want 1", len(accs))
	}
	if m.trainedOn != 0 {
		t.Errorf("single fold trained on %d samples; want 0 (no cross-validation)", m.trainedOn)
	}
	// stub predicts class 0, half of y is 0
	if accs[0] != 0.5 {
		t.Errorf("accuracy %v; want 0.5 over the full range", accs[0])
	}
	if Mean(accs) != accs[0] {
		t.Errorf("mean %v differs from the single accuracy %v", Mean(accs), accs[0])
	}
}

func TestTrainErrorAbortsRun(t *testing.T) {
	rand.Seed(3)
	x, y := data(9)
	boom := errors.New("boom")
	built := 0
	_, err := RunCrossValidation(x, y, &Config{Folds: 3, Epochs: 1},
		func() (Classifier, error) {
			built++
			if built == 2 {
				return &stub{fail: boom}, nil
			}
			return new(stub), nil
		},
		func() learning.Updater { return nopUpdater{} },
		nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want the training failure", err)
	}
	if built != 2 {
		t.Errorf("built %d models after the failure; want the run aborted at 2", built)
	}
}

func TestSaveFailureSurfaces(t *testing.T) {
	rand.Seed(4)
	x, y := data(4)
	boom := errors.New("disk full")
	_, err := RunCrossValidation(x, y, &Config{Folds: 2, Epochs: 1},
		func() (Classifier, error) { return new(stub), nil },
		func() learning.Updater { return nopUpdater{} },
		func(Classifier) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v; want the save failure", err)
	}
}

func TestMean(t *testing.T) {
	if m := Mean([]float64{0.5, 0.7, 0.9}); m < 0.6999 || m > 0.7001 {
		t.Errorf("Mean = %v; want 0.7", m)
	}
	if Mean(nil) != 0 {
		t.Errorf("Mean(nil) = %v; want 0", Mean(nil))
	}
}
