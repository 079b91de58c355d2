// Package kfold cuts sample indices into shuffled cross-validation folds.
package kfold

import "math/rand"

// Splitter lazily yields train/test index pairs over a partition fixed at
// construction time.
type Splitter struct {
	order  []int
	starts []int
	sizes  []int
	i      int
	single bool
}

// New shuffles [0, n) with the process-wide math/rand source and cuts it
// into folds near-equal parts; the first n%folds folds carry one extra
// index. With folds < 2 there is no cross-validation: the single pair
// yielded has an empty train set and the full range as its test set.
func New(n, folds int) *Splitter {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	s := &Splitter{order: order}
	if folds < 2 {
		s.single = true
		return s
	}
	base, extra := n/folds, n%folds
	start := 0
	for f := 0; f < folds; f++ {
		size := base
		if f < extra {
			size++
		}
		s.starts = append(s.starts, start)
		s.sizes = append(s.sizes, size)
		start += size
	}
	return s
}

// Folds reports how many pairs Next yields in total.
func (s *Splitter) Folds() int {
	if s.single {
		return 1
	}
	return len(s.sizes)
}

// Next yields the next pair: the test set is the current fold of the
// shuffled order, the train set is everything before it followed by
// everything after it. ok is false once all folds are out.
func (s *Splitter) Next() (train, test []int, ok bool) {
	if s.single {
		if s.i > 0 {
			return nil, nil, false
		}
		s.i++
		return nil, s.order, true
	}
	if s.i >= len(s.sizes) {
		return nil, nil, false
	}
	start, size := s.starts[s.i], s.sizes[s.i]
	test = s.order[start : start+size]
	train = make([]int, 0, len(s.order)-size)
	train = append(train, s.order[:start]...)
	train = append(train, s.order[start+size:]...)
	s.i++
	return train, test, true
}
