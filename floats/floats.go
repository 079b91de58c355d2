// Package floats provides the float64 vector kernels the network's forward
// and backward passes run on.
package floats

// Dot computes the dot product of two equal-length vectors
var Dot func(x []float64, y []float64) float64 = dotGeneric

// Axpy adds a*x to y in place, over two equal-length vectors
var Axpy func(a float64, x []float64, y []float64) = axpyGeneric

func dotGeneric(x []float64, y []float64) float64 {
	var sum float64
	for i := range x {
		sum += x[i] * y[i]
	}
	return sum
}

func axpyGeneric(a float64, x []float64, y []float64) {
	for i := range x {
		y[i] += a * x[i]
	}
}

// Scale multiplies every element of x by a.
func Scale(a float64, x []float64) {
	for i := range x {
		x[i] *= a
	}
}

// ArgMax returns the index of the largest element of x, -1 when x is empty.
// Ties go to the earliest index.
func ArgMax(x []float64) int {
	if len(x) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] > x[best] {
			best = i
		}
	}
	return best
}

// Zero clears x.
func Zero(x []float64) {
	for i := range x {
		x[i] = 0
	}
}
