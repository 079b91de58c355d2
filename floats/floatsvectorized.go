//go:build !noasm && amd64

package floats

import "github.com/klauspost/cpuid/v2"

func init() {
	// Check if the CPU supports AVX2 with FMA
	if cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3) {
		Dot = dotUnrolled
		Axpy = axpyUnrolled
	} else {
		Dot = dotGeneric
		Axpy = axpyGeneric
	}
}

// four independent accumulators so the compiler can keep them in vector registers
func dotUnrolled(x []float64, y []float64) float64 {
	var s0, s1, s2, s3 float64
	n := len(x) &^ 3
	for i := 0; i < n; i += 4 {
		s0 += x[i] * y[i]
		s1 += x[i+1] * y[i+1]
		s2 += x[i+2] * y[i+2]
		s3 += x[i+3] * y[i+3]
	}
	for i := n; i < len(x); i++ {
		s0 += x[i] * y[i]
	}
	return s0 + s1 + s2 + s3
}

func axpyUnrolled(a float64, x []float64, y []float64) {
	n := len(x) &^ 3
	for i := 0; i < n; i += 4 {
		y[i] += a * x[i]
		y[i+1] += a * x[i+1]
		y[i+2] += a * x[i+2]
		y[i+3] += a * x[i+3]
	}
	for i := n; i < len(x); i++ {
		y[i] += a * x[i]
	}
}
