package learning

import (
	"math"

	"github.com/iabd/CNN-sentence/mat"
)

// AdaDelta scales every step by the ratio of running update and gradient
// magnitudes (Zeiler 2012), so it needs no learning rate. State is kept per
// parameter matrix and grows on first sight.
type AdaDelta struct {
	Rho float64 // decay of the running averages
	Eps float64 // numerical floor inside the square roots

	g2 map[*mat.Mat][]float64 // running average of squared gradients
	x2 map[*mat.Mat][]float64 // running average of squared updates
}

// NewAdaDelta returns an updater with the given average decay. Rho 0.95 is
// the usual setting.
func NewAdaDelta(rho float64) *AdaDelta {
	return &AdaDelta{
		Rho: rho,
		Eps: 1e-6,
		g2:  make(map[*mat.Mat][]float64),
		x2:  make(map[*mat.Mat][]float64),
	}
}

// Update applies and clears the accumulated gradient of every parameter.
func (a *AdaDelta) Update(params []*mat.Mat) {
	for _, p := range params {
		g2 := a.state(a.g2, p)
		x2 := a.state(a.x2, p)
		for i, g := range p.Dw {
			if g == 0 {
				continue
			}
			g2[i] = a.Rho*g2[i] + (1-a.Rho)*g*g
			dx := -math.Sqrt((x2[i]+a.Eps)/(g2[i]+a.Eps)) * g
			x2[i] = a.Rho*x2[i] + (1-a.Rho)*dx*dx
			p.W[i] += dx
			p.Dw[i] = 0
		}
	}
}

func (a *AdaDelta) state(m map[*mat.Mat][]float64, p *mat.Mat) []float64 {
	s, ok := m[p]
	if !ok {
		s = make([]float64, len(p.W))
		m[p] = s
	}
	return s
}
