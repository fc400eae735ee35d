package asymerr

import (
	"fmt"
	"math"
)

// curveTol is the relative tolerance of the root searches done by the
// curve models in this file.
const curveTol = 1e-12

// Model builds a log-likelihood curve from a location and two sigmas.
// It is the bridge from an Estimate back to a Curve.
type Model func(location, sigmaPlus, sigmaMinus float64) (Curve, error)

// BrokenParabolaModel builds a BrokenParabola.
func BrokenParabolaModel(location, sigmaPlus, sigmaMinus float64) (Curve, error) {
	return NewBrokenParabola(location, sigmaPlus, sigmaMinus)
}

// SymmetrizedParabolaModel builds a Parabola whose width is the mean of
// the two sigmas.
func SymmetrizedParabolaModel(location, sigmaPlus, sigmaMinus float64) (Curve, error) {
	return NewParabola(location, (sigmaPlus+sigmaMinus)/2)
}

// BrokenParabola is a log-likelihood made of two half-parabolas joined
// at the maximum:
//
//	-(x-μ)²/(2σ₊²)  for x ≥ μ
//	-(x-μ)²/(2σ₋²)  for x < μ
type BrokenParabola struct {
	location   float64
	sigmaPlus  float64
	sigmaMinus float64
}

// NewBrokenParabola validates the widths and builds the curve.
func NewBrokenParabola(location, sigmaPlus, sigmaMinus float64) (*BrokenParabola, error) {
	if math.IsNaN(location) || math.IsInf(location, 0) {
		return nil, fmt.Errorf("%w: location %g", ErrInvalidArgument, location)
	}
	if !validWidth(sigmaPlus) || !validWidth(sigmaMinus) {
		return nil, fmt.Errorf("%w: sigmas must be positive and finite, got +%g -%g",
			ErrInvalidArgument, sigmaPlus, sigmaMinus)
	}
	return &BrokenParabola{location: location, sigmaPlus: sigmaPlus, sigmaMinus: sigmaMinus}, nil
}

// NewParabola builds the symmetric special case.
func NewParabola(location, sigma float64) (*BrokenParabola, error) {
	return NewBrokenParabola(location, sigma, sigma)
}

func (b *BrokenParabola) width(x float64) float64 {
	if x >= b.location {
		return b.sigmaPlus
	}
	return b.sigmaMinus
}

func (b *BrokenParabola) Value(x float64) (float64, error) {
	d := (x - b.location) / b.width(x)
	return -d * d / 2, nil
}

func (b *BrokenParabola) Derivative(x float64) (float64, error) {
	s := b.width(x)
	return -(x - b.location) / (s * s), nil
}

func (b *BrokenParabola) SecondDerivative(x float64) (float64, error) {
	s := b.width(x)
	return -1 / (s * s), nil
}

func (b *BrokenParabola) Argmax() float64 { return b.location }

func (b *BrokenParabola) SigmaPlus(delta float64) (float64, error) {
	if !(delta > 0) {
		return 0, fmt.Errorf("%w: log-likelihood drop %g", ErrInvalidArgument, delta)
	}
	return b.sigmaPlus * math.Sqrt(2*delta), nil
}

func (b *BrokenParabola) SigmaMinus(delta float64) (float64, error) {
	if !(delta > 0) {
		return 0, fmt.Errorf("%w: log-likelihood drop %g", ErrInvalidArgument, delta)
	}
	return b.sigmaMinus * math.Sqrt(2*delta), nil
}

// PoissonCurve is the log-likelihood of a Poisson mean μ after observing
// n events, n·ln(μ) - μ. It is defined for μ > 0 only.
//
// The profile of a sum of Poisson curves is again a Poisson curve for
// the total count, which makes it a convenient exact reference.
type PoissonCurve struct {
	n float64
}

// NewPoissonCurve builds the curve for a positive count.
func NewPoissonCurve(n float64) (*PoissonCurve, error) {
	if !(n > 0) || math.IsInf(n, 1) {
		return nil, fmt.Errorf("%w: poisson count %g must be positive", ErrInvalidArgument, n)
	}
	return &PoissonCurve{n: n}, nil
}

func (c *PoissonCurve) Value(mu float64) (float64, error) {
	if !(mu > 0) {
		return 0, fmt.Errorf("%w: poisson mean %g", ErrOutOfDomain, mu)
	}
	return c.n*math.Log(mu) - mu, nil
}

func (c *PoissonCurve) Derivative(mu float64) (float64, error) {
	if !(mu > 0) {
		return 0, fmt.Errorf("%w: poisson mean %g", ErrOutOfDomain, mu)
	}
	return c.n/mu - 1, nil
}

func (c *PoissonCurve) SecondDerivative(mu float64) (float64, error) {
	if !(mu > 0) {
		return 0, fmt.Errorf("%w: poisson mean %g", ErrOutOfDomain, mu)
	}
	return -c.n / (mu * mu), nil
}

func (c *PoissonCurve) Argmax() float64 { return c.n }

func (c *PoissonCurve) SigmaPlus(delta float64) (float64, error) {
	if !(delta > 0) {
		return 0, fmt.Errorf("%w: log-likelihood drop %g", ErrInvalidArgument, delta)
	}
	return sigmaByDescent(c, delta, 1, math.Sqrt(2*delta*c.n))
}

// SigmaMinus brackets the root between n and a mean small enough that
// n·ln(n/μ) - n alone exceeds delta.
func (c *PoissonCurve) SigmaMinus(delta float64) (float64, error) {
	if !(delta > 0) {
		return 0, fmt.Errorf("%w: log-likelihood drop %g", ErrInvalidArgument, delta)
	}
	top, err := maximumOf(c)
	if err != nil {
		return 0, err
	}
	drop := func(mu float64) (float64, error) {
		v, err := c.Value(mu)
		return top - v, err
	}
	lower := c.n * math.Exp(-(delta+c.n)/c.n-1)
	root, err := FindRoot(drop, delta, lower, c.n, curveTol)
	if err != nil {
		return 0, err
	}
	return c.n - root, nil
}

// sigmaByDescent finds the distance from c's argmax at which c has dropped
// by delta. The trial step starts at step and doubles until the drop is
// bracketed, then the last interval is bisected.
func sigmaByDescent(c Curve, delta float64, direction int, step float64) (float64, error) {
	x0 := c.Argmax()
	top, err := c.Value(x0)
	if err != nil {
		return 0, err
	}
	drop := func(x float64) (float64, error) {
		v, err := c.Value(x)
		return top - v, err
	}

	dir := float64(direction)
	if !(step > 0) || math.IsInf(step, 1) {
		step = 1
	}
	near := x0
	for i := 0; i < maxBisections; i++ {
		far := x0 + dir*step
		d, err := drop(far)
		if err != nil {
			return 0, err
		}
		if d == delta {
			return step, nil
		}
		if d > delta {
			root, err := FindRoot(drop, delta, near, far, curveTol)
			if err != nil {
				return 0, err
			}
			return dir * (root - x0), nil
		}
		near = far
		step *= 2
	}
	return 0, fmt.Errorf("sigma bracket search: %w", ErrNoConvergence)
}

func validWidth(s float64) bool {
	return s > 0 && !math.IsInf(s, 1)
}
