package asymerr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Accumulator is the sum of several log-likelihood curves of the same
// parameter. It combines independent measurements of one quantity, in
// contrast to ProfileSum, which combines errors of a sum of quantities.
type Accumulator struct {
	curves  []Curve
	argmax  float64
	maximum float64
}

// NewAccumulator sums the given curves and locates the maximum of the
// total. Every curve must be concave, so the summed derivative changes
// sign exactly once between the smallest and the largest argmax.
func NewAccumulator(curves ...Curve) (*Accumulator, error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: no curves to accumulate", ErrInvalidConfig)
	}

	acc := &Accumulator{curves: append([]Curve(nil), curves...)}

	argmaxes := make([]float64, len(curves))
	for i, c := range curves {
		if c == nil {
			return nil, fmt.Errorf("%w: curve %d is nil", ErrInvalidConfig, i)
		}
		argmaxes[i] = c.Argmax()
	}
	lo, hi := floats.Min(argmaxes), floats.Max(argmaxes)

	if lo == hi {
		acc.argmax = lo
	} else {
		x, err := FindRoot(acc.Derivative, 0, lo, hi, curveTol)
		if err != nil {
			return nil, fmt.Errorf("locating accumulated maximum: %w", err)
		}
		acc.argmax = x
	}

	top, err := acc.Value(acc.argmax)
	if err != nil {
		return nil, err
	}
	acc.maximum = top
	return acc, nil
}

// Len returns the number of accumulated curves.
func (a *Accumulator) Len() int { return len(a.curves) }

func (a *Accumulator) Value(x float64) (float64, error) {
	return a.sum(x, Curve.Value)
}

func (a *Accumulator) Derivative(x float64) (float64, error) {
	return a.sum(x, Curve.Derivative)
}

func (a *Accumulator) SecondDerivative(x float64) (float64, error) {
	return a.sum(x, Curve.SecondDerivative)
}

func (a *Accumulator) Argmax() float64 { return a.argmax }

// Maximum returns the accumulated log-likelihood at Argmax().
func (a *Accumulator) Maximum() float64 { return a.maximum }

func (a *Accumulator) SigmaPlus(delta float64) (float64, error) {
	return a.sigma(delta, 1)
}

func (a *Accumulator) SigmaMinus(delta float64) (float64, error) {
	return a.sigma(delta, -1)
}

// sigma starts from the narrowest component width. The sum is at least
// as curved as any of its terms, so the first trial usually brackets.
func (a *Accumulator) sigma(delta float64, direction int) (float64, error) {
	if !(delta > 0) {
		return 0, fmt.Errorf("%w: log-likelihood drop %g", ErrInvalidArgument, delta)
	}
	step := math.Inf(1)
	for i, c := range a.curves {
		var s float64
		var err error
		if direction > 0 {
			s, err = c.SigmaPlus(delta)
		} else {
			s, err = c.SigmaMinus(delta)
		}
		if err != nil {
			return 0, fmt.Errorf("curve %d sigma: %w", i, err)
		}
		step = math.Min(step, s)
	}
	return sigmaByDescent(a, delta, direction, step)
}

func (a *Accumulator) sum(x float64, f func(Curve, float64) (float64, error)) (float64, error) {
	var total float64
	for _, c := range a.curves {
		v, err := f(c, x)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
