package asymerr

import (
	"fmt"
	"math"
)

// bracketGrowth is the factor applied to the trial step on every
// expansion of the sigma search.
const bracketGrowth = 1.1

// SigmaPlus returns the distance above Argmax() at which the profile
// log-likelihood has dropped by delta.
func (p *ProfileSum) SigmaPlus(delta float64) (float64, error) {
	if len(p.curves) == 1 {
		return p.curves[0].SigmaPlus(delta)
	}
	return p.directedSigma(delta, 1)
}

// SigmaMinus returns the distance below Argmax() at which the profile
// log-likelihood has dropped by delta.
func (p *ProfileSum) SigmaMinus(delta float64) (float64, error) {
	if len(p.curves) == 1 {
		return p.curves[0].SigmaMinus(delta)
	}
	return p.directedSigma(delta, -1)
}

func (p *ProfileSum) directedSigma(delta float64, direction int) (float64, error) {
	expansions, s, err := p.searchSigma(delta, direction)
	p.cfg.Observer.SigmaFinished(direction, expansions, err)
	if err != nil {
		p.cfg.Logger.Warn("sigma search failed",
			"delta", delta, "direction", direction, "err", err)
		return 0, err
	}
	return s, nil
}

// searchSigma walks away from the argmax in the given direction until the
// negative profile exceeds delta, then bisects the last step.
func (p *ProfileSum) searchSigma(delta float64, direction int) (int, float64, error) {
	if !(delta > 0) {
		return 0, 0, fmt.Errorf("%w: log-likelihood drop %g must be positive", ErrInvalidArgument, delta)
	}

	// The tightest curve at an equal share of the drop cannot overshoot.
	share := delta / float64(len(p.curves))
	s0 := math.Inf(1)
	for i, c := range p.curves {
		var s float64
		var err error
		if direction > 0 {
			s, err = c.SigmaPlus(share)
		} else {
			s, err = c.SigmaMinus(share)
		}
		if err != nil {
			return 0, 0, fmt.Errorf("curve %d sigma: %w", i, err)
		}
		if !(s > 0) {
			return 0, 0, fmt.Errorf("%w: curve %d reports sigma %g", ErrInconsistent, i, s)
		}
		s0 = math.Min(s0, s)
	}

	dir := float64(direction)
	a0 := p.argSum + dir*s0
	ll, err := p.Evaluate(a0)
	if err != nil {
		return 0, 0, err
	}
	nll0 := -ll
	if nll0 > delta {
		return 0, 0, fmt.Errorf("%w: initial step %g overshoots drop %g (got %g)",
			ErrInconsistent, s0, delta, nll0)
	}
	if nll0 == delta {
		return 0, s0, nil
	}

	step := s0
	atry := a0
	bracketed := false
	it := 0
	for it < p.cfg.MaxIterations {
		it++
		atry = a0 + dir*step
		ll, err := p.EvaluateWarm(atry)
		if err != nil {
			return it, 0, err
		}
		nlltry := -ll
		if math.Abs(nlltry-delta) < p.cfg.Eps {
			return it, dir * (atry - p.argSum), nil
		}
		if nlltry > delta {
			bracketed = true
			break
		}
		a0 = atry
		step *= bracketGrowth
	}
	if !bracketed {
		return it, 0, p.iterationFailure("directedSigma")
	}

	negProfile := func(x float64) (float64, error) {
		ll, err := p.EvaluateWarm(x)
		return -ll, err
	}
	root, err := FindRoot(negProfile, delta, a0, atry, p.cfg.Eps)
	if err != nil {
		return it, 0, err
	}
	return it, dir * (root - p.argSum), nil
}
