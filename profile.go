package asymerr

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ProfileSum is the profile log-likelihood of a sum of independent
// variables, each described by its own log-likelihood curve.
//
// For a total value S the profile is the maximum of Σ curve_i(a_i) over
// all a with Σ a_i = S. At the optimum every curve has the same
// derivative (the Lagrange multiplier), so each evaluation solves
//
//	curve_i'(a_i) = λ  for all i
//	Σ a_i         = S
//
// by Newton iteration on the bordered system
//
//	[ diag(curve_i''(a_i))  1 ] [ δa ]   [ -curve_i'(a_i) ]
//	[ 1 ... 1               0 ] [ δλ ] = [ S - Σ a_i      ]
//
// The last solution is memoized. A ProfileSum must not be used from
// several goroutines at once; see LockedProfileSum.
type ProfileSum struct {
	curves   []Curve
	argmaxes []float64
	argSum   float64
	maximum  float64

	cfg     Config
	sqrtEps float64

	last solution
}

// solution is the memoized result of the last successful evaluation.
// It is always replaced as a whole.
type solution struct {
	sum   float64
	args  []float64
	logli float64
}

// NewProfileSum builds the profile of the sum of the given curves.
func NewProfileSum(curves []Curve, cfg Config) (*ProfileSum, error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("%w: no curves to combine", ErrInvalidConfig)
	}
	for i, c := range curves {
		if c == nil {
			return nil, fmt.Errorf("%w: curve %d is nil", ErrInvalidConfig, i)
		}
	}

	cfg, err := cfg.resolve(len(curves))
	if err != nil {
		return nil, err
	}

	p := &ProfileSum{
		curves:   append([]Curve(nil), curves...),
		argmaxes: make([]float64, len(curves)),
		cfg:      cfg,
		sqrtEps:  math.Sqrt(cfg.Eps),
	}

	for i, c := range p.curves {
		p.argmaxes[i] = c.Argmax()
		v, err := c.Value(p.argmaxes[i])
		if err != nil {
			return nil, fmt.Errorf("curve %d at its argmax: %w", i, err)
		}
		p.maximum += v
	}
	p.argSum = floats.Sum(p.argmaxes)

	// The unconstrained optimum is a valid first memo entry.
	p.last = solution{
		sum:   p.argSum,
		args:  append([]float64(nil), p.argmaxes...),
		logli: p.maximum,
	}

	return p, nil
}

// Len returns the number of combined curves.
func (p *ProfileSum) Len() int { return len(p.curves) }

// Config returns the solver settings in effect, with defaults filled in.
func (p *ProfileSum) Config() Config { return p.cfg }

// Argmax returns the sum of the individual argmaxes, which maximizes the
// profile.
func (p *ProfileSum) Argmax() float64 { return p.argSum }

// Maximum returns the sum of the individual curve maxima.
func (p *ProfileSum) Maximum() float64 { return p.maximum }

// Evaluate returns the profile log-likelihood at sum relative to
// Maximum(). The result is never positive.
func (p *ProfileSum) Evaluate(sum float64) (float64, error) {
	return p.evaluate(sum, false)
}

// EvaluateWarm is Evaluate with the Newton iteration started from the
// previous solution instead of the individual argmaxes. Use it when
// consecutive calls are close to each other, as in likelihood scans.
func (p *ProfileSum) EvaluateWarm(sum float64) (float64, error) {
	return p.evaluate(sum, true)
}

func (p *ProfileSum) evaluate(sum float64, warm bool) (float64, error) {
	if math.IsNaN(sum) {
		return 0, fmt.Errorf("%w: sum is NaN", ErrInvalidArgument)
	}
	if sum == p.last.sum {
		return p.last.logli - p.maximum, nil
	}
	// The multiplier vanishes at the argmax, where the relative
	// derivative test cannot be met.
	if sum == p.argSum {
		p.last = solution{
			sum:   p.argSum,
			args:  append([]float64(nil), p.argmaxes...),
			logli: p.maximum,
		}
		return 0, nil
	}

	if len(p.curves) == 1 {
		v, err := p.curves[0].Value(sum)
		if err != nil {
			return 0, err
		}
		p.last = solution{sum: sum, args: []float64{sum}, logli: v}
		return v - p.maximum, nil
	}

	a := p.argmaxes
	if warm {
		a = p.last.args
	}

	for it := 1; it <= p.cfg.MaxIterations; it++ {
		next, err := p.nextApprox(sum, a)
		if err != nil {
			p.cfg.Observer.SolveFinished(it, err)
			return 0, err
		}
		a = next

		ok, err := p.converged(sum, a)
		if err != nil {
			p.cfg.Observer.SolveFinished(it, err)
			return 0, err
		}
		if !ok {
			continue
		}

		var logli float64
		for i, c := range p.curves {
			v, err := c.Value(a[i])
			if err != nil {
				p.cfg.Observer.SolveFinished(it, err)
				return 0, err
			}
			logli += v
		}

		p.last = solution{sum: sum, args: a, logli: logli}
		p.cfg.Observer.SolveFinished(it, nil)
		p.cfg.Logger.Debug("profile solved",
			"sum", sum, "iterations", it, "warm", warm, "logli", logli-p.maximum)
		return logli - p.maximum, nil
	}

	err := p.iterationFailure("Evaluate")
	p.cfg.Observer.SolveFinished(p.cfg.MaxIterations, err)
	p.cfg.Logger.Warn("profile solve failed", "sum", sum, "warm", warm, "err", err)
	return 0, err
}

// nextApprox performs one damped Newton step towards the constrained
// maximum for the given sum. The input slice is not modified.
func (p *ProfileSum) nextApprox(sum float64, a []float64) ([]float64, error) {
	n := len(p.curves)
	sys := mat.NewDense(n+1, n+1, nil)
	rhs := mat.NewVecDense(n+1, nil)

	for i, c := range p.curves {
		d2, err := c.SecondDerivative(a[i])
		if err != nil {
			return nil, err
		}
		d1, err := c.Derivative(a[i])
		if err != nil {
			return nil, err
		}
		sys.Set(i, i, d2)
		sys.Set(i, n, 1)
		sys.Set(n, i, 1)
		rhs.SetVec(i, -d1)
	}
	rhs.SetVec(n, sum-floats.Sum(a))

	var delta mat.VecDense
	if err := delta.SolveVec(sys, rhs); err != nil {
		// An ill-conditioned but finite system still yields a usable step.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 0) {
			return nil, fmt.Errorf("newton step at sum %g: %w", sum, err)
		}
	}

	next := make([]float64, n)
	for i := range next {
		next[i] = a[i] + p.cfg.Damping*delta.AtVec(i)
	}
	return next, nil
}

// converged checks the sum constraint and that all curve derivatives
// agree on a common multiplier.
func (p *ProfileSum) converged(sum float64, a []float64) (bool, error) {
	if !p.equal(sum, floats.Sum(a)) {
		return false, nil
	}

	derivs := make([]float64, len(a))
	for i, c := range p.curves {
		d, err := c.Derivative(a[i])
		if err != nil {
			return false, err
		}
		derivs[i] = d
	}
	return p.equal(floats.Min(derivs), floats.Max(derivs)), nil
}

// equal compares two numbers with the relative tolerance eps, softened
// near zero by sqrt(eps).
func (p *ProfileSum) equal(x, y float64) bool {
	return math.Abs(x-y)/(math.Abs((x+y)/2)+p.sqrtEps) < p.cfg.Eps
}

func (p *ProfileSum) iterationFailure(op string) error {
	return &ConvergenceError{
		Op:            op,
		Damping:       p.cfg.Damping,
		Eps:           p.cfg.Eps,
		MaxIterations: p.cfg.MaxIterations,
	}
}
