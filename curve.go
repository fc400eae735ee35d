package asymerr

import "fmt"

// DefaultDeltaLogLikelihood is the conventional log-likelihood drop that
// defines one-sigma asymmetric errors.
const DefaultDeltaLogLikelihood = 0.5

// Estimator reports a best estimate and the displacements on each side
// of it at which the log-likelihood has dropped by delta.
type Estimator interface {
	Argmax() float64
	SigmaPlus(delta float64) (float64, error)
	SigmaMinus(delta float64) (float64, error)
}

// Curve is a one-dimensional log-likelihood curve with a unique maximum.
//
// Implementations are treated as immutable and may be shared between
// several ProfileSum engines.
type Curve interface {
	Estimator

	// Value returns the log-likelihood at x.
	Value(x float64) (float64, error)

	// Derivative returns the first derivative at x.
	Derivative(x float64) (float64, error)

	// SecondDerivative returns the second derivative at x.
	SecondDerivative(x float64) (float64, error)
}

// Kind tells how the errors of an Estimate were obtained.
type Kind int

const (
	// Likelihood errors come from log-likelihood drops.
	Likelihood Kind = iota
	// Probability errors come from quantiles of a density.
	Probability
)

func (k Kind) String() string {
	switch k {
	case Likelihood:
		return "L"
	case Probability:
		return "P"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Estimate is a central value with asymmetric errors.
type Estimate struct {
	Location   float64
	SigmaPlus  float64
	SigmaMinus float64
	Kind       Kind
}

func (e Estimate) String() string {
	return e.Text("%g")
}

// Text renders the estimate as "x +sp -sm (K)" using verb for every number.
func (e Estimate) Text(verb string) string {
	return fmt.Sprintf(verb+" +"+verb+" -"+verb+" (%s)",
		e.Location, e.SigmaPlus, e.SigmaMinus, e.Kind)
}

// EstimateOf extracts a likelihood estimate from anything that can
// report its argmax and directed sigmas.
func EstimateOf(e Estimator, delta float64) (Estimate, error) {
	sp, err := e.SigmaPlus(delta)
	if err != nil {
		return Estimate{}, fmt.Errorf("sigma plus: %w", err)
	}
	sm, err := e.SigmaMinus(delta)
	if err != nil {
		return Estimate{}, fmt.Errorf("sigma minus: %w", err)
	}

	return Estimate{
		Location:   e.Argmax(),
		SigmaPlus:  sp,
		SigmaMinus: sm,
		Kind:       Likelihood,
	}, nil
}

// maximumOf returns a curve's value at its own argmax.
func maximumOf(c Curve) (float64, error) {
	return c.Value(c.Argmax())
}
