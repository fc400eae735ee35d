package asymerr

import "fmt"

// CurveOf turns a likelihood estimate back into a curve using model.
func CurveOf(e Estimate, model Model) (Curve, error) {
	if e.Kind != Likelihood {
		return nil, fmt.Errorf("%w: estimate %v is not of likelihood kind", ErrInvalidArgument, e)
	}
	return model(e.Location, e.SigmaPlus, e.SigmaMinus)
}

// OneModel repeats model n times, for combining with a single model.
func OneModel(model Model, n int) []Model {
	models := make([]Model, n)
	for i := range models {
		models[i] = model
	}
	return models
}

// CombineResults combines independent measurements of the same quantity
// by adding their log-likelihood curves.
func CombineResults(estimates []Estimate, models []Model) (Estimate, error) {
	curves, err := curvesOf(estimates, models)
	if err != nil {
		return Estimate{}, err
	}
	if len(curves) == 1 {
		return estimates[0], nil
	}

	acc, err := NewAccumulator(curves...)
	if err != nil {
		return Estimate{}, err
	}
	return EstimateOf(acc, DefaultDeltaLogLikelihood)
}

// CombineErrors returns the estimate of the sum of several independent
// quantities, using the profile log-likelihood of the sum.
func CombineErrors(estimates []Estimate, models []Model, cfg Config) (Estimate, error) {
	curves, err := curvesOf(estimates, models)
	if err != nil {
		return Estimate{}, err
	}

	p, err := NewProfileSum(curves, cfg)
	if err != nil {
		return Estimate{}, err
	}
	return EstimateOf(p, DefaultDeltaLogLikelihood)
}

// Symmetrize replaces the errors of a likelihood estimate by their mean.
func Symmetrize(e Estimate) (Estimate, error) {
	c, err := CurveOf(e, SymmetrizedParabolaModel)
	if err != nil {
		return Estimate{}, err
	}
	return EstimateOf(c, DefaultDeltaLogLikelihood)
}

func curvesOf(estimates []Estimate, models []Model) ([]Curve, error) {
	if len(estimates) == 0 {
		return nil, fmt.Errorf("%w: no estimates to combine", ErrInvalidArgument)
	}
	if len(models) != len(estimates) {
		return nil, fmt.Errorf("%w: %d estimates but %d models",
			ErrInvalidArgument, len(estimates), len(models))
	}

	curves := make([]Curve, len(estimates))
	for i, e := range estimates {
		c, err := CurveOf(e, models[i])
		if err != nil {
			return nil, fmt.Errorf("estimate %d: %w", i, err)
		}
		curves[i] = c
	}
	return curves, nil
}
