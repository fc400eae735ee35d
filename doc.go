// Package asymerr combines results that carry asymmetric errors.
//
// # Overview
//
// A measurement reported as x +σ₊ -σ₋ is described by a log-likelihood
// curve with its maximum at x, dropping by 0.5 at x+σ₊ and at x-σ₋.
// asymerr works with such curves through the Curve interface and
// provides two ways of combining them:
//
//   - ProfileSum    - errors of a sum of independent quantities
//   - Accumulator   - several measurements of the same quantity
//
// # The profile of a sum
//
// For quantities a₁..a_N with curves L_i, the log-likelihood of the total
// S = Σ a_i is the profile
//
//	L(S) = max { Σ L_i(a_i) : Σ a_i = S }
//
// At the constrained maximum all curves share one slope λ:
//
//	L_i'(a_i) = λ,  Σ a_i = S
//
// ProfileSum solves this system by damped Newton iteration every time it
// is evaluated and memoizes the last solution, so scans that move in
// small steps start close to the answer:
//
//	curves := []asymerr.Curve{c1, c2, c3}
//	p, err := asymerr.NewProfileSum(curves, asymerr.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dl, err := p.Evaluate(p.Argmax() + 1) // ≤ 0
//
// # Asymmetric errors of the sum
//
// SigmaPlus and SigmaMinus search outwards from the argmax in geometric
// steps of 1.1 until the profile has dropped by more than Δ, then bisect:
//
//	sp, err := p.SigmaPlus(asymerr.DefaultDeltaLogLikelihood)
//	sm, err := p.SigmaMinus(asymerr.DefaultDeltaLogLikelihood)
//
// The first step is the smallest single-curve sigma at Δ/N. For concave
// curves it cannot overshoot; if it does, ErrInconsistent is returned.
//
// # Combining estimates
//
// Estimates are turned into curves by a Model:
//
//	r1 := asymerr.Estimate{Location: 8.2, SigmaPlus: 1.2, SigmaMinus: 0.8}
//	r2 := asymerr.Estimate{Location: 7.1, SigmaPlus: 0.5, SigmaMinus: 0.7}
//	models := asymerr.OneModel(asymerr.BrokenParabolaModel, 2)
//
//	mean, err := asymerr.CombineResults([]asymerr.Estimate{r1, r2}, models)
//	total, err := asymerr.CombineErrors([]asymerr.Estimate{r1, r2}, models, asymerr.DefaultConfig())
//
// # Failures
//
// Iteration caps are hard limits. Exhausting one returns a
// *ConvergenceError carrying the damping, tolerance and cap that were in
// effect; errors.Is(err, ErrNoConvergence) reports true for it. Errors
// returned by curves are passed through unchanged.
//
// # Concurrency
//
// A ProfileSum mutates its memo on every query and must have a single
// owner. LockedProfileSum adds a mutex for shared use. Curves are never
// modified and can be shared freely.
//
// # Instrumentation
//
// Config.Logger receives debug records for every solve. Config.Observer
// receives iteration counts; PrometheusObserver exports them as metrics.
//
// # Testing
//
// Use assertions to validate profile properties:
//
//	func TestMyCombination(t *testing.T) {
//	    p, _ := asymerr.NewProfileSum(curves, asymerr.DefaultConfig())
//	    asymerr.AssertProfile(t, p)
//	}
package asymerr
