package asymerr

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer receives solver statistics from a ProfileSum.
type Observer interface {
	// SolveFinished is called after every Newton solve, successful or not.
	SolveFinished(iterations int, err error)

	// SigmaFinished is called after every directed sigma search.
	// direction is +1 for sigma plus and -1 for sigma minus.
	SigmaFinished(direction, expansions int, err error)
}

type nopObserver struct{}

func (nopObserver) SolveFinished(int, error)      {}
func (nopObserver) SigmaFinished(int, int, error) {}

// PrometheusObserver exports solver statistics as Prometheus metrics.
type PrometheusObserver struct {
	iterations *prometheus.HistogramVec
	expansions *prometheus.HistogramVec
	failures   *prometheus.CounterVec
}

// NewPrometheusObserver creates the collectors and registers them with reg.
func NewPrometheusObserver(reg prometheus.Registerer, namespace string) (*PrometheusObserver, error) {
	o := &PrometheusObserver{
		iterations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "profile_sum",
			Name:      "newton_iterations",
			Help:      "Newton iterations needed per profile evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"outcome"}),
		expansions: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "profile_sum",
			Name:      "bracket_expansions",
			Help:      "Geometric bracket expansions per sigma search.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"direction"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile_sum",
			Name:      "failures_total",
			Help:      "Failed profile operations by operation and reason.",
		}, []string{"op", "reason"}),
	}

	for _, c := range []prometheus.Collector{o.iterations, o.expansions, o.failures} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func (o *PrometheusObserver) SolveFinished(iterations int, err error) {
	outcome := "converged"
	if err != nil {
		outcome = "failed"
		o.failures.WithLabelValues("evaluate", reason(err)).Inc()
	}
	o.iterations.WithLabelValues(outcome).Observe(float64(iterations))
}

func (o *PrometheusObserver) SigmaFinished(direction, expansions int, err error) {
	dir := "plus"
	if direction < 0 {
		dir = "minus"
	}
	if err != nil {
		o.failures.WithLabelValues("sigma_"+dir, reason(err)).Inc()
		return
	}
	o.expansions.WithLabelValues(dir).Observe(float64(expansions))
}

// reason maps an error onto a bounded label value.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNoConvergence):
		return "no_convergence"
	case errors.Is(err, ErrNotBracketed):
		return "not_bracketed"
	case errors.Is(err, ErrInconsistent):
		return "inconsistent"
	case errors.Is(err, ErrOutOfDomain):
		return "out_of_domain"
	default:
		return "other"
	}
}
