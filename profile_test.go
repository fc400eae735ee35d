package asymerr

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func poisson(t *testing.T, n float64) *PoissonCurve {
	t.Helper()
	c, err := NewPoissonCurve(n)
	if err != nil {
		t.Fatalf("NewPoissonCurve(%g): %v", n, err)
	}
	return c
}

func brokenParabola(t *testing.T, location, sp, sm float64) *BrokenParabola {
	t.Helper()
	c, err := NewBrokenParabola(location, sp, sm)
	if err != nil {
		t.Fatalf("NewBrokenParabola(%g, %g, %g): %v", location, sp, sm, err)
	}
	return c
}

func newProfile(t *testing.T, cfg Config, curves ...Curve) *ProfileSum {
	t.Helper()
	p, err := NewProfileSum(curves, cfg)
	if err != nil {
		t.Fatalf("NewProfileSum: %v", err)
	}
	return p
}

// mixedCurves has different shapes on each side and one non-quadratic term.
func mixedCurves(t *testing.T) []Curve {
	return []Curve{
		poisson(t, 6),
		brokenParabola(t, 1, 1.0, 0.8),
		brokenParabola(t, 2, 1.5, 1.2),
	}
}

func TestNewProfileSum_InvalidConfig(t *testing.T) {
	c := poisson(t, 5)

	tests := []struct {
		name   string
		curves []Curve
		mutate func(*Config)
	}{
		{"no curves", nil, func(*Config) {}},
		{"nil curve", []Curve{c, nil}, func(*Config) {}},
		{"zero damping", []Curve{c}, func(cfg *Config) { cfg.Damping = 0 }},
		{"damping above one", []Curve{c}, func(cfg *Config) { cfg.Damping = 1.5 }},
		{"negative eps", []Curve{c}, func(cfg *Config) { cfg.Eps = -1e-10 }},
		{"zero iterations", []Curve{c}, func(cfg *Config) { cfg.MaxIterations = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewProfileSum(tt.curves, cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestNewProfileSum_Defaults(t *testing.T) {
	p := newProfile(t, DefaultConfig(), poisson(t, 4), poisson(t, 5))

	cfg := p.Config()
	if cfg.Eps != DefaultEps(2) {
		t.Errorf("eps = %g, want %g", cfg.Eps, DefaultEps(2))
	}
	if cfg.Damping != 1 || cfg.MaxIterations != 2000 {
		t.Errorf("damping = %g, max iterations = %d; want 1, 2000", cfg.Damping, cfg.MaxIterations)
	}
	if cfg.Logger == nil || cfg.Observer == nil {
		t.Errorf("logger and observer must be filled in")
	}
	if p.Argmax() != 9 {
		t.Errorf("argmax = %g, want 9", p.Argmax())
	}
	want := 4*math.Log(4) - 4 + 5*math.Log(5) - 5
	if math.Abs(p.Maximum()-want) > 1e-12 {
		t.Errorf("maximum = %.15g, want %.15g", p.Maximum(), want)
	}
}

func TestEvaluate_SingleCurve(t *testing.T) {
	c := poisson(t, 5)
	p := newProfile(t, DefaultConfig(), c)
	top, _ := c.Value(c.Argmax())

	for _, x := range []float64{0.5, 3, 4.5, 5, 7, 12} {
		got, err := p.Evaluate(x)
		if err != nil {
			t.Fatalf("Evaluate(%g): %v", x, err)
		}
		v, _ := c.Value(x)
		if got != v-top {
			t.Errorf("Evaluate(%g) = %.15g, want %.15g", x, got, v-top)
		}
	}

	t.Logf("✓ Single curve profile equals the curve itself")
}

func TestEvaluate_Baseline(t *testing.T) {
	combos := map[string][]Curve{
		"single":    {poisson(t, 5)},
		"poisson":   {poisson(t, 4), poisson(t, 5)},
		"mixed":     mixedCurves(t),
		"identical": {brokenParabola(t, 0, 1.2, 0.8), brokenParabola(t, 0, 1.2, 0.8)},
	}

	for name, curves := range combos {
		t.Run(name, func(t *testing.T) {
			AssertBaseline(t, newProfile(t, DefaultConfig(), curves...))
		})
	}
}

// The profile of a sum of Poisson means is the Poisson curve of the total count.
func TestEvaluate_PoissonSumIsPoisson(t *testing.T) {
	tests := []struct {
		name   string
		counts []float64
	}{
		{"4+5", []float64{4, 5}},
		{"3+6", []float64{3, 6}},
		{"3+3+3", []float64{3, 3, 3}},
		{"1+8", []float64{1, 8}},
	}

	total := poisson(t, 9)
	top, _ := total.Value(9)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curves := make([]Curve, len(tt.counts))
			for i, n := range tt.counts {
				curves[i] = poisson(t, n)
			}
			p := newProfile(t, DefaultConfig(), curves...)

			for _, s := range []float64{6, 7, 8, 8.5, 9.5, 10, 11, 12} {
				got, err := p.Evaluate(s)
				if err != nil {
					t.Fatalf("Evaluate(%g): %v", s, err)
				}
				v, _ := total.Value(s)
				if math.Abs(got-(v-top)) > 1e-10 {
					t.Errorf("Evaluate(%g) = %.12f, want %.12f", s, got, v-top)
				}
			}
		})
	}
}

func TestEvaluate_Memo(t *testing.T) {
	p := newProfile(t, DefaultConfig(), mixedCurves(t)...)

	x := p.Argmax() + 1.3
	first, err := p.Evaluate(x)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	second, err := p.Evaluate(x)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if first != second {
		t.Errorf("repeated Evaluate: %.17g then %.17g", first, second)
	}

	if _, err := p.Evaluate(x - 2.1); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	third, err := p.Evaluate(x)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if third != first {
		t.Errorf("Evaluate after another point: %.17g, want %.17g", third, first)
	}

	sum := 0.0
	for _, a := range p.last.args {
		sum += a
	}
	if !p.equal(sum, p.last.sum) {
		t.Errorf("memoized arguments sum to %.15g, want %.15g", sum, p.last.sum)
	}
}

func TestEvaluate_FailureKeepsMemo(t *testing.T) {
	p := newProfile(t, DefaultConfig(), poisson(t, 5))

	good, err := p.Evaluate(7)
	if err != nil {
		t.Fatalf("Evaluate(7): %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := p.Evaluate(-1); !errors.Is(err, ErrOutOfDomain) {
			t.Fatalf("Evaluate(-1) attempt %d: err = %v, want ErrOutOfDomain", i, err)
		}
	}

	if p.last.sum != 7 {
		t.Errorf("memo sum = %g after failure, want 7", p.last.sum)
	}
	again, err := p.Evaluate(7)
	if err != nil || again != good {
		t.Errorf("Evaluate(7) after failure = %g, %v; want %g", again, err, good)
	}
}

func TestEvaluate_NaN(t *testing.T) {
	p := newProfile(t, DefaultConfig(), poisson(t, 4), poisson(t, 5))
	if _, err := p.Evaluate(math.NaN()); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestEvaluate_ConvergenceFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	p := newProfile(t, cfg, poisson(t, 4), brokenParabola(t, 5, 1, 1))

	_, err := p.Evaluate(12)
	if !errors.Is(err, ErrNoConvergence) {
		t.Fatalf("err = %v, want ErrNoConvergence", err)
	}

	var convErr *ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("err = %T, want *ConvergenceError", err)
	}
	if convErr.MaxIterations != 1 || convErr.Damping != 1 || convErr.Eps != DefaultEps(2) {
		t.Errorf("convergence error reports %+v", convErr)
	}
	if !strings.Contains(err.Error(), "max iterations = 1") {
		t.Errorf("message %q does not name the iteration cap", err.Error())
	}

	t.Logf("✓ Convergence failure: %v", err)
}

func TestEvaluate_DampingReachesSameSolution(t *testing.T) {
	full := newProfile(t, DefaultConfig(), poisson(t, 4), brokenParabola(t, 5, 1, 1))

	cfg := DefaultConfig()
	cfg.Damping = 0.5
	damped := newProfile(t, cfg, poisson(t, 4), brokenParabola(t, 5, 1, 1))

	for _, s := range []float64{7, 8, 10, 12} {
		want, err := full.Evaluate(s)
		if err != nil {
			t.Fatalf("full step Evaluate(%g): %v", s, err)
		}
		got, err := damped.Evaluate(s)
		if err != nil {
			t.Fatalf("damped Evaluate(%g): %v", s, err)
		}
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("S=%g: damped %.12f, full %.12f", s, got, want)
		}
	}
}

func TestEvaluateWarm_MatchesCold(t *testing.T) {
	cold := newProfile(t, DefaultConfig(), mixedCurves(t)...)
	warm := newProfile(t, DefaultConfig(), mixedCurves(t)...)

	// Consecutive points sweep up and skip the flat top, where the
	// multiplier is too close to zero for the relative tolerance.
	for _, d := range []float64{-3, -2.5, -2, -1.5, -1, 1, 1.5, 2, 2.5, 3} {
		s := warm.Argmax() + d
		want, err := cold.Evaluate(s)
		if err != nil {
			t.Fatalf("Evaluate(%g): %v", s, err)
		}
		got, err := warm.EvaluateWarm(s)
		if err != nil {
			t.Fatalf("EvaluateWarm(%g): %v", s, err)
		}
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("S=%g: warm %.12f, cold %.12f", s, got, want)
		}
	}
}

func TestProfile_Unimodal(t *testing.T) {
	p := newProfile(t, DefaultConfig(), mixedCurves(t)...)
	AssertUnimodal(t, p, DefaultAssertionConfig())
}

func TestEvaluate_ReturnToArgmax(t *testing.T) {
	p := newProfile(t, DefaultConfig(), mixedCurves(t)...)

	if _, err := p.Evaluate(p.Argmax() + 2); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	got, err := p.EvaluateWarm(p.Argmax())
	if err != nil || got != 0 {
		t.Errorf("EvaluateWarm(argmax) = %g, %v; want exactly 0", got, err)
	}
	for i, a := range p.last.args {
		if a != p.argmaxes[i] {
			t.Errorf("memo argument %d = %g, want argmax %g", i, a, p.argmaxes[i])
		}
	}
}
