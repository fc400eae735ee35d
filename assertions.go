package asymerr

import (
	"fmt"
	"math"
	"testing"
)

// AssertionConfig contains thresholds for profile properties.
type AssertionConfig struct {
	// Log-likelihood drop defining the sigmas under test
	Delta float64

	// Absolute tolerance on log-likelihood values
	Tolerance float64

	// Number of grid points on each side of the argmax
	GridPoints int

	// Grid half-width in units of the sigma on that side
	Span float64
}

// DefaultAssertionConfig returns conservative thresholds.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		Delta:      DefaultDeltaLogLikelihood,
		Tolerance:  1e-9,
		GridPoints: 6,
		Span:       1.5,
	}
}

// AssertBaseline verifies the profile is exactly zero at its argmax.
//
// Mathematical property:
//
//	L(Σ argmax_i) - Σ max_i = 0
func AssertBaseline(t *testing.T, p *ProfileSum) {
	t.Helper()

	v, err := p.Evaluate(p.Argmax())
	if err != nil {
		t.Fatalf("Failed to evaluate profile at argmax: %v", err)
	}
	if v != 0 {
		t.Errorf("Profile at argmax %.6g is %g, want exactly 0", p.Argmax(), v)
	}

	t.Logf("✓ Baseline: profile(%.6g) = 0", p.Argmax())
}

// AssertUnimodal verifies the profile never increases while moving away
// from the argmax, on a grid reaching Span sigmas on each side.
//
// Mathematical property:
//
//	|S₁ - S*| < |S₂ - S*| ⇒ L(S₁) ≥ L(S₂)
func AssertUnimodal(t *testing.T, p *ProfileSum, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	for _, direction := range []int{1, -1} {
		sigma, err := directedSigmaOf(p, cfg.Delta, direction)
		if err != nil {
			t.Fatalf("Failed to compute sigma (direction %+d): %v", direction, err)
		}

		step := cfg.Span * sigma / float64(cfg.GridPoints)
		prev := 0.0
		for k := 1; k <= cfg.GridPoints; k++ {
			x := p.Argmax() + float64(direction)*float64(k)*step
			v, err := p.Evaluate(x)
			if err != nil {
				t.Fatalf("Failed to evaluate profile at %.6g: %v", x, err)
			}
			if v > prev+cfg.Tolerance {
				failures = append(failures, fmt.Sprintf(
					"  S=%.6g: %.9g > %.9g (increasing away from argmax)", x, v, prev))
			}
			prev = v
		}
	}

	if len(failures) > 0 {
		t.Errorf("Profile is not unimodal:\n%s", failures)
	}

	t.Logf("✓ Unimodal: %d points per side up to %.1f sigma", cfg.GridPoints, cfg.Span)
}

// AssertSigmaRoundTrip verifies that the profile evaluated at the
// reported sigmas has dropped by exactly Delta.
//
// Mathematical property:
//
//	L(S* + σ₊) = L(S* - σ₋) = -Δ
func AssertSigmaRoundTrip(t *testing.T, p *ProfileSum, cfg AssertionConfig) {
	t.Helper()

	for _, direction := range []int{1, -1} {
		sigma, err := directedSigmaOf(p, cfg.Delta, direction)
		if err != nil {
			t.Fatalf("Failed to compute sigma (direction %+d): %v", direction, err)
		}

		x := p.Argmax() + float64(direction)*sigma
		v, err := p.Evaluate(x)
		if err != nil {
			t.Fatalf("Failed to evaluate profile at %.6g: %v", x, err)
		}
		if math.Abs(v+cfg.Delta) > cfg.Tolerance {
			t.Errorf("Round trip (direction %+d): profile(%.9g) = %.12g, want %.12g ± %g",
				direction, x, v, -cfg.Delta, cfg.Tolerance)
		}

		t.Logf("✓ Round trip (direction %+d): sigma = %.6f", direction, sigma)
	}
}

// AssertProfile runs all profile assertions with default config.
func AssertProfile(t *testing.T, p *ProfileSum) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("Baseline", func(t *testing.T) {
		AssertBaseline(t, p)
	})

	t.Run("Unimodal", func(t *testing.T) {
		AssertUnimodal(t, p, cfg)
	})

	t.Run("SigmaRoundTrip", func(t *testing.T) {
		AssertSigmaRoundTrip(t, p, cfg)
	})
}

// PrintProfile outputs a profile scan to the test log.
func PrintProfile(t *testing.T, p *ProfileSum, xmin, xmax float64, n int) {
	t.Helper()

	points, err := ScanRange(ProfileValue(p), xmin, xmax, n)
	if err != nil {
		t.Fatalf("Failed to scan profile: %v", err)
	}

	t.Logf("\n=== Profile of a sum of %d curves ===", p.Len())
	t.Logf("  argmax = %.6f, maximum = %.6f", p.Argmax(), p.Maximum())
	t.Logf("  S            ΔlnL")
	t.Logf("  -----------  ------------")
	for _, pt := range points {
		t.Logf("  %11.5f  %12.6f", pt.X, pt.Y)
	}
}

func directedSigmaOf(p *ProfileSum, delta float64, direction int) (float64, error) {
	if direction > 0 {
		return p.SigmaPlus(delta)
	}
	return p.SigmaMinus(delta)
}
