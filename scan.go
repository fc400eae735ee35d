package asymerr

import (
	"fmt"
	"math"
)

// ScanPoint is one sample of a scanned function.
type ScanPoint struct {
	X float64
	Y float64
}

// ScanSummary describes the extremes found by a scan.
type ScanSummary struct {
	N      int     // Number of points
	ArgMax float64 // Location of the largest sample
	Max    float64 // Largest sample
	ArgMin float64 // Location of the smallest sample
	Min    float64 // Smallest sample
}

// ScanRange samples f at n equidistant points from xmin to xmax. The last
// point is pinned to xmax exactly, whatever the rounding of the step.
func ScanRange(f Func, xmin, xmax float64, n int) ([]ScanPoint, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative number of scan points %d", ErrInvalidArgument, n)
	}

	step := xmax - xmin
	if n > 1 {
		step /= float64(n - 1)
	}

	points := make([]ScanPoint, n)
	for i := range points {
		x := xmin + float64(i)*step
		if i > 0 && i == n-1 {
			x = xmax
		}
		y, err := f(x)
		if err != nil {
			return nil, fmt.Errorf("scan at x=%g: %w", x, err)
		}
		points[i] = ScanPoint{X: x, Y: y}
	}
	return points, nil
}

// ScanPoints evaluates f at every coordinate in xs.
func ScanPoints(f Func, xs []float64) ([]float64, error) {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		y, err := f(x)
		if err != nil {
			return nil, fmt.Errorf("scan at x=%g: %w", x, err)
		}
		ys[i] = y
	}
	return ys, nil
}

// Summarize finds the extremes of a scan.
func Summarize(points []ScanPoint) ScanSummary {
	if len(points) == 0 {
		return ScanSummary{Max: math.NaN(), Min: math.NaN(), ArgMax: math.NaN(), ArgMin: math.NaN()}
	}

	s := ScanSummary{
		N:      len(points),
		ArgMax: points[0].X,
		Max:    points[0].Y,
		ArgMin: points[0].X,
		Min:    points[0].Y,
	}
	for _, p := range points[1:] {
		if p.Y > s.Max {
			s.ArgMax, s.Max = p.X, p.Y
		}
		if p.Y < s.Min {
			s.ArgMin, s.Min = p.X, p.Y
		}
	}
	return s
}

// CurveValue adapts a curve's log-likelihood for scanning.
func CurveValue(c Curve) Func { return c.Value }

// CurveDerivative adapts a curve's first derivative for scanning.
func CurveDerivative(c Curve) Func { return c.Derivative }

// CurveSecondDerivative adapts a curve's second derivative for scanning.
func CurveSecondDerivative(c Curve) Func { return c.SecondDerivative }

// ProfileValue scans a profile with warm starts, which is what makes
// consecutive close points cheap.
func ProfileValue(p *ProfileSum) Func { return p.EvaluateWarm }
