package asymerr

import (
	"fmt"
	"math"
)

// MachineEpsilon is the spacing between 1.0 and the next float64.
const MachineEpsilon = 0x1p-52

// maxBisections caps FindRoot.
const maxBisections = 2000

// Func is a fallible scalar function of one real argument.
type Func func(x float64) (float64, error)

// FindRoot solves f(x) = rhs for a monotonic f by bisection on [x0, x1].
//
// The root must be strictly bracketed: rhs has to lie between f(x0) and
// f(x1), in either order. Iteration stops once the relative interval
// width satisfies
//
//	|x0 - x1| / (|xmid| + sqrt(tol)) <= tol
//
// Errors returned by f are passed through unchanged.
func FindRoot(f Func, rhs, x0, x1, tol float64) (float64, error) {
	if !(tol > MachineEpsilon) {
		return 0, fmt.Errorf("%w: tolerance %g is too small", ErrInvalidConfig, tol)
	}

	f0, err := f(x0)
	if err != nil {
		return 0, err
	}
	if f0 == rhs {
		return x0, nil
	}
	f1, err := f(x1)
	if err != nil {
		return 0, err
	}
	if f1 == rhs {
		return x1, nil
	}

	increasing := f0 < rhs && rhs < f1
	decreasing := f0 > rhs && rhs > f1
	if !increasing && !decreasing {
		return 0, fmt.Errorf("%w: f(%g) = %g, f(%g) = %g, target %g",
			ErrNotBracketed, x0, f0, x1, f1, rhs)
	}

	sqrtol := math.Sqrt(tol)
	for i := 0; i < maxBisections; i++ {
		xmid := (x0 + x1) / 2
		fmid, err := f(xmid)
		if err != nil {
			return 0, err
		}
		if fmid == rhs {
			return xmid, nil
		}
		if math.Abs(x0-x1)/(math.Abs(xmid)+sqrtol) <= tol {
			return xmid, nil
		}

		// Keep the half whose endpoints still straddle rhs.
		if (fmid > rhs) == increasing {
			x1 = xmid
		} else {
			x0 = xmid
		}
	}

	return 0, fmt.Errorf("bisection after %d steps: %w", maxBisections, ErrNoConvergence)
}
