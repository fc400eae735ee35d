package asymerr

import (
	"fmt"
	"log/slog"
	"math"
)

// Config controls the ProfileSum solver.
type Config struct {
	Damping       float64      // Fraction of the Newton step applied, in (0, 1]
	Eps           float64      // Relative tolerance (0 = 64·sqrt(N)·machine epsilon)
	MaxIterations int          // Cap for the Newton solve and the sigma bracket search
	Logger        *slog.Logger // nil = slog.Default()
	Observer      Observer     // Optional solver instrumentation
}

// DefaultConfig returns full Newton steps, a derived tolerance and a
// 2000 iteration cap.
func DefaultConfig() Config {
	return Config{
		Damping:       1.0,
		Eps:           0,
		MaxIterations: 2000,
	}
}

// DefaultEps is the tolerance used for n curves when Config.Eps is zero.
func DefaultEps(n int) float64 {
	return 64.0 * math.Sqrt(float64(n)) * MachineEpsilon
}

// resolve validates cfg and fills in the derived defaults for n curves.
func (cfg Config) resolve(n int) (Config, error) {
	if !(cfg.Damping > 0 && cfg.Damping <= 1) {
		return cfg, fmt.Errorf("%w: damping %g is not in (0, 1]", ErrInvalidConfig, cfg.Damping)
	}
	if cfg.Eps < 0 || math.IsNaN(cfg.Eps) {
		return cfg, fmt.Errorf("%w: eps %g must be positive", ErrInvalidConfig, cfg.Eps)
	}
	if cfg.MaxIterations <= 0 {
		return cfg, fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidConfig, cfg.MaxIterations)
	}

	if cfg.Eps == 0 {
		cfg.Eps = DefaultEps(n)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	return cfg, nil
}
