package asymerr

import "sync"

// LockedProfileSum serializes access to a ProfileSum so that it can be
// shared between goroutines. Every query mutates the memoized solution,
// so reads take the exclusive lock as well.
type LockedProfileSum struct {
	mu sync.Mutex
	p  *ProfileSum
}

// NewLockedProfileSum builds a ProfileSum and wraps it.
func NewLockedProfileSum(curves []Curve, cfg Config) (*LockedProfileSum, error) {
	p, err := NewProfileSum(curves, cfg)
	if err != nil {
		return nil, err
	}
	return &LockedProfileSum{p: p}, nil
}

func (l *LockedProfileSum) Evaluate(sum float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Evaluate(sum)
}

func (l *LockedProfileSum) EvaluateWarm(sum float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.EvaluateWarm(sum)
}

func (l *LockedProfileSum) SigmaPlus(delta float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.SigmaPlus(delta)
}

func (l *LockedProfileSum) SigmaMinus(delta float64) (float64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.SigmaMinus(delta)
}

// Argmax and Maximum are fixed at construction and need no lock.
func (l *LockedProfileSum) Argmax() float64 { return l.p.Argmax() }

func (l *LockedProfileSum) Maximum() float64 { return l.p.Maximum() }
