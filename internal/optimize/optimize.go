// Package optimize wraps gonum's Nelder-Mead in a bounded, budgeted minimizer.
//
// Minimize is a pure function: no state survives between calls and the same
// inputs produce the same result, which keeps model fitting deterministic and
// safely parallelizable. The caller decides whether a non-converged result is
// fatal.
package optimize

import (
	"fmt"
	"math"
	"time"

	gopt "gonum.org/v1/gonum/optimize"
)

// Settings bounds the search. Zero values select the defaults.
type Settings struct {
	MaxIterations int           // iteration budget; default 500
	MaxRuntime    time.Duration // wall-time budget; 0 means unlimited
	Tolerance     float64       // absolute function-value convergence; default 1e-8
}

// Bounds holds per-dimension box constraints. Min and Max must match the
// initial point in length, with Min[i] < Max[i].
type Bounds struct {
	Min []float64
	Max []float64
}

// Result reports the best point found.
type Result struct {
	X          []float64
	F          float64
	Converged  bool
	Iterations int
}

// Minimize searches for the minimum of objective inside bounds starting from
// x0, using Nelder-Mead on a sigmoid-transformed unconstrained space so every
// evaluated point respects the box. A nil bounds runs unconstrained.
func Minimize(objective func([]float64) float64, x0 []float64, bounds *Bounds, s Settings) (*Result, error) {
	if len(x0) == 0 {
		return nil, fmt.Errorf("optimize: empty initial point")
	}
	if bounds != nil && (len(bounds.Min) != len(x0) || len(bounds.Max) != len(x0)) {
		return nil, fmt.Errorf("optimize: bounds dimension %d/%d does not match point dimension %d",
			len(bounds.Min), len(bounds.Max), len(x0))
	}
	if s.MaxIterations <= 0 {
		s.MaxIterations = 500
	}
	if s.Tolerance <= 0 {
		s.Tolerance = 1e-8
	}

	transform := newBoxTransform(bounds)

	problem := gopt.Problem{
		Func: func(z []float64) float64 {
			return objective(transform.toBox(z))
		},
	}

	settings := &gopt.Settings{
		MajorIterations: s.MaxIterations,
		Runtime:         s.MaxRuntime,
		Converger: &gopt.FunctionConverge{
			Absolute:   s.Tolerance,
			Iterations: 50,
		},
	}

	z0 := transform.fromBox(x0)
	res, err := gopt.Minimize(problem, z0, settings, &gopt.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	converged := res.Status == gopt.FunctionConvergence ||
		res.Status == gopt.Success ||
		res.Status == gopt.FunctionThreshold

	return &Result{
		X:          transform.toBox(res.X),
		F:          res.F,
		Converged:  converged,
		Iterations: res.Stats.MajorIterations,
	}, nil
}

// boxTransform maps between the unconstrained search space and the bounded
// parameter space with a scaled sigmoid per dimension.
type boxTransform struct {
	bounds *Bounds
}

func newBoxTransform(bounds *Bounds) *boxTransform {
	return &boxTransform{bounds: bounds}
}

func (t *boxTransform) toBox(z []float64) []float64 {
	x := make([]float64, len(z))
	if t.bounds == nil {
		copy(x, z)
		return x
	}
	for i, v := range z {
		lo, hi := t.bounds.Min[i], t.bounds.Max[i]
		x[i] = lo + (hi-lo)*sigmoid(v)
	}
	return x
}

func (t *boxTransform) fromBox(x []float64) []float64 {
	z := make([]float64, len(x))
	if t.bounds == nil {
		copy(z, x)
		return z
	}
	for i, v := range x {
		lo, hi := t.bounds.Min[i], t.bounds.Max[i]
		u := (v - lo) / (hi - lo)
		// Keep the starting point away from the saturated tails.
		u = math.Min(math.Max(u, 1e-6), 1-1e-6)
		z[i] = math.Log(u / (1 - u))
	}
	return z
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
