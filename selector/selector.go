package selector

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/arima"
	"github.com/forecastkit/forecastkit/ets"
	"github.com/forecastkit/forecastkit/timeseries"
)

// Candidate names one model configuration to try. Exactly one of ETS or
// Order must be set; Seasonal optionally extends Order.
type Candidate struct {
	ETS      *ets.Config
	Order    *arima.Order
	Seasonal *arima.SeasonalOrder
}

// Name returns a short label for logs and summaries.
func (c Candidate) Name() string {
	if c.ETS != nil {
		return c.ETS.Name()
	}
	if c.Order != nil {
		if c.Seasonal != nil {
			return fmt.Sprintf("ARIMA(%d,%d,%d)(%d,%d,%d)[%d]",
				c.Order.P, c.Order.D, c.Order.Q,
				c.Seasonal.P, c.Seasonal.D, c.Seasonal.Q, c.Seasonal.Period)
		}
		return fmt.Sprintf("ARIMA(%d,%d,%d)", c.Order.P, c.Order.D, c.Order.Q)
	}
	return "invalid"
}

// nParams counts the estimated coefficients of the candidate, used to break
// AICc ties in favor of the simpler model.
func (c Candidate) nParams() int {
	if c.ETS != nil {
		k := 1 // alpha
		if c.ETS.Trend != ets.None {
			k++
		}
		if c.ETS.Damped {
			k++
		}
		if c.ETS.Seasonal != ets.None {
			k++
		}
		return k
	}
	if c.Order != nil {
		k := c.Order.P + c.Order.Q
		if c.Seasonal != nil {
			k += c.Seasonal.P + c.Seasonal.Q
		}
		return k
	}
	return 0
}

// Config controls the model search.
type Config struct {
	// Logger receives per-candidate trace output. Nil disables logging.
	Logger *zerolog.Logger

	// Parallelism caps concurrent fits; default is the CPU count.
	Parallelism int
}

// Result is the winning model with its score. Exactly one of ETS or ARIMA
// is non-nil.
type Result struct {
	Candidate Candidate
	ETS       *ets.Model
	ARIMA     *arima.Model
	AICc      float64
}

// Forecast delegates to the winning model.
func (r *Result) Forecast(horizon int, confidence float64) (*forecastkit.Forecast, error) {
	if r.ETS != nil {
		return r.ETS.Forecast(horizon, confidence)
	}
	return r.ARIMA.Forecast(horizon, confidence)
}

// Name returns the winning candidate's label.
func (r *Result) Name() string { return r.Candidate.Name() }

// Select fits every candidate against the series concurrently and returns the
// one with the lowest AICc. Candidates that fail to fit or to converge are
// skipped; when none survives, the errors are folded into an
// ErrNoViableModel. Ties on AICc go to the candidate with fewer estimated
// parameters.
func Select(series *timeseries.Series, candidates []Candidate, cfg Config) (*Result, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates given: %w", forecastkit.ErrNoViableModel)
	}

	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	type outcome struct {
		result *Result
		err    error
	}
	outcomes := make([]outcome, len(candidates))

	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup
	for i, cand := range candidates {
		wg.Add(1)
		go func(i int, cand Candidate) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res, err := fitCandidate(series, cand)
			outcomes[i] = outcome{result: res, err: err}
			if err != nil {
				logger.Debug().
					Str("candidate", cand.Name()).
					Err(err).
					Msg("candidate rejected")
				return
			}
			logger.Debug().
				Str("candidate", cand.Name()).
				Float64("aicc", res.AICc).
				Msg("candidate fitted")
		}(i, cand)
	}
	wg.Wait()

	var best *Result
	var firstErr error
	for _, o := range outcomes {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		if best == nil || better(o.result, best) {
			best = o.result
		}
	}
	if best == nil {
		return nil, fmt.Errorf("all %d candidates failed (first: %v): %w",
			len(candidates), firstErr, forecastkit.ErrNoViableModel)
	}

	logger.Info().
		Str("selected", best.Name()).
		Float64("aicc", best.AICc).
		Msg("model selected")
	return best, nil
}

// better prefers lower AICc, breaking near-ties toward fewer parameters.
func better(a, b *Result) bool {
	const tieEps = 1e-9
	diff := a.AICc - b.AICc
	if diff < -tieEps {
		return true
	}
	if diff > tieEps {
		return false
	}
	return a.Candidate.nParams() < b.Candidate.nParams()
}

// fitCandidate fits one candidate and packages its score.
func fitCandidate(series *timeseries.Series, cand Candidate) (*Result, error) {
	switch {
	case cand.ETS != nil:
		model, err := ets.Fit(series, *cand.ETS)
		if err != nil {
			return nil, err
		}
		return &Result{Candidate: cand, ETS: model, AICc: model.AICc}, nil

	case cand.Order != nil:
		var model *arima.Model
		if cand.Seasonal != nil {
			model = arima.NewSeasonal(cand.Order.P, cand.Order.D, cand.Order.Q,
				cand.Seasonal.P, cand.Seasonal.D, cand.Seasonal.Q, cand.Seasonal.Period)
		} else {
			model = arima.New(cand.Order.P, cand.Order.D, cand.Order.Q)
		}
		if err := model.Fit(series); err != nil {
			return nil, err
		}
		return &Result{Candidate: cand, ARIMA: model, AICc: model.AICc}, nil

	default:
		return nil, fmt.Errorf("candidate has neither an ETS config nor ARIMA orders: %w",
			forecastkit.ErrInvalidConfiguration)
	}
}

// DefaultCandidates returns a standard slate covering simple, trended, and
// (when period >= 2) seasonal forms of both model families.
func DefaultCandidates(period int) []Candidate {
	etsCfg := func(e, t, s ets.Component, damped bool) *ets.Config {
		return &ets.Config{Error: e, Trend: t, Damped: damped, Seasonal: s, Period: period}
	}
	order := func(p, d, q int) *arima.Order { return &arima.Order{P: p, D: d, Q: q} }

	cands := []Candidate{
		{ETS: etsCfg(ets.Additive, ets.None, ets.None, false)},
		{ETS: etsCfg(ets.Additive, ets.Additive, ets.None, false)},
		{ETS: etsCfg(ets.Additive, ets.Additive, ets.None, true)},
		{Order: order(0, 1, 1)},
		{Order: order(1, 1, 0)},
		{Order: order(1, 1, 1)},
		{Order: order(2, 1, 2)},
	}

	if period >= 2 {
		seasonal := func(p, d, q int) *arima.SeasonalOrder {
			return &arima.SeasonalOrder{P: p, D: d, Q: q, Period: period}
		}
		cands = append(cands,
			Candidate{ETS: etsCfg(ets.Additive, ets.None, ets.Additive, false)},
			Candidate{ETS: etsCfg(ets.Additive, ets.Additive, ets.Additive, false)},
			Candidate{ETS: etsCfg(ets.Multiplicative, ets.Additive, ets.Multiplicative, false)},
			Candidate{Order: order(0, 1, 1), Seasonal: seasonal(0, 1, 1)},
			Candidate{Order: order(1, 1, 0), Seasonal: seasonal(1, 1, 0)},
			Candidate{Order: order(1, 1, 1), Seasonal: seasonal(0, 1, 1)},
		)
	}
	return cands
}
