package ets

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/forecastkit/forecastkit"
)

// fitRecord is the YAML shape of a persisted fit: model form, smoothing
// parameters, and the terminal state needed to resume forecasting.
type fitRecord struct {
	Error    string `yaml:"error"`
	Trend    string `yaml:"trend"`
	Damped   bool   `yaml:"damped,omitempty"`
	Seasonal string `yaml:"seasonal"`
	Period   int    `yaml:"period,omitempty"`

	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta,omitempty"`
	Gamma float64 `yaml:"gamma,omitempty"`
	Phi   float64 `yaml:"phi,omitempty"`

	InitialLevel    float64   `yaml:"initial_level"`
	InitialTrend    float64   `yaml:"initial_trend,omitempty"`
	InitialSeasonal []float64 `yaml:"initial_seasonal,omitempty"`

	Level         float64   `yaml:"level"`
	TrendState    float64   `yaml:"trend_state,omitempty"`
	SeasonalState []float64 `yaml:"seasonal_state,omitempty"`
	Observations  int       `yaml:"observations"`

	Variance float64 `yaml:"variance"`
	SSE      float64 `yaml:"sse"`
	LogLik   float64 `yaml:"loglik"`
	AIC      float64 `yaml:"aic"`
	AICc     float64 `yaml:"aicc"`
	BIC      float64 `yaml:"bic"`
}

// MarshalFit encodes the fitted model as YAML. Only fitted models can be
// persisted.
func (m *Model) MarshalFit() ([]byte, error) {
	if !m.fitted {
		return nil, fmt.Errorf("cannot persist an unfitted model: %w",
			forecastkit.ErrInvalidConfiguration)
	}

	rec := fitRecord{
		Error:    m.Config.Error.String(),
		Trend:    m.Config.Trend.String(),
		Damped:   m.Config.Damped,
		Seasonal: m.Config.Seasonal.String(),
		Period:   m.Config.Period,

		Alpha: m.Alpha,
		Beta:  m.Beta,
		Gamma: m.Gamma,
		Phi:   m.Phi,

		InitialLevel:    m.InitialLevel,
		InitialTrend:    m.InitialTrend,
		InitialSeasonal: m.InitialSeasonal,

		Level:         m.level,
		TrendState:    m.trend,
		SeasonalState: m.seasonal,
		Observations:  m.n,

		Variance: m.Variance,
		SSE:      m.SSE,
		LogLik:   m.LogLik,
		AIC:      m.AIC,
		AICc:     m.AICc,
		BIC:      m.BIC,
	}
	return yaml.Marshal(rec)
}

// UnmarshalFit decodes a persisted fit. The restored model carries the full
// terminal state and forecasts identically to the original; in-sample
// residuals and fitted values are not retained across the round trip.
func UnmarshalFit(data []byte) (*Model, error) {
	var rec fitRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode fit: %v: %w", err, forecastkit.ErrInvalidConfiguration)
	}

	errComp, err := parseComponent(rec.Error)
	if err != nil {
		return nil, err
	}
	trendComp, err := parseComponent(rec.Trend)
	if err != nil {
		return nil, err
	}
	seasComp, err := parseComponent(rec.Seasonal)
	if err != nil {
		return nil, err
	}

	cfg := Config{
		Error:    errComp,
		Trend:    trendComp,
		Damped:   rec.Damped,
		Seasonal: seasComp,
		Period:   rec.Period,
	}
	if cfg.Seasonal != None {
		if cfg.Period < 2 {
			return nil, fmt.Errorf("seasonal fit without a period: %w",
				forecastkit.ErrInvalidConfiguration)
		}
		if len(rec.SeasonalState) != cfg.Period {
			return nil, fmt.Errorf("seasonal state has %d entries, want %d: %w",
				len(rec.SeasonalState), cfg.Period, forecastkit.ErrInvalidConfiguration)
		}
	}
	if rec.Observations < 1 {
		return nil, fmt.Errorf("fit has no observation count: %w",
			forecastkit.ErrInvalidConfiguration)
	}

	phi := rec.Phi
	if phi == 0 {
		phi = 1
	}

	m := &Model{
		Config: cfg,

		Alpha: rec.Alpha,
		Beta:  rec.Beta,
		Gamma: rec.Gamma,
		Phi:   phi,

		InitialLevel:    rec.InitialLevel,
		InitialTrend:    rec.InitialTrend,
		InitialSeasonal: rec.InitialSeasonal,

		SSE:      rec.SSE,
		Variance: rec.Variance,
		LogLik:   rec.LogLik,
		AIC:      rec.AIC,
		AICc:     rec.AICc,
		BIC:      rec.BIC,

		Converged: true,
		fitted:    true,
		n:         rec.Observations,
		level:     rec.Level,
		trend:     rec.TrendState,
		seasonal:  rec.SeasonalState,
	}
	m.Config = m.Config.withDefaultsRestored()
	return m, nil
}

// withDefaultsRestored fills the search/simulation defaults that a persisted
// record does not carry.
func (c Config) withDefaultsRestored() Config {
	if c.MaxIterations <= 0 {
		c.MaxIterations = 500
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-8
	}
	if c.SimulationPaths <= 0 {
		c.SimulationPaths = 1000
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	return c
}

func parseComponent(s string) (Component, error) {
	switch s {
	case "N", "":
		return None, nil
	case "A":
		return Additive, nil
	case "M":
		return Multiplicative, nil
	default:
		return None, fmt.Errorf("unknown component %q: %w", s, forecastkit.ErrInvalidConfiguration)
	}
}
