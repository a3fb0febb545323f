package arima

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/timeseries"
)

// fitRecord is the YAML shape of a persisted fit: configuration, coefficient
// vectors, and the training values needed to resume forecasting.
type fitRecord struct {
	Order     Order          `yaml:"order"`
	Seasonal  *SeasonalOrder `yaml:"seasonal,omitempty"`
	ARCoeffs  []float64      `yaml:"ar_coeffs,omitempty"`
	MACoeffs  []float64      `yaml:"ma_coeffs,omitempty"`
	SARCoeffs []float64      `yaml:"sar_coeffs,omitempty"`
	SMACoeffs []float64      `yaml:"sma_coeffs,omitempty"`
	Intercept float64        `yaml:"intercept"`
	Variance  float64        `yaml:"variance"`
	AIC       float64        `yaml:"aic"`
	AICc      float64        `yaml:"aicc"`
	BIC       float64        `yaml:"bic"`
	LogLik    float64        `yaml:"loglik"`
	Values    []float64      `yaml:"values"`
}

// MarshalFit encodes the fitted model as YAML. Only fitted models can be
// persisted.
func (m *Model) MarshalFit() ([]byte, error) {
	if !m.fitted {
		return nil, fmt.Errorf("cannot persist an unfitted model: %w",
			forecastkit.ErrInvalidConfiguration)
	}

	rec := fitRecord{
		Order:     m.Order,
		Seasonal:  m.Seasonal,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		LogLik:    m.LogLik,
		Values:    m.data.Values,
	}
	return yaml.Marshal(rec)
}

// UnmarshalFit decodes a persisted fit and rebuilds the derived state
// (differenced series, residuals, fitted values) from the stored coefficients,
// so the restored model forecasts identically to the original.
func UnmarshalFit(data []byte) (*Model, error) {
	var rec fitRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode fit: %v: %w", err, forecastkit.ErrInvalidConfiguration)
	}

	m := &Model{
		Order:     rec.Order,
		Seasonal:  rec.Seasonal,
		ARCoeffs:  rec.ARCoeffs,
		MACoeffs:  rec.MACoeffs,
		SARCoeffs: rec.SARCoeffs,
		SMACoeffs: rec.SMACoeffs,
		Intercept: rec.Intercept,
		Variance:  rec.Variance,
		AIC:       rec.AIC,
		AICc:      rec.AICc,
		BIC:       rec.BIC,
		LogLik:    rec.LogLik,
		Converged: true,
	}
	if m.ARCoeffs == nil {
		m.ARCoeffs = make([]float64, nonNegative(rec.Order.P))
	}
	if m.MACoeffs == nil {
		m.MACoeffs = make([]float64, nonNegative(rec.Order.Q))
	}
	if rec.Seasonal != nil {
		if m.SARCoeffs == nil {
			m.SARCoeffs = make([]float64, nonNegative(rec.Seasonal.P))
		}
		if m.SMACoeffs == nil {
			m.SMACoeffs = make([]float64, nonNegative(rec.Seasonal.Q))
		}
	}

	series, err := timeseries.New(rec.Values)
	if err != nil {
		return nil, err
	}
	if err := m.validate(series); err != nil {
		return nil, err
	}
	m.data = series

	diff, err := m.difference(series)
	if err != nil {
		return nil, err
	}
	m.diffData = diff

	m.finalizeResiduals(diff.Values, m.startIndex(diff.Len()))
	m.fitted = true
	return m, nil
}
