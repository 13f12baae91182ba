package model

import (
	"fmt"

	"github.com/arloliu/linfit/internal/options"
)

// predictConfig holds per-call prediction settings for StudyModel.
type predictConfig struct {
	slopeQuantiles map[string]float64
}

// PredictOption is a functional option for StudyModel.Predict.
type PredictOption = options.Option[*predictConfig]

// WithSlopeQuantiles clamps per-row coefficients by quantile at prediction
// time. For every covariate name present in the model's covariate list, the
// given quantile of that column's per-row coefficient values is computed
// across the prediction batch; rows are then clamped to be >= the quantile
// value when the quantile is >= 0.5, or <= it when below 0.5. This enforces
// a one-sided bound derived from the prediction batch itself, e.g. to keep
// slope signs coherent across groups.
//
// Quantiles must lie in [0, 1]; names not in the model's covariate list are
// ignored.
func WithSlopeQuantiles(quantiles map[string]float64) PredictOption {
	return options.New(func(cfg *predictConfig) error {
		for name, q := range quantiles {
			if q < 0 || q > 1 {
				return fmt.Errorf("slope quantile for %q is %g, must be in [0,1]", name, q)
			}
		}
		cfg.slopeQuantiles = quantiles

		return nil
	})
}

// resultConfig holds column-name settings for BuildResultTable.
type resultConfig struct {
	predictionCol string
	residualCol   string
}

// ResultOption is a functional option for BuildResultTable.
type ResultOption = options.Option[*resultConfig]

// WithPredictionColumn overrides the prediction column name (default
// "prediction").
func WithPredictionColumn(name string) ResultOption {
	return options.NoError(func(cfg *resultConfig) {
		cfg.predictionCol = name
	})
}

// WithResidualColumn overrides the residual column name (default
// "residual").
func WithResidualColumn(name string) ResultOption {
	return options.NoError(func(cfg *resultConfig) {
		cfg.residualCol = name
	})
}
