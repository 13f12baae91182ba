// Package model implements weighted least-squares regression models over
// datasets with known per-observation standard errors.
//
// Two model flavors share the same closed-form solver:
//
//   - OverallModel fits one coefficient vector across all rows.
//   - StudyModel fits an independent coefficient vector per group, falling
//     back to the cross-group mean vector when predicting rows whose group
//     was not seen during fitting, with optional quantile-based clamping of
//     individual coefficient columns.
//
// Both models follow an explicit lifecycle: unattached, attached (data and
// design matrix present), fitted (solution present). Fitting with no data
// attached fails with ErrNoData; predicting or exporting before fitting
// fails with ErrNotFitted. Re-attaching a dataset rebuilds the design matrix
// and requires a refit before the next prediction.
//
// # Basic Usage
//
//	m, err := model.NewOverallModel([]covariate.Spec{
//	    covariate.NewIntercept(),
//	    covariate.NewLinear("dose"),
//	})
//	if err != nil {
//	    return err
//	}
//	if err := m.Attach(ds); err != nil {
//	    return err
//	}
//	if err := m.Fit(); err != nil {
//	    return err
//	}
//	pred, err := m.Predict(nil) // predict on the attached dataset
//
// All solves are closed-form: the weighted normal equations (MᵀWM)β = MᵀWy
// with W = diag(1/se²) are factorized by Cholesky decomposition. Singular or
// near-singular systems fail the whole fit; for StudyModel a singular system
// in any one group aborts the fit with no partial results retained.
//
// Model instances hold no global state; independent instances may be used
// concurrently. Calls on the same instance must be serialized by the caller.
package model
