// Package linfit provides weighted least-squares linear model fitting over
// grouped observational datasets.
//
// Linfit fits linear models to observations with per-row outcome standard
// errors, weighting each row by the inverse of its squared error. Two model
// shapes are supported: a pooled model with one coefficient vector across
// all rows, and a per-group model with an independent vector for every
// group and a cross-group mean fallback for groups unseen at fit time.
//
// # Core Features
//
//   - Inverse-variance weighted least squares via Cholesky factorization
//   - Composable covariate specifications (intercept, linear, product)
//   - Hash-based group identification (64-bit xxHash64) for O(1) lookups
//   - Quantile-based coefficient clamping at prediction time
//   - Coefficient and result-table export to flat delimited files
//   - Optional compression (None, Zstd, S2, LZ4) for exported tables
//
// # Basic Usage
//
// Fitting a pooled model and exporting its coefficients:
//
//	import "github.com/arloliu/linfit"
//
//	data, _ := linfit.NewDataset(obs, obsSE, groups)
//	_ = data.AddCov("dose", dose)
//
//	m, _ := linfit.NewOverallModel(
//	    covariate.NewIntercept(),
//	    covariate.NewLinear("dose"),
//	)
//	_ = m.Attach(data)
//	_ = m.Fit()
//
//	table, _ := m.ExportCoefficients("coeffs.csv")
//
// Fitting per-group coefficients with a mean fallback for new groups:
//
//	sm, _ := linfit.NewStudyModel("intercept", "dose")
//	_ = sm.Attach(data)
//	_ = sm.Fit()
//	pred, _ := sm.Predict(newData)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the model,
// dataset and covariate packages, simplifying the most common use cases.
// For advanced usage and fine-grained control, use those packages directly.
package linfit

import (
	"github.com/arloliu/linfit/covariate"
	"github.com/arloliu/linfit/dataset"
	"github.com/arloliu/linfit/internal/hash"
	"github.com/arloliu/linfit/model"
)

// GroupID converts a group label to its normalized 64-bit identifier using
// xxHash64. The same label always produces the same identifier, so IDs can
// be computed independently and compared against Dataset.GroupIDs or
// StudyModel.Coefficients keys.
//
// Parameters:
//   - label: The group label (e.g., "study-001")
//
// Returns:
//   - uint64: The normalized group identifier.
//
// Example:
//
//	id := linfit.GroupID("study-001")
//	beta := sm.Coefficients()[id]
func GroupID(label string) uint64 {
	return hash.ID(label)
}

// NewDataset creates a dataset from row-aligned outcome, standard-error and
// group-label slices. Group labels are normalized to uint64 identifiers at
// ingestion; covariate columns are added afterwards with AddCov.
//
// Parameters:
//   - obs: The outcome column
//   - obsSE: The outcome standard errors, all strictly positive
//   - groups: The per-row group labels
//
// Returns:
//   - *dataset.Dataset: The created dataset.
//   - error: An error if the slices are empty, have mismatched lengths, or
//     any standard error is not strictly positive.
func NewDataset(obs, obsSE []float64, groups []string) (*dataset.Dataset, error) {
	return dataset.New(obs, obsSE, groups)
}

// NewOverallModel creates a pooled model over the given covariate
// specifications. The model fits one coefficient vector across all rows of
// the attached dataset, one coefficient per design-matrix column.
//
// Parameters:
//   - specs: One or more covariate specifications (see the covariate package)
//
// Returns:
//   - *model.OverallModel: The created model, unattached.
//   - error: An error if no specifications are given.
//
// Example:
//
//	m, err := linfit.NewOverallModel(
//	    covariate.NewIntercept(),
//	    covariate.NewLinear("dose"),
//	)
func NewOverallModel(specs ...covariate.Spec) (*model.OverallModel, error) {
	return model.NewOverallModel(specs)
}

// NewStudyModel creates a per-group model over the named covariate columns.
// The model fits an independent coefficient vector for every group of the
// attached dataset; prediction rows from unseen groups fall back to the
// element-wise mean vector across fitted groups.
//
// Parameters:
//   - covNames: One or more covariate column names, in design-column order
//
// Returns:
//   - *model.StudyModel: The created model, unattached.
//   - error: An error if no covariate names are given.
//
// Example:
//
//	sm, err := linfit.NewStudyModel("intercept", "dose")
func NewStudyModel(covNames ...string) (*model.StudyModel, error) {
	return model.NewStudyModel(covNames)
}
