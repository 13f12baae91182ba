package model

import "errors"

var (
	// ErrNoData indicates a fit attempted before any dataset was attached.
	// Recoverable: attach a dataset and retry.
	ErrNoData = errors.New("no data attached to model")

	// ErrNotFitted indicates a prediction or export attempted before a
	// successful fit (including after a re-attach invalidated the previous
	// solution).
	ErrNotFitted = errors.New("model has not been fitted")

	// ErrNoSpecs indicates a model constructed without covariate
	// specifications.
	ErrNoSpecs = errors.New("model requires at least one covariate specification")

	// ErrSingular indicates the weighted normal equations are singular or
	// not positive definite, typically from collinear design columns or too
	// few distinct rows relative to the column count.
	ErrSingular = errors.New("weighted normal equations are singular")
)
