// Package dataset provides the observation container used by linfit models.
//
// A Dataset is an ordered collection of observations. Each row carries an
// outcome value, the standard error of that outcome, a group identifier and
// any number of named covariate values. Row order is significant: design
// matrices, predictions and residuals all align row-for-row with the Dataset
// they were built from.
//
// Group labels are normalized to 64-bit xxHash64 identifiers at ingestion so
// per-group bookkeeping in the models works with a single comparable key
// type. The original labels are retained for table exports.
//
// Covariate specifications may register derived columns on a Dataset through
// AttachCov during model attachment; derived columns then appear in the
// tabular form alongside ingested ones.
//
// # Basic Usage
//
//	ds, err := dataset.New(
//	    []float64{1.0, 2.0, 3.0, 4.0},        // outcomes
//	    []float64{1.0, 1.0, 1.0, 1.0},        // outcome standard errors
//	    []string{"A", "A", "B", "B"},         // group labels
//	)
//	if err != nil {
//	    return err
//	}
//	if err := ds.AddCov("dose", []float64{0.1, 0.2, 0.3, 0.4}); err != nil {
//	    return err
//	}
//
// A Dataset is not safe for concurrent mutation; models read it without
// internal locking.
package dataset
