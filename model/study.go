package model

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/linfit/dataset"
	"github.com/arloliu/linfit/export"
	"github.com/arloliu/linfit/internal/options"
)

// StudyModel fits an independent coefficient vector for every group in the
// attached dataset. Its design matrix is the raw covariate columns, one per
// name, in constructor order.
//
// Prediction rows whose group was present in the training data use that
// group's vector; all other rows use the element-wise mean vector across
// fitted groups. Group membership is checked against the groups attached at
// fit time, never against the groups of the prediction batch.
type StudyModel struct {
	covNames []string
	data     *dataset.Dataset
	design   *mat.Dense

	soln       map[uint64][]float64
	groupOrder []uint64

	state state
}

// NewStudyModel creates an unattached per-group model over the named
// covariates.
func NewStudyModel(covNames []string) (*StudyModel, error) {
	if len(covNames) == 0 {
		return nil, ErrNoSpecs
	}

	return &StudyModel{covNames: append([]string(nil), covNames...)}, nil
}

// Attach stores the dataset and builds the study-level design matrix. A nil
// dataset is a no-op. Re-attaching invalidates any prior solution; the model
// must be refit before the next prediction.
func (m *StudyModel) Attach(data *dataset.Dataset) error {
	if data == nil {
		return nil
	}

	design, err := covDesign(m.covNames, data)
	if err != nil {
		return fmt.Errorf("attach study model: %w", err)
	}

	m.data = data
	m.design = design
	m.soln = nil
	m.groupOrder = nil
	m.state = stateAttached

	return nil
}

// Fit solves one weighted least-squares system per distinct group in the
// attached dataset, in order of first appearance.
//
// Returns ErrNoData if no dataset is attached. A singular system in any one
// group fails the entire fit with an error naming the group; no partial
// results are retained.
func (m *StudyModel) Fit() error {
	if m.state == stateUnattached {
		return ErrNoData
	}

	groups := m.data.Groups()
	rowsByGroup := m.data.GroupRows()
	obs := m.data.Obs()
	obsSE := m.data.ObsSE()
	_, k := m.design.Dims()

	soln := make(map[uint64][]float64, len(groups))
	for _, id := range groups {
		rows := rowsByGroup[id]

		sub := mat.NewDense(len(rows), k, nil)
		subObs := make([]float64, len(rows))
		subSE := make([]float64, len(rows))
		for i, r := range rows {
			for j := 0; j < k; j++ {
				sub.Set(i, j, m.design.At(r, j))
			}
			subObs[i] = obs[r]
			subSE[i] = obsSE[r]
		}

		beta, err := SolveWLS(sub, subObs, subSE)
		if err != nil {
			label, _ := m.data.GroupLabel(id)
			return fmt.Errorf("fit group %q: %w", label, err)
		}
		soln[id] = beta
	}

	m.soln = soln
	m.groupOrder = groups
	m.state = stateFitted

	return nil
}

// Predict returns the row-wise dot product of the design matrix and the
// per-row coefficient vectors: the group's fitted vector when the row's
// group was seen at fit time, the cross-group mean vector otherwise. A
// fresh design matrix is built when data is non-nil; otherwise the stored
// matrix and attached rows are used.
//
// Returns ErrNotFitted before a successful Fit.
func (m *StudyModel) Predict(data *dataset.Dataset, opts ...PredictOption) ([]float64, error) {
	if m.state != stateFitted {
		return nil, ErrNotFitted
	}

	cfg := predictConfig{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	design := m.design
	rows := m.data
	if data != nil {
		fresh, err := covDesign(m.covNames, data)
		if err != nil {
			return nil, err
		}
		design = fresh
		rows = data
	}

	n, k := design.Dims()
	mean := m.meanSoln()

	// Per-row coefficient assignment: training-group vector or mean fallback.
	coeffs := make([][]float64, n)
	for i, id := range rows.GroupIDs() {
		if beta, ok := m.soln[id]; ok {
			coeffs[i] = beta
		} else {
			coeffs[i] = mean
		}
	}

	if len(cfg.slopeQuantiles) > 0 {
		m.clampCoeffs(coeffs, cfg.slopeQuantiles)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < k; j++ {
			sum += design.At(i, j) * coeffs[i][j]
		}
		out[i] = sum
	}

	return out, nil
}

// clampCoeffs applies the one-sided quantile bound to each named coefficient
// column. Quantiles are computed over the current batch's per-row values,
// after the per-row group/mean assignment. The rows in coeffs alias fitted
// vectors, so they are copied before mutation.
func (m *StudyModel) clampCoeffs(coeffs [][]float64, quantiles map[string]float64) {
	n := len(coeffs)
	for i := range coeffs {
		coeffs[i] = append([]float64(nil), coeffs[i]...)
	}

	for j, name := range m.covNames {
		q, ok := quantiles[name]
		if !ok {
			continue
		}

		vals := make([]float64, n)
		for i := range coeffs {
			vals[i] = coeffs[i][j]
		}
		sort.Float64s(vals)
		bound := stat.Quantile(q, stat.Empirical, vals, nil)

		for i := range coeffs {
			if q >= 0.5 {
				if coeffs[i][j] < bound {
					coeffs[i][j] = bound
				}
			} else if coeffs[i][j] > bound {
				coeffs[i][j] = bound
			}
		}
	}
}

// meanSoln returns the element-wise mean coefficient vector across all
// fitted groups.
func (m *StudyModel) meanSoln() []float64 {
	k := len(m.covNames)
	mean := make([]float64, k)
	for _, id := range m.groupOrder {
		beta := m.soln[id]
		for j := 0; j < k; j++ {
			mean[j] += beta[j]
		}
	}
	for j := 0; j < k; j++ {
		mean[j] /= float64(len(m.groupOrder))
	}

	return mean
}

// Coefficients returns a copy of the fitted per-group coefficient table, or
// nil if the model is not fitted.
func (m *StudyModel) Coefficients() map[uint64][]float64 {
	if m.state != stateFitted {
		return nil
	}

	out := make(map[uint64][]float64, len(m.soln))
	for id, beta := range m.soln {
		out[id] = append([]float64(nil), beta...)
	}

	return out
}

// Groups returns the fitted group identifiers in order of first appearance
// in the training data, or nil if the model is not fitted.
func (m *StudyModel) Groups() []uint64 {
	if m.state != stateFitted {
		return nil
	}

	return append([]uint64(nil), m.groupOrder...)
}

// CovNames returns the model's covariate names in design-column order.
func (m *StudyModel) CovNames() []string {
	return append([]string(nil), m.covNames...)
}

// ExportCoefficients produces a table with one row per fitted group and one
// column per covariate name. If path is non-empty the table is also written
// as a delimited file; the table is returned either way.
//
// Returns ErrNotFitted before a successful Fit. A mismatch between a
// group's coefficient length and the covariate-name count violates a
// construction invariant and panics.
func (m *StudyModel) ExportCoefficients(path string, opts ...export.Option) (*dataset.Table, error) {
	if m.state != stateFitted {
		return nil, ErrNotFitted
	}

	table := dataset.NewTable(append([]string{"group"}, m.covNames...)...)
	for _, id := range m.groupOrder {
		beta := m.soln[id]
		if len(beta) != len(m.covNames) {
			panic(fmt.Sprintf("group coefficient length %d does not match covariate count %d", len(beta), len(m.covNames)))
		}

		label, _ := m.data.GroupLabel(id)
		cells := make([]string, 0, len(beta)+1)
		cells = append(cells, label)
		for _, v := range beta {
			cells = append(cells, dataset.FormatFloat(v))
		}
		if err := table.AddRow(cells...); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := export.WriteTable(table, path, opts...); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// Data returns the attached dataset, or nil.
func (m *StudyModel) Data() *dataset.Dataset {
	return m.data
}

func (m *StudyModel) predictRows(data *dataset.Dataset) ([]float64, error) {
	return m.Predict(data)
}
