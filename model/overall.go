package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/linfit/covariate"
	"github.com/arloliu/linfit/dataset"
	"github.com/arloliu/linfit/export"
)

// state tags the model lifecycle so illegal transitions surface as usage
// errors instead of nil dereferences.
type state uint8

const (
	stateUnattached state = iota
	stateAttached
	stateFitted
)

func (s state) String() string {
	switch s {
	case stateUnattached:
		return "unattached"
	case stateAttached:
		return "attached"
	case stateFitted:
		return "fitted"
	default:
		return "unknown"
	}
}

// OverallModel fits one pooled coefficient vector across all rows of the
// attached dataset, weighting each row by the inverse of its squared
// outcome standard error.
type OverallModel struct {
	specs  []covariate.Spec
	data   *dataset.Dataset
	design *mat.Dense
	soln   []float64
	state  state
}

// NewOverallModel creates an unattached pooled model over the given
// covariate specifications.
func NewOverallModel(specs []covariate.Spec) (*OverallModel, error) {
	if len(specs) == 0 {
		return nil, ErrNoSpecs
	}

	return &OverallModel{specs: append([]covariate.Spec(nil), specs...)}, nil
}

// Attach stores the dataset, attaches it to every covariate specification
// and builds the design matrix. A nil dataset is a no-op.
//
// Re-attaching replaces the stored dataset and matrix and invalidates any
// prior solution: the model must be refit before the next prediction.
func (m *OverallModel) Attach(data *dataset.Dataset) error {
	if data == nil {
		return nil
	}

	for _, spec := range m.specs {
		if err := spec.AttachData(data); err != nil {
			return fmt.Errorf("attach spec %q: %w", spec.Name(), err)
		}
	}

	design, err := BuildDesign(m.specs, data)
	if err != nil {
		return err
	}

	m.data = data
	m.design = design
	m.soln = nil
	m.state = stateAttached

	return nil
}

// Fit computes the pooled coefficient vector over the attached design
// matrix. Returns ErrNoData if no dataset is attached; a singular system
// fails with an error wrapping ErrSingular.
func (m *OverallModel) Fit() error {
	if m.state == stateUnattached {
		return ErrNoData
	}

	soln, err := SolveWLS(m.design, m.data.Obs(), m.data.ObsSE())
	if err != nil {
		return fmt.Errorf("fit overall model: %w", err)
	}

	m.soln = soln
	m.state = stateFitted

	return nil
}

// Predict returns design·β for the given dataset, or for the attached
// dataset when data is nil. A fresh design matrix is built for non-nil
// data; the dataset does not need to have been attached before.
//
// Returns ErrNotFitted before a successful Fit.
func (m *OverallModel) Predict(data *dataset.Dataset) ([]float64, error) {
	if m.state != stateFitted {
		return nil, ErrNotFitted
	}

	design := m.design
	if data != nil {
		fresh, err := BuildDesign(m.specs, data)
		if err != nil {
			return nil, err
		}
		design = fresh
	}

	n, _ := design.Dims()
	pred := mat.NewVecDense(n, nil)
	pred.MulVec(design, mat.NewVecDense(len(m.soln), m.soln))

	out := make([]float64, n)
	copy(out, pred.RawVector().Data)

	return out, nil
}

// Coefficients returns a copy of the fitted coefficient vector, or nil if
// the model is not fitted.
func (m *OverallModel) Coefficients() []float64 {
	if m.state != stateFitted {
		return nil
	}

	return append([]float64(nil), m.soln...)
}

// CoefficientNames returns the expanded coefficient names, aligned with
// Coefficients.
func (m *OverallModel) CoefficientNames() []string {
	return covariate.ExpandNames(m.specs)
}

// ExportCoefficients produces a two-column table mapping each expanded
// coefficient name to its fitted value. If path is non-empty the table is
// also written as a delimited file; the table is returned either way.
//
// Returns ErrNotFitted before a successful Fit. A mismatch between the
// expanded-name count and the coefficient count violates a construction
// invariant and panics.
func (m *OverallModel) ExportCoefficients(path string, opts ...export.Option) (*dataset.Table, error) {
	if m.state != stateFitted {
		return nil, ErrNotFitted
	}

	names := covariate.ExpandNames(m.specs)
	if len(names) != len(m.soln) {
		panic(fmt.Sprintf("coefficient name count %d does not match solution length %d", len(names), len(m.soln)))
	}

	table := dataset.NewTable("name", "value")
	for i, name := range names {
		if err := table.AddRow(name, dataset.FormatFloat(m.soln[i])); err != nil {
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
func (m *OverallModel) Data() *dataset.Dataset {
	return m.data
}

func (m *OverallModel) predictRows(data *dataset.Dataset) ([]float64, error) {
	return m.Predict(data)
}
