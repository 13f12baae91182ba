// Package covariate defines the covariate specifications that build design
// matrix column blocks from a dataset.
//
// A Spec is a named transformation producing one or more numeric columns.
// Specs own no data: they are attached to a dataset (where derived columns
// get resolved) and later applied to a dataset to produce their block. The
// same Spec can be applied to different datasets, e.g. for out-of-sample
// prediction.
package covariate

import (
	"errors"
	"fmt"

	"github.com/arloliu/linfit/dataset"
)

// ErrMissingCovariate indicates a spec whose underlying covariate column is
// not registered on the dataset it is applied to.
var ErrMissingCovariate = errors.New("covariate column not found in dataset")

// Spec builds one block of design-matrix columns from a dataset.
type Spec interface {
	// Name returns the human-readable specification name, used to derive
	// expanded coefficient names on export.
	Name() string

	// NumOutputs returns the number of columns this spec produces.
	NumOutputs() int

	// CovNames returns the underlying covariate names the spec consumes.
	// Specs that consume no dataset covariates (e.g. Intercept) return nil.
	CovNames() []string

	// AttachData resolves the spec against a dataset at attachment time,
	// registering any derived columns. It returns an error if the dataset
	// cannot satisfy the spec.
	AttachData(d *dataset.Dataset) error

	// BuildDesign produces the spec's column block for the given dataset.
	// It must work against datasets that were never attached, so prediction
	// can build fresh matrices for unseen data.
	BuildDesign(d *dataset.Dataset) ([][]float64, error)
}

// Intercept produces a single constant column of ones.
type Intercept struct{}

var _ Spec = Intercept{}

// NewIntercept creates an intercept specification.
func NewIntercept() Intercept {
	return Intercept{}
}

// Name returns "intercept".
func (Intercept) Name() string { return "intercept" }

// NumOutputs returns 1.
func (Intercept) NumOutputs() int { return 1 }

// CovNames returns nil; the intercept consumes no covariates.
func (Intercept) CovNames() []string { return nil }

// AttachData is a no-op; the intercept needs nothing from the dataset.
func (Intercept) AttachData(*dataset.Dataset) error { return nil }

// BuildDesign returns one column of ones with the dataset's row count.
func (Intercept) BuildDesign(d *dataset.Dataset) ([][]float64, error) {
	col := make([]float64, d.Len())
	for i := range col {
		col[i] = 1
	}

	return [][]float64{col}, nil
}

// Linear produces a single column holding one raw covariate.
type Linear struct {
	covName string
}

var _ Spec = Linear{}

// NewLinear creates a linear specification over the named covariate.
func NewLinear(covName string) Linear {
	return Linear{covName: covName}
}

// Name returns the underlying covariate name.
func (l Linear) Name() string { return l.covName }

// NumOutputs returns 1.
func (l Linear) NumOutputs() int { return 1 }

// CovNames returns the single underlying covariate name.
func (l Linear) CovNames() []string { return []string{l.covName} }

// AttachData verifies the covariate column exists on the dataset.
func (l Linear) AttachData(d *dataset.Dataset) error {
	if !d.HasCov(l.covName) {
		return fmt.Errorf("linear spec %q: %w", l.covName, ErrMissingCovariate)
	}

	return nil
}

// BuildDesign returns the raw covariate column.
func (l Linear) BuildDesign(d *dataset.Dataset) ([][]float64, error) {
	col, err := d.Cov(l.covName)
	if err != nil {
		return nil, fmt.Errorf("linear spec %q: %w", l.covName, ErrMissingCovariate)
	}

	return [][]float64{col}, nil
}

// Product produces a single column holding the elementwise product of two
// covariates. Its attach hook registers the derived column on the dataset so
// the interaction shows up in table exports.
type Product struct {
	name string
	a, b string
}

var _ Spec = Product{}

// NewProduct creates a product specification named name over covariates a
// and b.
func NewProduct(name, a, b string) Product {
	return Product{name: name, a: a, b: b}
}

// Name returns the specification name.
func (p Product) Name() string { return p.name }

// NumOutputs returns 1.
func (p Product) NumOutputs() int { return 1 }

// CovNames returns the two underlying covariate names.
func (p Product) CovNames() []string { return []string{p.a, p.b} }

// AttachData computes the product column and registers it on the dataset
// under the spec name.
func (p Product) AttachData(d *dataset.Dataset) error {
	cols, err := p.BuildDesign(d)
	if err != nil {
		return err
	}

	return d.AttachCov(p.name, cols[0])
}

// BuildDesign computes the elementwise product of the two covariates. The
// product is computed from the underlying columns directly, so it works on
// datasets that were never attached.
func (p Product) BuildDesign(d *dataset.Dataset) ([][]float64, error) {
	ca, err := d.Cov(p.a)
	if err != nil {
		return nil, fmt.Errorf("product spec %q: %w", p.name, ErrMissingCovariate)
	}
	cb, err := d.Cov(p.b)
	if err != nil {
		return nil, fmt.Errorf("product spec %q: %w", p.name, ErrMissingCovariate)
	}

	col := make([]float64, len(ca))
	for i := range col {
		col[i] = ca[i] * cb[i]
	}

	return [][]float64{col}, nil
}

// New creates a specification by kind name, mirroring the factory style used
// for model selection elsewhere in the module.
//
// Supported kinds:
//   - "intercept": no covariate names
//   - "linear": one covariate name
//   - "product": derived name followed by two covariate names
func New(kind string, covNames ...string) (Spec, error) {
	switch kind {
	case "intercept":
		if len(covNames) != 0 {
			return nil, fmt.Errorf("intercept spec takes no covariate names, got %d", len(covNames))
		}

		return NewIntercept(), nil
	case "linear":
		if len(covNames) != 1 {
			return nil, fmt.Errorf("linear spec takes exactly 1 covariate name, got %d", len(covNames))
		}

		return NewLinear(covNames[0]), nil
	case "product":
		if len(covNames) != 3 {
			return nil, fmt.Errorf("product spec takes a name and 2 covariate names, got %d", len(covNames))
		}

		return NewProduct(covNames[0], covNames[1], covNames[2]), nil
	default:
		return nil, fmt.Errorf("unknown covariate spec kind: %s", kind)
	}
}

// ExpandNames returns the expanded coefficient names for a list of specs:
// the spec name for single-column specs, or the spec name with a positional
// suffix for multi-column specs. The result aligns one-to-one with the
// columns of the design matrix built from the same specs.
func ExpandNames(specs []Spec) []string {
	var names []string
	for _, spec := range specs {
		if spec.NumOutputs() == 1 {
			names = append(names, spec.Name())
			continue
		}
		for i := 0; i < spec.NumOutputs(); i++ {
			names = append(names, fmt.Sprintf("%s_%d", spec.Name(), i))
		}
	}

	return names
}

// TotalOutputs returns the total number of design-matrix columns the specs
// produce.
func TotalOutputs(specs []Spec) int {
	total := 0
	for _, spec := range specs {
		total += spec.NumOutputs()
	}

	return total
}
