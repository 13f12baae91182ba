package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/linfit/covariate"
	"github.com/arloliu/linfit/dataset"
)

// BuildDesign assembles the design matrix for the given specifications
// against a dataset: each spec's column block is built in order and the
// blocks are concatenated left to right. Row order follows the dataset.
//
// BuildDesign can be invoked repeatedly against different datasets, e.g.
// to build a fresh matrix for out-of-sample prediction; it never mutates
// the dataset.
func BuildDesign(specs []covariate.Spec, data *dataset.Dataset) (*mat.Dense, error) {
	if len(specs) == 0 {
		return nil, ErrNoSpecs
	}

	n := data.Len()
	k := covariate.TotalOutputs(specs)
	design := mat.NewDense(n, k, nil)

	col := 0
	for _, spec := range specs {
		block, err := spec.BuildDesign(data)
		if err != nil {
			return nil, fmt.Errorf("build design block %q: %w", spec.Name(), err)
		}
		if len(block) != spec.NumOutputs() {
			return nil, fmt.Errorf("spec %q produced %d columns, declared %d", spec.Name(), len(block), spec.NumOutputs())
		}
		for _, c := range block {
			if len(c) != n {
				return nil, fmt.Errorf("spec %q produced a column with %d rows, want %d", spec.Name(), len(c), n)
			}
			design.SetCol(col, c)
			col++
		}
	}

	return design, nil
}

// covDesign assembles a design matrix directly from raw covariate columns,
// in the given name order. This is the study-level design: one column per
// covariate name, no expansion.
func covDesign(covNames []string, data *dataset.Dataset) (*mat.Dense, error) {
	cols, err := data.Covs(covNames...)
	if err != nil {
		return nil, err
	}

	design := mat.NewDense(data.Len(), len(covNames), nil)
	for j, c := range cols {
		design.SetCol(j, c)
	}

	return design, nil
}
