package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SolveWLS solves the diagonally-weighted least-squares problem in closed
// form: given a design matrix m (n×k), outcomes obs (length n) and outcome
// standard errors obsSE (length n, all positive), it computes weights
// wᵢ = 1/seᵢ² and solves the normal equations (MᵀWM)β = MᵀWy for β.
//
// The k×k system is factorized by Cholesky decomposition; if MᵀWM is
// singular or not positive definite the returned error wraps ErrSingular.
// The inputs are not modified.
func SolveWLS(m *mat.Dense, obs, obsSE []float64) ([]float64, error) {
	n, k := m.Dims()
	if len(obs) != n {
		return nil, fmt.Errorf("obs has %d rows, design matrix has %d", len(obs), n)
	}
	if len(obsSE) != n {
		return nil, fmt.Errorf("obs_se has %d rows, design matrix has %d", len(obsSE), n)
	}

	// Accumulate MᵀWM (symmetric, upper triangle) and MᵀWy in one pass.
	a := mat.NewSymDense(k, nil)
	b := mat.NewVecDense(k, nil)
	for i := 0; i < n; i++ {
		w := 1.0 / (obsSE[i] * obsSE[i])
		for p := 0; p < k; p++ {
			mp := m.At(i, p)
			b.SetVec(p, b.AtVec(p)+w*mp*obs[i])
			for q := p; q < k; q++ {
				a.SetSym(p, q, a.At(p, q)+w*mp*m.At(i, q))
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(a); !ok {
		return nil, fmt.Errorf("%dx%d system: %w", k, k, ErrSingular)
	}

	beta := mat.NewVecDense(k, nil)
	if err := chol.SolveVecTo(beta, b); err != nil {
		return nil, fmt.Errorf("%dx%d system: %w", k, k, ErrSingular)
	}

	out := make([]float64, k)
	copy(out, beta.RawVector().Data)

	return out, nil
}
