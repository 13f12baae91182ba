package covariate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/linfit/dataset"
)

func newTestDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	ds, err := dataset.New(
		[]float64{1, 2, 3},
		[]float64{1, 1, 1},
		[]string{"A", "B", "B"},
	)
	require.NoError(t, err)
	require.NoError(t, ds.AddCov("dose", []float64{2, 4, 6}))
	require.NoError(t, ds.AddCov("age", []float64{10, 20, 30}))

	return ds
}

func TestIntercept(t *testing.T) {
	ds := newTestDataset(t)
	spec := NewIntercept()

	assert.Equal(t, "intercept", spec.Name())
	assert.Equal(t, 1, spec.NumOutputs())
	assert.Nil(t, spec.CovNames())
	require.NoError(t, spec.AttachData(ds))

	cols, err := spec.BuildDesign(ds)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, []float64{1, 1, 1}, cols[0])
}

func TestLinear(t *testing.T) {
	ds := newTestDataset(t)
	spec := NewLinear("dose")

	assert.Equal(t, "dose", spec.Name())
	assert.Equal(t, []string{"dose"}, spec.CovNames())
	require.NoError(t, spec.AttachData(ds))

	cols, err := spec.BuildDesign(ds)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4, 6}, cols[0])
}

func TestLinear_MissingCovariate(t *testing.T) {
	ds := newTestDataset(t)
	spec := NewLinear("missing")

	require.ErrorIs(t, spec.AttachData(ds), ErrMissingCovariate)

	_, err := spec.BuildDesign(ds)
	require.ErrorIs(t, err, ErrMissingCovariate)
}

func TestProduct(t *testing.T) {
	ds := newTestDataset(t)
	spec := NewProduct("dose_x_age", "dose", "age")

	assert.Equal(t, "dose_x_age", spec.Name())
	assert.Equal(t, []string{"dose", "age"}, spec.CovNames())

	t.Run("attach registers derived column", func(t *testing.T) {
		require.NoError(t, spec.AttachData(ds))
		col, err := ds.Cov("dose_x_age")
		require.NoError(t, err)
		assert.Equal(t, []float64{20, 80, 180}, col)
	})

	t.Run("build works on unattached dataset", func(t *testing.T) {
		fresh := newTestDataset(t)
		cols, err := spec.BuildDesign(fresh)
		require.NoError(t, err)
		assert.Equal(t, []float64{20, 80, 180}, cols[0])
		assert.False(t, fresh.HasCov("dose_x_age"), "BuildDesign must not mutate the dataset")
	})
}

func TestNewFactory(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		covNames []string
		wantErr  bool
		wantName string
	}{
		{name: "intercept", kind: "intercept", wantName: "intercept"},
		{name: "linear", kind: "linear", covNames: []string{"dose"}, wantName: "dose"},
		{name: "product", kind: "product", covNames: []string{"dxa", "dose", "age"}, wantName: "dxa"},
		{name: "intercept with args", kind: "intercept", covNames: []string{"x"}, wantErr: true},
		{name: "linear arity", kind: "linear", covNames: []string{"a", "b"}, wantErr: true},
		{name: "product arity", kind: "product", covNames: []string{"a"}, wantErr: true},
		{name: "unknown kind", kind: "spline", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := New(tt.kind, tt.covNames...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, spec.Name())
		})
	}
}

func TestExpandNames(t *testing.T) {
	specs := []Spec{NewIntercept(), NewLinear("dose")}
	assert.Equal(t, []string{"intercept", "dose"}, ExpandNames(specs))
	assert.Equal(t, 2, TotalOutputs(specs))
}
