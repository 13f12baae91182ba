package model

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/linfit/dataset"
	"github.com/arloliu/linfit/export"
	"github.com/arloliu/linfit/internal/hash"
)

// studyData builds the four-row two-group dataset with a constant covariate,
// so each group's fit is its weighted mean outcome: A -> 1.5, B -> 3.5.
func studyData(t *testing.T) *dataset.Dataset {
	t.Helper()

	d, err := dataset.New(
		[]float64{1, 2, 3, 4},
		[]float64{1, 1, 1, 1},
		[]string{"A", "A", "B", "B"},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddCov("ones", []float64{1, 1, 1, 1}))

	return d
}

// slopeData builds a three-group dataset whose outcomes are exactly
// slope*x per group, with slopes 1, 2 and 3.
func slopeData(t *testing.T) *dataset.Dataset {
	t.Helper()

	d, err := dataset.New(
		[]float64{1, 2, 2, 4, 3, 6},
		[]float64{1, 1, 1, 1, 1, 1},
		[]string{"A", "A", "B", "B", "C", "C"},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddCov("x", []float64{1, 2, 1, 2, 1, 2}))

	return d
}

func TestNewStudyModel_NoCovariates(t *testing.T) {
	_, err := NewStudyModel(nil)
	require.ErrorIs(t, err, ErrNoSpecs)
}

func TestStudyModel_FitWithoutData(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)

	require.ErrorIs(t, m.Fit(), ErrNoData)
}

func TestStudyModel_PredictBeforeFit(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(studyData(t)))

	_, err = m.Predict(nil)
	require.ErrorIs(t, err, ErrNotFitted)

	assert.Nil(t, m.Coefficients())
	assert.Nil(t, m.Groups())
}

func TestStudyModel_PerGroupMeans(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(studyData(t)))
	require.NoError(t, m.Fit())

	coeffs := m.Coefficients()
	require.Len(t, coeffs, 2)
	assert.InDelta(t, 1.5, coeffs[hash.ID("A")][0], 1e-12)
	assert.InDelta(t, 3.5, coeffs[hash.ID("B")][0], 1e-12)

	// Groups come back in first-appearance order.
	assert.Equal(t, []uint64{hash.ID("A"), hash.ID("B")}, m.Groups())

	pred, err := m.Predict(nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 1.5, 3.5, 3.5}, pred, 1e-12)
}

func TestStudyModel_MeanFallbackForUnseenGroup(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(studyData(t)))
	require.NoError(t, m.Fit())

	// Group C never appeared at fit time, so its rows use the mean of the
	// fitted vectors: (1.5 + 3.5) / 2 = 2.5.
	fresh, err := dataset.New(
		[]float64{0, 0, 0},
		[]float64{1, 1, 1},
		[]string{"A", "C", "C"},
	)
	require.NoError(t, err)
	require.NoError(t, fresh.AddCov("ones", []float64{1, 1, 1}))

	pred, err := m.Predict(fresh)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 2.5, 2.5}, pred, 1e-12)
}

func TestStudyModel_MembershipAgainstTrainingGroups(t *testing.T) {
	// Group C dominates the prediction batch, but membership is decided by
	// the fit-time groups alone: every C row still gets the mean vector,
	// even though C is a perfectly ordinary group of the batch itself.
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(studyData(t)))
	require.NoError(t, m.Fit())

	batch, err := dataset.New(
		[]float64{0, 0, 0, 0},
		[]float64{1, 1, 1, 1},
		[]string{"C", "C", "C", "B"},
	)
	require.NoError(t, err)
	require.NoError(t, batch.AddCov("ones", []float64{1, 1, 1, 1}))

	pred, err := m.Predict(batch)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.5, 2.5, 2.5, 3.5}, pred, 1e-12)
}

func TestStudyModel_PredictIdempotent(t *testing.T) {
	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(slopeData(t)))
	require.NoError(t, m.Fit())

	first, err := m.Predict(nil)
	require.NoError(t, err)
	second, err := m.Predict(nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStudyModel_SlopeQuantileClamp(t *testing.T) {
	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(slopeData(t)))
	require.NoError(t, m.Fit())

	d := slopeData(t)
	x, err := d.Cov("x")
	require.NoError(t, err)

	// Per-row slope values before clamping, matching the batch rows.
	raw := []float64{1, 1, 2, 2, 3, 3}
	sorted := append([]float64(nil), raw...)
	sort.Float64s(sorted)

	for _, tc := range []struct {
		name string
		q    float64
	}{
		{name: "upper", q: 0.9},
		{name: "lower", q: 0.1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bound := stat.Quantile(tc.q, stat.Empirical, sorted, nil)

			pred, err := m.Predict(d, WithSlopeQuantiles(map[string]float64{"x": tc.q}))
			require.NoError(t, err)
			require.Len(t, pred, len(raw))

			for i, p := range pred {
				want := raw[i]
				if tc.q >= 0.5 && want < bound {
					want = bound
				}
				if tc.q < 0.5 && want > bound {
					want = bound
				}
				assert.InDelta(t, want*x[i], p, 1e-12, "row %d", i)
			}
		})
	}
}

func TestStudyModel_SlopeQuantileUnknownName(t *testing.T) {
	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(slopeData(t)))
	require.NoError(t, m.Fit())

	plain, err := m.Predict(nil)
	require.NoError(t, err)

	// Names outside the covariate list are ignored, not errors.
	clamped, err := m.Predict(nil, WithSlopeQuantiles(map[string]float64{"nope": 0.9}))
	require.NoError(t, err)
	assert.Equal(t, plain, clamped)
}

func TestStudyModel_SlopeQuantileOutOfRange(t *testing.T) {
	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(slopeData(t)))
	require.NoError(t, m.Fit())

	_, err = m.Predict(nil, WithSlopeQuantiles(map[string]float64{"x": 1.5}))
	require.Error(t, err)
}

func TestStudyModel_SlopeQuantileDoesNotMutateFit(t *testing.T) {
	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(slopeData(t)))
	require.NoError(t, m.Fit())

	before := m.Coefficients()

	_, err = m.Predict(nil, WithSlopeQuantiles(map[string]float64{"x": 0.9}))
	require.NoError(t, err)

	assert.Equal(t, before, m.Coefficients())

	// A later unclamped prediction is unaffected by the clamped one.
	pred, err := m.Predict(nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2, 2, 4, 3, 6}, pred, 1e-12)
}

func TestStudyModel_SingularGroupFailsWholeFit(t *testing.T) {
	// Group B's covariate column is all zeros, so only B is singular.
	d, err := dataset.New(
		[]float64{1, 2, 3, 4},
		[]float64{1, 1, 1, 1},
		[]string{"A", "A", "B", "B"},
	)
	require.NoError(t, err)
	require.NoError(t, d.AddCov("x", []float64{1, 2, 0, 0}))

	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(d))

	err = m.Fit()
	require.ErrorIs(t, err, ErrSingular)
	assert.Contains(t, err.Error(), `"B"`)

	// No partial results: the healthy group A is not retained either.
	assert.Nil(t, m.Coefficients())
	_, err = m.Predict(nil)
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestStudyModel_ReattachInvalidates(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(studyData(t)))
	require.NoError(t, m.Fit())

	require.NoError(t, m.Attach(studyData(t)))

	_, err = m.Predict(nil)
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestStudyModel_AttachMissingCovariate(t *testing.T) {
	d, err := dataset.New([]float64{1, 2}, []float64{1, 1}, []string{"A", "B"})
	require.NoError(t, err)

	m, err := NewStudyModel([]string{"x"})
	require.NoError(t, err)

	require.Error(t, m.Attach(d))
}

func TestStudyModel_ExportCoefficients(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)
	require.NoError(t, m.Attach(studyData(t)))
	require.NoError(t, m.Fit())

	path := filepath.Join(t.TempDir(), "group_coeffs.csv")
	table, err := m.ExportCoefficients(path)
	require.NoError(t, err)

	require.Equal(t, []string{"group", "ones"}, table.Names())
	require.Equal(t, 2, table.Len())

	groups, err := table.Column("group")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, groups)

	vals, err := table.FloatColumn("ones")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 3.5}, vals, 1e-12)

	loaded, err := export.ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, table.Rows(), loaded.Rows())
}

func TestStudyModel_ExportBeforeFit(t *testing.T) {
	m, err := NewStudyModel([]string{"ones"})
	require.NoError(t, err)

	_, err = m.ExportCoefficients("")
	require.ErrorIs(t, err, ErrNotFitted)
}
