package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/arloliu/linfit/internal/hash"
)

var (
	// ErrEmptyDataset indicates a dataset constructed with zero rows.
	ErrEmptyDataset = errors.New("dataset has no rows")
	// ErrLengthMismatch indicates row-aligned inputs of different lengths.
	ErrLengthMismatch = errors.New("column length does not match row count")
	// ErrNonPositiveSE indicates an outcome standard error <= 0.
	// The solver divides by squared standard errors, so zero or negative
	// values are rejected at ingestion.
	ErrNonPositiveSE = errors.New("outcome standard error must be positive")
	// ErrUnknownCovariate indicates a covariate lookup by an unregistered name.
	ErrUnknownCovariate = errors.New("unknown covariate")
	// ErrDuplicateCovariate indicates AddCov with an already registered name.
	ErrDuplicateCovariate = errors.New("covariate already registered")
)

// Dataset is an ordered set of observations with named covariate columns.
type Dataset struct {
	obs      []float64
	obsSE    []float64
	groupIDs []uint64
	labels   map[uint64]string
	rowIDs   []int

	covs     map[string][]float64
	covOrder []string
}

// New creates a Dataset from row-aligned outcome, standard-error and group
// slices. Group labels are hashed to uint64 identifiers at ingestion; row IDs
// are assigned in input order starting at zero.
//
// Returns an error if the slices are empty, have mismatched lengths, or any
// standard error is not strictly positive.
func New(obs, obsSE []float64, groups []string) (*Dataset, error) {
	n := len(obs)
	if n == 0 {
		return nil, ErrEmptyDataset
	}
	if len(obsSE) != n {
		return nil, fmt.Errorf("obs_se has %d rows, want %d: %w", len(obsSE), n, ErrLengthMismatch)
	}
	if len(groups) != n {
		return nil, fmt.Errorf("groups has %d rows, want %d: %w", len(groups), n, ErrLengthMismatch)
	}
	for i, se := range obsSE {
		if se <= 0 {
			return nil, fmt.Errorf("row %d has obs_se %g: %w", i, se, ErrNonPositiveSE)
		}
	}

	d := &Dataset{
		obs:      append([]float64(nil), obs...),
		obsSE:    append([]float64(nil), obsSE...),
		groupIDs: make([]uint64, n),
		labels:   make(map[uint64]string),
		rowIDs:   make([]int, n),
		covs:     make(map[string][]float64),
	}
	for i, label := range groups {
		id := hash.ID(label)
		d.groupIDs[i] = id
		d.labels[id] = label
		d.rowIDs[i] = i
	}

	return d, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.obs)
}

// Obs returns the outcome column. The returned slice is owned by the Dataset
// and must not be modified.
func (d *Dataset) Obs() []float64 {
	return d.obs
}

// ObsSE returns the outcome standard-error column. The returned slice is
// owned by the Dataset and must not be modified.
func (d *Dataset) ObsSE() []float64 {
	return d.obsSE
}

// GroupIDs returns the normalized per-row group identifiers. The returned
// slice is owned by the Dataset and must not be modified.
func (d *Dataset) GroupIDs() []uint64 {
	return d.groupIDs
}

// GroupLabel returns the original label for a normalized group identifier.
func (d *Dataset) GroupLabel(id uint64) (string, bool) {
	label, ok := d.labels[id]
	return label, ok
}

// Groups returns the distinct group identifiers in order of first appearance.
func (d *Dataset) Groups() []uint64 {
	seen := make(map[uint64]struct{}, len(d.labels))
	out := make([]uint64, 0, len(d.labels))
	for _, id := range d.groupIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

// GroupRows returns the row indices belonging to each distinct group, keyed
// by group identifier.
func (d *Dataset) GroupRows() map[uint64][]int {
	rows := make(map[uint64][]int, len(d.labels))
	for i, id := range d.groupIDs {
		rows[id] = append(rows[id], i)
	}

	return rows
}

// AddCov registers a covariate column. The column must match the row count,
// and the name must not already be registered.
func (d *Dataset) AddCov(name string, values []float64) error {
	if _, ok := d.covs[name]; ok {
		return fmt.Errorf("covariate %q: %w", name, ErrDuplicateCovariate)
	}

	return d.setCov(name, values)
}

// AttachCov registers or replaces a derived covariate column. Covariate
// specifications call this from their attach hooks to resolve derived values;
// re-attaching the same specification overwrites its previous column.
func (d *Dataset) AttachCov(name string, values []float64) error {
	return d.setCov(name, values)
}

func (d *Dataset) setCov(name string, values []float64) error {
	if len(values) != d.Len() {
		return fmt.Errorf("covariate %q has %d rows, want %d: %w", name, len(values), d.Len(), ErrLengthMismatch)
	}
	if _, ok := d.covs[name]; !ok {
		d.covOrder = append(d.covOrder, name)
	}
	d.covs[name] = append([]float64(nil), values...)

	return nil
}

// HasCov reports whether a covariate name is registered.
func (d *Dataset) HasCov(name string) bool {
	_, ok := d.covs[name]
	return ok
}

// Cov returns a copy of the named covariate column.
func (d *Dataset) Cov(name string) ([]float64, error) {
	col, ok := d.covs[name]
	if !ok {
		return nil, fmt.Errorf("covariate %q: %w", name, ErrUnknownCovariate)
	}

	return append([]float64(nil), col...), nil
}

// Covs returns copies of the named covariate columns, in the given order.
func (d *Dataset) Covs(names ...string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for i, name := range names {
		col, err := d.Cov(name)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	return cols, nil
}

// CovNames returns the registered covariate names in registration order.
func (d *Dataset) CovNames() []string {
	return append([]string(nil), d.covOrder...)
}

// SortByRowID stably sorts all rows by their ingestion row ID. Row IDs are
// assigned in input order at construction and preserved by Subset, so sorting
// restores a deterministic ordering before exporting results.
func (d *Dataset) SortByRowID() {
	n := d.Len()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return d.rowIDs[perm[a]] < d.rowIDs[perm[b]]
	})

	d.obs = permuteFloats(d.obs, perm)
	d.obsSE = permuteFloats(d.obsSE, perm)
	d.rowIDs = permuteInts(d.rowIDs, perm)

	groupIDs := make([]uint64, n)
	for i, p := range perm {
		groupIDs[i] = d.groupIDs[p]
	}
	d.groupIDs = groupIDs

	for name, col := range d.covs {
		d.covs[name] = permuteFloats(col, perm)
	}
}

// Subset returns a new Dataset containing the given rows, in the given
// order. Row IDs, group labels and covariate columns carry over; the original
// Dataset is not modified.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	for _, r := range rows {
		if r < 0 || r >= d.Len() {
			return nil, fmt.Errorf("row index %d out of range [0,%d)", r, d.Len())
		}
	}

	sub := &Dataset{
		obs:      make([]float64, len(rows)),
		obsSE:    make([]float64, len(rows)),
		groupIDs: make([]uint64, len(rows)),
		labels:   make(map[uint64]string, len(d.labels)),
		rowIDs:   make([]int, len(rows)),
		covs:     make(map[string][]float64, len(d.covs)),
		covOrder: append([]string(nil), d.covOrder...),
	}
	for i, r := range rows {
		sub.obs[i] = d.obs[r]
		sub.obsSE[i] = d.obsSE[r]
		sub.groupIDs[i] = d.groupIDs[r]
		sub.rowIDs[i] = d.rowIDs[r]
	}
	for id, label := range d.labels {
		sub.labels[id] = label
	}
	for name, col := range d.covs {
		subCol := make([]float64, len(rows))
		for i, r := range rows {
			subCol[i] = col[r]
		}
		sub.covs[name] = subCol
	}

	return sub, nil
}

// Table converts the Dataset to its generic tabular representation: row_id,
// group, obs, obs_se, then covariate columns in registration order.
func (d *Dataset) Table() *Table {
	names := append([]string{"row_id", "group", "obs", "obs_se"}, d.covOrder...)
	t := NewTable(names...)
	for i := 0; i < d.Len(); i++ {
		cells := make([]string, 0, len(names))
		cells = append(cells,
			FormatInt(d.rowIDs[i]),
			d.labels[d.groupIDs[i]],
			FormatFloat(d.obs[i]),
			FormatFloat(d.obsSE[i]),
		)
		for _, name := range d.covOrder {
			cells = append(cells, FormatFloat(d.covs[name][i]))
		}
		// Arity matches names by construction.
		_ = t.AddRow(cells...)
	}

	return t
}

func permuteFloats(src []float64, perm []int) []float64 {
	out := make([]float64, len(src))
	for i, p := range perm {
		out[i] = src[p]
	}

	return out
}

func permuteInts(src []int, perm []int) []int {
	out := make([]int, len(src))
	for i, p := range perm {
		out[i] = src[p]
	}

	return out
}
