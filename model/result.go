package model

import (
	"fmt"

	"github.com/arloliu/linfit/dataset"
	"github.com/arloliu/linfit/internal/options"
)

// Fitted is the model behavior the result exporter needs. Both OverallModel
// and StudyModel implement it.
type Fitted interface {
	// Data returns the attached dataset, or nil.
	Data() *dataset.Dataset

	predictRows(data *dataset.Dataset) ([]float64, error)
}

// BuildResultTable converts a fitted model's predictions into tabular form:
// the dataset's table with prediction and residual (observed minus
// predicted) columns appended. When data is nil the model's attached
// dataset is used.
//
// Predictions and residuals align row-for-row with the table, so callers
// must ensure a deterministic row order (e.g. via Dataset.SortByRowID)
// before calling. Purely a formatting operation; no fitting side effects.
func BuildResultTable(m Fitted, data *dataset.Dataset, opts ...ResultOption) (*dataset.Table, error) {
	cfg := resultConfig{predictionCol: "prediction", residualCol: "residual"}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if data == nil {
		data = m.Data()
	}
	if data == nil {
		return nil, ErrNoData
	}

	pred, err := m.predictRows(data)
	if err != nil {
		return nil, err
	}
	if len(pred) != data.Len() {
		return nil, fmt.Errorf("prediction has %d rows, dataset has %d", len(pred), data.Len())
	}

	obs := data.Obs()
	predCells := make([]string, len(pred))
	residCells := make([]string, len(pred))
	for i, p := range pred {
		predCells[i] = dataset.FormatFloat(p)
		residCells[i] = dataset.FormatFloat(obs[i] - p)
	}

	table := data.Table()
	if err := table.AppendColumn(cfg.predictionCol, predCells); err != nil {
		return nil, err
	}
	if err := table.AppendColumn(cfg.residualCol, residCells); err != nil {
		return nil, err
	}

	return table, nil
}
