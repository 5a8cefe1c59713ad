package data

import "gonum.org/v1/gonum/stat"

// Scaler standardizes feature columns to zero mean and unit deviation. Fit
// on the training dataset once, then applied to every vector that reaches
// the agent, including single patients at inference time.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

func (s *Scaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	dim := len(rows[0])
	s.Mean = make([]float64, dim)
	s.Std = make([]float64, dim)
	col := make([]float64, len(rows))
	for j := 0; j < dim; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		std := 0.0
		if len(col) > 1 {
			std = stat.StdDev(col, nil)
		}
		if std == 0 {
			std = 1
		}
		s.Std[j] = std
	}
}

// Transform standardizes all rows in place.
func (s *Scaler) Transform(rows [][]float64) {
	for _, row := range rows {
		s.TransformOne(row)
	}
}

// TransformOne standardizes a single vector in place.
func (s *Scaler) TransformOne(row []float64) {
	for j := range row {
		row[j] = (row[j] - s.Mean[j]) / s.Std[j]
	}
}
