package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// featureColumns are the numeric vitals and demographics, in the order they
// appear in the feature vector. The two encoded categoricals follow them,
// giving the 10-dimensional state.
var featureColumns = []string{
	"DiastolicBP", "HeartRate", "MeanBP", "RespRate", "SpO2",
	"SysBP", "Temperature", "age",
}

// FeatureDim is the dimension of the encoded patient state: the numeric
// columns plus the two encoded categoricals.
const FeatureDim = 10

// Dataset is a loaded and standardized patient cohort.
type Dataset struct {
	Features [][]float64
	Died     []bool
}

func (d *Dataset) Len() int { return len(d.Features) }
func (d *Dataset) Dim() int { return FeatureDim }

// Split partitions the dataset into train and eval shares, eval taking the
// trailing fraction.
func (d *Dataset) Split(evalFrac float64) (*Dataset, *Dataset) {
	cut := len(d.Features) - int(float64(len(d.Features))*evalFrac)
	if cut < 1 {
		cut = 1
	}
	if cut > len(d.Features) {
		cut = len(d.Features)
	}
	train := &Dataset{Features: d.Features[:cut], Died: d.Died[:cut]}
	eval := &Dataset{Features: d.Features[cut:], Died: d.Died[cut:]}
	return train, eval
}

// PatientRecord is one raw patient as received at the boundary, before
// encoding and scaling.
type PatientRecord struct {
	DiastolicBP   float64
	HeartRate     float64
	MeanBP        float64
	RespRate      float64
	SpO2          float64
	SysBP         float64
	Temperature   float64
	Age           float64
	Gender        string
	AdmissionType string
}

// Pipeline holds the preprocessing state fitted on a dataset: categorical
// levels and the standard scaler. It turns raw records into the normalized
// vectors the agent expects.
type Pipeline struct {
	GenderLevels    []string `json:"gender_levels"`
	AdmissionLevels []string `json:"admission_levels"`
	Scaler          Scaler   `json:"scaler"`
}

// Encode maps a raw record through the fitted encoders and scaler. Unknown
// categorical levels encode as -1 before scaling, matching how a label
// encoder would flag them rather than failing a live request.
func (p *Pipeline) Encode(rec PatientRecord) []float64 {
	row := []float64{
		rec.DiastolicBP, rec.HeartRate, rec.MeanBP, rec.RespRate, rec.SpO2,
		rec.SysBP, rec.Temperature, rec.Age,
		encodeLevel(p.GenderLevels, rec.Gender),
		encodeLevel(p.AdmissionLevels, rec.AdmissionType),
	}
	p.Scaler.TransformOne(row)
	return row
}

func encodeLevel(levels []string, v string) float64 {
	i := slices.Index(levels, strings.ToUpper(strings.TrimSpace(v)))
	return float64(i)
}

// Load reads a patient CSV, encodes categoricals, fills missing numerics
// with the column median, standardizes, and returns the dataset with the
// fitted pipeline.
func Load(r io.Reader) (*Dataset, *Pipeline, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("csv has no data rows")
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range featureColumns {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("csv missing column %q", name)
		}
	}
	for _, name := range []string{"gender", "admission_type", "in_hospital_death"} {
		if _, ok := col[name]; !ok {
			return nil, nil, fmt.Errorf("csv missing column %q", name)
		}
	}

	rows := records[1:]
	n := len(rows)
	numeric := make([][]float64, n)
	missing := make([][]bool, n)
	genders := make([]string, n)
	admissions := make([]string, n)
	died := make([]bool, n)

	for i, rec := range rows {
		numeric[i] = make([]float64, len(featureColumns))
		missing[i] = make([]bool, len(featureColumns))
		for j, name := range featureColumns {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col[name]]), 64)
			if err != nil || math.IsNaN(v) {
				missing[i][j] = true
				continue
			}
			numeric[i][j] = v
		}
		genders[i] = strings.ToUpper(strings.TrimSpace(rec[col["gender"]]))
		admissions[i] = strings.ToUpper(strings.TrimSpace(rec[col["admission_type"]]))
		died[i] = parseBool(rec[col["in_hospital_death"]])
	}

	fillMedians(numeric, missing)

	pipeline := &Pipeline{
		GenderLevels:    levelsOf(genders),
		AdmissionLevels: levelsOf(admissions),
	}

	features := make([][]float64, n)
	for i := range numeric {
		features[i] = append(append([]float64(nil), numeric[i]...),
			encodeLevel(pipeline.GenderLevels, genders[i]),
			encodeLevel(pipeline.AdmissionLevels, admissions[i]))
	}

	pipeline.Scaler.Fit(features)
	pipeline.Scaler.Transform(features)

	return &Dataset{Features: features, Died: died}, pipeline, nil
}

// LoadFile loads a patient CSV from disk.
func LoadFile(path string) (*Dataset, *Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Load(f)
}

func parseBool(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRUE", "1", "T", "YES":
		return true
	}
	return false
}

func levelsOf(values []string) []string {
	seen := make(map[string]bool)
	levels := make([]string, 0)
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)
	return levels
}

// fillMedians replaces missing entries with their column median.
func fillMedians(numeric [][]float64, missing [][]bool) {
	if len(numeric) == 0 {
		return
	}
	for j := 0; j < len(numeric[0]); j++ {
		present := make([]float64, 0, len(numeric))
		for i := range numeric {
			if !missing[i][j] {
				present = append(present, numeric[i][j])
			}
		}
		if len(present) == 0 {
			continue
		}
		sort.Float64s(present)
		median := present[len(present)/2]
		if len(present)%2 == 0 {
			median = (present[len(present)/2-1] + present[len(present)/2]) / 2
		}
		for i := range numeric {
			if missing[i][j] {
				numeric[i][j] = median
			}
		}
	}
}
