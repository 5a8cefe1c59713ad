package env

import (
	"golang.org/x/exp/rand"

	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/types"
)

// Patient is one sampled case: the normalized feature vector and the ground
// truth outcome used to score the decision.
type Patient struct {
	Features types.FeatureVector
	Outcome  types.Outcome
}

// Sampler produces patient cases. State encoding variants plug in here.
type Sampler interface {
	Sample() Patient
	Dim() int
}

// DatasetSampler draws uniformly from a loaded patient dataset.
type DatasetSampler struct {
	dataset *data.Dataset
	rng     *rand.Rand
}

func NewDatasetSampler(ds *data.Dataset, seed uint64) *DatasetSampler {
	return &DatasetSampler{
		dataset: ds,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (s *DatasetSampler) Dim() int { return s.dataset.Dim() }

func (s *DatasetSampler) Sample() Patient {
	i := s.rng.Intn(s.dataset.Len())
	outcome := types.OutcomeSurvived
	if s.dataset.Died[i] {
		outcome = types.OutcomeDied
	}
	return Patient{
		Features: s.dataset.Features[i],
		Outcome:  outcome,
	}
}

// SyntheticSampler generates normal-distributed patients when no dataset is
// available. Vitals are loosely correlated: a racing heart drags blood
// pressure up and oxygen saturation down, and those cases die more often.
type SyntheticSampler struct {
	dim int
	rng *rand.Rand
}

func NewSyntheticSampler(dim int, seed uint64) *SyntheticSampler {
	return &SyntheticSampler{
		dim: dim,
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *SyntheticSampler) Dim() int { return s.dim }

func (s *SyntheticSampler) Sample() Patient {
	features := make([]float64, s.dim)
	for i := range features {
		features[i] = s.rng.NormFloat64()
	}
	if s.dim > 4 && features[1] > 1.5 {
		if features[0] < 0.5 {
			features[0] = 0.5
		}
		if features[4] > -0.5 {
			features[4] = -0.5
		}
	}
	outcome := types.OutcomeSurvived
	risk := 0.1
	if s.dim > 4 && features[1] > 1.5 {
		risk = 0.6
	}
	if s.rng.Float64() < risk {
		outcome = types.OutcomeDied
	}
	return Patient{Features: features, Outcome: outcome}
}
