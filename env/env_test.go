package env

import (
	"errors"
	"testing"

	"github.com/carevolve/triage-rl/types"
)

// fixedSampler cycles through a fixed case list.
type fixedSampler struct {
	cases []Patient
	next  int
}

func (s *fixedSampler) Dim() int {
	return len(s.cases[0].Features)
}

func (s *fixedSampler) Sample() Patient {
	p := s.cases[s.next%len(s.cases)]
	s.next++
	return p
}

func diedCase() Patient {
	return Patient{Features: []float64{1, 0, -1}, Outcome: types.OutcomeDied}
}

func survivedCase() Patient {
	return Patient{Features: []float64{0, 0.5, 0}, Outcome: types.OutcomeSurvived}
}

func TestStepBeforeResetFails(t *testing.T) {
	e := New(&fixedSampler{cases: []Patient{diedCase()}}, DefaultRewardTable())

	var notReset *types.EnvironmentNotResetError
	if _, err := e.Step(types.ActionICU); !errors.As(err, &notReset) {
		t.Errorf("want EnvironmentNotResetError, got %v", err)
	}
}

func TestStepScoresAgainstTable(t *testing.T) {
	e := New(&fixedSampler{cases: []Patient{diedCase(), survivedCase()}}, DefaultRewardTable())

	state, err := e.Reset()
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if len(state) != 3 {
		t.Fatalf("state dimension = %d, want 3", len(state))
	}

	res, err := e.Step(types.ActionICU)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if res.Reward != 10 {
		t.Errorf("ICU for a fatal outcome scored %f, want 10", res.Reward)
	}
	if !res.Done {
		t.Errorf("single-decision episode did not terminate")
	}
	if len(res.NextState) != 3 {
		t.Errorf("no fresh state after step")
	}
	if res.Info.Outcome != types.OutcomeDied {
		t.Errorf("info outcome = %v, want Died", res.Info.Outcome)
	}

	// step auto-resampled, so another step is legal without an explicit reset
	res, err = e.Step(types.ActionDischarge)
	if err != nil {
		t.Fatalf("step after auto-resample failed: %v", err)
	}
	if res.Reward != 8 {
		t.Errorf("discharge for a survivor scored %f, want 8", res.Reward)
	}
}

func TestDefaultRewardTable(t *testing.T) {
	table := DefaultRewardTable()
	cases := []struct {
		action  types.Action
		outcome types.Outcome
		want    float64
	}{
		{types.ActionDischarge, types.OutcomeDied, -10},
		{types.ActionWard, types.OutcomeDied, 2},
		{types.ActionICU, types.OutcomeDied, 10},
		{types.ActionSpecialist, types.OutcomeDied, 5},
		{types.ActionDischarge, types.OutcomeSurvived, 8},
		{types.ActionWard, types.OutcomeSurvived, 3},
		{types.ActionICU, types.OutcomeSurvived, -3},
		{types.ActionSpecialist, types.OutcomeSurvived, 1},
	}
	for _, c := range cases {
		if got := table.Reward(c.action, c.outcome); got != c.want {
			t.Errorf("reward(%v, %v) = %f, want %f", c.action, c.outcome, got, c.want)
		}
	}
}

// brokenSampler returns vectors shorter than its declared dimension.
type brokenSampler struct{}

func (brokenSampler) Dim() int { return 5 }
func (brokenSampler) Sample() Patient {
	return Patient{Features: []float64{1, 2}, Outcome: types.OutcomeSurvived}
}

func TestResetRejectsWrongDimension(t *testing.T) {
	e := New(brokenSampler{}, DefaultRewardTable())

	var dimErr *types.DimensionMismatchError
	if _, err := e.Reset(); !errors.As(err, &dimErr) {
		t.Errorf("want DimensionMismatchError, got %v", err)
	}
}

func TestSyntheticSamplerDim(t *testing.T) {
	s := NewSyntheticSampler(10, 3)
	for i := 0; i < 100; i++ {
		p := s.Sample()
		if len(p.Features) != 10 {
			t.Fatalf("synthetic patient has dimension %d, want 10", len(p.Features))
		}
	}
}
