package env

import (
	"github.com/carevolve/triage-rl/types"
)

type phase int

const (
	phaseIdle phase = iota
	phasePatientSampled
)

// Environment is the single-decision triage environment. Reset samples a
// patient, Step scores one action against the table and immediately samples
// the next patient, so every episode is exactly one decision.
type Environment struct {
	sampler Sampler
	rewards RewardTable

	phase    phase
	current  Patient
	episodes int
}

var _ types.Environment = &Environment{}

func New(sampler Sampler, rewards RewardTable) *Environment {
	return &Environment{
		sampler: sampler,
		rewards: rewards,
		phase:   phaseIdle,
	}
}

func (e *Environment) Dim() int { return e.sampler.Dim() }

// Reset samples a patient and returns its feature vector.
func (e *Environment) Reset() (types.FeatureVector, error) {
	p := e.sampler.Sample()
	if len(p.Features) != e.sampler.Dim() {
		return nil, &types.DimensionMismatchError{Want: e.sampler.Dim(), Got: len(p.Features)}
	}
	e.current = p
	e.phase = phasePatientSampled
	e.episodes++
	return p.Features, nil
}

// Step scores the action for the current patient and reports the episode as
// terminated. The returned next state is a freshly sampled patient, as if
// the environment had been reset.
func (e *Environment) Step(action types.Action) (types.StepResult, error) {
	if e.phase != phasePatientSampled {
		return types.StepResult{}, &types.EnvironmentNotResetError{}
	}

	reward := e.rewards.Reward(action, e.current.Outcome)
	info := types.StepInfo{
		Episode: e.episodes,
		Action:  action,
		Outcome: e.current.Outcome,
	}

	e.phase = phaseIdle
	next, err := e.Reset()
	if err != nil {
		return types.StepResult{}, err
	}
	return types.StepResult{
		NextState: next,
		Reward:    reward,
		Done:      true,
		Info:      info,
	}, nil
}
