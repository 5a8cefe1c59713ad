package types

// StepResult is what an environment reports for one decision.
type StepResult struct {
	NextState FeatureVector
	Reward    float64
	Done      bool
	Info      StepInfo
}

// StepInfo carries per-step diagnostics for reporting. It never feeds back
// into training.
type StepInfo struct {
	Episode int
	Action  Action
	Outcome Outcome
}

// Environment produces patient states and scores triage decisions. Episodes
// are one decision long in this domain, Step always reports Done.
type Environment interface {
	Reset() (FeatureVector, error)
	Step(Action) (StepResult, error)
}
