package types

import "fmt"

// Action taken for a sampled patient. The action space is fixed for the
// lifetime of an agent.
type Action int

const (
	ActionDischarge Action = iota
	ActionWard
	ActionICU
	ActionSpecialist

	NumActions = 4
)

func (a Action) String() string {
	switch a {
	case ActionDischarge:
		return "Discharge"
	case ActionWard:
		return "Ward Admission"
	case ActionICU:
		return "ICU Admission"
	case ActionSpecialist:
		return "Specialist Referral"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Outcome is the ground truth recorded for a patient after the stay.
type Outcome int

const (
	OutcomeSurvived Outcome = iota
	OutcomeDied

	NumOutcomes = 2
)

func (o Outcome) String() string {
	if o == OutcomeDied {
		return "Died"
	}
	return "Survived"
}

// FeatureVector is a fixed-dimension numeric encoding of a patient state.
// Inputs are expected to be already normalized by the data layer.
type FeatureVector = []float64
