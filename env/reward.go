package env

import "github.com/carevolve/triage-rl/types"

// RewardTable scores an action against the recorded patient outcome. It is
// injected configuration: environment variants differ only in their tables.
type RewardTable [types.NumActions][types.NumOutcomes]float64

func (r RewardTable) Reward(a types.Action, o types.Outcome) float64 {
	return r[a][o]
}

// DefaultRewardTable rewards matching the level of care to the recorded
// outcome: intensive care for patients who died, discharge for patients who
// recovered, with graded credit in between.
func DefaultRewardTable() RewardTable {
	var t RewardTable
	t[types.ActionDischarge][types.OutcomeDied] = -10.0
	t[types.ActionWard][types.OutcomeDied] = 2.0
	t[types.ActionICU][types.OutcomeDied] = 10.0
	t[types.ActionSpecialist][types.OutcomeDied] = 5.0

	t[types.ActionDischarge][types.OutcomeSurvived] = 8.0
	t[types.ActionWard][types.OutcomeSurvived] = 3.0
	t[types.ActionICU][types.OutcomeSurvived] = -3.0
	t[types.ActionSpecialist][types.OutcomeSurvived] = 1.0
	return t
}
