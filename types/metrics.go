package types

// Metrics is the accumulating training record owned by the agent. Episodes
// and CumulativeReward only grow; the loss fields hold the values of the most
// recent update.
type Metrics struct {
	Episodes         int     `json:"episodes"`
	Updates          int     `json:"updates"`
	LastPolicyLoss   float64 `json:"last_policy_loss"`
	LastValueLoss    float64 `json:"last_value_loss"`
	CumulativeReward float64 `json:"cumulative_reward"`
}
