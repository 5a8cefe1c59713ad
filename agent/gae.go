package agent

// ComputeGAE runs the generalized advantage estimation recursion backwards
// over one batch and returns per-step advantages and value regression
// targets, in the original order.
//
// The done flag zeroes the bootstrap contribution across episode boundaries.
// With single-decision episodes every step is terminal and the recursion
// degenerates to advantage = reward - value, but the general form is kept so
// multi-step episodes work unchanged.
func ComputeGAE(rewards, values []float64, dones []bool, bootstrap, gamma, lambda float64) (advantages, returns []float64) {
	n := len(rewards)
	vExt := make([]float64, n+1)
	copy(vExt, values)
	vExt[n] = bootstrap

	advantages = make([]float64, n)
	returns = make([]float64, n)

	gae := 0.0
	for i := n - 1; i >= 0; i-- {
		notDone := 1.0
		if dones[i] {
			notDone = 0.0
		}
		delta := rewards[i] + gamma*vExt[i+1]*notDone - vExt[i]
		gae = delta + gamma*lambda*notDone*gae
		advantages[i] = gae
		returns[i] = gae + vExt[i]
	}
	return advantages, returns
}
