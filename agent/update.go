package agent

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const advantageEps = 1e-8

// UpdateResult reports the mean losses of one update across its epochs.
type UpdateResult struct {
	PolicyLoss float64
	ValueLoss  float64
	BatchSize  int
}

// Update runs the clipped-surrogate PPO optimization over the buffered
// transitions and drains the buffer. An empty buffer is a no-op. The buffer
// is cleared even when an epoch fails with a numerical error.
func (a *Agent) Update() (UpdateResult, error) {
	a.bufMu.Lock()
	batch := a.buffer.Drain()
	a.bufMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	n := len(batch)
	if n == 0 {
		return UpdateResult{
			PolicyLoss: a.metrics.LastPolicyLoss,
			ValueLoss:  a.metrics.LastValueLoss,
		}, nil
	}

	states := mat.NewDense(n, a.cfg.StateDim, nil)
	actions := make([]int, n)
	oldLogProbs := make([]float64, n)
	rewards := make([]float64, n)
	values := make([]float64, n)
	dones := make([]bool, n)
	for i, t := range batch {
		states.SetRow(i, t.State)
		actions[i] = int(t.Action)
		oldLogProbs[i] = t.LogProb
		rewards[i] = t.Reward
		values[i] = t.Value
		dones[i] = t.Done
	}

	bootstrap := 0.0 // episodes here always end terminal
	advantages, returns := ComputeGAE(rewards, values, dones, bootstrap, a.cfg.Gamma, a.cfg.Lambda)
	normalizeAdvantages(advantages)

	totalPolicyLoss := 0.0
	totalValueLoss := 0.0
	for epoch := 0; epoch < a.cfg.Epochs; epoch++ {
		pLoss, err := a.policyEpoch(states, actions, oldLogProbs, advantages)
		if err != nil {
			return UpdateResult{}, err
		}
		vLoss, err := a.valueEpoch(states, returns)
		if err != nil {
			return UpdateResult{}, err
		}
		totalPolicyLoss += pLoss
		totalValueLoss += vLoss
	}

	res := UpdateResult{
		PolicyLoss: totalPolicyLoss / float64(a.cfg.Epochs),
		ValueLoss:  totalValueLoss / float64(a.cfg.Epochs),
		BatchSize:  n,
	}
	a.metrics.Updates++
	a.metrics.LastPolicyLoss = res.PolicyLoss
	a.metrics.LastValueLoss = res.ValueLoss
	return res, nil
}

// normalizeAdvantages rescales in place to zero mean and unit deviation.
// Applied once per update, not per epoch. A single-element batch has no
// deviation; the epsilon keeps the division defined.
func normalizeAdvantages(adv []float64) {
	mean := stat.Mean(adv, nil)
	std := 0.0
	if len(adv) > 1 {
		std = stat.StdDev(adv, nil)
	}
	for i := range adv {
		adv[i] = (adv[i] - mean) / (std + advantageEps)
	}
}

// policyEpoch recomputes the distribution under the current parameters,
// applies the clipped surrogate objective with an entropy bonus, and takes
// one gradient step.
func (a *Agent) policyEpoch(states *mat.Dense, actions []int, oldLogProbs, advantages []float64) (float64, error) {
	n, _ := states.Dims()
	probs, err := a.policy.Probs(states, true)
	if err != nil {
		return 0, err
	}

	dLogits := mat.NewDense(n, a.cfg.ActionDim, nil)
	loss := 0.0
	entropyMean := 0.0
	fn := float64(n)

	for i := 0; i < n; i++ {
		row := probs.RawRowView(i)
		act := actions[i]
		adv := advantages[i]

		newLogProb := math.Log(row[act] + logProbEps)
		ratio := math.Exp(newLogProb - oldLogProbs[i])

		sampleLoss, g := clippedObjective(ratio, adv, a.cfg.EpsClip)
		loss += sampleLoss / fn
		if g != 0 {
			g /= fn
			for k := 0; k < a.cfg.ActionDim; k++ {
				ind := 0.0
				if k == act {
					ind = 1.0
				}
				dLogits.Set(i, k, dLogits.At(i, k)+g*(ind-row[k]))
			}
		}

		entropy := 0.0
		for _, p := range row {
			entropy -= p * math.Log(p+logProbEps)
		}
		entropyMean += entropy / fn

		// entropy bonus gradient
		c := a.cfg.EntropyCoeff / fn
		for k := 0; k < a.cfg.ActionDim; k++ {
			lp := math.Log(row[k] + logProbEps)
			dLogits.Set(i, k, dLogits.At(i, k)+c*row[k]*(lp+entropy))
		}
	}
	loss -= a.cfg.EntropyCoeff * entropyMean

	a.policy.Backward(dLogits)
	a.policy.ClipGradNorm(a.cfg.MaxGradNorm)
	a.policy.AdamStep(a.cfg.LearningRate)
	return loss, nil
}

// clippedObjective evaluates min(ratio*adv, clip(ratio)*adv) for one sample
// and returns its loss contribution with the loss gradient with respect to
// the new log-probability. When the clipped branch is active the ratio sits
// outside the trust band and the gradient saturates to zero.
func clippedObjective(ratio, adv, epsClip float64) (loss, grad float64) {
	clipped := ratio
	if clipped < 1-epsClip {
		clipped = 1 - epsClip
	} else if clipped > 1+epsClip {
		clipped = 1 + epsClip
	}
	surr1 := ratio * adv
	surr2 := clipped * adv
	if surr1 <= surr2 {
		return -surr1, -ratio * adv
	}
	return -surr2, 0
}

// valueEpoch regresses the value estimates against the return targets with
// a mean squared error loss.
func (a *Agent) valueEpoch(states *mat.Dense, returns []float64) (float64, error) {
	n, _ := states.Dims()
	vals, err := a.value.Estimates(states, true)
	if err != nil {
		return 0, err
	}

	loss := 0.0
	dOut := make([]float64, n)
	fn := float64(n)
	for i := range vals {
		diff := vals[i] - returns[i]
		loss += diff * diff / fn
		dOut[i] = 2 * diff / fn
	}

	a.value.Backward(dOut)
	a.value.ClipGradNorm(a.cfg.MaxGradNorm)
	a.value.AdamStep(a.cfg.LearningRate)
	return loss, nil
}
