package network

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/carevolve/triage-rl/types"
)

// Policy maps state batches to action probability distributions through a
// feed forward network with a softmax head.
type Policy struct {
	net       *mlp
	stateDim  int
	actionDim int
}

func NewPolicy(stateDim, actionDim, hiddenDim int, dropout float64, rng *rand.Rand) *Policy {
	return &Policy{
		net:       newMLP([]int{stateDim, hiddenDim, hiddenDim, actionDim}, dropout, rng),
		stateDim:  stateDim,
		actionDim: actionDim,
	}
}

func (p *Policy) StateDim() int  { return p.stateDim }
func (p *Policy) ActionDim() int { return p.actionDim }

// Probs returns one probability row per input row. Rows are non-negative and
// sum to one. Non-finite logits fail with a NumericalInstabilityError.
func (p *Policy) Probs(x *mat.Dense, train bool) (*mat.Dense, error) {
	logits := p.net.forward(x, train)
	if !allFinite(logits) {
		return nil, &types.NumericalInstabilityError{Where: "policy"}
	}
	rows, cols := logits.Dims()
	probs := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		softmaxRow(logits.RawRowView(i), probs.RawRowView(i))
	}
	return probs, nil
}

// Backward takes the loss gradient with respect to the logits of the last
// training-mode Probs call and accumulates parameter gradients.
func (p *Policy) Backward(dLogits *mat.Dense) {
	p.net.backward(dLogits)
}

func (p *Policy) ClipGradNorm(max float64) { p.net.clipGradNorm(max) }
func (p *Policy) AdamStep(lr float64)      { p.net.adamStep(lr) }

func (p *Policy) Snapshot() Params       { return p.net.params() }
func (p *Policy) Restore(s Params) error { return p.net.restore(s) }

// softmaxRow writes the softmax of src into dst with the usual max
// subtraction to keep the exponentials bounded.
func softmaxRow(src, dst []float64) {
	max := src[0]
	for _, v := range src[1:] {
		if v > max {
			max = v
		}
	}
	sum := 0.0
	for i, v := range src {
		e := math.Exp(v - max)
		dst[i] = e
		sum += e
	}
	for i := range dst {
		dst[i] /= sum
	}
}
