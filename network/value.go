package network

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/carevolve/triage-rl/types"
)

// Value estimates the expected return of each state in a batch.
type Value struct {
	net      *mlp
	stateDim int
}

func NewValue(stateDim, hiddenDim int, dropout float64, rng *rand.Rand) *Value {
	return &Value{
		net:      newMLP([]int{stateDim, hiddenDim, hiddenDim, 1}, dropout, rng),
		stateDim: stateDim,
	}
}

func (v *Value) StateDim() int { return v.stateDim }

// Estimates returns one scalar per input row, unrestricted in range.
func (v *Value) Estimates(x *mat.Dense, train bool) ([]float64, error) {
	out := v.net.forward(x, train)
	if !allFinite(out) {
		return nil, &types.NumericalInstabilityError{Where: "value"}
	}
	rows, _ := out.Dims()
	vals := make([]float64, rows)
	for i := 0; i < rows; i++ {
		vals[i] = out.At(i, 0)
	}
	return vals, nil
}

// Backward takes the loss gradient with respect to the scalar outputs of the
// last training-mode Estimates call.
func (v *Value) Backward(dOut []float64) {
	d := mat.NewDense(len(dOut), 1, append([]float64(nil), dOut...))
	v.net.backward(d)
}

func (v *Value) ClipGradNorm(max float64) { v.net.clipGradNorm(max) }
func (v *Value) AdamStep(lr float64)      { v.net.adamStep(lr) }

func (v *Value) Snapshot() Params       { return v.net.params() }
func (v *Value) Restore(s Params) error { return v.net.restore(s) }
