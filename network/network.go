package network

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

// linear is one fully connected layer with its gradient and Adam moment
// buffers. Weights are stored out x in.
type linear struct {
	w *mat.Dense
	b []float64

	gw *mat.Dense
	gb []float64

	mw, vw *mat.Dense
	mb, vb []float64
}

func newLinear(in, out int, rng *rand.Rand) *linear {
	w := mat.NewDense(out, in, nil)
	scale := math.Sqrt(2.0 / float64(in))
	for i := 0; i < out; i++ {
		for j := 0; j < in; j++ {
			w.Set(i, j, rng.NormFloat64()*scale)
		}
	}
	return &linear{
		w:  w,
		b:  make([]float64, out),
		gw: mat.NewDense(out, in, nil),
		gb: make([]float64, out),
		mw: mat.NewDense(out, in, nil),
		vw: mat.NewDense(out, in, nil),
		mb: make([]float64, out),
		vb: make([]float64, out),
	}
}

// mlp is a feed forward network with ReLU hidden layers and a linear head.
// Dropout after each hidden activation is applied only in training mode.
type mlp struct {
	layers  []*linear
	dims    []int
	dropout float64
	rng     *rand.Rand
	step    int

	// caches from the last training-mode forward, consumed by backward
	inputs []*mat.Dense
	masks  []*mat.Dense
}

func newMLP(dims []int, dropout float64, rng *rand.Rand) *mlp {
	layers := make([]*linear, len(dims)-1)
	for i := range layers {
		layers[i] = newLinear(dims[i], dims[i+1], rng)
	}
	return &mlp{
		layers:  layers,
		dims:    dims,
		dropout: dropout,
		rng:     rng,
	}
}

// forward runs the network on a batch (rows are samples) and returns the
// linear head output. In training mode the per-layer inputs and dropout
// masks are cached for backward.
func (n *mlp) forward(x *mat.Dense, train bool) *mat.Dense {
	if train {
		n.inputs = make([]*mat.Dense, len(n.layers))
		n.masks = make([]*mat.Dense, len(n.layers)-1)
	}
	cur := x
	for li, l := range n.layers {
		if train {
			n.inputs[li] = cur
		}
		rows, _ := cur.Dims()
		out, _ := l.w.Dims()
		next := mat.NewDense(rows, out, nil)
		next.Mul(cur, l.w.T())
		for i := 0; i < rows; i++ {
			for j := 0; j < out; j++ {
				next.Set(i, j, next.At(i, j)+l.b[j])
			}
		}
		if li < len(n.layers)-1 {
			// ReLU, storing the activation gate in the dropout mask
			var mask *mat.Dense
			if train {
				mask = mat.NewDense(rows, out, nil)
			}
			keep := 1.0 - n.dropout
			for i := 0; i < rows; i++ {
				for j := 0; j < out; j++ {
					v := next.At(i, j)
					if v <= 0 {
						next.Set(i, j, 0)
						if train {
							mask.Set(i, j, 0)
						}
						continue
					}
					if train && n.dropout > 0 {
						if n.rng.Float64() < n.dropout {
							next.Set(i, j, 0)
							mask.Set(i, j, 0)
						} else {
							next.Set(i, j, v/keep)
							mask.Set(i, j, 1/keep)
						}
					} else if train {
						mask.Set(i, j, 1)
					}
				}
			}
			if train {
				n.masks[li] = mask
			}
		}
		cur = next
	}
	return cur
}

// backward accumulates parameter gradients for the loss gradient dOut with
// respect to the head output of the last training-mode forward.
func (n *mlp) backward(dOut *mat.Dense) {
	delta := dOut
	for li := len(n.layers) - 1; li >= 0; li-- {
		l := n.layers[li]
		in := n.inputs[li]

		l.gw.Mul(delta.T(), in)
		rows, cols := delta.Dims()
		for j := 0; j < cols; j++ {
			sum := 0.0
			for i := 0; i < rows; i++ {
				sum += delta.At(i, j)
			}
			l.gb[j] = sum
		}
		if li == 0 {
			break
		}
		inRows, inCols := in.Dims()
		prev := mat.NewDense(inRows, inCols, nil)
		prev.Mul(delta, l.w)
		prev.MulElem(prev, n.masks[li-1])
		delta = prev
	}
}

// gradNorm returns the global L2 norm over all parameter gradients.
func (n *mlp) gradNorm() float64 {
	sum := 0.0
	for _, l := range n.layers {
		rows, cols := l.gw.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				g := l.gw.At(i, j)
				sum += g * g
			}
		}
		for _, g := range l.gb {
			sum += g * g
		}
	}
	return math.Sqrt(sum)
}

// clipGradNorm rescales all gradients so the global norm does not exceed max.
func (n *mlp) clipGradNorm(max float64) {
	norm := n.gradNorm()
	if norm <= max || norm == 0 {
		return
	}
	scale := max / norm
	for _, l := range n.layers {
		l.gw.Scale(scale, l.gw)
		for i := range l.gb {
			l.gb[i] *= scale
		}
	}
}

// adamStep applies one Adam update with the accumulated gradients.
func (n *mlp) adamStep(lr float64) {
	n.step++
	c1 := 1 - math.Pow(adamBeta1, float64(n.step))
	c2 := 1 - math.Pow(adamBeta2, float64(n.step))
	for _, l := range n.layers {
		rows, cols := l.w.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				g := l.gw.At(i, j)
				m := adamBeta1*l.mw.At(i, j) + (1-adamBeta1)*g
				v := adamBeta2*l.vw.At(i, j) + (1-adamBeta2)*g*g
				l.mw.Set(i, j, m)
				l.vw.Set(i, j, v)
				l.w.Set(i, j, l.w.At(i, j)-lr*(m/c1)/(math.Sqrt(v/c2)+adamEps))
			}
		}
		for j := range l.b {
			g := l.gb[j]
			m := adamBeta1*l.mb[j] + (1-adamBeta1)*g
			v := adamBeta2*l.vb[j] + (1-adamBeta2)*g*g
			l.mb[j] = m
			l.vb[j] = v
			l.b[j] -= lr * (m / c1) / (math.Sqrt(v/c2) + adamEps)
		}
	}
}

func allFinite(m *mat.Dense) bool {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}
