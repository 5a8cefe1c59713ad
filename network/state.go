package network

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LayerParams is the serializable form of one layer, including optimizer
// moments so a restored network resumes training where it left off.
type LayerParams struct {
	W  []float64 `json:"w"`
	B  []float64 `json:"b"`
	MW []float64 `json:"mw"`
	VW []float64 `json:"vw"`
	MB []float64 `json:"mb"`
	VB []float64 `json:"vb"`
}

// Params holds a full parameter snapshot of one network.
type Params struct {
	Dims   []int         `json:"dims"`
	Step   int           `json:"step"`
	Layers []LayerParams `json:"layers"`
}

func (n *mlp) params() Params {
	s := Params{Dims: n.dims, Step: n.step}
	for _, l := range n.layers {
		s.Layers = append(s.Layers, LayerParams{
			W:  append([]float64(nil), l.w.RawMatrix().Data...),
			B:  append([]float64(nil), l.b...),
			MW: append([]float64(nil), l.mw.RawMatrix().Data...),
			VW: append([]float64(nil), l.vw.RawMatrix().Data...),
			MB: append([]float64(nil), l.mb...),
			VB: append([]float64(nil), l.vb...),
		})
	}
	return s
}

func (n *mlp) restore(s Params) error {
	if len(s.Dims) != len(n.dims) {
		return fmt.Errorf("checkpoint layer count mismatch: want %d dims, got %d", len(n.dims), len(s.Dims))
	}
	for i, d := range n.dims {
		if s.Dims[i] != d {
			return fmt.Errorf("checkpoint dimension mismatch at layer %d: want %d, got %d", i, d, s.Dims[i])
		}
	}
	if len(s.Layers) != len(n.layers) {
		return fmt.Errorf("checkpoint layer count mismatch: want %d, got %d", len(n.layers), len(s.Layers))
	}
	n.step = s.Step
	for i, l := range n.layers {
		ls := s.Layers[i]
		out, in := l.w.Dims()
		if len(ls.W) != out*in || len(ls.B) != out {
			return fmt.Errorf("checkpoint layer %d has wrong shape", i)
		}
		l.w = mat.NewDense(out, in, append([]float64(nil), ls.W...))
		l.b = append([]float64(nil), ls.B...)
		l.mw = mat.NewDense(out, in, append([]float64(nil), ls.MW...))
		l.vw = mat.NewDense(out, in, append([]float64(nil), ls.VW...))
		l.mb = append([]float64(nil), ls.MB...)
		l.vb = append([]float64(nil), ls.VB...)
	}
	return nil
}
