package report

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/carevolve/triage-rl/util"
)

// RewardCurve plots the mean episode reward of each training batch and saves
// it as an image.
func RewardCurve(path string, rewards []float64) error {
	if err := util.EnsureDir(path); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Mean episode reward per batch"
	p.X.Label.Text = "Batch"
	p.Y.Label.Text = "Reward"

	points := make(plotter.XYs, len(rewards))
	for i, r := range rewards {
		points[i] = plotter.XY{X: float64(i), Y: r}
	}
	if err := plotutil.AddLinePoints(p, "reward", points); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
