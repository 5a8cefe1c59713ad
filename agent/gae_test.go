package agent

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func TestGAEAllTerminal(t *testing.T) {
	rewards := []float64{1, -1, 2}
	values := []float64{0.5, -0.5, 1}
	dones := []bool{true, true, true}

	adv, ret := ComputeGAE(rewards, values, dones, 0, 0.99, 0.95)

	for i := range rewards {
		wantAdv := rewards[i] - values[i]
		if math.Abs(adv[i]-wantAdv) > tolerance {
			t.Errorf("advantage[%d] = %f, want %f", i, adv[i], wantAdv)
		}
		if math.Abs(ret[i]-rewards[i]) > tolerance {
			t.Errorf("return[%d] = %f, want %f", i, ret[i], rewards[i])
		}
	}
}

func TestGAETerminalFlagsBlockCarryOver(t *testing.T) {
	rewards := []float64{1, -1, 2}
	values := []float64{0, 0, 0}
	dones := []bool{true, true, true}

	adv, _ := ComputeGAE(rewards, values, dones, 0, 0.99, 0.95)

	for i := range rewards {
		if math.Abs(adv[i]-rewards[i]) > tolerance {
			t.Errorf("advantage[%d] = %f, want %f", i, adv[i], rewards[i])
		}
	}
}

func TestGAESingleICUTransition(t *testing.T) {
	adv, ret := ComputeGAE([]float64{10}, []float64{0}, []bool{true}, 0, 0.99, 0.95)

	if math.Abs(adv[0]-10) > tolerance {
		t.Errorf("advantage = %f, want 10", adv[0])
	}
	if math.Abs(ret[0]-10) > tolerance {
		t.Errorf("return = %f, want 10", ret[0])
	}
}

func TestGAEMultiStepRecursion(t *testing.T) {
	rewards := []float64{1, 1}
	values := []float64{0.5, 0.5}
	dones := []bool{false, true}

	adv, ret := ComputeGAE(rewards, values, dones, 0, 0.9, 0.8)

	// i=1: delta = 1 - 0.5 = 0.5, gae = 0.5
	// i=0: delta = 1 + 0.9*0.5 - 0.5 = 0.95, gae = 0.95 + 0.9*0.8*0.5 = 1.31
	if math.Abs(adv[1]-0.5) > tolerance {
		t.Errorf("advantage[1] = %f, want 0.5", adv[1])
	}
	if math.Abs(adv[0]-1.31) > tolerance {
		t.Errorf("advantage[0] = %f, want 1.31", adv[0])
	}
	if math.Abs(ret[0]-1.81) > tolerance {
		t.Errorf("return[0] = %f, want 1.81", ret[0])
	}
	if math.Abs(ret[1]-1.0) > tolerance {
		t.Errorf("return[1] = %f, want 1.0", ret[1])
	}
}

func TestGAEBootstrapOnNonTerminalTail(t *testing.T) {
	adv, _ := ComputeGAE([]float64{1}, []float64{0}, []bool{false}, 2, 0.5, 0.9)

	// delta = 1 + 0.5*2 - 0 = 2
	if math.Abs(adv[0]-2) > tolerance {
		t.Errorf("advantage = %f, want 2", adv[0])
	}
}

func TestNormalizeAdvantages(t *testing.T) {
	adv := []float64{1, 2, 3, 4, 5}
	normalizeAdvantages(adv)

	mean := 0.0
	for _, a := range adv {
		mean += a
	}
	mean /= float64(len(adv))
	if math.Abs(mean) > 1e-6 {
		t.Errorf("mean after normalization = %f, want 0", mean)
	}

	variance := 0.0
	for _, a := range adv {
		variance += (a - mean) * (a - mean)
	}
	std := math.Sqrt(variance / float64(len(adv)-1))
	if math.Abs(std-1) > 1e-4 {
		t.Errorf("stddev after normalization = %f, want 1", std)
	}
}

func TestNormalizeAdvantagesSingleElement(t *testing.T) {
	adv := []float64{42}
	normalizeAdvantages(adv)

	if math.IsNaN(adv[0]) || math.IsInf(adv[0], 0) {
		t.Fatalf("normalization of single element produced %f", adv[0])
	}
	if math.Abs(adv[0]) > tolerance {
		t.Errorf("single-element advantage = %f, want 0", adv[0])
	}
}

func TestClippedObjectiveSaturates(t *testing.T) {
	// ratio above the band with positive advantage: clipped term is the min
	// and the gradient must vanish
	loss, grad := clippedObjective(1.5, 1.0, 0.2)
	if math.Abs(loss-(-1.2)) > tolerance {
		t.Errorf("loss = %f, want -1.2", loss)
	}
	if grad != 0 {
		t.Errorf("gradient = %f, want saturation at 0", grad)
	}

	// inside the band the unclipped objective carries the gradient
	loss, grad = clippedObjective(1.1, 1.0, 0.2)
	if math.Abs(loss-(-1.1)) > tolerance {
		t.Errorf("loss = %f, want -1.1", loss)
	}
	if math.Abs(grad-(-1.1)) > tolerance {
		t.Errorf("gradient = %f, want -1.1", grad)
	}

	// below the band with negative advantage the clipped term is again the
	// min and the gradient saturates
	_, grad = clippedObjective(0.5, -1.0, 0.2)
	if grad != 0 {
		t.Errorf("gradient = %f, want saturation at 0", grad)
	}
}
