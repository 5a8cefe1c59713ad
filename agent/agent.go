package agent

import (
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/carevolve/triage-rl/network"
	"github.com/carevolve/triage-rl/types"
)

const logProbEps = 1e-8

type Config struct {
	StateDim  int
	ActionDim int
	HiddenDim int

	LearningRate float64
	Gamma        float64
	Lambda       float64
	EpsClip      float64
	EntropyCoeff float64
	Epochs       int
	MaxGradNorm  float64
	Dropout      float64

	// Seed of 0 derives a seed from the clock
	Seed uint64
}

func (c Config) withDefaults() Config {
	if c.HiddenDim == 0 {
		c.HiddenDim = 128
	}
	if c.LearningRate == 0 {
		c.LearningRate = 3e-4
	}
	if c.Gamma == 0 {
		c.Gamma = 0.99
	}
	if c.Lambda == 0 {
		c.Lambda = 0.95
	}
	if c.EpsClip == 0 {
		c.EpsClip = 0.2
	}
	if c.EntropyCoeff == 0 {
		c.EntropyCoeff = 0.01
	}
	if c.Epochs == 0 {
		c.Epochs = 4
	}
	if c.MaxGradNorm == 0 {
		c.MaxGradNorm = 0.5
	}
	if c.Dropout == 0 {
		c.Dropout = 0.1
	}
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// Agent owns the policy and value networks and the trajectory buffer.
// Parameters are only mutated inside Update; SelectAction and Predict read
// them under a shared lock.
type Agent struct {
	cfg Config

	mu     sync.RWMutex
	policy *network.Policy
	value  *network.Value

	bufMu  sync.Mutex
	buffer *types.TrajectoryBuffer

	// srcMu serializes draws from the sampling source, which is shared by
	// concurrent collection workers
	srcMu sync.Mutex
	src   rand.Source

	metrics types.Metrics
}

func New(cfg Config) *Agent {
	cfg = cfg.withDefaults()
	src := rand.NewSource(cfg.Seed)
	rng := rand.New(src)
	return &Agent{
		cfg:    cfg,
		policy: network.NewPolicy(cfg.StateDim, cfg.ActionDim, cfg.HiddenDim, cfg.Dropout, rng),
		value:  network.NewValue(cfg.StateDim, cfg.HiddenDim, cfg.Dropout, rng),
		buffer: types.NewTrajectoryBuffer(),
		src:    src,
	}
}

func (a *Agent) Config() Config { return a.cfg }

func (a *Agent) checkDim(state types.FeatureVector) error {
	if len(state) != a.cfg.StateDim {
		return &types.DimensionMismatchError{Want: a.cfg.StateDim, Got: len(state)}
	}
	return nil
}

// SelectAction samples an action from the current policy distribution and
// returns it with its log probability and the state value estimate. Used
// during training; does not touch the buffer.
func (a *Agent) SelectAction(state types.FeatureVector) (types.Action, float64, float64, error) {
	if err := a.checkDim(state); err != nil {
		return 0, 0, 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	x := mat.NewDense(1, a.cfg.StateDim, append([]float64(nil), state...))
	probs, err := a.policy.Probs(x, false)
	if err != nil {
		return 0, 0, 0, err
	}
	vals, err := a.value.Estimates(x, false)
	if err != nil {
		return 0, 0, 0, err
	}

	row := probs.RawRowView(0)
	a.srcMu.Lock()
	i, ok := sampleuv.NewWeighted(row, a.src).Take()
	a.srcMu.Unlock()
	if !ok {
		return 0, 0, 0, &types.NumericalInstabilityError{Where: "policy"}
	}
	logProb := math.Log(row[i] + logProbEps)
	return types.Action(i), logProb, vals[0], nil
}

// Predict returns the argmax action, the full action distribution and the
// value estimate. Deterministic, used for inference.
func (a *Agent) Predict(state types.FeatureVector) (types.Action, []float64, float64, error) {
	if err := a.checkDim(state); err != nil {
		return 0, nil, 0, err
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	x := mat.NewDense(1, a.cfg.StateDim, append([]float64(nil), state...))
	probs, err := a.policy.Probs(x, false)
	if err != nil {
		return 0, nil, 0, err
	}
	vals, err := a.value.Estimates(x, false)
	if err != nil {
		return 0, nil, 0, err
	}

	row := append([]float64(nil), probs.RawRowView(0)...)
	best := 0
	for i, p := range row {
		if p > row[best] {
			best = i
		}
	}
	return types.Action(best), row, vals[0], nil
}

// StoreTransition appends one transition to the trajectory buffer.
func (a *Agent) StoreTransition(t types.Transition) error {
	if err := a.checkDim(t.State); err != nil {
		return err
	}
	a.bufMu.Lock()
	defer a.bufMu.Unlock()
	a.buffer.Append(t)
	a.metrics.CumulativeReward += t.Reward
	if t.Done {
		a.metrics.Episodes++
	}
	return nil
}

// BufferLen reports how many transitions are waiting for the next update.
func (a *Agent) BufferLen() int {
	a.bufMu.Lock()
	defer a.bufMu.Unlock()
	return a.buffer.Len()
}

// Metrics returns a snapshot of the accumulated training metrics.
func (a *Agent) Metrics() types.Metrics {
	a.mu.RLock()
	defer a.mu.RUnlock()
	a.bufMu.Lock()
	defer a.bufMu.Unlock()
	return a.metrics
}
