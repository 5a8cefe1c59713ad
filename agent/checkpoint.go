package agent

import (
	"encoding/json"
	"fmt"

	"github.com/carevolve/triage-rl/network"
	"github.com/carevolve/triage-rl/types"
)

// checkpoint bundles everything needed to reproduce the agent: both network
// parameter sets (with optimizer moments) and the accumulated metrics.
// Callers treat the returned blob as opaque.
type checkpoint struct {
	Policy  network.Params `json:"policy"`
	Value   network.Params `json:"value"`
	Metrics types.Metrics  `json:"metrics"`
}

// Snapshot serializes the agent state. A Snapshot/Restore round trip yields
// bit-identical inference behavior.
func (a *Agent) Snapshot() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	a.bufMu.Lock()
	metrics := a.metrics
	a.bufMu.Unlock()
	return json.Marshal(checkpoint{
		Policy:  a.policy.Snapshot(),
		Value:   a.value.Snapshot(),
		Metrics: metrics,
	})
}

// Restore replaces the agent state with a previously saved snapshot.
func (a *Agent) Restore(blob []byte) error {
	var cp checkpoint
	if err := json.Unmarshal(blob, &cp); err != nil {
		return fmt.Errorf("decoding checkpoint: %w", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.policy.Restore(cp.Policy); err != nil {
		return fmt.Errorf("restoring policy: %w", err)
	}
	if err := a.value.Restore(cp.Value); err != nil {
		return fmt.Errorf("restoring value: %w", err)
	}
	a.bufMu.Lock()
	a.metrics = cp.Metrics
	a.bufMu.Unlock()
	return nil
}
