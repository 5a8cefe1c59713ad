package agent

import (
	"sync/atomic"
	"testing"

	"github.com/carevolve/triage-rl/env"
	"github.com/carevolve/triage-rl/types"
)

func TestCollectorFillsBuffer(t *testing.T) {
	a := New(Config{
		StateDim:  10,
		ActionDim: types.NumActions,
		HiddenDim: 16,
		Seed:      11,
	})
	var seed atomic.Uint64
	factory := func() types.Environment {
		return env.New(env.NewSyntheticSampler(10, seed.Add(1)), env.DefaultRewardTable())
	}

	collector := NewCollector(a, factory, 3)
	if _, err := collector.Collect(10); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	if a.BufferLen() != 10 {
		t.Errorf("buffer length = %d, want 10", a.BufferLen())
	}

	res, err := a.Update()
	if err != nil {
		t.Fatalf("update after collection failed: %v", err)
	}
	if res.BatchSize != 10 {
		t.Errorf("batch size = %d, want 10", res.BatchSize)
	}
}
