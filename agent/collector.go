package agent

import (
	"sync"

	"github.com/carevolve/triage-rl/types"
)

// Collector gathers episodes across worker goroutines. Each worker owns a
// private environment; all workers read the same parameter snapshot since no
// update runs during collection. Per-worker transitions are merged whole so
// each worker's temporal order survives.
type Collector struct {
	agent   *Agent
	factory func() types.Environment
	workers int
}

func NewCollector(a *Agent, factory func() types.Environment, workers int) *Collector {
	if workers < 1 {
		workers = 1
	}
	return &Collector{
		agent:   a,
		factory: factory,
		workers: workers,
	}
}

// Collect runs the given number of single-decision episodes split across the
// workers and stores all transitions into the agent's buffer. Returns the
// summed reward of the round.
func (c *Collector) Collect(episodes int) (float64, error) {
	var wg sync.WaitGroup
	var mu sync.Mutex

	total := 0.0
	var firstErr error
	locals := make([][]types.Transition, c.workers)

	per := episodes / c.workers
	extra := episodes % c.workers

	for w := 0; w < c.workers; w++ {
		count := per
		if w < extra {
			count++
		}
		wg.Add(1)
		go func(w, count int) {
			defer wg.Done()
			environment := c.factory()
			local := make([]types.Transition, 0, count)
			reward := 0.0
			for ep := 0; ep < count; ep++ {
				state, err := environment.Reset()
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				action, logProb, value, err := c.agent.SelectAction(state)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				res, err := environment.Step(action)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
				local = append(local, types.Transition{
					State:   state,
					Action:  action,
					Reward:  res.Reward,
					LogProb: logProb,
					Value:   value,
					Done:    res.Done,
				})
				reward += res.Reward
			}
			mu.Lock()
			locals[w] = local
			total += reward
			mu.Unlock()
		}(w, count)
	}
	wg.Wait()

	if firstErr != nil {
		return 0, firstErr
	}
	for _, local := range locals {
		for _, t := range local {
			if err := c.agent.StoreTransition(t); err != nil {
				return 0, err
			}
		}
	}
	return total, nil
}
