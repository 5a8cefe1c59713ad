package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carevolve/triage-rl/agent"
	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/env"
	"github.com/carevolve/triage-rl/types"
)

func EvaluateCommand() *cobra.Command {
	var checkpointFile string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run deterministic inference over the held-out split",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, _, err := loadCohort()
			if err != nil {
				return err
			}
			_, evalSet := dataset.Split(0.2)
			if evalSet.Len() == 0 {
				return fmt.Errorf("held-out split is empty")
			}

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			a := agent.New(agent.Config{
				StateDim:  data.FeatureDim,
				ActionDim: types.NumActions,
				Seed:      seed,
			})
			if checkpointFile != "" {
				blob, err := os.ReadFile(checkpointFile)
				if err != nil {
					return err
				}
				if err := a.Restore(blob); err != nil {
					return err
				}
			}

			table := env.DefaultRewardTable()
			totalReward := 0.0
			optimal := 0
			for i := 0; i < evalSet.Len(); i++ {
				outcome := types.OutcomeSurvived
				if evalSet.Died[i] {
					outcome = types.OutcomeDied
				}
				action, _, _, err := a.Predict(evalSet.Features[i])
				if err != nil {
					return err
				}
				totalReward += table.Reward(action, outcome)
				if action == bestAction(table, outcome) {
					optimal++
				}
			}

			n := evalSet.Len()
			fmt.Printf("Evaluated %d patients\n", n)
			fmt.Printf("Mean reward:      %.3f\n", totalReward/float64(n))
			fmt.Printf("Optimal actions:  %d/%d (%.1f%%)\n", optimal, n, float64(optimal)/float64(n)*100)
			return nil
		},
	}
	cmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "Checkpoint file to evaluate")
	return cmd
}

// bestAction is the highest-reward action for an outcome under the table.
func bestAction(table env.RewardTable, outcome types.Outcome) types.Action {
	best := types.Action(0)
	for a := 1; a < types.NumActions; a++ {
		if table.Reward(types.Action(a), outcome) > table.Reward(best, outcome) {
			best = types.Action(a)
		}
	}
	return best
}
