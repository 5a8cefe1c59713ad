package commands

import (
	"fmt"
	"os"
	"path"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/carevolve/triage-rl/agent"
	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/env"
	"github.com/carevolve/triage-rl/report"
	"github.com/carevolve/triage-rl/types"
	"github.com/carevolve/triage-rl/util"
)

func TrainCommand() *cobra.Command {
	var redisAddr string
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the PPO agent on a patient cohort",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, _, err := loadCohort()
			if err != nil {
				return err
			}
			trainSet, _ := dataset.Split(0.2)

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			a := agent.New(agent.Config{
				StateDim:  data.FeatureDim,
				ActionDim: types.NumActions,
				Seed:      seed,
			})

			table := env.DefaultRewardTable()
			var envSeed atomic.Uint64
			envSeed.Store(seed)
			factory := func() types.Environment {
				return env.New(env.NewDatasetSampler(trainSet, envSeed.Add(1)), table)
			}
			collector := agent.NewCollector(a, factory, workers)

			reporters := report.MultiReporter{
				report.NewFileReporter(path.Join(saveDir, "metrics.log")),
			}
			if redisAddr != "" {
				redisReporter := report.NewRedisReporter(redisAddr, "triage-rl:metrics")
				defer redisReporter.Close()
				reporters = append(reporters, redisReporter)
			}

			batches := episodes / batchSize
			if batches == 0 {
				batches = 1
			}
			meanRewards := make([]float64, 0, batches)

			fmt.Printf("Training: %d episodes, %d per batch, %d workers\n", episodes, batchSize, workers)
			for b := 0; b < batches; b++ {
				total, err := collector.Collect(batchSize)
				if err != nil {
					return err
				}
				res, err := a.Update()
				if err != nil {
					return err
				}
				mean := total / float64(batchSize)
				meanRewards = append(meanRewards, mean)
				if err := reporters.Publish(a.Metrics()); err != nil {
					return err
				}
				fmt.Printf("\rBatch %4d/%d  reward: %7.3f  policy loss: %8.5f  value loss: %8.5f",
					b+1, batches, mean, res.PolicyLoss, res.ValueLoss)
			}
			fmt.Println()

			blob, err := a.Snapshot()
			if err != nil {
				return err
			}
			checkpointPath := path.Join(saveDir, "checkpoint.json")
			if err := util.EnsureDir(checkpointPath); err != nil {
				return err
			}
			if err := os.WriteFile(checkpointPath, blob, 0644); err != nil {
				return err
			}
			fmt.Printf("Checkpoint saved to %s\n", checkpointPath)

			plotPath := path.Join(saveDir, "reward.png")
			if err := report.RewardCurve(plotPath, meanRewards); err != nil {
				return err
			}
			fmt.Printf("Reward curve saved to %s\n", plotPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Publish metrics snapshots to this Redis address")
	return cmd
}

// loadCohort resolves the --data flag to a loaded patient cohort.
func loadCohort() (*data.Dataset, *data.Pipeline, error) {
	if dataFile == "" {
		return data.LoadSample()
	}
	return data.LoadFile(dataFile)
}
