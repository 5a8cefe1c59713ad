package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/carevolve/triage-rl/agent"
	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/env"
	"github.com/carevolve/triage-rl/server"
	"github.com/carevolve/triage-rl/types"
)

func ServeCommand() *cobra.Command {
	var addr string
	var checkpointFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve triage decisions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataset, pipeline, err := loadCohort()
			if err != nil {
				return err
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
				fmt.Printf("Checkpoint loaded from %s\n", checkpointFile)
			}

			environment := env.New(env.NewDatasetSampler(dataset, seed+1), env.DefaultRewardTable())
			srv := server.New(a, pipeline, environment, batchSize)
			fmt.Printf("Serving on %s\n", addr)
			return srv.Run(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")
	cmd.Flags().StringVar(&checkpointFile, "checkpoint", "", "Checkpoint file to restore before serving")
	return cmd
}
