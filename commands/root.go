package commands

import "github.com/spf13/cobra"

var (
	episodes  int
	batchSize int
	saveDir   string
	seed      uint64
	dataFile  string
	workers   int
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:   "triage-rl",
		Short: "PPO training and serving for ICU triage decisions",
	}
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 10000, "Number of episodes to run")
	rootCommand.PersistentFlags().IntVar(&batchSize, "batch", 64, "Episodes collected per update")
	rootCommand.PersistentFlags().StringVarP(&saveDir, "save", "s", "results", "Directory for checkpoints, logs and plots")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "RNG seed, 0 means derive from the clock")
	rootCommand.PersistentFlags().StringVar(&dataFile, "data", "", "Patient CSV file, empty uses the embedded sample cohort")
	rootCommand.PersistentFlags().IntVar(&workers, "workers", 1, "Parallel collection workers")
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(EvaluateCommand())
	return rootCommand
}
