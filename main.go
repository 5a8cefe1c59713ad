package main

import (
	"fmt"

	"github.com/carevolve/triage-rl/commands"
)

// main entry point for training, evaluation and serving
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
