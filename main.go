package main

import (
	"os"

	"github.com/wvsac/Report-Miner/commands"
	"github.com/wvsac/Report-Miner/config"
	"github.com/wvsac/Report-Miner/progress"
)

func main() {
	cfg := config.Load()
	rootCmd := commands.NewRootCommand(cfg)
	if err := rootCmd.Execute(); err != nil {
		progress.Errorf("Error: %v", err)
		os.Exit(1)
	}
}
