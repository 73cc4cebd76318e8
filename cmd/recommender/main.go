package main

import (
	"os"

	"github.com/aselbek/recommender/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
