package main

import (
	"os"

	"github.com/vphpersson/typeddict_generation/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
