package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/mithrel/cellmark/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("cellmark failed")
		os.Exit(1)
	}
}
