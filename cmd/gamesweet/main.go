// Command gamesweet plays board games between a Monte Carlo tree search and other agents.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("gamesweet")
		os.Exit(1)
	}
}
