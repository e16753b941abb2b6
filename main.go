package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	if err := newCLIApp().Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("voice-desk exited with error")
	}
}
