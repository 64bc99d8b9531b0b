package main

import (
	"github.com/rs/zerolog"

	"adventune/skrivpost/cmd"
)

func main() {
	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cmd.Execute()
}
