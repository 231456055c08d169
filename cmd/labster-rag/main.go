package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
