package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/yesetoda/graylog_query/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("")
		os.Exit(1)
	}
}
