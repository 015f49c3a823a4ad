package main

import (
	"os"
	"time"

	"github.com/keyakigo/keyakigo/pkg/api"
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/dataimporter"
	"github.com/keyakigo/keyakigo/pkg/search"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("KEYAKIGO_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	if os.Getenv("KEYAKIGO_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "keyakigo",
		Description: "Fastest train connections to けやき台 from 博多, 南福岡 and 二日市",

		Flags: []cli.Flag{
			config.Flag(),
		},

		Commands: []*cli.Command{
			search.RegisterCLI(),
			search.RegisterDeparturesCLI(),
			dataimporter.RegisterCLI(),
			api.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
