package api

import (
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/global"
	"github.com/keyakigo/keyakigo/pkg/redis_client"
	"github.com/keyakigo/keyakigo/pkg/settings"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the journey planner web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					keyakigoConfig, err := config.FromCLI(c)
					if err != nil {
						return err
					}

					if err := redis_client.Connect(false); err != nil {
						return err
					}

					var store settings.Store
					if redis_client.Connected() {
						store = settings.NewRedisStore(redis_client.Client)
					} else {
						log.Info().Msg("Keeping settings in memory")
						store = settings.NewMemoryStore()
					}

					global.Setup(keyakigoConfig)

					log.Info().Str("listen", c.String("listen")).Msg("Starting web API")

					return SetupServer(c.String("listen"), keyakigoConfig, store)
				},
			},
		},
	}
}
