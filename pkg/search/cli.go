package search

import (
	"time"

	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/global"
	"github.com/keyakigo/keyakigo/pkg/redis_client"
	"github.com/urfave/cli/v2"
)

func setup(c *cli.Context) (*config.Config, error) {
	keyakigoConfig, err := config.FromCLI(c)
	if err != nil {
		return nil, err
	}

	if err := redis_client.Connect(false); err != nil {
		return nil, err
	}

	global.Setup(keyakigoConfig)

	return keyakigoConfig, nil
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Find the fastest routes from an origin station to the destination",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "station",
				Usage:    "origin station name",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "time",
				Usage: "departure time HH:MM, defaults to the next departure",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "service date YYYY-MM-DD, defaults to today",
			},
			&cli.StringFlag{
				Name:  "filter",
				Usage: "only keep routes matching this expression, e.g. 'transfers == 0'",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the results as JSON",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print the full results structure for debugging",
			},
		},
		Action: func(c *cli.Context) error {
			keyakigoConfig, err := setup(c)
			if err != nil {
				return err
			}

			results, err := Run(keyakigoConfig, Request{
				Station: c.String("station"),
				Time:    c.String("time"),
				Date:    c.String("date"),
				Filter:  c.String("filter"),
			}, time.Now())
			if isNoData(err) {
				c.App.Writer.Write([]byte(messageNoData + "\n"))
				return err
			} else if err != nil {
				return err
			}

			switch {
			case c.Bool("dump"):
				return writeDump(c.App.Writer, results)
			case c.Bool("json"):
				return writeJSON(c.App.Writer, results)
			default:
				return writeText(c.App.Writer, results)
			}
		},
	}
}

func RegisterDeparturesCLI() *cli.Command {
	return &cli.Command{
		Name:  "departures",
		Usage: "List the departure times of an origin station, next departure first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "station",
				Usage:    "origin station name",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			keyakigoConfig, err := setup(c)
			if err != nil {
				return err
			}

			departures, err := Departures(keyakigoConfig, c.String("station"), time.Now())
			if isNoData(err) {
				c.App.Writer.Write([]byte(messageNoData + "\n"))
				return err
			} else if err != nil {
				return err
			}

			return writeDepartures(c.App.Writer, c.String("station"), departures)
		},
	}
}
