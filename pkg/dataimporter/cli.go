package dataimporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/manager"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "data-importer",
		Usage: "Load & check the origin and transfer timetables",
		Subcommands: []*cli.Command{
			{
				Name:  "validate",
				Usage: "Load both timetables and report how many time cells can be used",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "repeat-every",
						Usage:    "Repeat the check every X (a Go duration such as 1m)",
						Required: false,
					},
				},
				Action: func(c *cli.Context) error {
					keyakigoConfig, err := config.FromCLI(c)
					if err != nil {
						return err
					}

					repeatEvery := c.String("repeat-every")
					repeat := repeatEvery != ""
					var repeatDuration time.Duration
					if repeat {
						repeatDuration, err = time.ParseDuration(repeatEvery)

						if err != nil {
							return err
						}
					}

					ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
					defer stop()

					loader := manager.NewLoader(keyakigoConfig.Datasets.Origin, keyakigoConfig.Datasets.Transfer)

					for {
						startTime := time.Now()

						if err := validate(ctx, loader, c.App.Writer); err != nil {
							return err
						}
						if !repeat {
							break
						}

						executionDuration := time.Since(startTime)
						log.Info().Msgf("Operation took %s", executionDuration.String())

						select {
						case <-ctx.Done():
							return nil
						case <-time.After(repeatDuration - executionDuration):
						}
					}

					return nil
				},
			},
		},
	}
}

func validate(ctx context.Context, loader *manager.Loader, out io.Writer) error {
	timetables, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, report := range manager.Summarise(timetables) {
		fmt.Fprintf(writer, "%s timetable\t%d rows\t\t\n", report.Kind, report.Rows)
		fmt.Fprintln(writer, "column\tparsed\tblank\tunparsable")

		for _, column := range report.Columns {
			fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", column.Column, column.Parsed, column.Blank, column.Unparsable)

			if column.Unparsable > 0 {
				log.Warn().
					Str("timetable", string(report.Kind)).
					Str("column", column.Column).
					Int("cells", column.Unparsable).
					Msg("Time cells that cannot be parsed will be skipped")
			}
		}
		fmt.Fprintln(writer)
	}

	return writer.Flush()
}
