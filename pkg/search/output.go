package search

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/kr/pretty"
	"github.com/liip/sheriff"
)

const (
	messageNoData  = "データなし"
	messageNoRoute = "ルートが見つかりません"
)

func writeText(out io.Writer, results *ctdf.JourneyPlanResults) error {
	if !results.Found() {
		_, err := fmt.Fprintln(out, messageNoRoute)
		return err
	}

	best := results.Best

	fmt.Fprintf(out, "%s 発 %s → %s 着 %s\n", results.OriginStation, best.Departure, results.DestinationStation, best.Arrival)
	fmt.Fprintf(out, "所要 %d分  %s\n\n", best.TotalMinutes, best.TypeLabel)

	for _, leg := range best.Timeline {
		fmt.Fprintf(out, "  %s %s  %s\n", leg.Icon, leg.Time, leg.Text)
	}

	if len(results.Alternatives) == 0 {
		return nil
	}

	fmt.Fprintln(out, "\n他の候補")

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, alternative := range results.Alternatives {
		fmt.Fprintf(writer, "  %s 着\t%s\t%s 発\t(+%d分)\n",
			alternative.Route.Arrival,
			alternative.Route.TypeLabel,
			alternative.Route.Departure,
			alternative.MinutesBehind,
		)
	}

	return writer.Flush()
}

func writeJSON(out io.Writer, results *ctdf.JourneyPlanResults) error {
	reducedResults, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, results)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(reducedResults)
}

func writeDump(out io.Writer, results *ctdf.JourneyPlanResults) error {
	_, err := pretty.Fprintf(out, "%# v\n", results)
	return err
}

func writeDepartures(out io.Writer, station string, departures []ctdf.TimeOfDay) error {
	fmt.Fprintf(out, "▼ %s 発\n", station)

	for i, departure := range departures {
		marker := " "
		if i == 0 {
			marker = ">"
		}

		if _, err := fmt.Fprintf(out, "%s %s\n", marker, departure); err != nil {
			return err
		}
	}

	return nil
}
