package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/query"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/journeyplanner"
	"github.com/keyakigo/keyakigo/pkg/util"
)

// Request is one search as given on the command line. Empty time and date
// mean the next departure on today's service day.
type Request struct {
	Station string
	Time    string
	Date    string
	Filter  string
}

func Run(c *config.Config, request Request, now time.Time) (*ctdf.JourneyPlanResults, error) {
	station, err := c.Station(request.Station)
	if err != nil {
		return nil, err
	}

	location := c.Location()
	now = now.In(location)

	serviceDate := util.ServiceDay(now)
	if request.Date != "" {
		serviceDate, err = time.ParseInLocation(time.DateOnly, request.Date, location)
		if err != nil {
			return nil, fmt.Errorf("date should be YYYY-MM-DD: %w", err)
		}
	}

	var departureTime ctdf.TimeOfDay
	if request.Time != "" {
		var ok bool
		departureTime, ok = ctdf.ParseTime(request.Time)
		if !ok {
			return nil, fmt.Errorf("time should be HH:MM or HH:MM:SS, got %q", request.Time)
		}
	}

	// A station without departure times has no data whatever the time asked for
	departures, err := Departures(c, request.Station, now)
	if err != nil {
		return nil, err
	}
	if request.Time == "" {
		departureTime = departures[0]
	}

	results, err := dataaggregator.Lookup[*ctdf.JourneyPlanResults](query.JourneyPlan{
		Origin:      station,
		Time:        departureTime,
		ServiceDate: serviceDate,
	})
	if err != nil {
		return nil, err
	}

	if request.Filter == "" {
		return results, nil
	}

	filter, err := NewFilter(request.Filter)
	if err != nil {
		return nil, err
	}

	routes, err := filter.Apply(results.Routes)
	if err != nil {
		return nil, err
	}

	return ctdf.NewJourneyPlanResults(results.OriginStation, results.DestinationStation, departureTime, serviceDate, routes), nil
}

func Departures(c *config.Config, stationName string, now time.Time) ([]ctdf.TimeOfDay, error) {
	station, err := c.Station(stationName)
	if err != nil {
		return nil, err
	}

	return dataaggregator.Lookup[[]ctdf.TimeOfDay](query.Departures{
		Station: station,
		Now:     now,
	})
}

func isNoData(err error) bool {
	return errors.Is(err, journeyplanner.ErrNoDepartureData)
}
