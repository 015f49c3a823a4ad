package journeyplanner

import (
	"errors"
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"golang.org/x/exp/slices"
)

var ErrNoDepartureData = errors.New("no data")

// DepartureOptions lists the distinct departure times of a station rotated
// around now: upcoming departures first, then the ones already gone, both
// ascending.
func DepartureOptions(station ctdf.Station, timetables *ctdf.Timetables, now time.Time) ([]ctdf.TimeOfDay, error) {
	seen := map[ctdf.TimeOfDay]bool{}
	departures := []ctdf.TimeOfDay{}

	for i := range timetables.Origin {
		departure, ok := timetables.Origin[i].Cell(station.Column).Time()
		if !ok || seen[departure] {
			continue
		}

		seen[departure] = true
		departures = append(departures, departure)
	}

	if len(departures) == 0 {
		return nil, ErrNoDepartureData
	}

	slices.Sort(departures)

	current := ctdf.TimeOfDayFromTime(now)
	// A departure in the current second has gone once any fraction has passed
	upcoming := func(departure ctdf.TimeOfDay) bool {
		return departure > current || (departure == current && now.Nanosecond() == 0)
	}

	options := make([]ctdf.TimeOfDay, 0, len(departures))
	for _, departure := range departures {
		if upcoming(departure) {
			options = append(options, departure)
		}
	}
	for _, departure := range departures {
		if !upcoming(departure) {
			options = append(options, departure)
		}
	}

	return options, nil
}
