package query

import (
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
)

type JourneyPlan struct {
	Origin ctdf.Station
	Time   ctdf.TimeOfDay

	// ServiceDate is midnight of the service day in the network time zone
	ServiceDate time.Time
}
