package query

import (
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
)

type Departures struct {
	Station ctdf.Station
	Now     time.Time
}
