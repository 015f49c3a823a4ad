package journeyplanner

import (
	"context"
	"fmt"
	"time"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/query"
	"github.com/rs/zerolog/log"
)

func (s Source) JourneyPlanQuery(q query.JourneyPlan) (*ctdf.JourneyPlanResults, error) {
	ctx := context.Background()

	cacheItemPath := fmt.Sprintf("cachedresults/journeyplan/%s/%s/%s", q.Origin.Name, q.ServiceDate.Format(time.DateOnly), q.Time.Clock())

	var cachedResults ctdf.JourneyPlanResults
	if s.CachedResults.Get(ctx, cacheItemPath, &cachedResults) {
		searchCacheHits.Inc()
		return &cachedResults, nil
	}

	timetables, err := s.Timetables.Load(ctx)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	routes := RankRoutes(s.Planner.FindRoutes(q.Origin, q.Time, q.ServiceDate, timetables))

	searchDuration.Observe(time.Since(startTime).Seconds())
	for _, route := range routes {
		searchResults.WithLabelValues(string(route.Type)).Inc()
	}

	log.Debug().
		Str("origin", q.Origin.Name).
		Str("time", q.Time.Clock()).
		Int("routes", len(routes)).
		Str("length", time.Since(startTime).String()).
		Msg("Journey plan search")

	journeyPlanResults := ctdf.NewJourneyPlanResults(
		q.Origin.Name,
		s.Planner.Config.Network.Destination,
		q.Time,
		q.ServiceDate,
		routes,
	)

	if err := s.CachedResults.Set(ctx, cacheItemPath, journeyPlanResults); err != nil {
		log.Error().Err(err).Msg("Failed to save journey plan into cache")
	}

	return journeyPlanResults, nil
}

func (s Source) DeparturesQuery(q query.Departures) ([]ctdf.TimeOfDay, error) {
	timetables, err := s.Timetables.Load(context.Background())
	if err != nil {
		return nil, err
	}

	return DepartureOptions(q.Station, timetables, q.Now.In(s.Planner.Config.Location()))
}
