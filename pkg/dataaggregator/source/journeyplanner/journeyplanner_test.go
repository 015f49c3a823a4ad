package journeyplanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/query"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/cachedresults"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTimetables struct {
	timetables *ctdf.Timetables
	err        error
	loads      int
}

func (s *staticTimetables) Load(ctx context.Context) (*ctdf.Timetables, error) {
	s.loads++
	return s.timetables, s.err
}

func newTestAggregator(provider *staticTimetables, cache *cachedresults.Cache) *dataaggregator.Aggregator {
	aggregator := &dataaggregator.Aggregator{}
	aggregator.RegisterSource(Source{
		Planner:       testPlanner(),
		Timetables:    provider,
		CachedResults: cache,
	})

	return aggregator
}

func fixtureTimetables() *ctdf.Timetables {
	return &ctdf.Timetables{
		Origin: originTimetable(
			row{dep: "08:00", dest: "鳥栖", trainType: "普通", futsuka: "08:15", keyaki: "08:40", kiyama: "08:30"},
			row{dep: "08:05", dest: "荒木", trainType: "快速", futsuka: "08:18", keyaki: "08:32"},
		),
		Transfer: transferTimetable(
			[4]string{"08:33", "博多", "普通", "08:37"},
		),
	}
}

func TestJourneyPlanLookup(t *testing.T) {
	provider := &staticTimetables{timetables: fixtureTimetables()}
	aggregator := newTestAggregator(provider, nil)

	results, err := dataaggregator.LookupFrom[*ctdf.JourneyPlanResults](aggregator, query.JourneyPlan{
		Origin:      hakata,
		Time:        ctdf.NewTimeOfDay(8, 0, 0),
		ServiceDate: testServiceDay(),
	})
	require.NoError(t, err)

	require.True(t, results.Found())
	assert.Equal(t, "博多", results.OriginStation)
	assert.Equal(t, "けやき台", results.DestinationStation)
	assert.Equal(t, "2026-04-01", results.ServiceDate)
	assert.Equal(t, ctdf.NewTimeOfDay(8, 32, 0), results.Best.Arrival)
	assert.Len(t, results.Alternatives, len(results.Routes)-1)
}

func TestJourneyPlanLookupCached(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	cache := &cachedresults.Cache{}
	cache.SetupWithClient(client, time.Minute)

	provider := &staticTimetables{timetables: fixtureTimetables()}
	aggregator := newTestAggregator(provider, cache)

	q := query.JourneyPlan{
		Origin:      hakata,
		Time:        ctdf.NewTimeOfDay(8, 0, 0),
		ServiceDate: testServiceDay(),
	}

	first, err := dataaggregator.LookupFrom[*ctdf.JourneyPlanResults](aggregator, q)
	require.NoError(t, err)

	second, err := dataaggregator.LookupFrom[*ctdf.JourneyPlanResults](aggregator, q)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.loads)
	assert.Equal(t, first.Best.Arrival, second.Best.Arrival)
	assert.Equal(t, first.Best.Timeline, second.Best.Timeline)
	assert.Len(t, second.Alternatives, len(first.Alternatives))
}

func TestJourneyPlanLookupLoadFailure(t *testing.T) {
	loadErr := errors.New("missing file")
	provider := &staticTimetables{err: loadErr}
	aggregator := newTestAggregator(provider, nil)

	_, err := dataaggregator.LookupFrom[*ctdf.JourneyPlanResults](aggregator, query.JourneyPlan{
		Origin:      hakata,
		Time:        ctdf.NewTimeOfDay(8, 0, 0),
		ServiceDate: testServiceDay(),
	})
	assert.ErrorIs(t, err, loadErr)
}

func TestDeparturesLookup(t *testing.T) {
	provider := &staticTimetables{timetables: fixtureTimetables()}
	aggregator := newTestAggregator(provider, nil)

	departures, err := dataaggregator.LookupFrom[[]ctdf.TimeOfDay](aggregator, query.Departures{
		Station: hakata,
		Now:     testServiceDay().Add(8*time.Hour + 3*time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, []ctdf.TimeOfDay{ctdf.NewTimeOfDay(8, 5, 0), ctdf.NewTimeOfDay(8, 0, 0)}, departures)
}

func TestUnsupportedQuery(t *testing.T) {
	provider := &staticTimetables{timetables: fixtureTimetables()}
	aggregator := newTestAggregator(provider, nil)

	_, err := dataaggregator.LookupFrom[*ctdf.JourneyPlanResults](aggregator, "not a query")
	assert.ErrorIs(t, err, dataaggregator.ErrNoMatchingSource)

	_, err = dataaggregator.LookupFrom[*ctdf.Station](aggregator, query.JourneyPlan{})
	assert.ErrorIs(t, err, dataaggregator.ErrNoMatchingSource)
}
