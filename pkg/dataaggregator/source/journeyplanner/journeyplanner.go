package journeyplanner

import (
	"context"
	"reflect"

	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/query"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/cachedresults"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "keyakigo_journeyplan_search_seconds",
		Help: "Time spent enumerating and ranking routes",
	})
	searchResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "keyakigo_journeyplan_routes_total",
		Help: "Number of routes found by category",
	}, []string{"type"})
	searchCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "keyakigo_journeyplan_cache_hits_total",
		Help: "Number of journey plans served from the result cache",
	})
)

func init() {
	prometheus.MustRegister(searchDuration, searchResults, searchCacheHits)
}

// TimetableProvider supplies the timetables for a single query
type TimetableProvider interface {
	Load(ctx context.Context) (*ctdf.Timetables, error)
}

type Source struct {
	Planner    *Planner
	Timetables TimetableProvider

	CachedResults *cachedresults.Cache
}

func (s Source) GetName() string {
	return "Journey Planner"
}

func (s Source) Supports() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf(ctdf.JourneyPlanResults{}),
		reflect.TypeOf([]ctdf.TimeOfDay{}),
	}
}

func (s Source) Lookup(q any) (interface{}, error) {
	switch q := q.(type) {
	case query.JourneyPlan:
		return s.JourneyPlanQuery(q)
	case query.Departures:
		return s.DeparturesQuery(q)
	default:
		return nil, source.UnsupportedSourceError
	}
}
