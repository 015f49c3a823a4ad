package global

import (
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/cachedresults"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/journeyplanner"
	"github.com/keyakigo/keyakigo/pkg/dataimporter/manager"
	"github.com/keyakigo/keyakigo/pkg/redis_client"
)

// Setup registers the journey planner over the configured timetables. Results
// are cached in redis when a connection has been made.
func Setup(c *config.Config) {
	dataaggregator.GlobalAggregator = dataaggregator.Aggregator{}

	journeyPlannerSource := journeyplanner.Source{
		Planner:    journeyplanner.NewPlanner(c),
		Timetables: manager.NewLoader(c.Datasets.Origin, c.Datasets.Transfer),
	}

	if redis_client.Connected() {
		cachedResults := &cachedresults.Cache{}
		cachedResults.Setup()
		journeyPlannerSource.CachedResults = cachedResults
	}

	dataaggregator.GlobalAggregator.RegisterSource(journeyPlannerSource)
}
