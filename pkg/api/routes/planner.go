package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/query"
	"github.com/keyakigo/keyakigo/pkg/util"
	"github.com/liip/sheriff"
)

func PlannerRouter(router fiber.Router, c *config.Config) {
	router.Get("/:station", func(ctx *fiber.Ctx) error {
		return getPlanFromStation(ctx, c)
	})
}

func getPlanFromStation(ctx *fiber.Ctx, c *config.Config) error {
	stationName, err := unescapeParam(ctx, "station")
	if err != nil {
		ctx.SendStatus(fiber.StatusBadRequest)
		return ctx.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	station, err := c.Station(stationName)
	if err != nil {
		ctx.SendStatus(fiber.StatusNotFound)
		return ctx.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	location := c.Location()
	now := time.Now().In(location)

	// Get service date
	serviceDate := util.ServiceDay(now)
	if dateString := ctx.Query("date"); dateString != "" {
		serviceDate, err = time.ParseInLocation(time.DateOnly, dateString, location)
		if err != nil {
			ctx.SendStatus(fiber.StatusBadRequest)
			return ctx.JSON(fiber.Map{
				"error": "Parameter date should be a YYYY-MM-DD date",
			})
		}
	}

	// Get departure time, defaulting to the next departure
	var departureTime ctdf.TimeOfDay
	timeString := ctx.Query("time")
	if timeString != "" {
		var ok bool
		departureTime, ok = ctdf.ParseTime(timeString)
		if !ok {
			ctx.SendStatus(fiber.StatusBadRequest)
			return ctx.JSON(fiber.Map{
				"error": "Parameter time should be a HH:MM or HH:MM:SS time",
			})
		}
	}

	// Stations without any departure times answer no data, even for an explicit time
	departures, err := dataaggregator.Lookup[[]ctdf.TimeOfDay](query.Departures{
		Station: station,
		Now:     now,
	})
	if err != nil {
		return lookupError(ctx, err)
	}
	if timeString == "" {
		departureTime = departures[0]
	}

	journeyPlanResults, err := dataaggregator.Lookup[*ctdf.JourneyPlanResults](query.JourneyPlan{
		Origin:      station,
		Time:        departureTime,
		ServiceDate: serviceDate,
	})
	if err != nil {
		return lookupError(ctx, err)
	}

	groups := []string{"basic"}
	if ctx.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	reducedResults, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, journeyPlanResults)

	if err != nil {
		ctx.SendStatus(fiber.StatusInternalServerError)
		return ctx.JSON(fiber.Map{
			"error": "Sherrif could not reduce JourneyPlanResults",
		})
	}

	if !journeyPlanResults.Found() {
		if reducedMap, ok := reducedResults.(map[string]interface{}); ok {
			reducedMap["message"] = "no route found"
		}
	}

	return ctx.JSON(reducedResults)
}
