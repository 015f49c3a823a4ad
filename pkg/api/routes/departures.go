package routes

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/ctdf"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/query"
	"github.com/keyakigo/keyakigo/pkg/dataaggregator/source/journeyplanner"
)

func DeparturesRouter(router fiber.Router, c *config.Config) {
	router.Get("/:station", func(ctx *fiber.Ctx) error {
		return getDepartures(ctx, c)
	})
}

func getDepartures(ctx *fiber.Ctx, c *config.Config) error {
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

	departures, err := dataaggregator.Lookup[[]ctdf.TimeOfDay](query.Departures{
		Station: station,
		Now:     time.Now(),
	})
	if err != nil {
		return lookupError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"station":    station.Name,
		"departures": departures,
	})
}

// lookupError maps errors from the journey planner onto responses
func lookupError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, journeyplanner.ErrNoDepartureData) {
		ctx.SendStatus(fiber.StatusNotFound)
	} else {
		ctx.SendStatus(fiber.StatusServiceUnavailable)
	}

	return ctx.JSON(fiber.Map{
		"error": err.Error(),
	})
}

func unescapeParam(ctx *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(ctx.Params(name))
}
