package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/liip/sheriff"
)

func StationsRouter(router fiber.Router, c *config.Config) {
	router.Get("/", func(ctx *fiber.Ctx) error {
		return listStations(ctx, c)
	})
}

func listStations(ctx *fiber.Ctx, c *config.Config) error {
	originsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, c.Network.Origins)

	if err != nil {
		ctx.SendStatus(fiber.StatusInternalServerError)
		return ctx.JSON(fiber.Map{
			"error": "Sherrif could not reduce Stations",
		})
	}

	return ctx.JSON(fiber.Map{
		"origins":     originsReduced,
		"transfer_a":  c.Network.TransferA,
		"transfer_b":  c.Network.TransferB,
		"destination": c.Network.Destination,
	})
}
