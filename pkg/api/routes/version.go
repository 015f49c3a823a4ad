package routes

import "github.com/gofiber/fiber/v2"

// Version is replaced at build time with -ldflags "-X .../routes.Version=..."
var Version = "dev"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}
