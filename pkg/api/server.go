package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/keyakigo/keyakigo/pkg/api/routes"
	"github.com/keyakigo/keyakigo/pkg/config"
	"github.com/keyakigo/keyakigo/pkg/settings"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewApp(c *config.Config, store settings.Store) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})
	webApp.Use(NewLogger())

	webApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StationsRouter(group.Group("/stations"), c)
	routes.DeparturesRouter(group.Group("/departures"), c)
	routes.PlannerRouter(group.Group("/planner"), c)
	routes.SettingsRouter(group.Group("/settings"), store)

	return webApp
}

func SetupServer(listen string, c *config.Config, store settings.Store) error {
	return NewApp(c, store).Listen(listen)
}
