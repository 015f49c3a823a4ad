package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/keyakigo/keyakigo/pkg/settings"
)

func SettingsRouter(router fiber.Router, store settings.Store) {
	router.Get("/:session", func(ctx *fiber.Ctx) error {
		loaded, err := store.Load(ctx.Context(), sessionParam(ctx))
		if err != nil {
			return settingsError(ctx, err)
		}

		return ctx.JSON(loaded)
	})

	router.Put("/:session", func(ctx *fiber.Ctx) error {
		// Fields missing from the body keep their saved values
		updated, err := store.Load(ctx.Context(), sessionParam(ctx))
		if err != nil {
			return settingsError(ctx, err)
		}

		if err := ctx.BodyParser(&updated); err != nil {
			ctx.SendStatus(fiber.StatusBadRequest)
			return ctx.JSON(fiber.Map{
				"error": "Body should be a JSON settings object",
			})
		}

		if err := store.Save(ctx.Context(), sessionParam(ctx), updated); err != nil {
			return settingsError(ctx, err)
		}

		return ctx.JSON(updated)
	})

	router.Delete("/:session", func(ctx *fiber.Ctx) error {
		if err := store.Reset(ctx.Context(), sessionParam(ctx)); err != nil {
			return settingsError(ctx, err)
		}

		return ctx.JSON(settings.Default())
	})
}

func settingsError(ctx *fiber.Ctx, err error) error {
	if errors.Is(err, settings.ErrInvalidSettings) || errors.Is(err, settings.ErrInvalidSession) {
		ctx.SendStatus(fiber.StatusBadRequest)
	} else {
		ctx.SendStatus(fiber.StatusInternalServerError)
	}

	return ctx.JSON(fiber.Map{
		"error": err.Error(),
	})
}

// sessionParam copies the session id, stores keep it after the request ends
func sessionParam(ctx *fiber.Ctx) string {
	return utils.CopyString(ctx.Params("session"))
}
