// Package server assembles the fiber application and its routes.
package server

import (
	"strings"

	"epicure-backend/internal/auth"
	"epicure-backend/internal/config"
	"epicure-backend/internal/foods"
	"epicure-backend/internal/httperr"
	"epicure-backend/internal/purchases"
	"epicure-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

const banner = "Epicure server is running..."

// New builds the application around an already opened store.
func New(cfg *config.Config, repo store.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "epicure",
		ErrorHandler:          httperr.Handler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins(), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(requestTimeout(cfg.RequestTimeout))

	registerRoutes(app, cfg, repo)
	return app
}

func registerRoutes(app *fiber.App, cfg *config.Config, repo store.Store) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(banner)
	})
	app.Get("/health", healthHandler(repo))

	// Foods
	app.Get("/foods", foods.ListFoodsHandler(repo))
	app.Get("/foods/:id", foods.GetFoodHandler(repo))
	app.Post("/foods", foods.CreateFoodHandler(repo))
	app.Put("/foods/:id", foods.UpdateFoodHandler(repo))
	app.Post("/foods/:id/purchase", foods.PurchaseFoodHandler(repo))
	app.Get("/gallery", foods.GalleryHandler(repo))
	app.Get("/topSelling", foods.TopSellingHandler(repo))

	// Purchase records
	app.Get("/purchases", purchases.ListPurchasesHandler(repo))
	app.Get("/purchases/:id", purchases.GetPurchaseHandler(repo))
	createPurchase := purchases.CreatePurchaseHandler(repo)
	app.Post("/purchases", createPurchase)
	app.Post("/purchase", createPurchase)

	// User scoped; token protected when JWT_SECRET is set
	var guard []fiber.Handler
	if cfg.AuthEnabled() {
		app.Post("/jwt", auth.TokenHandler(cfg.JWTSecret, cfg.JWTTTL))
		guard = []fiber.Handler{auth.JWTMiddleware(cfg.JWTSecret), auth.RequireQueryEmail()}
	}
	app.Get("/myFoods", append(guard, foods.MyFoodsHandler(repo))...)
	app.Get("/orders", append(guard, purchases.ListOrdersHandler(repo))...)
	app.Delete("/orders/:id", append(guard, purchases.DeleteOrderHandler(repo))...)
}

// GET /health
func healthHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := repo.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
