package foods

import (
	"strings"
	"time"

	"epicure-backend/internal/httperr"
	"epicure-backend/internal/models"
	"epicure-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const notFoundMessage = "Food not found"

// GET /foods?sellerEmail=&category=&search=
func ListFoodsHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := store.FoodFilter{
			SellerEmail: strings.TrimSpace(c.Query("sellerEmail")),
			Category:    strings.TrimSpace(c.Query("category")),
			Search:      strings.TrimSpace(c.Query("search")),
		}

		foods, err := repo.ListFoods(c.UserContext(), filter)
		if err != nil {
			return httperr.Internal(err)
		}
		return c.JSON(foods)
	}
}

// GET /foods/:id
func GetFoodHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		food, err := repo.GetFood(c.UserContext(), id)
		if err != nil {
			return httperr.FromStore(err, notFoundMessage)
		}

		count, err := repo.CountPurchasesForFood(c.UserContext(), food.ID.Hex())
		if err != nil {
			return httperr.Internal(err)
		}

		return c.JSON(models.FoodDetail{Food: food, PurchaseCount: count})
	}
}

// POST /foods
func CreateFoodHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFoodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		food, err := NewFood(body, time.Now().UTC())
		if err != nil {
			return err
		}

		if err := repo.CreateFood(c.UserContext(), &food); err != nil {
			return httperr.New(fiber.StatusInternalServerError, "Error adding food item", err)
		}

		return c.Status(fiber.StatusCreated).JSON(food)
	}
}

// PUT /foods/:id
func UpdateFoodHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := store.ParseID(id); err != nil {
			return httperr.FromStore(err, notFoundMessage)
		}

		var body UpdateFoodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		update, err := body.toUpdate()
		if err != nil {
			return err
		}
		if update.IsEmpty() {
			return fiber.NewError(fiber.StatusBadRequest, "No fields to update")
		}

		modified, err := repo.UpdateFood(c.UserContext(), id, update)
		if err != nil {
			return httperr.FromStore(err, notFoundMessage)
		}

		return c.JSON(fiber.Map{
			"success":       true,
			"message":       "Food updated successfully",
			"modifiedCount": modified,
		})
	}
}

// GET /myFoods?email=
func MyFoodsHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email query parameter is required")
		}

		foods, err := repo.ListFoods(c.UserContext(), store.FoodFilter{AddedByEmail: email})
		if err != nil {
			return httperr.Internal(err)
		}
		return c.JSON(foods)
	}
}
