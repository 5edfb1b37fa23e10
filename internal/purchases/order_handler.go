package purchases

import (
	"errors"
	"strings"

	"epicure-backend/internal/auth"
	"epicure-backend/internal/httperr"
	"epicure-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /orders?email=
func ListOrdersHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.TrimSpace(c.Query("email"))
		if email == "" {
			return fiber.NewError(fiber.StatusBadRequest, "email query parameter is required")
		}

		orders, err := repo.ListPurchases(c.UserContext(), store.PurchaseFilter{BuyerEmail: email})
		if err != nil {
			return httperr.Internal(err)
		}
		return c.JSON(orders)
	}
}

func deleteFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// DELETE /orders/:id
//
// When the caller is authenticated only their own orders may be deleted.
func DeleteOrderHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id := c.Params("id")

		if _, err := store.ParseID(id); err != nil {
			return deleteFailure(c, fiber.StatusBadRequest, "Invalid order id")
		}

		if email, ok := auth.EmailFrom(c); ok {
			order, err := repo.GetPurchase(ctx, id)
			switch {
			case errors.Is(err, store.ErrNotFound):
				return deleteFailure(c, fiber.StatusNotFound, "Order not found")
			case err != nil:
				return httperr.Internal(err)
			case !strings.EqualFold(order.BuyerEmail, email):
				return deleteFailure(c, fiber.StatusForbidden, "Forbidden access")
			}
		}

		if err := repo.DeletePurchase(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return deleteFailure(c, fiber.StatusNotFound, "Order not found")
			}
			return httperr.Internal(err)
		}

		return c.JSON(fiber.Map{
			"success": true,
		})
	}
}
