package foods

import (
	"context"
	"strings"
	"time"

	"epicure-backend/internal/flexnum"
	"epicure-backend/internal/httperr"
	"epicure-backend/internal/logger"
	"epicure-backend/internal/models"
	"epicure-backend/internal/store"
	"epicure-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// restoreTimeout bounds the compensating increment. It runs detached from the
// request deadline, which has usually expired when the insert failed.
const restoreTimeout = 5 * time.Second

type PurchaseFoodRequest struct {
	BuyerName  string       `json:"buyerName"`
	BuyerEmail string       `json:"buyerEmail" validate:"required,email"`
	Quantity   *flexnum.Int `json:"quantity" validate:"required,min=1"`
}

type PurchaseFoodResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Purchase models.Purchase `json:"purchase"`
}

// POST /foods/:id/purchase
//
// Stock is taken with one conditional decrement, so two buyers can never
// both pass the check for the last units. If recording the purchase fails
// the stock is put back.
func PurchaseFoodHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		id := c.Params("id")

		var body PurchaseFoodRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		body.BuyerName = strings.TrimSpace(body.BuyerName)
		body.BuyerEmail = strings.TrimSpace(body.BuyerEmail)
		if err := validation.Struct(body); err != nil {
			return err
		}
		qty := flexnum.IntValue(body.Quantity)

		food, err := repo.GetFood(ctx, id)
		if err != nil {
			return httperr.FromStore(err, notFoundMessage)
		}

		if err := repo.DecrementStock(ctx, id, qty); err != nil {
			return httperr.FromStore(err, notFoundMessage)
		}

		purchase := models.Purchase{
			FoodID:     food.ID.Hex(),
			FoodName:   food.Name,
			Price:      food.Price,
			Quantity:   qty,
			BuyerName:  body.BuyerName,
			BuyerEmail: body.BuyerEmail,
			BuyingDate: time.Now().UnixMilli(),
		}
		if err := repo.CreatePurchase(ctx, &purchase); err != nil {
			if rerr := restoreStock(ctx, repo, id, qty); rerr != nil {
				logger.Error().Err(rerr).Str("food_id", id).Int("quantity", qty).
					Msg("stock could not be restored after failed purchase insert")
			}
			return httperr.New(fiber.StatusInternalServerError, "Error recording purchase", err)
		}

		logger.Info().Str("food_id", id).Int("quantity", qty).Str("buyer", purchase.BuyerEmail).Msg("food purchased")

		return c.Status(fiber.StatusCreated).JSON(PurchaseFoodResponse{
			Success:  true,
			Message:  "Purchase successful",
			Purchase: purchase,
		})
	}
}

func restoreStock(ctx context.Context, repo store.Store, id string, qty int) error {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()
	return repo.RestoreStock(rctx, id, qty)
}
