package purchases

import (
	"strings"
	"time"

	"epicure-backend/internal/flexnum"
	"epicure-backend/internal/httperr"
	"epicure-backend/internal/models"
	"epicure-backend/internal/store"
	"epicure-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const notFoundMessage = "Purchase not found"

type CreatePurchaseRequest struct {
	FoodID     string         `json:"foodId" validate:"omitempty,mongodb"`
	FoodName   string         `json:"foodName" validate:"required"`
	Price      *flexnum.Float `json:"price" validate:"required,min=0"`
	Quantity   *flexnum.Int   `json:"quantity" validate:"required,min=1"`
	BuyerName  string         `json:"buyerName"`
	BuyerEmail string         `json:"buyerEmail" validate:"required,email"`
}

// InsertResult mirrors the insertOne acknowledgement clients already parse.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// GET /purchases?email=
func ListPurchasesHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := store.PurchaseFilter{BuyerEmail: strings.TrimSpace(c.Query("email"))}

		purchases, err := repo.ListPurchases(c.UserContext(), filter)
		if err != nil {
			return httperr.Internal(err)
		}
		return c.JSON(purchases)
	}
}

// GET /purchases/:id
func GetPurchaseHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := repo.GetPurchase(c.UserContext(), c.Params("id"))
		if err != nil {
			return httperr.FromStore(err, notFoundMessage)
		}
		return c.JSON(p)
	}
}

// POST /purchases and POST /purchase
//
// Records a purchase without touching stock; stock-checked buying goes
// through POST /foods/:id/purchase.
func CreatePurchaseHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.FoodID = strings.TrimSpace(body.FoodID)
		body.FoodName = strings.TrimSpace(body.FoodName)
		body.BuyerName = strings.TrimSpace(body.BuyerName)
		body.BuyerEmail = strings.TrimSpace(body.BuyerEmail)
		if err := validation.Struct(body); err != nil {
			return err
		}

		p := models.Purchase{
			FoodID:     body.FoodID,
			FoodName:   body.FoodName,
			Price:      flexnum.FloatValue(body.Price),
			Quantity:   flexnum.IntValue(body.Quantity),
			BuyerName:  body.BuyerName,
			BuyerEmail: body.BuyerEmail,
			BuyingDate: time.Now().UnixMilli(),
		}
		if err := repo.CreatePurchase(c.UserContext(), &p); err != nil {
			return httperr.New(fiber.StatusInternalServerError, "Error recording purchase", err)
		}

		return c.JSON(InsertResult{
			Acknowledged: true,
			InsertedID:   p.ID.Hex(),
		})
	}
}
