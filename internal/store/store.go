// Package store defines the data-access contract shared by the Mongo and
// SQL backends.
package store

import (
	"context"
	"errors"
	"strings"

	"epicure-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound          = errors.New("document not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidID         = errors.New("invalid identifier")
)

// TopSellingLimit is the number of foods returned by the top selling listing.
const TopSellingLimit = 6

// FoodFilter narrows ListFoods. Empty fields are ignored.
type FoodFilter struct {
	SellerEmail  string
	AddedByEmail string
	Category     string
	Search       string // case-insensitive substring of the name
}

// FoodUpdate holds the fields PUT /foods/:id may replace. Nil means unchanged.
type FoodUpdate struct {
	Name        *string
	Image       *string
	Category    *string
	Quantity    *int
	Price       *float64
	Origin      *string
	Description *string
	SellerEmail *string
}

func (u FoodUpdate) IsEmpty() bool {
	return u.Name == nil && u.Image == nil && u.Category == nil && u.Quantity == nil &&
		u.Price == nil && u.Origin == nil && u.Description == nil && u.SellerEmail == nil
}

// PurchaseFilter narrows ListPurchases. Empty fields are ignored.
type PurchaseFilter struct {
	BuyerEmail string
}

// Page selects a window of a listing.
type Page struct {
	Skip  int64
	Limit int64
}

type Store interface {
	ListFoods(ctx context.Context, f FoodFilter) ([]models.Food, error)
	GetFood(ctx context.Context, id string) (models.Food, error)
	CreateFood(ctx context.Context, food *models.Food) error
	// UpdateFood returns the number of documents actually modified.
	UpdateFood(ctx context.Context, id string, u FoodUpdate) (int64, error)
	TopSellingFoods(ctx context.Context, limit int64) ([]models.Food, error)
	GalleryImages(ctx context.Context, p Page) ([]models.GalleryImage, int64, error)

	// DecrementStock lowers on-hand quantity by qty and raises salesCount by
	// the same amount in one conditional update. It fails with
	// ErrInsufficientStock when fewer than qty units are on hand.
	DecrementStock(ctx context.Context, id string, qty int) error
	// RestoreStock undoes a DecrementStock.
	RestoreStock(ctx context.Context, id string, qty int) error

	ListPurchases(ctx context.Context, f PurchaseFilter) ([]models.Purchase, error)
	GetPurchase(ctx context.Context, id string) (models.Purchase, error)
	CreatePurchase(ctx context.Context, p *models.Purchase) error
	DeletePurchase(ctx context.Context, id string) error
	CountPurchasesForFood(ctx context.Context, foodID string) (int64, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// ParseID validates a hex object identifier. Both backends share the format
// so clients see the same ids whichever store is configured.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
