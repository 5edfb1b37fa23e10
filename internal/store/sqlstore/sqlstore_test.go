package sqlstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"epicure-backend/internal/models"
	"epicure-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "epicure.db")
	s, err := Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func seedFood(t *testing.T, s *Store, name string, qty int) models.Food {
	t.Helper()
	food := models.Food{
		Name:        name,
		Image:       "https://img.example.com/" + name + ".jpg",
		Category:    "Main",
		Quantity:    qty,
		Price:       10.5,
		AddedBy:     models.AddedBy{Name: "Chef", Email: "chef@example.com"},
		Origin:      "Thailand",
		Description: "tasty",
	}
	require.NoError(t, s.CreateFood(context.Background(), &food))
	return food
}

func TestCreateAndGetFood(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := seedFood(t, s, "Tom Yum", 5)
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetFood(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Tom Yum", got.Name)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 10.5, got.Price)
	assert.Equal(t, "chef@example.com", got.AddedBy.Email)

	_, err = s.GetFood(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetFood(ctx, "zzz")
	assert.ErrorIs(t, err, store.ErrInvalidID)
}

func TestListFoodsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedFood(t, s, "Green Curry", 1)
	seedFood(t, s, "Red Curry", 1)
	sold := models.Food{Name: "100% Mango", Quantity: 2, SellerEmail: "seller@example.com",
		AddedBy: models.AddedBy{Email: "other@example.com"}}
	require.NoError(t, s.CreateFood(ctx, &sold))

	all, err := s.ListFoods(ctx, store.FoodFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	curries, err := s.ListFoods(ctx, store.FoodFilter{Search: "CURRY"})
	require.NoError(t, err)
	assert.Len(t, curries, 2)

	pct, err := s.ListFoods(ctx, store.FoodFilter{Search: "0%"})
	require.NoError(t, err)
	require.Len(t, pct, 1)
	assert.Equal(t, "100% Mango", pct[0].Name)

	bySeller, err := s.ListFoods(ctx, store.FoodFilter{SellerEmail: "seller@example.com"})
	require.NoError(t, err)
	require.Len(t, bySeller, 1)

	mine, err := s.ListFoods(ctx, store.FoodFilter{AddedByEmail: "chef@example.com"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := s.ListFoods(ctx, store.FoodFilter{Category: "Dessert"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateFood(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := seedFood(t, s, "Larb", 3)

	name := "Larb Moo"
	qty := 9
	n, err := s.UpdateFood(ctx, food.ID.Hex(), store.FoodUpdate{Name: &name, Quantity: &qty})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := s.GetFood(ctx, food.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Larb Moo", got.Name)
	assert.Equal(t, 9, got.Quantity)
	assert.Equal(t, "Thailand", got.Origin)

	// Same values again: matched but nothing modified.
	n, err = s.UpdateFood(ctx, food.ID.Hex(), store.FoodUpdate{Name: &name, Quantity: &qty})
	require.NoError(t, err)
	assert.Zero(t, n)

	origin := "Laos"
	n, err = s.UpdateFood(ctx, food.ID.Hex(), store.FoodUpdate{Name: &name, Origin: &origin})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.UpdateFood(ctx, primitive.NewObjectID().Hex(), store.FoodUpdate{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)

	n, err = s.UpdateFood(ctx, food.ID.Hex(), store.FoodUpdate{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDecrementStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	food := seedFood(t, s, "Khao Soi", 5)

	require.NoError(t, s.DecrementStock(ctx, food.ID.Hex(), 3))
	got, err := s.GetFood(ctx, food.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 3, got.SalesCount)

	err = s.DecrementStock(ctx, food.ID.Hex(), 3)
	assert.ErrorIs(t, err, store.ErrInsufficientStock)
	got, err = s.GetFood(ctx, food.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	assert.ErrorIs(t, s.DecrementStock(ctx, primitive.NewObjectID().Hex(), 1), store.ErrNotFound)

	require.NoError(t, s.RestoreStock(ctx, food.ID.Hex(), 3))
	got, err = s.GetFood(ctx, food.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 0, got.SalesCount)
}

func TestTopSellingFoods(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		f := seedFood(t, s, fmt.Sprintf("dish-%d", i), 100)
		if i > 0 {
			require.NoError(t, s.DecrementStock(ctx, f.ID.Hex(), i))
		}
	}

	top, err := s.TopSellingFoods(ctx, store.TopSellingLimit)
	require.NoError(t, err)
	require.Len(t, top, 6)
	assert.Equal(t, "dish-7", top[0].Name)
	assert.Equal(t, "dish-2", top[5].Name)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].SalesCount, top[i].SalesCount)
	}
}

func TestGalleryImages(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 20; i++ {
		f := models.Food{Name: fmt.Sprintf("img-%02d", i), Image: "x", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateFood(ctx, &f))
	}

	images, total, err := s.GalleryImages(ctx, store.Page{Skip: 12, Limit: 12})
	require.NoError(t, err)
	assert.EqualValues(t, 20, total)
	require.Len(t, images, 8)
	assert.Equal(t, "img-07", images[0].Name)
	assert.False(t, images[0].ID.IsZero())
}

func TestPurchases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	foodID := primitive.NewObjectID().Hex()

	first := models.Purchase{FoodID: foodID, FoodName: "Satay", Quantity: 1, BuyerEmail: "a@example.com", BuyingDate: 1000}
	second := models.Purchase{FoodID: foodID, FoodName: "Satay", Quantity: 2, BuyerEmail: "b@example.com", BuyingDate: 2000}
	require.NoError(t, s.CreatePurchase(ctx, &first))
	require.NoError(t, s.CreatePurchase(ctx, &second))

	all, err := s.ListPurchases(ctx, store.PurchaseFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	mine, err := s.ListPurchases(ctx, store.PurchaseFilter{BuyerEmail: "a@example.com"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	n, err := s.CountPurchasesForFood(ctx, foodID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got, err := s.GetPurchase(ctx, first.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.BuyerEmail)

	require.NoError(t, s.DeletePurchase(ctx, first.ID.Hex()))
	assert.ErrorIs(t, s.DeletePurchase(ctx, first.ID.Hex()), store.ErrNotFound)
	assert.ErrorIs(t, s.DeletePurchase(ctx, "bad"), store.ErrInvalidID)

	left, err := s.ListPurchases(ctx, store.PurchaseFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, second.ID, left[0].ID)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%50\% off\_now%`, likePattern("50% OFF_now"))
}
