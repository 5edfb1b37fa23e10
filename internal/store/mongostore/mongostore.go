// Package mongostore implements store.Store on top of MongoDB.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"epicure-backend/internal/models"
	"epicure-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	FoodsCollection     = "foods"
	PurchasesCollection = "purchases"
)

type Store struct {
	client    *mongo.Client
	foods     *mongo.Collection
	purchases *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Connect dials the deployment with the stable API v1, pings it and makes
// sure the lookup indexes exist.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := New(client.Database(dbName))
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// New wraps an already connected database.
func New(db *mongo.Database) *Store {
	return &Store{
		client:    db.Client(),
		foods:     db.Collection(FoodsCollection),
		purchases: db.Collection(PurchasesCollection),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.foods.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "addedBy.email", Value: 1}}},
		{Keys: bson.D{{Key: "sellerEmail", Value: 1}}},
		{Keys: bson.D{{Key: "salesCount", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create food indexes: %w", err)
	}

	_, err = s.purchases.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "buyerEmail", Value: 1}}},
		{Keys: bson.D{{Key: "foodId", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create purchase indexes: %w", err)
	}
	return nil
}

func foodQuery(f store.FoodFilter) bson.M {
	q := bson.M{}
	if f.SellerEmail != "" {
		q["sellerEmail"] = f.SellerEmail
	}
	if f.AddedByEmail != "" {
		q["addedBy.email"] = f.AddedByEmail
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Search != "" {
		q["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
	}
	return q
}

func (s *Store) ListFoods(ctx context.Context, f store.FoodFilter) ([]models.Food, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.foods.Find(ctx, foodQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find foods: %w", err)
	}

	foods := []models.Food{}
	if err := cur.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}
	return foods, nil
}

func (s *Store) GetFood(ctx context.Context, id string) (models.Food, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return models.Food{}, err
	}

	var food models.Food
	if err := s.foods.FindOne(ctx, bson.M{"_id": oid}).Decode(&food); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Food{}, store.ErrNotFound
		}
		return models.Food{}, fmt.Errorf("find food: %w", err)
	}
	return food, nil
}

func (s *Store) CreateFood(ctx context.Context, food *models.Food) error {
	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}
	if _, err := s.foods.InsertOne(ctx, food); err != nil {
		return fmt.Errorf("insert food: %w", err)
	}
	return nil
}

func updateDocument(u store.FoodUpdate) bson.M {
	set := bson.M{}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Quantity != nil {
		set["quantity"] = *u.Quantity
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Origin != nil {
		set["origin"] = *u.Origin
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.SellerEmail != nil {
		set["sellerEmail"] = *u.SellerEmail
	}
	return set
}

func (s *Store) UpdateFood(ctx context.Context, id string, u store.FoodUpdate) (int64, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return 0, err
	}
	if u.IsEmpty() {
		_, err := s.GetFood(ctx, id)
		return 0, err
	}

	res, err := s.foods.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": updateDocument(u)})
	if err != nil {
		return 0, fmt.Errorf("update food: %w", err)
	}
	if res.MatchedCount == 0 {
		return 0, store.ErrNotFound
	}
	return res.ModifiedCount, nil
}

func (s *Store) TopSellingFoods(ctx context.Context, limit int64) ([]models.Food, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "salesCount", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)

	cur, err := s.foods.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find top selling: %w", err)
	}

	foods := []models.Food{}
	if err := cur.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("decode top selling: %w", err)
	}
	return foods, nil
}

func (s *Store) GalleryImages(ctx context.Context, p store.Page) ([]models.GalleryImage, int64, error) {
	total, err := s.foods.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count gallery: %w", err)
	}

	opts := options.Find().
		SetProjection(bson.M{"name": 1, "image": 1, "category": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(p.Skip).
		SetLimit(p.Limit)

	cur, err := s.foods.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find gallery: %w", err)
	}

	images := []models.GalleryImage{}
	if err := cur.All(ctx, &images); err != nil {
		return nil, 0, fmt.Errorf("decode gallery: %w", err)
	}
	return images, total, nil
}

func (s *Store) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.foods.UpdateOne(ctx,
		bson.M{"_id": oid, "quantity": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"quantity": -qty, "salesCount": qty}},
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the food is gone or stock is short.
	n, err := s.foods.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("check food: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return store.ErrInsufficientStock
}

func (s *Store) RestoreStock(ctx context.Context, id string, qty int) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.foods.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"quantity": qty, "salesCount": -qty}},
	)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListPurchases(ctx context.Context, f store.PurchaseFilter) ([]models.Purchase, error) {
	q := bson.M{}
	if f.BuyerEmail != "" {
		q["buyerEmail"] = f.BuyerEmail
	}

	opts := options.Find().SetSort(bson.D{{Key: "buyingDate", Value: -1}})
	cur, err := s.purchases.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find purchases: %w", err)
	}

	purchases := []models.Purchase{}
	if err := cur.All(ctx, &purchases); err != nil {
		return nil, fmt.Errorf("decode purchases: %w", err)
	}
	return purchases, nil
}

func (s *Store) GetPurchase(ctx context.Context, id string) (models.Purchase, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return models.Purchase{}, err
	}

	var p models.Purchase
	if err := s.purchases.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Purchase{}, store.ErrNotFound
		}
		return models.Purchase{}, fmt.Errorf("find purchase: %w", err)
	}
	return p, nil
}

func (s *Store) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, err := s.purchases.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func (s *Store) DeletePurchase(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res, err := s.purchases.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountPurchasesForFood(ctx context.Context, foodID string) (int64, error) {
	n, err := s.purchases.CountDocuments(ctx, bson.M{"foodId": foodID})
	if err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
