// Package sqlstore implements store.Store with gorm for postgres and sqlite.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"epicure-backend/internal/models"
	"epicure-backend/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type foodRow struct {
	ID           string `gorm:"primaryKey;size:24"`
	Name         string `gorm:"size:200;not null"`
	Image        string `gorm:"size:1000"`
	Category     string `gorm:"size:100;index"`
	Quantity     int    `gorm:"not null"`
	Price        float64
	AddedByName  string `gorm:"size:200"`
	AddedByEmail string `gorm:"size:200;index"`
	Origin       string `gorm:"size:200"`
	Description  string `gorm:"type:text"`
	SellerEmail  string `gorm:"size:200;index"`
	SalesCount   int    `gorm:"not null;index"`
	CreatedAt    time.Time
}

func (foodRow) TableName() string { return "foods" }

type purchaseRow struct {
	ID         string `gorm:"primaryKey;size:24"`
	FoodID     string `gorm:"size:24;index"`
	FoodName   string `gorm:"size:200"`
	Price      float64
	Quantity   int
	BuyerName  string `gorm:"size:200"`
	BuyerEmail string `gorm:"size:200;index"`
	BuyingDate int64  `gorm:"index"`
}

func (purchaseRow) TableName() string { return "purchases" }

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects through the given dialector and migrates both tables.
func Open(dialector gorm.Dialector, cfg *gorm.Config) (*Store, error) {
	if cfg == nil {
		cfg = &gorm.Config{}
	}
	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	if err := db.AutoMigrate(&foodRow{}, &purchaseRow{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func objectID(hex string) primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(hex)
	return oid
}

func toFood(r foodRow) models.Food {
	return models.Food{
		ID:          objectID(r.ID),
		Name:        r.Name,
		Image:       r.Image,
		Category:    r.Category,
		Quantity:    r.Quantity,
		Price:       r.Price,
		AddedBy:     models.AddedBy{Name: r.AddedByName, Email: r.AddedByEmail},
		Origin:      r.Origin,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		SellerEmail: r.SellerEmail,
		SalesCount:  r.SalesCount,
	}
}

func toFoods(rows []foodRow) []models.Food {
	foods := make([]models.Food, 0, len(rows))
	for _, r := range rows {
		foods = append(foods, toFood(r))
	}
	return foods
}

func toPurchase(r purchaseRow) models.Purchase {
	return models.Purchase{
		ID:         objectID(r.ID),
		FoodID:     r.FoodID,
		FoodName:   r.FoodName,
		Price:      r.Price,
		Quantity:   r.Quantity,
		BuyerName:  r.BuyerName,
		BuyerEmail: r.BuyerEmail,
		BuyingDate: r.BuyingDate,
	}
}

// likePattern escapes LIKE wildcards so a search is a plain substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

func (s *Store) ListFoods(ctx context.Context, f store.FoodFilter) ([]models.Food, error) {
	q := s.db.WithContext(ctx).Model(&foodRow{})
	if f.SellerEmail != "" {
		q = q.Where("seller_email = ?", f.SellerEmail)
	}
	if f.AddedByEmail != "" {
		q = q.Where("added_by_email = ?", f.AddedByEmail)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(f.Search))
	}

	var rows []foodRow
	if err := q.Order("created_at asc, id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	return toFoods(rows), nil
}

func (s *Store) GetFood(ctx context.Context, id string) (models.Food, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return models.Food{}, err
	}

	var row foodRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", oid.Hex()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Food{}, store.ErrNotFound
		}
		return models.Food{}, fmt.Errorf("get food: %w", err)
	}
	return toFood(row), nil
}

func (s *Store) CreateFood(ctx context.Context, food *models.Food) error {
	if food.ID.IsZero() {
		food.ID = primitive.NewObjectID()
	}
	row := foodRow{
		ID:           food.ID.Hex(),
		Name:         food.Name,
		Image:        food.Image,
		Category:     food.Category,
		Quantity:     food.Quantity,
		Price:        food.Price,
		AddedByName:  food.AddedBy.Name,
		AddedByEmail: food.AddedBy.Email,
		Origin:       food.Origin,
		Description:  food.Description,
		SellerEmail:  food.SellerEmail,
		SalesCount:   food.SalesCount,
		CreatedAt:    food.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create food: %w", err)
	}
	food.CreatedAt = row.CreatedAt
	return nil
}

// changedColumns returns the update's columns whose value differs from row,
// so the reported count means modified rows as it does for mongo.
func changedColumns(row foodRow, u store.FoodUpdate) map[string]any {
	cols := map[string]any{}
	setString := func(col string, cur string, v *string) {
		if v != nil && *v != cur {
			cols[col] = *v
		}
	}
	setString("name", row.Name, u.Name)
	setString("image", row.Image, u.Image)
	setString("category", row.Category, u.Category)
	setString("origin", row.Origin, u.Origin)
	setString("description", row.Description, u.Description)
	setString("seller_email", row.SellerEmail, u.SellerEmail)
	if u.Quantity != nil && *u.Quantity != row.Quantity {
		cols["quantity"] = *u.Quantity
	}
	if u.Price != nil && *u.Price != row.Price {
		cols["price"] = *u.Price
	}
	return cols
}

func (s *Store) UpdateFood(ctx context.Context, id string, u store.FoodUpdate) (int64, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return 0, err
	}

	var modified int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row foodRow
		if err := tx.First(&row, "id = ?", oid.Hex()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return store.ErrNotFound
			}
			return fmt.Errorf("get food: %w", err)
		}

		cols := changedColumns(row, u)
		if len(cols) == 0 {
			return nil
		}
		res := tx.Model(&foodRow{}).Where("id = ?", row.ID).Updates(cols)
		if res.Error != nil {
			return fmt.Errorf("update food: %w", res.Error)
		}
		modified = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return modified, nil
}

func (s *Store) TopSellingFoods(ctx context.Context, limit int64) ([]models.Food, error) {
	var rows []foodRow
	err := s.db.WithContext(ctx).
		Order("sales_count desc, id asc").
		Limit(int(limit)).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("top selling foods: %w", err)
	}
	return toFoods(rows), nil
}

func (s *Store) GalleryImages(ctx context.Context, p store.Page) ([]models.GalleryImage, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&foodRow{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count gallery: %w", err)
	}

	var rows []foodRow
	err := s.db.WithContext(ctx).
		Select("id", "name", "image", "category").
		Order("created_at desc, id desc").
		Offset(int(p.Skip)).
		Limit(int(p.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("gallery images: %w", err)
	}

	images := make([]models.GalleryImage, 0, len(rows))
	for _, r := range rows {
		images = append(images, models.GalleryImage{
			ID:       objectID(r.ID),
			Name:     r.Name,
			Image:    r.Image,
			Category: r.Category,
		})
	}
	return images, total, nil
}

func (s *Store) DecrementStock(ctx context.Context, id string, qty int) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&foodRow{}).
		Where("id = ? AND quantity >= ?", oid.Hex(), qty).
		Updates(map[string]any{
			"quantity":    gorm.Expr("quantity - ?", qty),
			"sales_count": gorm.Expr("sales_count + ?", qty),
		})
	if res.Error != nil {
		return fmt.Errorf("decrement stock: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := s.db.WithContext(ctx).Model(&foodRow{}).Where("id = ?", oid.Hex()).Count(&n).Error; err != nil {
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

	res := s.db.WithContext(ctx).Model(&foodRow{}).
		Where("id = ?", oid.Hex()).
		Updates(map[string]any{
			"quantity":    gorm.Expr("quantity + ?", qty),
			"sales_count": gorm.Expr("sales_count - ?", qty),
		})
	if res.Error != nil {
		return fmt.Errorf("restore stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListPurchases(ctx context.Context, f store.PurchaseFilter) ([]models.Purchase, error) {
	q := s.db.WithContext(ctx).Model(&purchaseRow{})
	if f.BuyerEmail != "" {
		q = q.Where("buyer_email = ?", f.BuyerEmail)
	}

	var rows []purchaseRow
	if err := q.Order("buying_date desc, id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}

	purchases := make([]models.Purchase, 0, len(rows))
	for _, r := range rows {
		purchases = append(purchases, toPurchase(r))
	}
	return purchases, nil
}

func (s *Store) GetPurchase(ctx context.Context, id string) (models.Purchase, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return models.Purchase{}, err
	}

	var row purchaseRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", oid.Hex()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Purchase{}, store.ErrNotFound
		}
		return models.Purchase{}, fmt.Errorf("get purchase: %w", err)
	}
	return toPurchase(row), nil
}

func (s *Store) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	row := purchaseRow{
		ID:         p.ID.Hex(),
		FoodID:     p.FoodID,
		FoodName:   p.FoodName,
		Price:      p.Price,
		Quantity:   p.Quantity,
		BuyerName:  p.BuyerName,
		BuyerEmail: p.BuyerEmail,
		BuyingDate: p.BuyingDate,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

func (s *Store) DeletePurchase(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Delete(&purchaseRow{}, "id = ?", oid.Hex())
	if res.Error != nil {
		return fmt.Errorf("delete purchase: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountPurchasesForFood(ctx context.Context, foodID string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&purchaseRow{}).Where("food_id = ?", foodID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count purchases: %w", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
