package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AddedBy identifies the user who listed a food item.
type AddedBy struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}

type Food struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Image       string             `bson:"image" json:"image"`
	Category    string             `bson:"category" json:"category"`
	Quantity    int                `bson:"quantity" json:"quantity"` // on-hand stock
	Price       float64            `bson:"price" json:"price"`
	AddedBy     AddedBy            `bson:"addedBy" json:"addedBy"`
	Origin      string             `bson:"origin" json:"origin"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	SellerEmail string             `bson:"sellerEmail,omitempty" json:"sellerEmail,omitempty"`
	SalesCount  int                `bson:"salesCount" json:"salesCount"`
}

// FoodDetail is a food together with the number of purchase records that
// reference it.
type FoodDetail struct {
	Food
	PurchaseCount int64 `json:"purchaseCount"`
}

// GalleryImage is the projection of a food served by the gallery listing.
type GalleryImage struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image" json:"image"`
	Category string             `bson:"category" json:"category"`
}
