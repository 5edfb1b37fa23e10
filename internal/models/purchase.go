package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Purchase is an immutable record of one buying event. Orders are the same
// records seen from the buyer's side.
type Purchase struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FoodID     string             `bson:"foodId,omitempty" json:"foodId,omitempty"`
	FoodName   string             `bson:"foodName" json:"foodName"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	BuyerName  string             `bson:"buyerName" json:"buyerName"`
	BuyerEmail string             `bson:"buyerEmail" json:"buyerEmail"`
	BuyingDate int64              `bson:"buyingDate" json:"buyingDate"` // epoch milliseconds
}
