package foods

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"epicure-backend/internal/flexnum"
	"epicure-backend/internal/models"
	"epicure-backend/internal/store"
	"epicure-backend/internal/validation"
)

type AddedByRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}

// UnmarshalJSON also accepts a bare email string for addedBy.
func (a *AddedByRequest) UnmarshalJSON(b []byte) error {
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &a.Email)
	}
	type plain AddedByRequest
	return json.Unmarshal(b, (*plain)(a))
}

type CreateFoodRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Image       string          `json:"image" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Quantity    *flexnum.Int    `json:"quantity" validate:"required,min=0"`
	Price       *flexnum.Float  `json:"price" validate:"required,min=0"`
	AddedBy     *AddedByRequest `json:"addedBy" validate:"required"`
	Origin      string          `json:"origin" validate:"required"`
	Description string          `json:"description" validate:"required"`
	SellerEmail string          `json:"sellerEmail" validate:"omitempty,email"`
}

type UpdateFoodRequest struct {
	Name        *string        `json:"name" validate:"omitnil,min=1,max=200"`
	Image       *string        `json:"image" validate:"omitnil,min=1"`
	Category    *string        `json:"category" validate:"omitnil,min=1"`
	Quantity    *flexnum.Int   `json:"quantity" validate:"omitnil,min=0"`
	Price       *flexnum.Float `json:"price" validate:"omitnil,min=0"`
	Origin      *string        `json:"origin" validate:"omitnil,min=1"`
	Description *string        `json:"description" validate:"omitnil,min=1"`
	SellerEmail *string        `json:"sellerEmail" validate:"omitempty,email"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (r *CreateFoodRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Image = strings.TrimSpace(r.Image)
	r.Category = strings.TrimSpace(r.Category)
	r.Origin = strings.TrimSpace(r.Origin)
	r.Description = strings.TrimSpace(r.Description)
	r.SellerEmail = strings.TrimSpace(r.SellerEmail)
	if r.AddedBy != nil {
		r.AddedBy.Name = strings.TrimSpace(r.AddedBy.Name)
		r.AddedBy.Email = strings.TrimSpace(r.AddedBy.Email)
	}
}

// NewFood validates a create request and builds the food to insert.
func NewFood(r CreateFoodRequest, now time.Time) (models.Food, error) {
	r.normalize()
	if err := validation.Struct(r); err != nil {
		return models.Food{}, err
	}

	return models.Food{
		Name:        r.Name,
		Image:       r.Image,
		Category:    r.Category,
		Quantity:    flexnum.IntValue(r.Quantity),
		Price:       flexnum.FloatValue(r.Price),
		AddedBy:     models.AddedBy{Name: r.AddedBy.Name, Email: r.AddedBy.Email},
		Origin:      r.Origin,
		Description: r.Description,
		CreatedAt:   now,
		SellerEmail: r.SellerEmail,
	}, nil
}

// toUpdate validates an update request and converts it to a store update.
func (r UpdateFoodRequest) toUpdate() (store.FoodUpdate, error) {
	r.Name = trimPtr(r.Name)
	r.Image = trimPtr(r.Image)
	r.Category = trimPtr(r.Category)
	r.Origin = trimPtr(r.Origin)
	r.Description = trimPtr(r.Description)
	r.SellerEmail = trimPtr(r.SellerEmail)
	if err := validation.Struct(r); err != nil {
		return store.FoodUpdate{}, err
	}

	u := store.FoodUpdate{
		Name:        r.Name,
		Image:       r.Image,
		Category:    r.Category,
		Origin:      r.Origin,
		Description: r.Description,
		SellerEmail: r.SellerEmail,
	}
	if r.Quantity != nil {
		q := int(*r.Quantity)
		u.Quantity = &q
	}
	if r.Price != nil {
		p := float64(*r.Price)
		u.Price = &p
	}
	return u, nil
}
