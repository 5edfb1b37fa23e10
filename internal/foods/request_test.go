package foods

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddedByAcceptsObjectOrEmail(t *testing.T) {
	var obj AddedByRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Nok","email":"nok@example.com"}`), &obj))
	assert.Equal(t, AddedByRequest{Name: "Nok", Email: "nok@example.com"}, obj)

	var bare AddedByRequest
	require.NoError(t, json.Unmarshal([]byte(`"nok@example.com"`), &bare))
	assert.Equal(t, "nok@example.com", bare.Email)
	assert.Empty(t, bare.Name)
}

func TestNewFood(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var req CreateFoodRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "  Som Tam ",
		"image": "https://img.example.com/somtam.jpg",
		"category": "Salad",
		"quantity": "12",
		"price": 6.5,
		"addedBy": {"name": "Nok", "email": "nok@example.com"},
		"origin": "Thailand",
		"description": "Green papaya salad"
	}`), &req))

	food, err := NewFood(req, now)
	require.NoError(t, err)
	assert.Equal(t, "Som Tam", food.Name)
	assert.Equal(t, 12, food.Quantity)
	assert.Equal(t, 6.5, food.Price)
	assert.Equal(t, now, food.CreatedAt)
	assert.Zero(t, food.SalesCount)

	req.Origin = "   "
	_, err = NewFood(req, now)
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Equal(t, "origin is required", fe.Message)
}

func TestUpdateRequest(t *testing.T) {
	var req UpdateFoodRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price":"3.25","description":" spicy "}`), &req))

	u, err := req.toUpdate()
	require.NoError(t, err)
	require.NotNil(t, u.Price)
	assert.Equal(t, 3.25, *u.Price)
	require.NotNil(t, u.Description)
	assert.Equal(t, "spicy", *u.Description)
	assert.Nil(t, u.Quantity)
	assert.Nil(t, u.Name)

	require.NoError(t, json.Unmarshal([]byte(`{"quantity":-2}`), &req))
	_, err = req.toUpdate()
	assert.Error(t, err)

	var empty UpdateFoodRequest
	u, err = empty.toUpdate()
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, totalPages(0, 12))
	assert.EqualValues(t, 1, totalPages(12, 12))
	assert.EqualValues(t, 2, totalPages(20, 12))
	assert.EqualValues(t, 3, totalPages(25, 12))
}
