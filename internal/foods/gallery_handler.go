package foods

import (
	"math"

	"epicure-backend/internal/httperr"
	"epicure-backend/internal/models"
	"epicure-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultGalleryLimit = 12
	maxGalleryLimit     = 100
)

type GalleryResponse struct {
	Images      []models.GalleryImage `json:"images"`
	CurrentPage int                   `json:"currentPage"`
	TotalPages  int64                 `json:"totalPages"`
	TotalItems  int64                 `json:"totalItems"`
}

// galleryPage reads page and limit, falling back to defaults for missing or
// non-positive values.
func galleryPage(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", defaultGalleryLimit)
	if limit < 1 {
		limit = defaultGalleryLimit
	}
	if limit > maxGalleryLimit {
		limit = maxGalleryLimit
	}
	// Keep (page-1)*limit inside int64; such a page is simply empty.
	if int64(page) > math.MaxInt64/int64(limit) {
		page = int(math.MaxInt64 / int64(limit))
	}
	return page, limit
}

func totalPages(total int64, limit int) int64 {
	l := int64(limit)
	return (total + l - 1) / l
}

// GET /gallery?page=&limit=
func GalleryHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := galleryPage(c)

		images, total, err := repo.GalleryImages(c.UserContext(), store.Page{
			Skip:  int64(page-1) * int64(limit),
			Limit: int64(limit),
		})
		if err != nil {
			return httperr.Internal(err)
		}

		return c.JSON(GalleryResponse{
			Images:      images,
			CurrentPage: page,
			TotalPages:  totalPages(total, limit),
			TotalItems:  total,
		})
	}
}

// GET /topSelling
func TopSellingHandler(repo store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		foods, err := repo.TopSellingFoods(c.UserContext(), store.TopSellingLimit)
		if err != nil {
			return httperr.Internal(err)
		}
		return c.JSON(foods)
	}
}
