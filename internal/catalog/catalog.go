// Package catalog bulk loads foods from an .xlsx sheet.
//
// The first row is a header naming the columns (case-insensitive, any
// order): name, image, category, quantity, price, addedByName,
// addedByEmail, origin, description, sellerEmail. Every data row goes
// through the same validation as POST /foods.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"epicure-backend/internal/flexnum"
	"epicure-backend/internal/foods"
	"epicure-backend/internal/models"
	"epicure-backend/internal/store"

	"github.com/xuri/excelize/v2"
)

var requiredColumns = []string{"name", "image", "category", "quantity", "price", "addedbyemail", "origin", "description"}

// RowError reports a data row that could not become a food. Row is the
// 1-based sheet row number.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

type Sheet struct {
	Foods   []models.Food
	Skipped []RowError
}

// Read parses the named sheet, or the first one when sheet is empty.
func Read(r io.Reader, sheet string, now time.Time) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	out := &Sheet{Foods: []models.Food{}}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2

		req, err := parseRow(row, cols)
		if err == nil {
			var food models.Food
			food, err = foods.NewFood(req, now)
			if err == nil {
				out.Foods = append(out.Foods, food)
				continue
			}
		}
		out.Skipped = append(out.Skipped, RowError{Row: rowNum, Err: err})
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := cols[key]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		cols[key] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseRow(row []string, cols map[string]int) (foods.CreateFoodRequest, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	req := foods.CreateFoodRequest{
		Name:        cell("name"),
		Image:       cell("image"),
		Category:    cell("category"),
		Origin:      cell("origin"),
		Description: cell("description"),
		SellerEmail: cell("selleremail"),
		AddedBy: &foods.AddedByRequest{
			Name:  cell("addedbyname"),
			Email: cell("addedbyemail"),
		},
	}

	// Empty numeric cells stay nil so validation reports them as missing.
	if v := cell("quantity"); v != "" {
		var q flexnum.Int
		if err := q.UnmarshalJSON([]byte(strconv.Quote(v))); err != nil {
			return req, fmt.Errorf("quantity: %w", err)
		}
		req.Quantity = &q
	}
	if v := cell("price"); v != "" {
		var p flexnum.Float
		if err := p.UnmarshalJSON([]byte(strconv.Quote(v))); err != nil {
			return req, fmt.Errorf("price: %w", err)
		}
		req.Price = &p
	}
	return req, nil
}

// Import inserts foods one by one and returns how many were stored. It
// stops at the first store failure.
func Import(ctx context.Context, repo store.Store, list []models.Food) (int, error) {
	for i := range list {
		if err := repo.CreateFood(ctx, &list[i]); err != nil {
			return i, fmt.Errorf("insert %q: %w", list[i].Name, err)
		}
	}
	return len(list), nil
}
