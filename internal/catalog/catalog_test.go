package catalog

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"epicure-backend/internal/store"
	"epicure-backend/internal/store/sqlstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []any{"Name", "Image", "Category", "Quantity", "Price", "AddedByName", "AddedByEmail", "Origin", "Description"}

func TestRead(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	buf := workbook(t,
		header,
		[]any{"Pad Thai", "https://img/1.jpg", "Noodles", 5, 9.5, "Nok", "nok@example.com", "Thailand", "Rice noodles"},
		[]any{},
		[]any{"Ramen", "https://img/2.jpg", "Noodles", "lots", 12, "Ken", "ken@example.com", "Japan", "Broth"},
		[]any{"Pho", "https://img/3.jpg", "Soup", 2, 8, "Lan", "not-an-email", "Vietnam", "Beef"},
		[]any{"Bibimbap", "https://img/4.jpg", "Rice", "3", "11.25", "", "min@example.com", "Korea", "Mixed rice"},
	)

	sheet, err := Read(buf, "", now)
	require.NoError(t, err)

	require.Len(t, sheet.Foods, 2)
	assert.Equal(t, "Pad Thai", sheet.Foods[0].Name)
	assert.Equal(t, 5, sheet.Foods[0].Quantity)
	assert.Equal(t, 9.5, sheet.Foods[0].Price)
	assert.Equal(t, "nok@example.com", sheet.Foods[0].AddedBy.Email)
	assert.Equal(t, now, sheet.Foods[0].CreatedAt)
	assert.Equal(t, 3, sheet.Foods[1].Quantity)
	assert.Equal(t, 11.25, sheet.Foods[1].Price)

	require.Len(t, sheet.Skipped, 2)
	assert.Equal(t, 4, sheet.Skipped[0].Row)
	assert.Contains(t, sheet.Skipped[0].Error(), "quantity")
	assert.Equal(t, 5, sheet.Skipped[1].Row)
	assert.Contains(t, sheet.Skipped[1].Error(), "addedBy.email must be a valid email")
}

func TestReadMissingColumns(t *testing.T) {
	buf := workbook(t, []any{"name", "image"})

	_, err := Read(buf, "", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestReadUnknownSheet(t *testing.T) {
	buf := workbook(t, header)

	_, err := Read(buf, "Menu", time.Now())
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	repo, err := sqlstore.Open(sqlite.Open(filepath.Join(t.TempDir(), "epicure.db")), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	defer repo.Close(context.Background())

	buf := workbook(t,
		header,
		[]any{"Pad Thai", "https://img/1.jpg", "Noodles", 5, 9.5, "Nok", "nok@example.com", "Thailand", "Rice noodles"},
		[]any{"Ramen", "https://img/2.jpg", "Noodles", 4, 12, "Ken", "ken@example.com", "Japan", "Broth"},
	)
	sheet, err := Read(buf, "Sheet1", time.Now())
	require.NoError(t, err)

	n, err := Import(context.Background(), repo, sheet.Foods)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := repo.ListFoods(context.Background(), store.FoodFilter{Category: "Noodles"})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
	assert.False(t, sheet.Foods[0].ID.IsZero())
}
