package service

import (
	"testing"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database migrated with the full schema.
// MaxOpenConns is pinned to one so every query sees the same :memory: store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Category{}, &model.Item{}, &model.LedgerEntry{}, &model.User{}))
	return db
}

type testEnv struct {
	db         *gorm.DB
	stock      StockService
	reports    ReportService
	categories CategoryService
	category   *model.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	itemRepo := repository.NewItemRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	env := &testEnv{
		db:         db,
		stock:      NewStockService(itemRepo, ledgerRepo, db, nil),
		reports:    NewReportService(itemRepo, categoryRepo, ledgerRepo),
		categories: NewCategoryService(categoryRepo),
	}

	category, err := env.categories.CreateCategory(&CategoryRequest{Name: "Office Supplies"}, "system")
	require.NoError(t, err)
	env.category = category

	return env
}

func (e *testEnv) addItem(t *testing.T, name string, quantity, threshold int, staff string) *model.Item {
	t.Helper()

	item, err := e.stock.AddItem(&AddItemRequest{
		Name:       name,
		CategoryID: e.category.ID,
		Quantity:   quantity,
		Threshold:  threshold,
		Staff:      staff,
	})
	require.NoError(t, err)
	return item
}

func (e *testEnv) entriesFor(t *testing.T, itemID uuid.UUID) []model.LedgerEntry {
	t.Helper()

	var entries []model.LedgerEntry
	require.NoError(t, e.db.Where("item_id = ?", itemID).Order("id ASC").Find(&entries).Error)
	return entries
}
