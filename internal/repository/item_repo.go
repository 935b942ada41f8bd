package repository

import (
	"go-stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(tx *gorm.DB, item *model.Item) error
	FindAll() ([]model.Item, error)
	FindByID(id uuid.UUID) (*model.Item, error)
	FindLowStock() ([]model.Item, error)
	Update(tx *gorm.DB, item *model.Item) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	Count() (int64, error)
	CountLowStock() (int64, error)
	IncrementQuantity(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error
	DecrementQuantity(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) (int64, error)
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

// Mutating methods take tx so the stock service can run them inside the
// same transaction as the ledger append.

func (r *itemRepo) Create(tx *gorm.DB, item *model.Item) error {
	return tx.Create(item).Error
}

func (r *itemRepo) FindAll() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Preload("Category").Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	err := r.db.Preload("Category").First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindLowStock() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Preload("Category").Where("quantity < threshold").Find(&items).Error
	return items, err
}

func (r *itemRepo) Update(tx *gorm.DB, item *model.Item) error {
	return tx.Save(item).Error
}

func (r *itemRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Item{}, "id = ?", id).Error
}

func (r *itemRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Item{}).Count(&count).Error
	return count, err
}

func (r *itemRepo) CountLowStock() (int64, error) {
	var count int64
	err := r.db.Model(&model.Item{}).Where("quantity < threshold").Count(&count).Error
	return count, err
}

func (r *itemRepo) IncrementQuantity(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) error {
	return tx.Model(&model.Item{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_by": updatedBy,
		}).Error
}

// DecrementQuantity applies a guarded decrement: the WHERE clause rechecks
// sufficiency so two concurrent withdrawals cannot both pass against a stale
// read. A zero row count means the item vanished or the stock fell short.
func (r *itemRepo) DecrementQuantity(tx *gorm.DB, id uuid.UUID, qty int, updatedBy string) (int64, error) {
	res := tx.Model(&model.Item{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_by": updatedBy,
		})
	return res.RowsAffected, res.Error
}
