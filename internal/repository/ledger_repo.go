package repository

import (
	"time"

	"go-stocktrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxFeedLimit caps the global history feed.
const MaxFeedLimit = 100

// DailyMovement aggregates refill and withdraw quantities for one calendar day.
type DailyMovement struct {
	Date     string `json:"date"`
	Refill   int    `json:"refill"`
	Withdraw int    `json:"withdraw"`
}

type LedgerRepository interface {
	Create(tx *gorm.DB, entry *model.LedgerEntry) error
	FindByItem(itemID uuid.UUID, from, to *time.Time) ([]model.LedgerEntry, error)
	Feed(from, to *time.Time, action model.LedgerAction, limit int) ([]model.LedgerEntry, error)
	Count() (int64, error)
	DailyMovement(itemID uuid.UUID, start, end time.Time) ([]DailyMovement, error)
	Purge(from, to *time.Time) (int64, error)
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) Create(tx *gorm.DB, entry *model.LedgerEntry) error {
	return tx.Create(entry).Error
}

func (r *ledgerRepo) FindByItem(itemID uuid.UUID, from, to *time.Time) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	q := r.db.Where("item_id = ?", itemID)
	if from != nil && to != nil {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	}
	err := q.Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) Feed(from, to *time.Time, action model.LedgerAction, limit int) ([]model.LedgerEntry, error) {
	if limit <= 0 || limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	var entries []model.LedgerEntry
	q := r.db.Model(&model.LedgerEntry{})
	if from != nil && to != nil {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *ledgerRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.LedgerEntry{}).Count(&count).Error
	return count, err
}

func (r *ledgerRepo) DailyMovement(itemID uuid.UUID, start, end time.Time) ([]DailyMovement, error) {
	var results []DailyMovement

	rows, err := r.db.Model(&model.LedgerEntry{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN action = 'Refill' THEN quantity ELSE 0 END), 0) as refill,
			COALESCE(SUM(CASE WHEN action = 'Withdraw' THEN quantity ELSE 0 END), 0) as withdraw
		`).
		Where("item_id = ? AND created_at BETWEEN ? AND ?", itemID, start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyMovement
		if err := rows.Scan(&data.Date, &data.Refill, &data.Withdraw); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

// Purge bulk-deletes ledger entries. It is the only delete path the ledger
// has, invoked from the explicit history-management operation, never from a
// stock mutation.
func (r *ledgerRepo) Purge(from, to *time.Time) (int64, error) {
	q := r.db.Model(&model.LedgerEntry{})
	if from != nil && to != nil {
		q = q.Where("created_at BETWEEN ? AND ?", from, to)
	} else {
		q = q.Where("1 = 1")
	}
	res := q.Delete(&model.LedgerEntry{})
	return res.RowsAffected, res.Error
}
