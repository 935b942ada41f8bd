package service

import (
	"fmt"
	"time"

	"go-stocktrack/internal/domain"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"

	"github.com/google/uuid"
)

// ReportService derives read-only views over items and the ledger. Nothing
// here mutates stock; PurgeHistory is the one write and it only touches the
// ledger, never item state.
type ReportService interface {
	LowStockAlerts() ([]model.Item, error)
	ItemHistory(itemID uuid.UUID, from, to *time.Time) ([]model.LedgerEntry, error)
	HistoryFeed(from, to *time.Time, action model.LedgerAction, limit int) ([]model.LedgerEntry, error)
	AggregateStats() (*AggregateStats, error)
	HistogramByDay(itemID uuid.UUID, start, end time.Time) ([]repository.DailyMovement, error)
	PurgeHistory(from, to *time.Time) (int64, error)
}

type AggregateStats struct {
	TotalItems          int64 `json:"total_items"`
	LowStockCount       int64 `json:"low_stock_count"`
	TotalCategories     int64 `json:"total_categories"`
	TotalHistoryEntries int64 `json:"total_history_entries"`
}

type reportService struct {
	itemRepo     repository.ItemRepository
	categoryRepo repository.CategoryRepository
	ledgerRepo   repository.LedgerRepository
}

func NewReportService(itemRepo repository.ItemRepository, categoryRepo repository.CategoryRepository, ledgerRepo repository.LedgerRepository) ReportService {
	return &reportService{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		ledgerRepo:   ledgerRepo,
	}
}

func (s *reportService) LowStockAlerts() ([]model.Item, error) {
	return s.itemRepo.FindLowStock()
}

func (s *reportService) ItemHistory(itemID uuid.UUID, from, to *time.Time) ([]model.LedgerEntry, error) {
	return s.ledgerRepo.FindByItem(itemID, from, to)
}

func (s *reportService) HistoryFeed(from, to *time.Time, action model.LedgerAction, limit int) ([]model.LedgerEntry, error) {
	if action != "" && !model.ValidAction(action) {
		return nil, fmt.Errorf("%w: unknown action '%s'", domain.ErrInvalidInput, action)
	}
	return s.ledgerRepo.Feed(from, to, action, limit)
}

func (s *reportService) AggregateStats() (*AggregateStats, error) {
	var stats AggregateStats
	var err error

	if stats.TotalItems, err = s.itemRepo.Count(); err != nil {
		return nil, err
	}
	if stats.LowStockCount, err = s.itemRepo.CountLowStock(); err != nil {
		return nil, err
	}
	if stats.TotalCategories, err = s.categoryRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalHistoryEntries, err = s.ledgerRepo.Count(); err != nil {
		return nil, err
	}

	return &stats, nil
}

// HistogramByDay buckets refill and withdraw quantities per calendar day
// across the inclusive range, zero-filling days with no activity so the
// chart axis stays continuous.
func (s *reportService) HistogramByDay(itemID uuid.UUID, start, end time.Time) ([]repository.DailyMovement, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}

	// Normalize to whole days so the aggregate covers the full end day.
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, end.Location())

	movement, err := s.ledgerRepo.DailyMovement(itemID, startDay, endDay)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]repository.DailyMovement, len(movement))
	for _, m := range movement {
		byDate[m.Date] = m
	}

	var buckets []repository.DailyMovement
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if m, ok := byDate[key]; ok {
			m.Date = key
			buckets = append(buckets, m)
		} else {
			buckets = append(buckets, repository.DailyMovement{Date: key})
		}
	}

	return buckets, nil
}

func (s *reportService) PurgeHistory(from, to *time.Time) (int64, error) {
	return s.ledgerRepo.Purge(from, to)
}
