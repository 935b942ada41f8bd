package service

import (
	"testing"
	"time"

	"go-stocktrack/internal/domain"
	"go-stocktrack/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedEntry inserts a ledger entry at a fixed point in time, bypassing the
// stock service, for date-sensitive query tests.
func seedEntry(t *testing.T, env *testEnv, itemID uuid.UUID, action model.LedgerAction, qty int, at time.Time) {
	t.Helper()

	entry := model.LedgerEntry{
		ItemID:    itemID,
		ItemName:  "seeded",
		Action:    action,
		Quantity:  qty,
		Staff:     "system",
		CreatedAt: at,
	}
	require.NoError(t, env.db.Create(&entry).Error)
}

func TestLowStockAlerts(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 3, 10, "Mike")

	items, err := env.reports.LowStockAlerts()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item.ID, items[0].ID)

	// Refill above threshold clears the alert.
	_, err = env.stock.RefillStock(item.ID, &RefillRequest{Quantity: 9, Staff: "Mike"})
	require.NoError(t, err)

	items, err = env.reports.LowStockAlerts()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestLowStockIsStrict(t *testing.T) {
	env := newTestEnv(t)
	env.addItem(t, "Paper", 10, 10, "Mike") // quantity == threshold is not low

	items, err := env.reports.LowStockAlerts()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestItemHistorySortedDescending(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 10, 2, "Mike")

	base := time.Date(2020, 8, 1, 12, 0, 0, 0, time.UTC)
	seedEntry(t, env, item.ID, model.ActionRefill, 5, base)
	seedEntry(t, env, item.ID, model.ActionWithdraw, 2, base.AddDate(0, 0, 1))

	entries, err := env.reports.ItemHistory(item.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3) // Add + 2 seeded

	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i-1].CreatedAt.Before(entries[i].CreatedAt),
			"entries must be sorted newest first")
	}
}

func TestItemHistoryDateRangeInclusive(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 10, 2, "Mike")

	day1 := time.Date(2020, 8, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2020, 8, 2, 12, 0, 0, 0, time.UTC)
	day3 := time.Date(2020, 8, 3, 12, 0, 0, 0, time.UTC)
	seedEntry(t, env, item.ID, model.ActionRefill, 1, day1)
	seedEntry(t, env, item.ID, model.ActionRefill, 2, day2)
	seedEntry(t, env, item.ID, model.ActionRefill, 3, day3)

	from := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 8, 2, 23, 59, 59, 0, time.UTC)
	entries, err := env.reports.ItemHistory(item.ID, &from, &to)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Quantity)
	assert.Equal(t, 1, entries[1].Quantity)
}

func TestHistoryFeedFilterAndLimit(t *testing.T) {
	env := newTestEnv(t)
	itemA := env.addItem(t, "Paper", 10, 2, "Mike")
	itemB := env.addItem(t, "Pens", 20, 5, "Mike")

	base := time.Date(2020, 8, 10, 12, 0, 0, 0, time.UTC)
	seedEntry(t, env, itemA.ID, model.ActionWithdraw, 1, base)
	seedEntry(t, env, itemB.ID, model.ActionWithdraw, 2, base.Add(time.Hour))
	seedEntry(t, env, itemA.ID, model.ActionRefill, 3, base.Add(2*time.Hour))

	withdrawals, err := env.reports.HistoryFeed(nil, nil, model.ActionWithdraw, 0)
	require.NoError(t, err)
	require.Len(t, withdrawals, 2)
	for _, e := range withdrawals {
		assert.Equal(t, model.ActionWithdraw, e.Action)
	}

	// Newest first: the two live Add entries, then the latest seeded one.
	limited, err := env.reports.HistoryFeed(nil, nil, "", 3)
	require.NoError(t, err)
	require.Len(t, limited, 3)
	assert.Equal(t, model.ActionAdd, limited[0].Action)
	assert.Equal(t, model.ActionRefill, limited[2].Action)
}

func TestHistoryFeedRejectsUnknownAction(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.reports.HistoryFeed(nil, nil, "Teleport", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryFeedCappedAt100(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 10, 2, "Mike")

	base := time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 120; i++ {
		seedEntry(t, env, item.ID, model.ActionRefill, 1, base.Add(time.Duration(i)*time.Minute))
	}

	entries, err := env.reports.HistoryFeed(nil, nil, "", 500)
	require.NoError(t, err)
	assert.Len(t, entries, 100)
}

func TestAggregateStats(t *testing.T) {
	env := newTestEnv(t)
	low := env.addItem(t, "Paper", 3, 10, "Mike")
	env.addItem(t, "Pens", 20, 5, "Mike")

	stats, err := env.reports.AggregateStats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalItems)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.EqualValues(t, 1, stats.TotalCategories)
	assert.EqualValues(t, 2, stats.TotalHistoryEntries)

	// Deleting an item removes it from the counts but its entries remain.
	require.NoError(t, env.stock.DeleteItem(low.ID, "Mike"))

	stats, err = env.reports.AggregateStats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalItems)
	assert.EqualValues(t, 0, stats.LowStockCount)
	assert.EqualValues(t, 3, stats.TotalHistoryEntries) // 2 adds + 1 delete

	history, err := env.reports.ItemHistory(low.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestHistogramByDayZeroFills(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 50, 2, "Mike")

	day1 := time.Date(2020, 8, 1, 12, 0, 0, 0, time.UTC)
	day3 := time.Date(2020, 8, 3, 12, 0, 0, 0, time.UTC)
	seedEntry(t, env, item.ID, model.ActionRefill, 5, day1)
	seedEntry(t, env, item.ID, model.ActionRefill, 2, day1.Add(time.Hour))
	seedEntry(t, env, item.ID, model.ActionWithdraw, 4, day3)
	// Update entries never show up in the histogram.
	seedEntry(t, env, item.ID, model.ActionUpdate, 9, day3)

	buckets, err := env.reports.HistogramByDay(item.ID,
		time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 8, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, buckets, 4)

	assert.Equal(t, "2020-08-01", buckets[0].Date)
	assert.Equal(t, 7, buckets[0].Refill)
	assert.Equal(t, 0, buckets[0].Withdraw)

	// Day with no activity is present with zeros.
	assert.Equal(t, "2020-08-02", buckets[1].Date)
	assert.Zero(t, buckets[1].Refill)
	assert.Zero(t, buckets[1].Withdraw)

	assert.Equal(t, "2020-08-03", buckets[2].Date)
	assert.Equal(t, 4, buckets[2].Withdraw)

	assert.Equal(t, "2020-08-04", buckets[3].Date)
	assert.Zero(t, buckets[3].Refill)
}

func TestHistogramRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 10, 2, "Mike")

	_, err := env.reports.HistogramByDay(item.ID,
		time.Date(2020, 8, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurgeHistoryLeavesItemsAlone(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 10, 2, "Mike")

	deleted, err := env.reports.PurgeHistory(nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	entries, err := env.reports.ItemHistory(item.ID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Item state untouched by the purge.
	current, err := env.stock.GetItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, current.Quantity)
}

func TestPurgeHistoryWithRange(t *testing.T) {
	env := newTestEnv(t)
	item := env.addItem(t, "Paper", 10, 2, "Mike")

	old := time.Date(2020, 1, 5, 12, 0, 0, 0, time.UTC)
	seedEntry(t, env, item.ID, model.ActionRefill, 5, old)

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 1, 31, 23, 59, 59, 0, time.UTC)
	deleted, err := env.reports.PurgeHistory(&from, &to)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	// The recent Add entry survives.
	entries, err := env.reports.ItemHistory(item.ID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, model.ActionAdd, entries[0].Action)
}
