package handler

import (
	"strconv"
	"time"

	"go-stocktrack/internal/model"
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// parseDateRange reads optional from/to query params (YYYY-MM-DD). The range
// is inclusive, so "to" is pushed to the end of its day.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, bool) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return nil, nil, true
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return nil, nil, false
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		return nil, nil, false
	}
	to = to.Add(24*time.Hour - time.Nanosecond)
	return &from, &to, true
}

func (h *ReportHandler) GetHistory(c *fiber.Ctx) error {
	from, to, ok := parseDateRange(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date range, use YYYY-MM-DD"})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	action := model.LedgerAction(c.Query("action"))

	entries, err := h.service.HistoryFeed(from, to, action, limit)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(entries)
}

func (h *ReportHandler) GetItemHistory(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("itemId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	from, to, ok := parseDateRange(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date range, use YYYY-MM-DD"})
	}

	entries, err := h.service.ItemHistory(itemID, from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(entries)
}

// GetItemDaily feeds the per-day refill/withdraw chart. Defaults to the
// last 30 days when no range is given.
func (h *ReportHandler) GetItemDaily(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("itemId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if startStr, endStr := c.Query("start"), c.Query("end"); startStr != "" && endStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid start date, use YYYY-MM-DD"})
		}
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid end date, use YYYY-MM-DD"})
		}
	}

	buckets, err := h.service.HistogramByDay(itemID, start, end)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"item_id": itemID,
		"data":    buckets,
	})
}

func (h *ReportHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.AggregateStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stats"})
	}
	return c.JSON(stats)
}

func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.service.LowStockAlerts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch low stock alerts"})
	}
	return c.JSON(fiber.Map{
		"count": len(items),
		"items": items,
	})
}

// PurgeHistory is the explicit out-of-band bulk delete of ledger entries.
// It never touches item state. Admin-gated at the route layer.
func (h *ReportHandler) PurgeHistory(c *fiber.Ctx) error {
	from, to, ok := parseDateRange(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid date range, use YYYY-MM-DD"})
	}

	deleted, err := h.service.PurgeHistory(from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "History purged", "deleted": deleted})
}
