package handler

import (
	"go-stocktrack/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.StockService
}

func NewInventoryHandler(s service.StockService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func (h *InventoryHandler) GetItems(c *fiber.Ctx) error {
	items, err := h.service.GetItems()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(items)
}

func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.service.GetItem(id)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(item)
}

func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var req service.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.AddItem(&req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req service.EditItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.EditItem(id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	// Staff comes from the request body; it is attribution for the ledger,
	// not the authenticated identity.
	var req struct {
		Staff string `json:"staff"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.DeleteItem(id, req.Staff); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

func (h *InventoryHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req service.WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.WithdrawStock(id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock withdrawn", "data": item})
}

func (h *InventoryHandler) Refill(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var req service.RefillRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.RefillStock(id, &req)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock refilled", "data": item})
}
