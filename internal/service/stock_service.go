package service

import (
	"errors"
	"fmt"

	"go-stocktrack/internal/domain"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/ws"
	"go-stocktrack/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockService is the single authority through which item quantities change.
// Every mutation and its ledger entry commit in one transaction: no quantity
// change without an audit record, no audit record without a realized change.
type StockService interface {
	AddItem(req *AddItemRequest) (*model.Item, error)
	WithdrawStock(itemID uuid.UUID, req *WithdrawRequest) (*model.Item, error)
	RefillStock(itemID uuid.UUID, req *RefillRequest) (*model.Item, error)
	EditItem(itemID uuid.UUID, req *EditItemRequest) (*model.Item, error)
	DeleteItem(itemID uuid.UUID, staff string) error
	GetItems() ([]model.Item, error)
	GetItem(id uuid.UUID) (*model.Item, error)
}

type AddItemRequest struct {
	Name       string    `json:"name" validate:"required"`
	CategoryID uuid.UUID `json:"category_id" validate:"uuid_required"`
	Quantity   int       `json:"quantity" validate:"gte=0"`
	Threshold  int       `json:"threshold" validate:"gte=0"`
	Staff      string    `json:"staff" validate:"required"`
}

type WithdrawRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Staff    string `json:"staff" validate:"required"`
	Purpose  string `json:"purpose"`
}

type RefillRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Staff    string `json:"staff" validate:"required"`
}

type EditItemRequest struct {
	Name       string    `json:"name" validate:"required"`
	CategoryID uuid.UUID `json:"category_id" validate:"uuid_required"`
	Quantity   int       `json:"quantity" validate:"gte=0"`
	Threshold  int       `json:"threshold" validate:"gte=0"`
	Staff      string    `json:"staff" validate:"required"`
}

type stockService struct {
	itemRepo   repository.ItemRepository
	ledgerRepo repository.LedgerRepository
	db         *gorm.DB
	wsHub      *ws.Hub
}

func NewStockService(itemRepo repository.ItemRepository, ledgerRepo repository.LedgerRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
		db:         db,
		wsHub:      hub,
	}
}

// validateRequest runs struct validation and maps the first failure onto the
// domain taxonomy.
func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return fmt.Errorf("%w: field '%s' failed on '%s'", domain.ErrInvalidInput, first.FailedField, first.Tag)
	}
	return nil
}

// lookupErr converts a read failure into NotFound or StorageFailure.
func lookupErr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return fmt.Errorf("%w: %v", domain.ErrStorage, err)
}

func (s *stockService) AddItem(req *AddItemRequest) (*model.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Quantity:   req.Quantity,
		Threshold:  req.Threshold,
	}
	item.CreatedBy = req.Staff
	item.UpdatedBy = req.Staff

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.First(&category, "id = ?", req.CategoryID).Error; err != nil {
			return lookupErr(err, "category")
		}

		if err := s.itemRepo.Create(tx, item); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}

		entry := &model.LedgerEntry{
			ItemID:   item.ID,
			ItemName: item.Name,
			Action:   model.ActionAdd,
			Quantity: item.Quantity,
			Staff:    req.Staff,
			Purpose:  "New item added",
		}
		if err := s.ledgerRepo.Create(tx, entry); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(model.ActionAdd, item, req.Staff,
		fmt.Sprintf("%s added item '%s' with quantity %d", req.Staff, item.Name, item.Quantity))
	return item, nil
}

func (s *stockService) WithdrawStock(itemID uuid.UUID, req *WithdrawRequest) (*model.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var item model.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return lookupErr(err, "item")
		}

		// The decrement rechecks sufficiency in its WHERE clause, so a
		// concurrent withdrawal that slipped in after the read above still
		// cannot drive the quantity negative.
		rows, err := s.itemRepo.DecrementQuantity(tx, itemID, req.Quantity, req.Staff)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		if rows == 0 {
			return &domain.InsufficientStockError{Available: item.Quantity}
		}
		item.Quantity -= req.Quantity

		entry := &model.LedgerEntry{
			ItemID:   item.ID,
			ItemName: item.Name,
			Action:   model.ActionWithdraw,
			Quantity: req.Quantity,
			Staff:    req.Staff,
			Purpose:  req.Purpose,
		}
		if err := s.ledgerRepo.Create(tx, entry); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(model.ActionWithdraw, &item, req.Staff,
		fmt.Sprintf("%s withdrew %d units of '%s'", req.Staff, req.Quantity, item.Name))
	return &item, nil
}

func (s *stockService) RefillStock(itemID uuid.UUID, req *RefillRequest) (*model.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var item model.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return lookupErr(err, "item")
		}

		if err := s.itemRepo.IncrementQuantity(tx, itemID, req.Quantity, req.Staff); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		item.Quantity += req.Quantity

		entry := &model.LedgerEntry{
			ItemID:   item.ID,
			ItemName: item.Name,
			Action:   model.ActionRefill,
			Quantity: req.Quantity,
			Staff:    req.Staff,
			Purpose:  "Restocked inventory",
		}
		if err := s.ledgerRepo.Create(tx, entry); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(model.ActionRefill, &item, req.Staff,
		fmt.Sprintf("%s refilled %d units of '%s'", req.Staff, req.Quantity, item.Name))
	return &item, nil
}

func (s *stockService) EditItem(itemID uuid.UUID, req *EditItemRequest) (*model.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var item model.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return lookupErr(err, "item")
		}

		var category model.Category
		if err := tx.First(&category, "id = ?", req.CategoryID).Error; err != nil {
			return lookupErr(err, "category")
		}

		oldQuantity := item.Quantity
		item.Name = req.Name
		item.CategoryID = req.CategoryID
		item.Quantity = req.Quantity
		item.Threshold = req.Threshold
		item.UpdatedBy = req.Staff

		if err := s.itemRepo.Update(tx, &item); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}

		entry := &model.LedgerEntry{
			ItemID:   item.ID,
			ItemName: item.Name,
			Action:   model.ActionUpdate,
			Quantity: req.Quantity,
			Staff:    req.Staff,
			Purpose:  fmt.Sprintf("Updated from %d to %d", oldQuantity, req.Quantity),
		}
		if err := s.ledgerRepo.Create(tx, entry); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(model.ActionUpdate, &item, req.Staff,
		fmt.Sprintf("%s updated item '%s'", req.Staff, item.Name))
	return &item, nil
}

func (s *stockService) DeleteItem(itemID uuid.UUID, staff string) error {
	if staff == "" {
		return fmt.Errorf("%w: staff name is required", domain.ErrInvalidInput)
	}

	var item model.Item
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", itemID).Error; err != nil {
			return lookupErr(err, "item")
		}

		// The entry is written first so it references an item id that was
		// still valid at append time; prior entries stay retrievable after
		// the item is gone.
		entry := &model.LedgerEntry{
			ItemID:   item.ID,
			ItemName: item.Name,
			Action:   model.ActionDelete,
			Quantity: 0,
			Staff:    staff,
			Purpose:  "Item deleted",
		}
		if err := s.ledgerRepo.Create(tx, entry); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}

		if err := s.itemRepo.Delete(tx, itemID); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorage, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.broadcast(model.ActionDelete, &item, staff,
		fmt.Sprintf("%s deleted item '%s'", staff, item.Name))
	return nil
}

func (s *stockService) GetItems() ([]model.Item, error) {
	return s.itemRepo.FindAll()
}

func (s *stockService) GetItem(id uuid.UUID) (*model.Item, error) {
	item, err := s.itemRepo.FindByID(id)
	if err != nil {
		return nil, lookupErr(err, "item")
	}
	return item, nil
}

func (s *stockService) broadcast(action model.LedgerAction, item *model.Item, staff, message string) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"item": map[string]interface{}{
			"id":       item.ID,
			"name":     item.Name,
			"quantity": item.Quantity,
		},
		"staff":   staff,
		"message": message,
	})
}
