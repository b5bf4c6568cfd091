package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/smart_inventory/internal/events"
	"github.com/Skotchmaster/smart_inventory/internal/models"
	"github.com/Skotchmaster/smart_inventory/internal/repo"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
)

type ItemStore interface {
	ListItems(ctx context.Context, order repo.ItemOrder) ([]models.Item, error)
	ListLowStock(ctx context.Context) ([]models.Item, error)
	GetItem(ctx context.Context, id uint) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, id uint, patch repo.ItemPatch) (*models.Item, error)
	DeleteItem(ctx context.Context, id uint) error
}

type InventoryService struct {
	Items  ItemStore
	Events events.Publisher
	// DefaultThreshold applies when a new item names no threshold.
	DefaultThreshold int
}

func (s *InventoryService) List(ctx context.Context, sortBy string) ([]models.Item, error) {
	var order repo.ItemOrder
	switch sortBy {
	case "", "id":
		order = repo.OrderByID
	case "quantity":
		order = repo.OrderByQuantity
	default:
		return nil, validation("sortBy must be one of: id, quantity")
	}
	items, err := s.Items.ListItems(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (s *InventoryService) LowStock(ctx context.Context) ([]models.Item, error) {
	items, err := s.Items.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return items, nil
}

func (s *InventoryService) Get(ctx context.Context, id uint) (*models.Item, error) {
	item, err := s.Items.GetItem(ctx, id)
	if err != nil {
		return nil, itemErr(err, "get item")
	}
	return item, nil
}

func (s *InventoryService) Create(ctx context.Context, req transport.CreateItemRequest) (*models.Item, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if req.Quantity == nil {
		return nil, validation("quantity is required")
	}
	if err := validateQuantity(*req.Quantity); err != nil {
		return nil, err
	}
	if err := validateDescription(req.Description); err != nil {
		return nil, err
	}
	threshold := s.DefaultThreshold
	if req.Threshold != nil {
		if err := validateThreshold(*req.Threshold); err != nil {
			return nil, err
		}
		threshold = *req.Threshold
	}

	item := models.Item{
		Name:        name,
		Quantity:    *req.Quantity,
		Description: req.Description,
		Threshold:   threshold,
	}
	if err := s.Items.CreateItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	publish(ctx, s.Events, events.TopicInventory, idKey(item.ID),
		events.NewEvent("item_created", "itemId", item.ID, "name", item.Name, "quantity", item.Quantity))
	return &item, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint, req transport.PatchItemRequest) (*models.Item, error) {
	var patch repo.ItemPatch
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateName(name); err != nil {
			return nil, err
		}
		patch.Name = &name
	}
	if req.Quantity != nil {
		if err := validateQuantity(*req.Quantity); err != nil {
			return nil, err
		}
		patch.Quantity = req.Quantity
	}
	if req.Description != nil {
		if err := validateDescription(*req.Description); err != nil {
			return nil, err
		}
		patch.Description = req.Description
	}
	if req.Threshold != nil {
		if err := validateThreshold(*req.Threshold); err != nil {
			return nil, err
		}
		patch.Threshold = req.Threshold
	}

	item, err := s.Items.UpdateItem(ctx, id, patch)
	if err != nil {
		return nil, itemErr(err, "update item")
	}
	if patch.Empty() {
		return item, nil
	}

	publish(ctx, s.Events, events.TopicInventory, idKey(item.ID),
		events.NewEvent("item_updated", "itemId", item.ID, "name", item.Name, "quantity", item.Quantity))
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	if err := s.Items.DeleteItem(ctx, id); err != nil {
		return itemErr(err, "delete item")
	}
	publish(ctx, s.Events, events.TopicInventory, idKey(id), events.NewEvent("item_deleted", "itemId", id))
	return nil
}

func validateName(name string) error {
	if name == "" {
		return validation("name is required and must be a non-empty string")
	}
	if utf8.RuneCountInString(name) > transport.MaxItemNameLen {
		return validation("name is longer than %d characters", transport.MaxItemNameLen)
	}
	return nil
}

func validateQuantity(q int) error {
	if q <= 0 {
		return validation("quantity must be a positive number")
	}
	return nil
}

func validateDescription(d string) error {
	if utf8.RuneCountInString(d) > transport.MaxDescriptionLen {
		return validation("description is longer than %d characters", transport.MaxDescriptionLen)
	}
	return nil
}

func validateThreshold(t int) error {
	if t < 0 {
		return validation("threshold must not be negative")
	}
	return nil
}

func itemErr(err error, op string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("%w: item", ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
