package repo

import (
	"context"

	"github.com/Skotchmaster/smart_inventory/internal/models"
)

type ItemPatch struct {
	Name        *string
	Quantity    *int
	Description *string
	Threshold   *int
}

func (p ItemPatch) columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Threshold != nil {
		cols["threshold"] = *p.Threshold
	}
	return cols
}

// Empty reports whether the patch changes nothing.
func (p ItemPatch) Empty() bool { return len(p.columns()) == 0 }

// ItemOrder is a whitelisted ORDER BY clause.
type ItemOrder string

const (
	OrderByID       ItemOrder = "id ASC"
	OrderByQuantity ItemOrder = "quantity ASC, id ASC"
)

func (r *GormRepo) ListItems(ctx context.Context, order ItemOrder) ([]models.Item, error) {
	if order == "" {
		order = OrderByID
	}
	items := make([]models.Item, 0)
	if err := r.DB.WithContext(ctx).Order(string(order)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListLowStock(ctx context.Context) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := r.DB.WithContext(ctx).
		Where("quantity <= threshold").
		Order(string(OrderByQuantity)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	var item models.Item
	if err := r.DB.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

func (r *GormRepo) CreateItem(ctx context.Context, item *models.Item) error {
	return mapErr(r.DB.WithContext(ctx).Create(item).Error)
}

func (r *GormRepo) UpdateItem(ctx context.Context, id uint, patch ItemPatch) (*models.Item, error) {
	cols := patch.columns()
	if len(cols) == 0 {
		return r.GetItem(ctx, id)
	}
	res := r.DB.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return nil, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetItem(ctx, id)
}

func (r *GormRepo) DeleteItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
