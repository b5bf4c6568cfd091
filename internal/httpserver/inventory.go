package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/smart_inventory/internal/service"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

type InventoryHandler struct {
	Svc *service.InventoryService
}

func pathID(c echo.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, newAPIError(http.StatusBadRequest, KindInvalidInput, "invalid "+name)
	}
	return uint(id), nil
}

func (h *InventoryHandler) List(c echo.Context) error {
	items, err := h.Svc.List(c.Request().Context(), c.QueryParam("sortBy"))
	if err != nil {
		return fromServiceError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) LowStock(c echo.Context) error {
	items, err := h.Svc.LowStock(c.Request().Context())
	if err != nil {
		return fromServiceError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *InventoryHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return fromServiceError(err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *InventoryHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.create")

	var req transport.CreateItemRequest
	if err := bindJSON(c, &req); err != nil {
		l.Warn("create_item_error", "status", 400, "reason", "bad body")
		return err
	}

	item, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fromServiceError(err)
	}

	l.Info("create_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, transport.ItemResponse{Message: "Item added successfully", Item: *item})
}

func (h *InventoryHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.update")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchItemRequest
	if err := bindJSON(c, &req); err != nil {
		l.Warn("update_item_error", "status", 400, "reason", "bad body")
		return err
	}

	item, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fromServiceError(err)
	}

	l.Info("update_item_success", "item_id", item.ID)
	return c.JSON(http.StatusOK, transport.ItemResponse{Message: "Item updated successfully", Item: *item})
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fromServiceError(err)
	}

	l.Info("delete_item_success", "item_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Item deleted successfully"})
}
