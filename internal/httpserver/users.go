package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/smart_inventory/internal/middleware/auth"
	"github.com/Skotchmaster/smart_inventory/internal/service"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

type UserHandler struct {
	Svc *service.UserService
}

func (h *UserHandler) List(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return fromServiceError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update")

	actor, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.MsgNotIdentified)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transport.PatchUserRequest
	if err := bindJSON(c, &req); err != nil {
		l.Warn("update_user_error", "status", 400, "reason", "bad body")
		return err
	}

	user, err := h.Svc.Update(ctx, actor, id, req)
	if err != nil {
		return fromServiceError(err)
	}

	l.Info("update_user_success", "user_id", user.ID, "by", actor.UserID)
	return c.JSON(http.StatusOK, transport.UserResponse{Message: "User updated successfully", User: *user})
}

func (h *UserHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fromServiceError(err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "User deleted successfully"})
}
