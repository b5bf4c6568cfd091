package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/smart_inventory/internal/service"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

type AuthHandler struct {
	Svc *service.AuthService
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "bad body")
		return err
	}

	id, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fromServiceError(err)
	}
	return c.JSON(http.StatusCreated, transport.RegisterResponse{UserID: id})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		l.Warn("login_failed", "status", 400, "reason", "bad body")
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fromServiceError(err)
	}

	resp := transport.LoginResponse{
		Token:    res.Token,
		Role:     res.User.Role,
		Username: res.User.Username,
		FullName: res.User.FullName,
	}
	if !res.ExpiresAt.IsZero() {
		exp := res.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	return c.JSON(http.StatusOK, resp)
}
