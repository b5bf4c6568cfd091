package auth

import (
	"context"
	"net/http"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/smart_inventory/internal/models"
	"github.com/Skotchmaster/smart_inventory/internal/tokens"
)

const identityKey = "identity"

type ctxKey struct{}

// Verifier is the part of the token service the gate needs.
type Verifier interface {
	Verify(token string) (*tokens.Identity, error)
}

// Error messages shared with the HTTP error handler.
const (
	MsgMissingToken  = "missing token"
	MsgInvalidToken  = "invalid token"
	MsgForbidden     = "insufficient permissions"
	MsgNotIdentified = "authentication required"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity for later gates and handlers.
func RequireAuth(v Verifier) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  identityKey,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return v.Verify(auth)
		},
		SuccessHandler: func(c echo.Context) {
			if id, ok := c.Get(identityKey).(*tokens.Identity); ok {
				c.SetRequest(c.Request().WithContext(WithIdentity(c.Request().Context(), id)))
			}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgMissingToken)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken)
		},
	})
}

// RequireRole lets the request through only when the caller holds role.
func RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNotIdentified)
			}
			if id.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			return next(c)
		}
	}
}

func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}

// SelfOrAdmin reports whether id may act on the user with targetID.
func SelfOrAdmin(id *tokens.Identity, targetID uint) bool {
	if id == nil {
		return false
	}
	return id.Role == models.RoleAdmin || id.UserID == targetID
}

// RequireSelfOrAdmin reads the target user id from the named path parameter.
// An unparsable id can only match for admins, whose handler then rejects it.
func RequireSelfOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNotIdentified)
			}
			if id.IsAdmin() {
				return next(c)
			}
			target, err := strconv.ParseUint(c.Param(param), 10, 64)
			if err != nil || !SelfOrAdmin(id, uint(target)) {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (*tokens.Identity, bool) {
	id, ok := c.Get(identityKey).(*tokens.Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}

func WithIdentity(ctx context.Context, id *tokens.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFromContext(ctx context.Context) (*tokens.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*tokens.Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}
