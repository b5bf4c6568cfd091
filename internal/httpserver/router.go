package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/smart_inventory/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/smart_inventory/pkg/middleware/logging"
)

const welcome = "Welcome to the Smart Inventory Manager API"

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Deps struct {
	Tokens    auth.Verifier
	Ready     Pinger
	Auth      *AuthHandler
	Inventory *InventoryHandler
	Users     *UserHandler
}

type Options struct {
	Logger      *slog.Logger
	CORSOrigins []string
	// Debug adds error detail to 500 responses.
	Debug     bool
	BodyLimit string
}

// New builds an echo instance with the shared middleware chain and all routes.
func New(opts Options, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = StrictJSONSerializer{}
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(opts.Debug)

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.BodyLimit == "" {
		opts.BodyLimit = "1M"
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(opts.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(opts.BodyLimit))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, welcome) })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready.Ping(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	e.POST("/register", d.Auth.Register)
	e.POST("/login", d.Auth.Login)

	authed := auth.RequireAuth(d.Tokens)
	admin := auth.RequireAdmin()

	inventory := e.Group("/inventory", authed)
	inventory.GET("", d.Inventory.List)
	inventory.GET("/low-stock", d.Inventory.LowStock)
	inventory.GET("/:id", d.Inventory.Get)
	inventory.POST("", d.Inventory.Create, admin)
	inventory.PUT("/:id", d.Inventory.Update, admin)
	inventory.DELETE("/:id", d.Inventory.Delete, admin)

	users := e.Group("/users", authed)
	users.GET("", d.Users.List, admin)
	users.PUT("/:id", d.Users.Update, auth.RequireSelfOrAdmin("id"))
	users.DELETE("/:id", d.Users.Delete, admin)
}
