package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/smart_inventory/internal/service"
	"github.com/Skotchmaster/smart_inventory/internal/transport"
	"github.com/Skotchmaster/smart_inventory/pkg/logging"
)

// Error kinds sent to clients in the "kind" field.
const (
	KindInvalidInput       = "invalid_input"
	KindInvalidCredentials = "invalid_credentials"
	KindUnauthenticated    = "unauthenticated"
	KindForbidden          = "forbidden"
	KindNotFound           = "not_found"
	KindConflict           = "conflict"
	KindMethodNotAllowed   = "method_not_allowed"
	KindTooLarge           = "payload_too_large"
	KindInternal           = "internal"
)

const (
	msgInvalidCredentials = "invalid username or password"
	msgInternal           = "an internal server error occurred"
)

// apiError is an HTTP rejection that carries its error kind.
type apiError struct {
	Code    int
	Kind    string
	Message string
	// Internal is logged and, in development, echoed as "detail".
	Internal error
}

func (e *apiError) Error() string {
	if e.Internal != nil {
		return e.Message + ": " + e.Internal.Error()
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.Internal }

func newAPIError(code int, kind, msg string) *apiError {
	return &apiError{Code: code, Kind: kind, Message: msg}
}

func kindForStatus(code int) string {
	switch code {
	case http.StatusBadRequest:
		return KindInvalidInput
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusMethodNotAllowed:
		return KindMethodNotAllowed
	case http.StatusRequestEntityTooLarge:
		return KindTooLarge
	}
	if code >= 500 {
		return KindInternal
	}
	return KindInvalidInput
}

// fromServiceError maps service sentinels to responses. Anything unknown is internal.
func fromServiceError(err error) *apiError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return newAPIError(http.StatusBadRequest, KindInvalidInput, strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": "))
	case errors.Is(err, service.ErrInvalidCredentials):
		return newAPIError(http.StatusBadRequest, KindInvalidCredentials, msgInvalidCredentials)
	case errors.Is(err, service.ErrForbidden):
		return newAPIError(http.StatusForbidden, KindForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return newAPIError(http.StatusNotFound, KindNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return newAPIError(http.StatusConflict, KindConflict, err.Error())
	}
	return &apiError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: msgInternal, Internal: err}
}

// ErrorHandler renders every error as {"error","kind"} JSON. With debug on,
// internal failures also carry the underlying error text.
func ErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := transport.ErrorResponse{}
		code := http.StatusInternalServerError

		var ae *apiError
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			code, resp.Kind, resp.Error = ae.Code, ae.Kind, ae.Message
			if debug && ae.Internal != nil {
				resp.Detail = ae.Internal.Error()
			}
		case errors.As(err, &he):
			code = he.Code
			resp.Kind = kindForStatus(code)
			if msg, ok := he.Message.(string); ok {
				resp.Error = msg
			} else {
				resp.Error = http.StatusText(code)
			}
			if debug && he.Internal != nil {
				resp.Detail = he.Internal.Error()
			}
		default:
			resp.Kind, resp.Error = KindInternal, msgInternal
			if debug {
				resp.Detail = err.Error()
			}
		}
		if code >= 500 {
			resp.Error = msgInternal
			logging.FromContext(c.Request().Context()).Error("request_failed", "status", code, "error", err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, resp)
		}
		if werr != nil {
			logging.FromContext(c.Request().Context()).Error("write_error_response_failed", "error", werr)
		}
	}
}
