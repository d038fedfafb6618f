package http

import (
	"errors"
	"fmt"
	"net/http"

	applogger "EarnChart/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AppError is an error that carries the HTTP status and the client-facing detail.
type AppError struct {
	Status int
	Detail string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Detail {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *AppError) Unwrap() error { return e.Err }

// NotFound builds a 404 with a formatted detail.
func NotFound(format string, a ...interface{}) *AppError {
	return &AppError{Status: http.StatusNotFound, Detail: fmt.Sprintf(format, a...)}
}

// BadRequest builds a 400.
func BadRequest(detail string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Detail: detail}
}

// Internal builds a 500 whose detail is the error text.
func Internal(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Detail: err.Error(), Err: err}
}

// ErrorHandler renders errors returned by handlers and by the router in the
// {"detail": "..."} shape.
func ErrorHandler(logger *applogger.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = applogger.Nop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			detail := http.StatusText(he.Code)
			if msg, ok := he.Message.(string); ok && msg != "" {
				detail = msg
			}
			err = &AppError{Status: he.Code, Detail: detail, Err: err}
		}
		if werr := DetailResponse(c, err); werr != nil {
			logger.Warn("error response write failed", applogger.Error(werr))
		}
	}
}
