package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data as the bare response body.
func JSONResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// DetailResponse writes err as {"detail": "..."} with the status of an AppError, or 500.
func DetailResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, DetailBody{Detail: appErr.Detail})
	}
	return c.JSON(http.StatusInternalServerError, DetailBody{Detail: http.StatusText(http.StatusInternalServerError)})
}
