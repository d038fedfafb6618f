package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailResponse(t *testing.T) {
	tests := map[string]struct {
		err    error
		status int
		body   string
	}{
		"not found": {NotFound("No data found for ticker '%s'.", "ZZZZ"), http.StatusNotFound, `{"detail":"No data found for ticker 'ZZZZ'."}`},
		"wrapped":   {fmt.Errorf("chart: %w", BadRequest("bad date")), http.StatusBadRequest, `{"detail":"bad date"}`},
		"plain":     {errors.New("secret internals"), http.StatusInternalServerError, `{"detail":"Internal Server Error"}`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, DetailResponse(c, tc.err))
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("upstream timeout")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "upstream timeout", err.Error())

	wrapped := &AppError{Status: http.StatusBadGateway, Detail: "provider failed", Err: cause}
	assert.Equal(t, "provider failed: upstream timeout", wrapped.Error())
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(nil)
	e.GET("/boom", func(c echo.Context) error { return BadRequest("earnings_date is required") })

	tests := map[string]struct {
		method, target string
		status         int
		body           string
	}{
		"app error":    {http.MethodGet, "/boom", http.StatusBadRequest, `{"detail":"earnings_date is required"}`},
		"unknown path": {http.MethodGet, "/nope", http.StatusNotFound, `{"detail":"Not Found"}`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))
			assert.Equal(t, tc.status, rec.Code)
			assert.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

type sampleRequest struct {
	Ticker string `param:"ticker" validate:"required,max=5"`
	Date   string `query:"date" validate:"required,datetime=2006-01-02"`
	Limit  int    `query:"limit" default:"10" validate:"min=1"`
}

func TestReadAndValidateRequest(t *testing.T) {
	e := echo.New()
	bind := func(target, ticker string) (*sampleRequest, ValidationErrors) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
		c.SetParamNames("ticker")
		c.SetParamValues(ticker)
		req := &sampleRequest{}
		return req, ReadAndValidateRequest(c, req)
	}

	req, verr := bind("/?date=2024-01-10", "AAPL")
	require.Nil(t, verr)
	assert.Equal(t, "AAPL", req.Ticker)
	assert.Equal(t, 10, req.Limit, "default applied")

	_, verr = bind("/?date=2024-1-10", "TOOLONG")
	require.Len(t, verr, 2)
	assert.Equal(t, "ticker must be at most 5 characters; date must be a date in YYYY-MM-DD format", verr.Error())
	assert.Equal(t, "ERR_DATETIME", verr[1].Code)
	assert.Equal(t, "date", verr[1].Field)
}
