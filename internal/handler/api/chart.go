package api

import (
	"context"
	"errors"
	"time"

	models "EarnChart/internal/domain/models"
	"EarnChart/internal/usecase"
	xhttp "EarnChart/pkg/http"
	xlogger "EarnChart/pkg/logger"
	"EarnChart/pkg/util"

	"github.com/labstack/echo/v4"
)

// ChartService is the use case behind the chart endpoint.
type ChartService interface {
	Chart(ctx context.Context, ticker string, earningsDate time.Time) (*models.ChartResponse, error)
}

var _ ChartService = (*usecase.ChartService)(nil)

// ChartEchoHandler serves post-earnings price history.
type ChartEchoHandler struct {
	logger *xlogger.Logger
	charts ChartService
}

func NewChartEchoHandler(logger *xlogger.Logger, charts ChartService) *ChartEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ChartEchoHandler{logger: logger, charts: charts}
}

func (h *ChartEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/chart/:ticker", h.Chart)
}

// Chart handles GET /api/chart/:ticker?earnings_date=YYYY-MM-DD.
func (h *ChartEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.DetailResponse(c, xhttp.BadRequest(verr.Error()))
	}

	earnings, err := util.ParseDate(req.EarningsDate)
	if err != nil {
		return xhttp.DetailResponse(c, xhttp.BadRequest("earnings_date must be a date in YYYY-MM-DD format"))
	}

	res, err := h.charts.Chart(c.Request().Context(), req.Ticker, earnings)
	if err != nil {
		if errors.Is(err, usecase.ErrNoData) {
			return xhttp.DetailResponse(c, xhttp.NotFound("No data found for ticker '%s'.", util.NormalizeTicker(req.Ticker)))
		}
		h.logger.Error("chart usecase error",
			xlogger.String("ticker", req.Ticker),
			xlogger.String("earnings_date", req.EarningsDate),
			xlogger.Error(err),
		)
		return xhttp.DetailResponse(c, xhttp.Internal(err))
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.JSONResponse(c, res)
}
