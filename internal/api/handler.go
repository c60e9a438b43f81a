package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/adrpulse/internal/domain/dto"
	"github.com/guttosm/adrpulse/internal/middleware"
	"github.com/guttosm/adrpulse/internal/service"
	"github.com/guttosm/adrpulse/internal/spread"
)

// Handler provides HTTP handlers for the conversion, price and spread endpoints.
//
// Responsibilities:
//   - Validate request bodies and query parameters
//   - Delegate to the price and spread services
//   - Translate domain results into response DTOs
//   - Map domain errors to HTTP status codes
type Handler struct {
	prices      service.PriceService
	spreads     service.SpreadService
	defaultDays int
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - prices (service.PriceService): snapshot cache and status.
//   - spreads (service.SpreadService): conversions and historical spreads.
//   - defaultDays (int): historical window used when ?days is absent.
func NewHandler(prices service.PriceService, spreads service.SpreadService, defaultDays int) *Handler {
	if defaultDays <= 0 {
		defaultDays = service.DefaultHistoryDays
	}
	return &Handler{prices: prices, spreads: spreads, defaultDays: defaultDays}
}

// Convert handles POST /api/v1/convert.
//
// Convert godoc
// @Summary      Convert an ADR price to the implied home-market price
// @Description  implied = adr_price / 5 * usd_twd. With actual_local_price (or use_market_reference) the spread is returned too.
// @Tags         conversion
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ConvertRequest      true  "Conversion inputs"
// @Success      200      {object}  dto.ConversionResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse       "Invalid input"
// @Failure      422      {object}  dto.ErrorResponse       "Division hazard"
// @Failure      500      {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/convert [post]
func (h *Handler) Convert(c *gin.Context) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.spreads.Convert(c.Request.Context(), req.ToModel())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.NewConversionResponse(res))
	case errors.Is(err, spread.ErrInvalidInput):
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid input", err)
	case errors.Is(err, spread.ErrDivisionHazard):
		middleware.AbortWithError(c, http.StatusUnprocessableEntity, "conversion not computable", err)
	default:
		middleware.AbortWithError(c, http.StatusInternalServerError, "conversion failed", err)
	}
}

// GetPrices handles GET /api/v1/prices.
//
// GetPrices godoc
// @Summary      Current prices
// @Description  Latest TSM, 2330 and USD/TWD quotes with the live implied price and spread. Served from cache while fresh.
// @Tags         prices
// @Produce      json
// @Success      200  {object}  dto.PricesResponse  "Success"
// @Failure      503  {object}  dto.ErrorResponse   "No price data available"
// @Failure      500  {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/prices [get]
func (h *Handler) GetPrices(c *gin.Context) {
	snap, err := h.prices.CurrentPrices(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoPriceData) {
			middleware.AbortWithError(c, http.StatusServiceUnavailable, "no price data available", err)
			return
		}
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to fetch prices", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPricesResponse(snap))
}

// GetHistorical handles GET /api/v1/historical.
//
// GetHistorical godoc
// @Summary      Historical spreads
// @Description  One point per Taiwan trading day in [today-days, today-1]
// @Tags         spread
// @Produce      json
// @Param        days  query     int  false  "Window in days (1..60)" example(30)
// @Success      200   {object}  dto.HistoricalResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500   {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/historical [get]
func (h *Handler) GetHistorical(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	points, err := h.spreads.Historical(c.Request.Context(), days)
	if err != nil {
		h.windowError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewHistoricalResponse(days, points))
}

// GetStatistics handles GET /api/v1/statistics.
//
// GetStatistics godoc
// @Summary      Spread statistics
// @Description  Mean, max, min, premium ratio and volatility of the spread percent over the window
// @Tags         spread
// @Produce      json
// @Param        days  query     int  false  "Window in days (1..60)" example(30)
// @Success      200   {object}  dto.StatisticsResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse       "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse       "No observations in window"
// @Failure      500   {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/statistics [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	days, ok := h.days(c)
	if !ok {
		return
	}
	stats, err := h.spreads.Statistics(c.Request.Context(), days)
	if err != nil {
		if errors.Is(err, spread.ErrEmptySeries) {
			middleware.AbortWithError(c, http.StatusNotFound, "no observations in window", err)
			return
		}
		h.windowError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStatisticsResponse(days, stats))
}

// GetStatus handles GET /api/v1/status.
//
// GetStatus godoc
// @Summary      Service status
// @Description  Market-data API usage today and price cache state
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.ServiceStatus
// @Router       /api/v1/status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.prices.Status())
}

// days parses ?days, writing a 400 on malformed input.
func (h *Handler) days(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("days"))
	if raw == "" {
		return h.defaultDays, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "days must be an integer", err)
		return 0, false
	}
	return n, true
}

func (h *Handler) windowError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidWindow) {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid days", err)
		return
	}
	middleware.AbortWithError(c, http.StatusInternalServerError, "failed to build history", err)
}
