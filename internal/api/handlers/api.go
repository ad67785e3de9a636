package handlers

import (
	"net/http"

	"rubconv/internal/api/middleware"
	"rubconv/internal/converter"
	"rubconv/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIHandler serves the JSON conversion API
type APIHandler struct {
	catalog   CurrencyCatalog
	converter Converter
	logger    *zap.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(catalog CurrencyCatalog, conv Converter, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{catalog: catalog, converter: conv, logger: logger}
}

// ListCurrencies godoc
// @Summary List currencies
// @Description Returns the selectable currencies in ascending name order
// @Tags currencies
// @Produce json
// @Success 200 {array} models.CurrencyOption
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 502 {object} models.ErrorResponse "Currency list unavailable"
// @Router /currencies [get]
func (h *APIHandler) ListCurrencies(c *gin.Context) {
	if err := h.catalog.EnsureLoaded(c.Request.Context()); err != nil {
		h.logger.Warn("Currency list unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "currency list unavailable"})
		return
	}
	c.JSON(http.StatusOK, h.catalog.Options())
}

// Convert godoc
// @Summary Convert rubles
// @Description Converts a ruble quantity into the given currency using the latest upstream rate
// @Tags conversion
// @Produce json
// @Param currency query string true "Currency name" example(USD)
// @Param quantity query number true "Amount in rubles" example(900)
// @Success 200 {object} models.ConversionResult
// @Failure 400 {object} models.ConversionFailure "Invalid input"
// @Failure 404 {object} models.ConversionFailure "Unknown currency"
// @Failure 422 {object} models.ConversionFailure "No usable rate"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 502 {object} models.ConversionFailure "Upstream failure"
// @Failure 504 {object} models.ConversionFailure "Upstream timeout"
// @Router /convert [get]
func (h *APIHandler) Convert(c *gin.Context) {
	var req models.ConversionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ConversionFailure{
			ErrorCode:    http.StatusBadRequest,
			ErrorMessage: "currency and a quantity greater than zero are required",
		})
		return
	}

	result, err := h.converter.Convert(c.Request.Context(), req)
	if err != nil {
		failure := converter.Describe(err, req.Currency)
		h.logger.Warn("Conversion failed",
			zap.String("currency", req.Currency),
			zap.Int("error_code", failure.ErrorCode),
			zap.Error(err),
		)
		c.JSON(responseStatus(failure.ErrorCode), failure)
		return
	}

	c.JSON(http.StatusOK, result)
}

// RefreshCurrencies godoc
// @Summary Refresh the currency list
// @Description Reloads the currency list from upstream. Requires an operator token.
// @Tags currencies
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.CurrencyOption
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Forbidden"
// @Failure 502 {object} models.ErrorResponse "Refresh failed"
// @Router /currencies/refresh [post]
func (h *APIHandler) RefreshCurrencies(c *gin.Context) {
	operator := c.GetString(middleware.OperatorKey)
	if err := h.catalog.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("Operator currency refresh failed", zap.String("operator", operator), zap.Error(err))
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "failed to refresh currency list"})
		return
	}
	h.logger.Info("Currency list refreshed by operator", zap.String("operator", operator))
	c.JSON(http.StatusOK, h.catalog.Options())
}

// responseStatus passes through error statuses and maps anything else to 502
func responseStatus(code int) int {
	if code >= 400 && code <= 599 {
		return code
	}
	return http.StatusBadGateway
}
