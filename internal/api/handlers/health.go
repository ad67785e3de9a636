package handlers

import (
	"net/http"
	"time"

	"rubconv/internal/models"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	catalog CurrencyCatalog
}

func NewHealthHandler(catalog CurrencyCatalog) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

// Health godoc
// @Summary Health check
// @Description Returns the health status of the service and its currency list
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse "Currency list empty"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := models.HealthResponse{
		Status:     "healthy",
		Time:       time.Now().UTC(),
		Currencies: h.catalog.Len(),
	}
	if at := h.catalog.RefreshedAt(); !at.IsZero() {
		resp.CatalogRefreshedAt = &at
	}
	if err := h.catalog.LastError(); err != nil {
		resp.CatalogError = err.Error()
	}

	if resp.Currencies == 0 {
		resp.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
