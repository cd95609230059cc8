package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/service/advisory"
	"github.com/mamadbah2/herdbook/pkg/clients/anthropic"
)

// AdvisoryHandler exposes the AI advisory endpoints.
type AdvisoryHandler struct {
	svc    *advisory.Service
	logger *zap.Logger
}

// NewAdvisoryHandler constructs the HTTP handler adapter.
func NewAdvisoryHandler(svc *advisory.Service, logger *zap.Logger) *AdvisoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdvisoryHandler{svc: svc, logger: logger}
}

// HealthAlert generates a structured health risk assessment.
func (h *AdvisoryHandler) HealthAlert(c *gin.Context) {
	var input anthropic.HealthAlertInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.svc.HealthAlert(c.Request.Context(), input)
	if err != nil {
		h.writeAdvisoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GrowthInsight generates structured growth guidance.
func (h *AdvisoryHandler) GrowthInsight(c *gin.Context) {
	var input anthropic.GrowthInsightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.svc.GrowthInsight(c.Request.Context(), input)
	if err != nil {
		h.writeAdvisoryError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *AdvisoryHandler) writeAdvisoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, advisory.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, advisory.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "advisory service not configured"})
	default:
		h.logger.Error("advisory generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate advisory"})
	}
}
