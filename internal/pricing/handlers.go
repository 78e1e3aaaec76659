package pricing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jugnuhq/jugnu-billing/internal/catalog"
	"github.com/jugnuhq/jugnu-billing/internal/metrics"
	"github.com/jugnuhq/jugnu-billing/internal/validation"
)

// Handler provides HTTP endpoints for pricing quotes.
type Handler struct {
	engine *Engine
}

// NewHandler creates a new pricing handler.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes sets up pricing routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/pricing/quote", h.Quote)
}

// Quote handles POST /v1/pricing/quote
func (h *Handler) Quote(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.QuoteErrorsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "packageCode, durationType, and weekCount are required",
		})
		return
	}

	// Reject malformed code shapes before they reach catalog lookups.
	validators := []func() *validation.ValidationError{
		validation.Required("packageCode", req.PackageCode),
		validation.ValidCode("packageCode", req.PackageCode),
	}
	for _, code := range req.AddOnCodes {
		validators = append(validators, validation.ValidCode("addOns", code))
	}
	if verrs := validation.Validate(validators...); len(verrs) > 0 {
		metrics.QuoteErrorsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": verrs.Error()})
		return
	}

	res, err := h.engine.Compute(req)
	if err != nil {
		status, code := quoteErrorStatus(err)
		metrics.QuoteErrorsTotal.WithLabelValues(code).Inc()
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}

	metrics.QuotesTotal.WithLabelValues(req.PackageCode).Inc()
	c.JSON(http.StatusOK, gin.H{"quote": res})
}

// quoteErrorStatus maps engine errors onto HTTP statuses. Every engine error
// is a deterministic validation failure; none are retryable.
func quoteErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrUnknownPackage):
		return http.StatusNotFound, "unknown_package"
	case errors.Is(err, catalog.ErrUnknownAddOn):
		return http.StatusUnprocessableEntity, "unknown_add_on"
	case errors.Is(err, ErrUnsupportedDuration):
		return http.StatusUnprocessableEntity, "unsupported_duration"
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
