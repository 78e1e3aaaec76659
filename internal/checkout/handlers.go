package checkout

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jugnuhq/jugnu-billing/internal/catalog"
	"github.com/jugnuhq/jugnu-billing/internal/metrics"
	"github.com/jugnuhq/jugnu-billing/internal/pricing"
	"github.com/jugnuhq/jugnu-billing/internal/validation"
)

// maxRedirectURLLength bounds client-supplied redirect URLs; common browser
// and proxy limits sit around 2KB.
const maxRedirectURLLength = 2048

// Handler provides HTTP endpoints for checkout sessions.
type Handler struct {
	service *Service
}

// NewHandler creates a new checkout handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up checkout routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/checkout/sessions", h.CreateSession)
	r.GET("/checkout/sessions/:id", h.GetSession)
}

// CreateSession handles POST /v1/checkout/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var input CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "pricing, successUrl, and cancelUrl are required",
		})
		return
	}

	if verrs := validation.Validate(
		validation.MaxLength("successUrl", input.SuccessURL, maxRedirectURLLength),
		validation.MaxLength("cancelUrl", input.CancelURL, maxRedirectURLLength),
	); len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": verrs.Error()})
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), input)
	if err != nil {
		status, code := sessionErrorStatus(err)
		metrics.CheckoutSessionsTotal.WithLabelValues("failed").Inc()
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}

	metrics.CheckoutSessionsTotal.WithLabelValues("created").Inc()
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GetSession handles GET /v1/checkout/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "No such checkout session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func sessionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrUnknownPackage):
		return http.StatusNotFound, "unknown_package"
	case errors.Is(err, catalog.ErrUnknownAddOn):
		return http.StatusUnprocessableEntity, "unknown_add_on"
	case errors.Is(err, pricing.ErrUnsupportedDuration):
		return http.StatusUnprocessableEntity, "unsupported_duration"
	case errors.Is(err, pricing.ErrInvalidInput), errors.Is(err, ErrMissingURL), errors.Is(err, ErrInvalidURL):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, ErrProviderFailed):
		return http.StatusBadGateway, "provider_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
