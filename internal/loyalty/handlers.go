package loyalty

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jugnuhq/jugnu-billing/internal/metrics"
	"github.com/jugnuhq/jugnu-billing/internal/validation"
	"github.com/shopspring/decimal"
)

// Handler provides HTTP endpoints for wallets and redemptions.
type Handler struct {
	service *Service
}

// NewHandler creates a new loyalty handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes sets up wallet routes. earnGuard protects the earn endpoint,
// which credits points and is not meant to be publicly callable.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, earnGuard gin.HandlerFunc) {
	r.GET("/wallets/:userId", h.GetBalance)
	r.GET("/wallets/:userId/entries", h.GetHistory)
	r.POST("/wallets/:userId/earn", earnGuard, h.Earn)
	r.POST("/wallets/:userId/redeem", h.Redeem)
	r.POST("/wallets/:userId/redeem/preview", h.Preview)
}

// GetBalance handles GET /v1/wallets/:userId
func (h *Handler) GetBalance(c *gin.Context) {
	w, err := h.service.Balance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w})
}

// GetHistory handles GET /v1/wallets/:userId/entries
func (h *Handler) GetHistory(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	entries, next, hasMore, err := h.service.History(c.Request.Context(), c.Param("userId"), c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cursor", "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries":    entries,
		"count":      len(entries),
		"nextCursor": next,
		"hasMore":    hasMore,
	})
}

// EarnRequest is the request body for crediting points.
type EarnRequest struct {
	Points      int64  `json:"points" binding:"required"`
	Reference   string `json:"reference,omitempty"`
	Description string `json:"description,omitempty"`
}

// Earn handles POST /v1/wallets/:userId/earn
func (h *Handler) Earn(c *gin.Context) {
	var req EarnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "points is required"})
		return
	}

	userID := c.Param("userId")
	req.Reference = validation.SanitizeString(req.Reference, 200)
	req.Description = validation.SanitizeString(req.Description, 500)
	if err := h.service.Earn(c.Request.Context(), userID, req.Points, req.Reference, req.Description); err != nil {
		status, code := redemptionErrorStatus(err)
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}

	metrics.PointsEarnedTotal.Add(float64(req.Points))
	w, err := h.service.Balance(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w})
}

// PreviewRequest is the request body for a redemption cap preview.
type PreviewRequest struct {
	BillAmount string `json:"billAmount" binding:"required"` // decimal currency string, e.g. "40.00"
	CapPercent int64  `json:"capPercent,omitempty"`          // 0 selects the default
}

// Preview handles POST /v1/wallets/:userId/redeem/preview
func (h *Handler) Preview(c *gin.Context) {
	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "billAmount is required"})
		return
	}

	bill, ok := parseBillAmount(c, req.BillAmount)
	if !ok {
		return
	}

	cap, err := h.service.Preview(c.Request.Context(), c.Param("userId"), bill, req.CapPercent)
	if err != nil {
		status, code := redemptionErrorStatus(err)
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cap": cap})
}

// RedeemHTTPRequest is the request body for a final redemption submission.
type RedeemHTTPRequest struct {
	BillAmount string `json:"billAmount" binding:"required"`
	CapPercent int64  `json:"capPercent,omitempty"`
	Points     int64  `json:"points" binding:"required"`
	Reference  string `json:"reference,omitempty"`
}

// Redeem handles POST /v1/wallets/:userId/redeem
func (h *Handler) Redeem(c *gin.Context) {
	var req RedeemHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "billAmount and points are required"})
		return
	}

	bill, ok := parseBillAmount(c, req.BillAmount)
	if !ok {
		return
	}

	result, err := h.service.Redeem(c.Request.Context(), c.Param("userId"), RedeemRequest{
		BillAmount: bill,
		CapPercent: req.CapPercent,
		Points:     req.Points,
		Reference:  validation.SanitizeString(req.Reference, 200),
	})
	if err != nil {
		status, code := redemptionErrorStatus(err)
		// The rejections counter tracks business rejections only; store
		// failures show up in error logs and HTTP 5xx metrics instead.
		if status < http.StatusInternalServerError {
			metrics.RedemptionRejectionsTotal.WithLabelValues(code).Inc()
		}
		c.JSON(status, gin.H{"error": code, "message": err.Error()})
		return
	}

	metrics.PointsRedeemedTotal.Add(float64(result.PointsRedeemed))
	c.JSON(http.StatusOK, gin.H{"redemption": result})
}

// parseBillAmount validates the shape of a bill-amount string and parses it.
// On failure it writes the 400 response and returns ok=false.
func parseBillAmount(c *gin.Context, raw string) (decimal.Decimal, bool) {
	verrs := validation.Validate(
		validation.Required("billAmount", raw),
		validation.ValidAmount("billAmount", raw),
	)
	if len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_bill", "message": verrs.Error()})
		return decimal.Decimal{}, false
	}

	bill, err := decimal.NewFromString(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_bill", "message": "billAmount must be a decimal amount"})
		return decimal.Decimal{}, false
	}
	return bill, true
}

func redemptionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrExceedsRedeemable):
		return http.StatusUnprocessableEntity, "exceeds_redeemable"
	case errors.Is(err, ErrInsufficientBalance):
		return http.StatusConflict, "insufficient_balance"
	case errors.Is(err, ErrInvalidPoints):
		return http.StatusBadRequest, "invalid_points"
	case errors.Is(err, ErrInvalidBill):
		return http.StatusBadRequest, "invalid_bill"
	case errors.Is(err, ErrInvalidCapPercent):
		return http.StatusBadRequest, "invalid_cap"
	case errors.Is(err, ErrWalletNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
