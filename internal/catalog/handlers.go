package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler provides read-only HTTP endpoints for the catalog.
type Handler struct {
	catalog *Catalog
}

// NewHandler creates a new catalog handler.
func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

// RegisterRoutes sets up catalog routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/catalog/packages", h.ListPackages)
	r.GET("/catalog/packages/:code", h.GetPackage)
	r.GET("/catalog/addons", h.ListAddOns)
	r.GET("/catalog/discounts", h.GetDiscounts)
}

// ListPackages handles GET /v1/catalog/packages
func (h *Handler) ListPackages(c *gin.Context) {
	pkgs := h.catalog.Packages()
	c.JSON(http.StatusOK, gin.H{
		"packages": pkgs,
		"count":    len(pkgs),
	})
}

// GetPackage handles GET /v1/catalog/packages/:code
func (h *Handler) GetPackage(c *gin.Context) {
	pkg, err := h.catalog.Package(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "No such sponsorship package",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"package": pkg})
}

// ListAddOns handles GET /v1/catalog/addons
func (h *Handler) ListAddOns(c *gin.Context) {
	addOns := h.catalog.AddOns()
	c.JSON(http.StatusOK, gin.H{
		"addons": addOns,
		"count":  len(addOns),
	})
}

// GetDiscounts handles GET /v1/catalog/discounts
func (h *Handler) GetDiscounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"discounts": h.catalog.Discounts()})
}
