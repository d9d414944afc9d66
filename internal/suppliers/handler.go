package suppliers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"haldeki/internal/auth"
	"haldeki/internal/catalog"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

type UpsertOfferReq struct {
	ProductID   int64   `json:"product_id" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	IsAvailable *bool   `json:"is_available"`
}

// Supplier: create or update own offer for a product.
func (h *Handler) UpsertOffer(c *gin.Context) {
	var req UpsertOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	supplierID, err := h.repo.SupplierIDForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no supplier profile"})
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	o, err := h.repo.UpsertOffer(c.Request.Context(), supplierID, req.ProductID, req.Price, available)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to save offer"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) MyOffers(c *gin.Context) {
	supplierID, err := h.repo.SupplierIDForUser(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "no supplier profile"})
		return
	}

	items, err := h.repo.ListBySupplier(c.Request.Context(), supplierID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list offers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Search matches supplier offers against a raw catalog name. The query is
// first stripped of variation tokens so "DETERJAN 4 LT *6" matches the base
// product name.
func (h *Handler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	parts := catalog.ExtractVariations(q)
	items, err := h.repo.Search(c.Request.Context(), parts.BaseName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      items,
		"base_name":  parts.BaseName,
		"variations": parts.Variations,
	})
}
