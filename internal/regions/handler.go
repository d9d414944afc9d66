package regions

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListPublic(c *gin.Context) {
	items, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list regions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) AdminList(c *gin.Context) {
	items, err := h.repo.AdminListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list regions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type CreateRegionReq struct {
	Name         string `json:"name" binding:"required"`
	DeliveryNote string `json:"delivery_note"`
	SortOrder    int    `json:"sort_order"`
}

func (h *Handler) AdminCreate(c *gin.Context) {
	var req CreateRegionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.repo.Create(c.Request.Context(), req.Name, req.DeliveryNote, req.SortOrder)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to create (slug may be duplicate)"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

type UpdateRegionReq struct {
	Name         *string `json:"name"`
	DeliveryNote *string `json:"delivery_note"`
	SortOrder    *int    `json:"sort_order"`
	IsActive     *bool   `json:"is_active"`
}

func (h *Handler) AdminUpdate(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req UpdateRegionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.repo.Update(c.Request.Context(), id, req.Name, req.DeliveryNote, req.SortOrder, req.IsActive)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to update"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

type SetOverrideReq struct {
	ProductID     int64    `json:"product_id" binding:"required"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	Availability  string   `json:"availability" binding:"required"`
	StockQuantity int      `json:"stock_quantity"`
	IsInRegion    *bool    `json:"is_in_region"`
	BusinessPrice *float64 `json:"business_price"`
}

// Dealer/admin: upsert a region's price/stock override for one product.
func (h *Handler) SetOverride(c *gin.Context) {
	regionID, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	var req SetOverrideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	inRegion := true
	if req.IsInRegion != nil {
		inRegion = *req.IsInRegion
	}

	err := h.repo.SetProductOverride(c.Request.Context(), regionID, req.ProductID,
		req.Price, req.Availability, req.StockQuantity, inRegion, req.BusinessPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to save override"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
